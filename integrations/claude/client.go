package claude

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/waverider-dev/discord-bridge/ai"
	"github.com/waverider-dev/discord-bridge/integrations/custom_http"
	"golang.org/x/net/context"
)

const (
	DefaultModel = "claude-sonnet-4-20250514"
	maxTokens    = 1024
)

// Client answers questions through the Anthropic messages API.
type Client struct {
	http  custom_http.Client
	model string
}

func New(apiKey, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	headers := map[string]string{
		"Content-Type":      "application/json",
		"X-Api-Key":         apiKey,
		"Anthropic-Version": "2023-06-01",
	}
	return &Client{
		http: &custom_http.DefaultClient{
			BaseURL: "https://api.anthropic.com",
			Client:  &http.Client{},
			Headers: headers,
		},
		model: model,
	}
}

func (c *Client) Name() string { return "claude" }

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (c *Client) Complete(ctx context.Context, question string) (string, error) {
	payload, err := json.Marshal(messageRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		System:    ai.SystemPrompt,
		Messages:  []message{{Role: "user", Content: question}},
	})
	if err != nil {
		return "", err
	}

	req, err := c.http.PostRequest("/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req = req.WithContext(ctx)

	var response messageResponse
	if err := c.http.DoJson(req, &response); err != nil {
		var statusErr *custom_http.StatusError
		if errors.As(err, &statusErr) {
			return "", fmt.Errorf("%w: %v", ai.ErrProvider, statusErr)
		}
		return "", err
	}
	if len(response.Content) == 0 {
		return "", fmt.Errorf("%w: empty completion", ai.ErrProvider)
	}
	return response.Content[0].Text, nil
}
