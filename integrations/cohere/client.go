package cohere

import (
	"errors"
	"fmt"

	cohere "github.com/cohere-ai/cohere-go/v2"
	"github.com/cohere-ai/cohere-go/v2/client"
	"github.com/cohere-ai/cohere-go/v2/core"
	"github.com/waverider-dev/discord-bridge/ai"
	"golang.org/x/net/context"
)

const DefaultModel = "command-r-plus"

// Client answers questions through the Cohere chat API. One request per
// question, no conversation state kept between calls.
type Client struct {
	co    *client.Client
	model string
}

func New(apiKey, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		co:    client.NewClient(client.WithToken(apiKey)),
		model: model,
	}
}

func (c *Client) Name() string { return "cohere" }

func (c *Client) Complete(ctx context.Context, question string) (string, error) {
	response, err := c.co.Chat(ctx, &cohere.ChatRequest{
		Message:     question,
		Model:       cohere.String(c.model),
		Preamble:    cohere.String(ai.SystemPrompt),
		Temperature: cohere.Float64(0.3),
	})
	if err != nil {
		var apiErr *core.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%w: %v", ai.ErrProvider, apiErr)
		}
		return "", err
	}
	return response.Text, nil
}
