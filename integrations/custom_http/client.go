package custom_http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type Client interface {
	DoJson(req *http.Request, result any) error
	Do(req *http.Request) ([]byte, error)
	MakeRequest(method string, path string, data io.Reader) (*http.Request, error)
	GetRequest(path string) (*http.Request, error)
	PostRequest(path string, data io.Reader) (*http.Request, error)
}

type DefaultClient struct {
	Client  *http.Client
	BaseURL string
	Headers map[string]string
}

// StatusError reports a non-2xx response with its body, so callers can
// tell an upstream rejection apart from a local failure.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

func (dc *DefaultClient) DoJson(req *http.Request, result any) error {
	body, err := dc.Do(req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("unmarshal response of %s: %w", req.URL.Path, err)
	}
	return nil
}

func (dc *DefaultClient) Do(req *http.Request) ([]byte, error) {
	resp, err := dc.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

func (dc *DefaultClient) MakeRequest(method string, path string, data io.Reader) (*http.Request, error) {
	req, err := http.NewRequest(method, dc.BaseURL+path, data)
	if err != nil {
		return nil, err
	}
	dc.setHeaders(req)
	return req, nil
}

func (dc *DefaultClient) GetRequest(path string) (*http.Request, error) {
	return dc.MakeRequest(http.MethodGet, path, nil)
}

func (dc *DefaultClient) PostRequest(path string, data io.Reader) (*http.Request, error) {
	return dc.MakeRequest(http.MethodPost, path, data)
}

func (dc *DefaultClient) setHeaders(req *http.Request) {
	for k, v := range dc.Headers {
		req.Header.Set(k, v)
	}
}
