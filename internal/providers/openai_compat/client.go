package openai_compat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"llmq/internal/providers"
	"llmq/internal/providers/transport"
)

// Config for the OpenAI chat-completions dialect. Custom OpenAI-compatible
// URLs use this dialect as well.
type Config struct {
	BaseURL string
	APIKey  string
	Invoker *transport.Invoker
}

type Client struct {
	cfg Config
}

func New(cfg Config) *Client {
	if cfg.Invoker == nil {
		cfg.Invoker = transport.New(nil)
	}
	return &Client{cfg: cfg}
}

var _ providers.Provider = (*Client)(nil)

func (c *Client) Generate(ctx context.Context, req providers.Request) (providers.Response, error) {
	body, endpointURL, err := c.buildPayload(req)
	if err != nil {
		return providers.Response{}, err
	}

	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+c.cfg.APIKey)

	respBody, status, err := c.cfg.Invoker.Do(ctx, endpointURL, headers, body)
	if err != nil {
		return providers.Response{}, err
	}
	if status < 200 || status > 299 {
		return providers.Response{}, parseError(respBody, status)
	}

	text, err := parseChatCompletions(respBody)
	if err != nil {
		return providers.Response{}, err
	}
	return providers.Response{Text: text}, nil
}

func (c *Client) buildPayload(req providers.Request) ([]byte, string, error) {
	endpointURL, err := c.buildEndpointURL()
	if err != nil {
		return nil, "", err
	}

	payload := map[string]any{
		"model": req.Model,
		"messages": []map[string]string{
			{"role": "system", "content": req.SystemPrompt},
			{"role": "user", "content": req.UserInput},
		},
	}
	// Reasoning-class models reject max_tokens and take the limit under a
	// different field name.
	if req.Reasoning {
		payload["max_completion_tokens"] = req.MaxTokens
	} else {
		payload["max_tokens"] = req.MaxTokens
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("marshal chat completion payload: %w", err)
	}
	return b, endpointURL, nil
}

func (c *Client) buildEndpointURL() (string, error) {
	base := strings.TrimSpace(c.cfg.BaseURL)
	if base == "" {
		return "", fmt.Errorf("base url is empty")
	}
	if strings.HasSuffix(base, "/chat/completions") {
		return base, nil
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/chat/completions"
	return u.String(), nil
}

func parseChatCompletions(body []byte) (string, error) {
	var resp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: decode chat completion response: %v", providers.ErrMalformedResponse, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices in chat completion response", providers.ErrMalformedResponse)
	}
	if resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: missing message content in chat completion response", providers.ErrMalformedResponse)
	}
	return resp.Choices[0].Message.Content, nil
}

func parseError(body []byte, status int) error {
	var resp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err == nil && resp.Error.Message != "" {
		return &providers.ProviderError{Status: status, Message: resp.Error.Message}
	}
	return &providers.ProviderError{Status: status, Message: strings.TrimSpace(string(body))}
}
