package hf_inference

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"llmq/internal/providers"
	"llmq/internal/providers/transport"
)

// Config for the Hugging Face inference dialect. The API has no notion of
// reasoning tokens, so the reasoning flag is accepted and ignored.
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

	text, err := parseGeneratedText(respBody)
	if err != nil {
		return providers.Response{}, err
	}
	return providers.Response{Text: text}, nil
}

func (c *Client) buildPayload(req providers.Request) ([]byte, string, error) {
	base := strings.TrimSuffix(strings.TrimSpace(c.cfg.BaseURL), "/")
	if base == "" {
		return nil, "", fmt.Errorf("base url is empty")
	}
	endpointURL := base + "/models/" + req.Model

	payload := map[string]any{
		"inputs": req.SystemPrompt + "\n" + req.UserInput,
		"parameters": map[string]any{
			"max_new_tokens": req.MaxTokens,
		},
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("marshal inference payload: %w", err)
	}
	return b, endpointURL, nil
}

func parseGeneratedText(body []byte) (string, error) {
	var resp []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: decode inference response: %v", providers.ErrMalformedResponse, err)
	}
	if len(resp) == 0 {
		return "", fmt.Errorf("%w: empty inference response", providers.ErrMalformedResponse)
	}
	if resp[0].GeneratedText == "" {
		return "", fmt.Errorf("%w: missing generated_text in inference response", providers.ErrMalformedResponse)
	}
	return resp[0].GeneratedText, nil
}

func parseError(body []byte, status int) error {
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err == nil && resp.Error != "" {
		return &providers.ProviderError{Status: status, Message: resp.Error}
	}
	return &providers.ProviderError{Status: status, Message: strings.TrimSpace(string(body))}
}
