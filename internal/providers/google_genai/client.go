package google_genai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"llmq/internal/providers"
	"llmq/internal/providers/transport"
)

// Config for the Google Generative Language dialect. The API key travels in
// the x-goog-api-key header, never in the URL, so it cannot leak through
// request logging.
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
	headers.Set("x-goog-api-key", c.cfg.APIKey)

	respBody, status, err := c.cfg.Invoker.Do(ctx, endpointURL, headers, body)
	if err != nil {
		return providers.Response{}, err
	}
	if status < 200 || status > 299 {
		return providers.Response{}, parseError(respBody, status)
	}

	text, err := parseGenerateContent(respBody)
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
	endpointURL := base + "/models/" + req.Model + ":generateContent"

	generationConfig := map[string]any{
		"maxOutputTokens": req.MaxTokens,
	}
	if req.Reasoning {
		generationConfig["thinkingConfig"] = map[string]any{
			"thinkingBudget": req.MaxTokens,
		}
	}

	payload := map[string]any{
		"systemInstruction": map[string]any{
			"parts": []map[string]string{{"text": req.SystemPrompt}},
		},
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": req.UserInput}}},
		},
		"generationConfig": generationConfig,
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("marshal generateContent payload: %w", err)
	}
	return b, endpointURL, nil
}

func parseGenerateContent(body []byte) (string, error) {
	var resp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: decode generateContent response: %v", providers.ErrMalformedResponse, err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty candidates in generateContent response", providers.ErrMalformedResponse)
	}
	if resp.Candidates[0].Content.Parts[0].Text == "" {
		return "", fmt.Errorf("%w: missing text in generateContent response", providers.ErrMalformedResponse)
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
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
