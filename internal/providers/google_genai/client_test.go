package google_genai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"llmq/internal/providers"
)

func TestBuildPayloadGenerateContent(t *testing.T) {
	c := New(Config{BaseURL: "https://generativelanguage.googleapis.com/v1beta"})

	body, endpoint, err := c.buildPayload(providers.Request{
		Model:        "gemini-2.0-flash",
		SystemPrompt: "You are concise",
		UserInput:    "hello",
		MaxTokens:    50,
	})
	if err != nil {
		t.Fatalf("build payload: %v", err)
	}
	want := "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"
	if endpoint != want {
		t.Fatalf("endpoint = %q, want %q", endpoint, want)
	}

	var payload struct {
		SystemInstruction struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"systemInstruction"`
		Contents []struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
		GenerationConfig map[string]any `json:"generationConfig"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if len(payload.SystemInstruction.Parts) != 1 || payload.SystemInstruction.Parts[0].Text != "You are concise" {
		t.Errorf("unexpected systemInstruction %#v", payload.SystemInstruction)
	}
	if len(payload.Contents) != 1 || payload.Contents[0].Parts[0].Text != "hello" {
		t.Errorf("unexpected contents %#v", payload.Contents)
	}
	if payload.GenerationConfig["maxOutputTokens"] != float64(50) {
		t.Errorf("maxOutputTokens = %#v, want 50", payload.GenerationConfig["maxOutputTokens"])
	}
	if _, ok := payload.GenerationConfig["thinkingConfig"]; ok {
		t.Error("thinkingConfig present without reasoning flag")
	}
}

func TestBuildPayloadReasoningAddsThinkingConfig(t *testing.T) {
	c := New(Config{BaseURL: "https://generativelanguage.googleapis.com/v1beta"})

	body, _, err := c.buildPayload(providers.Request{
		Model: "gemini-2.5-pro", SystemPrompt: "sys", UserInput: "in", MaxTokens: 128, Reasoning: true,
	})
	if err != nil {
		t.Fatalf("build payload: %v", err)
	}

	var payload struct {
		GenerationConfig struct {
			ThinkingConfig struct {
				ThinkingBudget int `json:"thinkingBudget"`
			} `json:"thinkingConfig"`
		} `json:"generationConfig"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.GenerationConfig.ThinkingConfig.ThinkingBudget != 128 {
		t.Fatalf("thinkingBudget = %d, want 128", payload.GenerationConfig.ThinkingConfig.ThinkingBudget)
	}
}

func TestGenerateSendsKeyInHeaderOnly(t *testing.T) {
	var gotHeader, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("x-goog-api-key")
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"hi"}]}}]}`))
	}))
	defer server.Close()

	c := New(Config{BaseURL: server.URL, APIKey: "goog-key"})
	resp, err := c.Generate(context.Background(), providers.Request{
		Model: "gemini-2.0-flash", SystemPrompt: "sys", UserInput: "in", MaxTokens: 10,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.Text != "hi" {
		t.Fatalf("text = %q, want %q", resp.Text, "hi")
	}
	if gotHeader != "goog-key" {
		t.Errorf("x-goog-api-key = %q", gotHeader)
	}
	if gotQuery != "" {
		t.Errorf("api key leaked into query string: %q", gotQuery)
	}
}

func TestGenerateProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"invalid model","status":"INVALID_ARGUMENT"}}`))
	}))
	defer server.Close()

	c := New(Config{BaseURL: server.URL, APIKey: "goog-key"})
	_, err := c.Generate(context.Background(), providers.Request{
		Model: "nope", SystemPrompt: "sys", UserInput: "in", MaxTokens: 10,
	})

	var providerErr *providers.ProviderError
	if !errors.As(err, &providerErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if providerErr.Message != "invalid model" {
		t.Errorf("message = %q, want %q", providerErr.Message, "invalid model")
	}
}

func TestParseGenerateContentMalformed(t *testing.T) {
	for _, body := range []string{
		`{"candidates":[]}`,
		`{"candidates":[{"content":{"parts":[]}}]}`,
		`{}`,
		`[1,2]`,
	} {
		if _, err := parseGenerateContent([]byte(body)); !errors.Is(err, providers.ErrMalformedResponse) {
			t.Errorf("parseGenerateContent(%q) = %v, want ErrMalformedResponse", body, err)
		}
	}
}
