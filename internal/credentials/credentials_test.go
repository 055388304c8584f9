package credentials

import (
	"errors"
	"testing"

	"llmq/internal/endpoint"
)

func mustResolve(t *testing.T, nameOrURL string) endpoint.Endpoint {
	t.Helper()
	ep, err := endpoint.Resolve(nameOrURL)
	if err != nil {
		t.Fatalf("resolve endpoint %q: %v", nameOrURL, err)
	}
	return ep
}

func TestResolvePerEndpointVariable(t *testing.T) {
	cases := []struct {
		endpoint string
		envVar   string
	}{
		{"openai", "API_TOKEN_OAI"},
		{"google", "API_TOKEN_GOOGLE"},
		{"hf", "API_TOKEN_HF"},
		{"https://llm.example.com/v1", "API_TOKEN"},
	}

	for _, tc := range cases {
		ep := mustResolve(t, tc.endpoint)
		if got := EnvVar(ep); got != tc.envVar {
			t.Errorf("EnvVar(%q) = %q, want %q", tc.endpoint, got, tc.envVar)
		}

		t.Setenv(tc.envVar, "secret-"+tc.envVar)
		key, err := Resolve(ep)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", tc.endpoint, err)
		}
		if key != "secret-"+tc.envVar {
			t.Errorf("Resolve(%q) = %q, want %q", tc.endpoint, key, "secret-"+tc.envVar)
		}
	}
}

func TestResolveMissingVariable(t *testing.T) {
	t.Setenv("API_TOKEN_OAI", "")
	_, err := Resolve(mustResolve(t, "openai"))
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}

func TestResolveNoFallbackBetweenVariables(t *testing.T) {
	// Every variable except the authoritative one is set; resolution must
	// still fail rather than borrow a neighbouring key.
	t.Setenv("API_TOKEN_OAI", "")
	t.Setenv("API_TOKEN_GOOGLE", "google-key")
	t.Setenv("API_TOKEN_HF", "hf-key")
	t.Setenv("API_TOKEN", "default-key")

	_, err := Resolve(mustResolve(t, "openai"))
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}
