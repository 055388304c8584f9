package providers

import "context"

// Request carries everything a dialect needs for one completion call.
// Callers validate the fields before the request reaches a provider.
type Request struct {
	Model        string
	SystemPrompt string
	UserInput    string
	MaxTokens    int
	Reasoning    bool
}

type Response struct {
	Text string
}

// Provider is implemented by each dialect client. One call, one response;
// retry policy belongs to the operator, not the client.
type Provider interface {
	Generate(ctx context.Context, req Request) (Response, error)
}
