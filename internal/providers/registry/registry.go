package registry

import (
	"fmt"

	"llmq/internal/endpoint"
	"llmq/internal/providers"
	"llmq/internal/providers/google_genai"
	"llmq/internal/providers/hf_inference"
	"llmq/internal/providers/openai_compat"
	"llmq/internal/providers/transport"
)

type BuildOptions struct {
	Endpoint endpoint.Endpoint
	APIKey   string
	Invoker  *transport.Invoker
}

// Build constructs the dialect client for a resolved endpoint. The dialect
// set is closed: a new provider needs a row in the endpoint table and a case
// here, nothing else.
func Build(opts BuildOptions) (providers.Provider, error) {
	switch opts.Endpoint.Dialect {
	case endpoint.DialectOpenAI:
		return openai_compat.New(openai_compat.Config{
			BaseURL: opts.Endpoint.BaseURL,
			APIKey:  opts.APIKey,
			Invoker: opts.Invoker,
		}), nil

	case endpoint.DialectGoogle:
		return google_genai.New(google_genai.Config{
			BaseURL: opts.Endpoint.BaseURL,
			APIKey:  opts.APIKey,
			Invoker: opts.Invoker,
		}), nil

	case endpoint.DialectHuggingFace:
		return hf_inference.New(hf_inference.Config{
			BaseURL: opts.Endpoint.BaseURL,
			APIKey:  opts.APIKey,
			Invoker: opts.Invoker,
		}), nil

	default:
		return nil, fmt.Errorf("unsupported dialect %q", opts.Endpoint.Dialect)
	}
}
