package endpoint

import (
	"errors"
	"fmt"
	"net/url"
)

// Dialect selects the request/response shape and auth convention used when
// talking to an endpoint.
type Dialect string

const (
	DialectOpenAI      Dialect = "openai"
	DialectGoogle      Dialect = "google"
	DialectHuggingFace Dialect = "huggingface"
)

var ErrUnknownEndpoint = errors.New("unknown endpoint")

// Endpoint is the resolved identity of the target service: either one of the
// known names or an arbitrary OpenAI-compatible URL.
type Endpoint struct {
	Name    string // known endpoint name, empty for custom URLs
	BaseURL string
	Dialect Dialect
	Custom  bool
}

// known maps endpoint names (case-sensitive) to their fixed base URL and
// dialect. Adding a provider means adding a row here plus a dialect package.
var known = map[string]Endpoint{
	"openai": {
		Name:    "openai",
		BaseURL: "https://api.openai.com/v1",
		Dialect: DialectOpenAI,
	},
	"google": {
		Name:    "google",
		BaseURL: "https://generativelanguage.googleapis.com/v1beta",
		Dialect: DialectGoogle,
	},
	"hf": {
		Name:    "hf",
		BaseURL: "https://api-inference.huggingface.co",
		Dialect: DialectHuggingFace,
	},
}

// Resolve maps a known endpoint name or an absolute URL to an Endpoint.
// Unknown names that do not parse as absolute http(s) URLs are rejected.
// Custom URLs default to the OpenAI dialect since they are expected to be
// OpenAI-compatible.
func Resolve(nameOrURL string) (Endpoint, error) {
	if ep, ok := known[nameOrURL]; ok {
		return ep, nil
	}

	u, err := url.Parse(nameOrURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return Endpoint{}, fmt.Errorf("%w: %q is neither a known name nor an absolute URL", ErrUnknownEndpoint, nameOrURL)
	}

	return Endpoint{
		BaseURL: nameOrURL,
		Dialect: DialectOpenAI,
		Custom:  true,
	}, nil
}
