package credentials

import (
	"errors"
	"fmt"
	"os"

	"llmq/internal/endpoint"
)

var ErrMissingCredential = errors.New("missing credential")

// envCustom is consulted for every endpoint that is not a known name.
const envCustom = "API_TOKEN"

// envByName maps each known endpoint to the single environment variable
// holding its API key. There is no fallback between variables: each endpoint
// class has exactly one authoritative source.
var envByName = map[string]string{
	"openai": "API_TOKEN_OAI",
	"google": "API_TOKEN_GOOGLE",
	"hf":     "API_TOKEN_HF",
}

// EnvVar returns the environment variable consulted for ep.
func EnvVar(ep endpoint.Endpoint) string {
	if v, ok := envByName[ep.Name]; ok {
		return v
	}
	return envCustom
}

// Resolve reads the API key for ep from its environment variable. An unset or
// empty variable is an error; the key is returned as-is otherwise.
func Resolve(ep endpoint.Endpoint) (string, error) {
	name := EnvVar(ep)
	key := os.Getenv(name)
	if key == "" {
		return "", fmt.Errorf("%w: %s is not set", ErrMissingCredential, name)
	}
	return key, nil
}
