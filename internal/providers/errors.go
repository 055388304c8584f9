package providers

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse marks a 2xx reply whose expected text field is absent.
// It is never downgraded to an empty successful result.
var ErrMalformedResponse = errors.New("provider response is missing generated text")

// ProviderError is an application-level error returned by the endpoint itself,
// such as a rate limit or an invalid model. The provider's own message is kept
// verbatim for diagnostics.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("provider returned status %d", e.Status)
	}
	return fmt.Sprintf("provider returned status %d: %s", e.Status, e.Message)
}
