package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultTimeout bounds the single round trip when no client is supplied.
	DefaultTimeout = 120 * time.Second

	maxResponseBytes = 4 << 20
)

// TransportError wraps a network-level failure: connection refused, DNS
// failure, or the request timing out. Provider-level errors carried in an
// HTTP reply are not transport errors.
type TransportError struct {
	Timeout bool
	Err     error
}

func (e *TransportError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("request timed out: %v", e.Err)
	}
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Invoker executes exactly one HTTP call per Do. No retries are attempted;
// a transient failure surfaces immediately.
type Invoker struct {
	client *http.Client
}

func New(client *http.Client) *Invoker {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &Invoker{client: client}
}

// Do posts body to endpointURL and returns the raw reply and its status code.
// Non-2xx statuses are not an error here: the caller routes them through the
// dialect's own error extraction.
func (i *Invoker) Do(ctx context.Context, endpointURL string, headers http.Header, body []byte) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpointURL, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return nil, 0, &TransportError{Timeout: isTimeout(err), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, 0, &TransportError{Timeout: isTimeout(err), Err: fmt.Errorf("read response body: %w", err)}
	}
	return respBody, resp.StatusCode, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		return true
	}
	var nerr interface{ Timeout() bool }
	return errors.As(err, &nerr) && nerr.Timeout()
}
