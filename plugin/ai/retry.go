package ai

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/sashabaranov/go-openai"
)

// retryBackoff is how long to wait before the single retry.
var retryBackoff = time.Second

// SetRetryBackoffForTest overrides the retry backoff and returns a
// function restoring the previous value. Test helper.
func SetRetryBackoffForTest(d time.Duration) func() {
	old := retryBackoff
	retryBackoff = d
	return func() { retryBackoff = old }
}

// IsTransient reports whether an API error is worth a retry:
// rate limits, server-side failures, and network errors.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// DoWithRetry executes fn, retrying at most once on a transient error.
// Context cancellation aborts the wait.
func DoWithRetry(ctx context.Context, fn func() error) error {
	err := fn()
	if err == nil || !IsTransient(err) {
		return err
	}

	select {
	case <-time.After(retryBackoff):
	case <-ctx.Done():
		return ctx.Err()
	}

	return fn()
}
