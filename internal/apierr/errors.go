// Package apierr decides which Gazelle API failures are worth retrying and
// provides the backoff loop used by the CLI.
//
// The gazelle client never retries on its own: every call is already
// throttled by its rate limiter, and a retry spends another slot. Callers
// opt in by wrapping a call with Retry.
package apierr

import (
	"context"
	"errors"
	"net/http"

	"github.com/RogueOneEcho/gazelle-api/pkg/gazelle"
)

// ErrRetriesExhausted indicates every attempt failed with a retryable error.
var ErrRetriesExhausted = errors.New("retries exhausted")

// IsRetryable reports whether err is transient.
//
// Retryable: rate limited responses, transport failures other than
// cancellation, and 5xx responses classified as other. Everything else,
// including bad requests, auth failures and local upload errors, is final.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	// Context cancellation is not retryable
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var gerr *gazelle.Error
	if !errors.As(err, &gerr) {
		return false
	}
	switch gerr.Kind {
	case gazelle.KindRateLimited, gazelle.KindTransport:
		return true
	case gazelle.KindOther:
		switch gerr.StatusCode {
		case http.StatusInternalServerError, // 500
			http.StatusBadGateway,         // 502
			http.StatusServiceUnavailable, // 503
			http.StatusGatewayTimeout:     // 504
			return true
		}
	}
	return false
}
