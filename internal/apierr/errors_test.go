package apierr_test

// Coverage Notes:
// - Every gazelle.Kind is checked against IsRetryable.
// - Wrapped and unwrapped forms are both covered since the CLI wraps
//   client errors with command context.

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/RogueOneEcho/gazelle-api/internal/apierr"
	"github.com/RogueOneEcho/gazelle-api/pkg/gazelle"
)

// ---------------------------------------------------------------------------
// TestIsRetryable - transient vs final failures
// ---------------------------------------------------------------------------

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	gerr := func(kind gazelle.Kind, status int) error {
		return &gazelle.Error{Op: "get torrent", Kind: kind, StatusCode: status}
	}

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"rate limited", gerr(gazelle.KindRateLimited, 429), true},
		{"rate limited on OPS 200", gerr(gazelle.KindRateLimited, 200), true},
		{"transport", gerr(gazelle.KindTransport, 0), true},
		{"500", gerr(gazelle.KindOther, 500), true},
		{"502", gerr(gazelle.KindOther, 502), true},
		{"503", gerr(gazelle.KindOther, 503), true},
		{"504", gerr(gazelle.KindOther, 504), true},
		{"other 200", gerr(gazelle.KindOther, 200), false},
		{"other 418", gerr(gazelle.KindOther, 418), false},
		{"bad request", gerr(gazelle.KindBadRequest, 400), false},
		{"unauthorized", gerr(gazelle.KindUnauthorized, 401), false},
		{"not found", gerr(gazelle.KindNotFound, 404), false},
		{"upload", gerr(gazelle.KindUpload, 0), false},
		{"body read", gerr(gazelle.KindBodyRead, 200), false},
		{"deserialize", gerr(gazelle.KindDeserialize, 200), false},
		{"wrapped rate limited", fmt.Errorf("torrent 1: %w", gerr(gazelle.KindRateLimited, 429)), true},
		{
			"transport caused by cancellation",
			&gazelle.Error{Kind: gazelle.KindTransport, Err: context.Canceled},
			false,
		},
		{
			"transport caused by deadline",
			&gazelle.Error{Kind: gazelle.KindTransport, Err: context.DeadlineExceeded},
			false,
		},
		{"limiter cancellation", fmt.Errorf("get torrent: %w", context.Canceled), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := apierr.IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRetryUsesIsRetryable(t *testing.T) {
	t.Parallel()

	calls := 0
	_, err := apierr.Retry(context.Background(),
		apierr.RetryConfig{MaxRetries: 3},
		func() (int, error) {
			calls++
			return 0, &gazelle.Error{Kind: gazelle.KindNotFound, StatusCode: 404}
		})

	if !errors.Is(err, gazelle.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
