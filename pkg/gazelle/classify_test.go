package gazelle_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/RogueOneEcho/gazelle-api/pkg/gazelle"
)

func payload(s string) *json.RawMessage {
	raw := json.RawMessage(s)
	return &raw
}

// ---------------------------------------------------------------------------
// TestClassify - message lexicon, status fallback, empty success
// ---------------------------------------------------------------------------

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		status      int
		env         gazelle.Envelope
		wantKind    gazelle.Kind
		wantMessage string
		wantPayload bool
	}{
		{
			name:        "success payload",
			status:      200,
			env:         gazelle.Envelope{Status: "success", Response: payload(`42`)},
			wantPayload: true,
		},
		{
			name:        "RED bad id on 400",
			status:      400,
			env:         gazelle.Envelope{Status: "failure", Error: "bad id parameter"},
			wantKind:    gazelle.KindBadRequest,
			wantMessage: "bad id parameter",
		},
		{
			name:        "OPS bad parameters on 200",
			status:      200,
			env:         gazelle.Envelope{Status: "failure", Error: "bad parameters"},
			wantKind:    gazelle.KindBadRequest,
			wantMessage: "bad parameters",
		},
		{
			name:        "no such user",
			status:      200,
			env:         gazelle.Envelope{Status: "failure", Error: "no such user"},
			wantKind:    gazelle.KindBadRequest,
			wantMessage: "no such user",
		},
		{
			name:        "API key only page",
			status:      200,
			env:         gazelle.Envelope{Status: "failure", Error: "This page is limited to API key usage only."},
			wantKind:    gazelle.KindUnauthorized,
			wantMessage: "This page is limited to API key usage only.",
		},
		{
			name:        "api token required",
			status:      200,
			env:         gazelle.Envelope{Status: "failure", Error: "This page requires an api token"},
			wantKind:    gazelle.KindUnauthorized,
			wantMessage: "This page requires an api token",
		},
		{
			name:        "endpoint not found",
			status:      200,
			env:         gazelle.Envelope{Status: "failure", Error: "endpoint not found"},
			wantKind:    gazelle.KindNotFound,
			wantMessage: "endpoint not found",
		},
		{
			name:        "bare failure message",
			status:      200,
			env:         gazelle.Envelope{Status: "failure", Error: "failure"},
			wantKind:    gazelle.KindNotFound,
			wantMessage: "failure",
		},
		{
			name:        "could not find torrent",
			status:      200,
			env:         gazelle.Envelope{Status: "failure", Error: "could not find torrent"},
			wantKind:    gazelle.KindNotFound,
			wantMessage: "could not find torrent",
		},
		{
			name:        "message wins over status",
			status:      400,
			env:         gazelle.Envelope{Status: "failure", Error: "Rate limit exceeded"},
			wantKind:    gazelle.KindRateLimited,
			wantMessage: "Rate limit exceeded",
		},
		{
			name:        "message wins over payload",
			status:      200,
			env:         gazelle.Envelope{Status: "failure", Response: payload(`{}`), Error: "bad id parameter"},
			wantKind:    gazelle.KindBadRequest,
			wantMessage: "bad id parameter",
		},
		{
			name:        "unknown message with 400",
			status:      400,
			env:         gazelle.Envelope{Status: "failure", Error: "unknown error"},
			wantKind:    gazelle.KindBadRequest,
			wantMessage: "unknown error",
		},
		{
			name:     "401 without message",
			status:   401,
			env:      gazelle.Envelope{Status: "failure"},
			wantKind: gazelle.KindUnauthorized,
		},
		{
			name:     "404 without message",
			status:   404,
			env:      gazelle.Envelope{Status: "failure"},
			wantKind: gazelle.KindNotFound,
		},
		{
			name:     "429 without message",
			status:   429,
			env:      gazelle.Envelope{Status: "failure"},
			wantKind: gazelle.KindRateLimited,
		},
		{
			name:     "status fallback wins over payload",
			status:   404,
			env:      gazelle.Envelope{Status: "success", Response: payload(`{}`)},
			wantKind: gazelle.KindNotFound,
		},
		{
			name:     "empty success is other",
			status:   200,
			env:      gazelle.Envelope{Status: "success"},
			wantKind: gazelle.KindOther,
		},
		{
			name:        "unknown message falls through to other",
			status:      200,
			env:         gazelle.Envelope{Status: "failure", Error: "some new error type"},
			wantKind:    gazelle.KindOther,
			wantMessage: "some new error type",
		},
		{
			name:        "lexicon is case sensitive",
			status:      200,
			env:         gazelle.Envelope{Status: "failure", Error: "Bad Id Parameter"},
			wantKind:    gazelle.KindOther,
			wantMessage: "Bad Id Parameter",
		},
		{
			name:        "server error",
			status:      500,
			env:         gazelle.Envelope{Status: "failure", Error: "boom"},
			wantKind:    gazelle.KindOther,
			wantMessage: "boom",
		},
		{
			name:        "unknown message does not hide payload",
			status:      200,
			env:         gazelle.Envelope{Status: "success", Response: payload(`1`), Error: "notice"},
			wantPayload: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := gazelle.Classify("get torrent", tt.status, tt.env)

			if tt.wantPayload {
				if err != nil {
					t.Fatalf("Classify() unexpected error: %v", err)
				}
				if got == nil {
					t.Fatal("Classify() returned nil payload and nil error")
				}
				return
			}

			if got != nil {
				t.Errorf("Classify() returned payload %s alongside error", *got)
			}
			var gerr *gazelle.Error
			if !errors.As(err, &gerr) {
				t.Fatalf("Classify() error = %v, want *gazelle.Error", err)
			}
			if gerr.Kind != tt.wantKind {
				t.Errorf("Kind = %s, want %s", gerr.Kind, tt.wantKind)
			}
			if gerr.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", gerr.Message, tt.wantMessage)
			}
			if gerr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", gerr.StatusCode, tt.status)
			}
			if gerr.Op != "get torrent" {
				t.Errorf("Op = %q, want %q", gerr.Op, "get torrent")
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestErrorFormatting - messages and unwrap chain
// ---------------------------------------------------------------------------

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	tests := []struct {
		name string
		err  *gazelle.Error
		want string
	}{
		{
			name: "bad request with message",
			err:  &gazelle.Error{Op: "get torrent", Kind: gazelle.KindBadRequest, Message: "bad id parameter", StatusCode: 400},
			want: "get torrent: received bad request response: bad id parameter",
		},
		{
			name: "unauthorized without message",
			err:  &gazelle.Error{Op: "get user", Kind: gazelle.KindUnauthorized, StatusCode: 401},
			want: "get user: received unauthorized response",
		},
		{
			name: "not found",
			err:  &gazelle.Error{Op: "download torrent", Kind: gazelle.KindNotFound, Message: "could not find torrent"},
			want: "download torrent: received not found response: could not find torrent",
		},
		{
			name: "rate limited",
			err:  &gazelle.Error{Op: "get torrent", Kind: gazelle.KindRateLimited, StatusCode: 429},
			want: "get torrent: received too many requests response",
		},
		{
			name: "other with reason",
			err:  &gazelle.Error{Op: "get torrent", Kind: gazelle.KindOther, StatusCode: 500},
			want: "get torrent: received 500 Internal Server Error response",
		},
		{
			name: "other with message",
			err:  &gazelle.Error{Op: "upload torrent", Kind: gazelle.KindOther, StatusCode: 200, Message: "duplicate"},
			want: "upload torrent: received 200 OK response: duplicate",
		},
		{
			name: "other with unknown code",
			err:  &gazelle.Error{Op: "get torrent", Kind: gazelle.KindOther, StatusCode: 599},
			want: "get torrent: received 599 response",
		},
		{
			name: "transport",
			err:  &gazelle.Error{Op: "get torrent", Kind: gazelle.KindTransport, Message: cause.Error(), Err: cause},
			want: "get torrent: failed to send API request: connection refused",
		},
		{
			name: "upload",
			err:  &gazelle.Error{Op: "upload torrent", Kind: gazelle.KindUpload, Message: "no such file"},
			want: "upload torrent: failed to upload torrent file: no such file",
		},
		{
			name: "no operation",
			err:  &gazelle.Error{Kind: gazelle.KindDeserialize, Message: "unexpected EOF"},
			want: "failed to deserialize API response: unexpected EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := error(&gazelle.Error{Op: "get torrent", Kind: gazelle.KindTransport, Err: cause})

	if !errors.Is(err, gazelle.ErrTransport) {
		t.Error("errors.Is(err, ErrTransport) = false, want true")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if errors.Is(err, gazelle.ErrNotFound) {
		t.Error("errors.Is(err, ErrNotFound) = true, want false")
	}

	kind, ok := gazelle.KindOf(err)
	if !ok || kind != gazelle.KindTransport {
		t.Errorf("KindOf() = %s, %v, want transport, true", kind, ok)
	}
	if _, ok := gazelle.KindOf(cause); ok {
		t.Error("KindOf(plain error) ok = true, want false")
	}
}

func TestKindString(t *testing.T) {
	t.Parallel()

	tests := map[gazelle.Kind]string{
		gazelle.KindOther:        "other",
		gazelle.KindBadRequest:   "bad_request",
		gazelle.KindRateLimited:  "rate_limited",
		gazelle.KindUnauthorized: "unauthorized",
		gazelle.Kind(99):         "kind(99)",
	}
	for kind, want := range tests {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(kind), got, want)
		}
	}
}
