package gazelle

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// Kind identifies the category of a failed API operation.
type Kind int

const (
	// KindOther is an unexpected status or message from the API.
	KindOther Kind = iota
	// KindTransport is a failure to send the request.
	KindTransport
	// KindBodyRead is a failure to read the response body.
	KindBodyRead
	// KindDeserialize is a response body that is not a valid envelope.
	KindDeserialize
	// KindUpload is a failure to read the local torrent file for upload.
	KindUpload
	// KindBadRequest indicates invalid parameters or an unknown resource.
	KindBadRequest
	// KindUnauthorized indicates a missing or invalid API key.
	KindUnauthorized
	// KindNotFound indicates the requested resource does not exist.
	KindNotFound
	// KindRateLimited indicates the indexer rejected the call for exceeding its rate.
	KindRateLimited
)

var kindNames = map[Kind]string{
	KindOther:        "other",
	KindTransport:    "transport",
	KindBodyRead:     "body_read",
	KindDeserialize:  "deserialize",
	KindUpload:       "upload",
	KindBadRequest:   "bad_request",
	KindUnauthorized: "unauthorized",
	KindNotFound:     "not_found",
	KindRateLimited:  "rate_limited",
}

// String returns the snake_case name of the kind, used as a metric label.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Sentinel errors, one per Kind. Every *Error unwraps to the sentinel of its
// kind, so callers can branch with errors.Is(err, gazelle.ErrNotFound).
var (
	ErrOther        = errors.New("unexpected API response")
	ErrTransport    = errors.New("request failed")
	ErrBodyRead     = errors.New("response read failed")
	ErrDeserialize  = errors.New("response decode failed")
	ErrUpload       = errors.New("torrent file read failed")
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrRateLimited  = errors.New("rate limited")
)

// ErrResponseTooLarge is the cause of a KindBodyRead error when a response
// body exceeds the client's size limit.
var ErrResponseTooLarge = errors.New("response body too large")

var kindSentinels = map[Kind]error{
	KindOther:        ErrOther,
	KindTransport:    ErrTransport,
	KindBodyRead:     ErrBodyRead,
	KindDeserialize:  ErrDeserialize,
	KindUpload:       ErrUpload,
	KindBadRequest:   ErrBadRequest,
	KindUnauthorized: ErrUnauthorized,
	KindNotFound:     ErrNotFound,
	KindRateLimited:  ErrRateLimited,
}

// Error describes a failed API operation.
//
// Message holds the error string reported by the indexer, or the text of the
// underlying failure for local kinds (transport, body read, deserialize,
// upload). StatusCode is zero when no response was received.
type Error struct {
	Op         string
	Kind       Kind
	Message    string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	var s string
	switch e.Kind {
	case KindTransport:
		s = "failed to send API request"
	case KindBodyRead:
		s = "failed to read API response"
	case KindDeserialize:
		s = "failed to deserialize API response"
	case KindUpload:
		s = "failed to upload torrent file"
	case KindBadRequest:
		s = "received bad request response"
	case KindUnauthorized:
		s = "received unauthorized response"
	case KindNotFound:
		s = "received not found response"
	case KindRateLimited:
		s = "received too many requests response"
	default:
		s = "received " + statusWithReason(e.StatusCode) + " response"
	}
	if e.Message != "" {
		s += ": " + e.Message
	}
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	return s
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	errs := []error{kindSentinels[e.Kind]}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindOf reports the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Kind, true
	}
	return 0, false
}

// newCauseError builds an error for local failures where the cause text is
// the only message available.
func newCauseError(op string, kind Kind, status int, cause error) *Error {
	return &Error{
		Op:         op,
		Kind:       kind,
		Message:    cause.Error(),
		StatusCode: status,
		Err:        cause,
	}
}

func statusWithReason(code int) string {
	if code == 0 {
		return "unknown status"
	}
	if reason := http.StatusText(code); reason != "" {
		return fmt.Sprintf("%d %s", code, reason)
	}
	return strconv.Itoa(code)
}
