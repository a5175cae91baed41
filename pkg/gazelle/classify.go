package gazelle

import "net/http"

// messageKinds maps the exact error strings returned by RED and OPS to a
// Kind. OPS answers 200 for most failures, so the message is checked before
// the status code.
var messageKinds = map[string]Kind{
	"bad id parameter": KindBadRequest,
	"bad parameters":   KindBadRequest,
	"no such user":     KindBadRequest,

	"This page is limited to API key usage only.": KindUnauthorized,
	"This page requires an api token":             KindUnauthorized,

	"endpoint not found":     KindNotFound,
	"failure":                KindNotFound,
	"could not find torrent": KindNotFound,

	"Rate limit exceeded": KindRateLimited,
}

var statusKinds = map[int]Kind{
	http.StatusBadRequest:      KindBadRequest,
	http.StatusUnauthorized:    KindUnauthorized,
	http.StatusNotFound:        KindNotFound,
	http.StatusTooManyRequests: KindRateLimited,
}

// classify turns a decoded envelope into the payload or an *Error.
// Exactly one of the results is non-nil.
func classify[T any](op string, status int, env envelope[T]) (*T, error) {
	if env.Error != "" {
		if kind, ok := messageKinds[env.Error]; ok {
			return nil, &Error{Op: op, Kind: kind, Message: env.Error, StatusCode: status}
		}
	}
	if err := statusError(op, status, env.Error); err != nil {
		return nil, err
	}
	if env.Response == nil {
		return nil, &Error{Op: op, Kind: KindOther, Message: env.Error, StatusCode: status}
	}
	return env.Response, nil
}

// statusError returns an *Error when status is one of the known client
// error codes, nil otherwise.
func statusError(op string, status int, message string) *Error {
	kind, ok := statusKinds[status]
	if !ok {
		return nil
	}
	return &Error{Op: op, Kind: kind, Message: message, StatusCode: status}
}
