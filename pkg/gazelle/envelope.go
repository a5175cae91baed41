package gazelle

import (
	"bytes"
	"encoding/json"
)

// envelope is the JSON wrapper around every ajax.php response.
type envelope[T any] struct {
	Status   string // "success" or "failure"
	Response *T     // nil when absent
	Error    string // empty when absent
}

type rawEnvelope struct {
	Status   string          `json:"status"`
	Response json.RawMessage `json:"response"`
	Error    string          `json:"error"`
}

// decodeEnvelope parses body into an envelope. A response member that is
// null or an empty array is treated as absent; OPS sends "response":[] on
// failures.
func decodeEnvelope[T any](body []byte) (envelope[T], error) {
	var raw rawEnvelope
	if err := json.Unmarshal(body, &raw); err != nil {
		return envelope[T]{}, err
	}

	env := envelope[T]{Status: raw.Status, Error: raw.Error}
	if isAbsent(raw.Response) {
		return env, nil
	}

	var payload T
	if err := json.Unmarshal(raw.Response, &payload); err != nil {
		return envelope[T]{}, err
	}
	env.Response = &payload
	return env, nil
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return true
	}
	if trimmed[0] != '[' || trimmed[len(trimmed)-1] != ']' {
		return false
	}
	return len(bytes.TrimSpace(trimmed[1:len(trimmed)-1])) == 0
}
