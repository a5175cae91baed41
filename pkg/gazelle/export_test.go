package gazelle

import "encoding/json"

// Envelope exposes the decoded envelope with an undecoded payload.
type Envelope = envelope[json.RawMessage]

// DecodeEnvelope exposes decodeEnvelope for testing.
func DecodeEnvelope(body []byte) (Envelope, error) {
	return decodeEnvelope[json.RawMessage](body)
}

// Classify exposes classify for testing.
func Classify(op string, status int, env Envelope) (*json.RawMessage, error) {
	return classify(op, status, env)
}
