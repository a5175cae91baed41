package gazelle_test

import (
	"testing"

	"github.com/RogueOneEcho/gazelle-api/pkg/gazelle"
)

// ---------------------------------------------------------------------------
// TestDecodeEnvelope - response normalization
// ---------------------------------------------------------------------------

func TestDecodeEnvelope(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		wantStatus  string
		wantPayload string // empty means absent
		wantError   string
	}{
		{
			name:        "success with object",
			body:        `{"status":"success","response":{"value":42}}`,
			wantStatus:  "success",
			wantPayload: `{"value":42}`,
		},
		{
			name:       "failure without response",
			body:       `{"status":"failure","error":"bad id parameter"}`,
			wantStatus: "failure",
			wantError:  "bad id parameter",
		},
		{
			name:       "empty array response",
			body:       `{"status":"failure","response":[],"error":"bad id parameter"}`,
			wantStatus: "failure",
			wantError:  "bad id parameter",
		},
		{
			name:       "empty array with whitespace",
			body:       "{\"status\" : \"failure\" , \"response\" : [ \n ] , \"error\" : \"bad parameters\"}",
			wantStatus: "failure",
			wantError:  "bad parameters",
		},
		{
			name:       "empty array as last member",
			body:       `{"error":"failure","status":"failure","response":[]}`,
			wantStatus: "failure",
			wantError:  "failure",
		},
		{
			name:       "null response",
			body:       `{"status":"success","response":null}`,
			wantStatus: "success",
		},
		{
			name:        "non-empty array is kept",
			body:        `{"status":"success","response":[1,2]}`,
			wantStatus:  "success",
			wantPayload: `[1,2]`,
		},
		{
			name:       "status only",
			body:       `{"status":"success"}`,
			wantStatus: "success",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, err := gazelle.DecodeEnvelope([]byte(tt.body))
			if err != nil {
				t.Fatalf("DecodeEnvelope() unexpected error: %v", err)
			}
			if env.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", env.Status, tt.wantStatus)
			}
			if env.Error != tt.wantError {
				t.Errorf("Error = %q, want %q", env.Error, tt.wantError)
			}
			switch {
			case tt.wantPayload == "" && env.Response != nil:
				t.Errorf("Response = %s, want absent", *env.Response)
			case tt.wantPayload != "" && env.Response == nil:
				t.Errorf("Response absent, want %s", tt.wantPayload)
			case tt.wantPayload != "" && string(*env.Response) != tt.wantPayload:
				t.Errorf("Response = %s, want %s", *env.Response, tt.wantPayload)
			}
		})
	}
}

func TestDecodeEnvelopeMalformed(t *testing.T) {
	t.Parallel()

	for _, body := range []string{
		`{"invalid json`,
		`<html>502 Bad Gateway</html>`,
		``,
		`{"status":"failure","error":{"code":1}}`,
	} {
		if _, err := gazelle.DecodeEnvelope([]byte(body)); err == nil {
			t.Errorf("DecodeEnvelope(%q) expected error, got nil", body)
		}
	}
}
