// ABOUTME: Normalised result of a remote submission
// ABOUTME: Failure messages are resolved from the richest field the service sent

package submit

import (
	"encoding/json"
	"strings"
)

// Outcome is the Success/Failure result every submission produces.
// Local marks a failure that happened on this side: no frame, an
// overlapping or canceled submission, or a request that never got a reply.
type Outcome struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Local   bool   `json:"-"`
}

// Success builds a successful outcome
func Success(msg string) Outcome {
	return Outcome{Success: true, Message: msg}
}

// Failure builds the outcome for a submission the service rejected
func Failure(msg string) Outcome {
	return Outcome{Success: false, Message: msg}
}

// LocalFailure builds the outcome for a submission that never got a reply
func LocalFailure(msg string) Outcome {
	return Outcome{Success: false, Message: msg, Local: true}
}

// String implements fmt.Stringer
func (o Outcome) String() string {
	if o.Success {
		return "success: " + o.Message
	}
	return "failure: " + o.Message
}

// resolveMessage picks the first non-empty of the body's "message" field,
// its "error" field, the raw body, then fallback.
func resolveMessage(body []byte, fallback string) string {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err == nil {
		for _, key := range []string{"message", "error"} {
			if s, ok := fields[key].(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	if raw := strings.TrimSpace(string(body)); raw != "" {
		return raw
	}
	return fallback
}

// resolveSuccess returns the body's "message" field or defaultMsg
func resolveSuccess(body []byte, defaultMsg string) string {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err == nil {
		if s, ok := fields["message"].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return defaultMsg
}
