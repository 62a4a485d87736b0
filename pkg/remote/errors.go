package remote

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Error is a non-2xx response from the filter store
type Error struct {
	Status  int
	Message string
	Fields  map[string][]string // per-field validation errors, when the server sends them
}

func (e *Error) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Reason is the message to show the user
func (e *Error) Reason() string {
	return e.Message
}

// Conflict reports whether the request carried a stale content hash
func (e *Error) Conflict() bool {
	return e.Status == http.StatusPreconditionFailed
}

type errorBody struct {
	Message string `json:"message"`
	Data    struct {
		Errors map[string][]string `json:"errors"`
	} `json:"data"`
}

// ExtractMessage turns an error response body into a user-facing reason. It
// uses the JSON "message" field verbatim, then the raw body when it is short
// plain text, and finally the HTTP status text.
func ExtractMessage(status int, body []byte) string {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}

	text := strings.TrimSpace(string(body))
	if text != "" && !strings.HasPrefix(text, "<") && !strings.HasPrefix(text, "{") && len(text) <= 512 {
		return text
	}

	if s := http.StatusText(status); s != "" {
		return s
	}
	return fmt.Sprintf("HTTP %d", status)
}

// newError builds the error for a rejected response
func newError(status int, body []byte) *Error {
	e := &Error{Status: status, Message: ExtractMessage(status, body)}
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil && len(parsed.Data.Errors) > 0 {
		e.Fields = parsed.Data.Errors
	}
	return e
}
