// Package response provides helpers for writing consistent JSON HTTP responses.
//
// The JSON API of the registration form sends every reply through WriteJSON
// so that clients always see the same error envelope, whether the failure is
// a malformed body, an unknown field or a rejected submission.
package response

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/aanand-mishra/registration-form/internal/schema"
)

// ─────────────────────────────────────────────────────────────────────────────
// Response is the standard envelope returned for error cases.
//
// Success responses may return any JSON shape (a snapshot, the option lists…).
// Error responses always look like:
//
//	{ "status": "error", "error": "First name must be at least 3 characters" }
//
// Validation failures additionally carry the per-field errors:
//
//	{ "status": "error", "error": "...", "fields": { "firstName": {...} } }
//
// ─────────────────────────────────────────────────────────────────────────────
type Response struct {
	Status string             `json:"status"`
	Error  string             `json:"error"`
	Fields schema.FieldErrors `json:"fields,omitempty"`
}

// Status string constants, so a typo is caught by the compiler.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ─────────────────────────────────────────────────────────────────────────────
// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
// ─────────────────────────────────────────────────────────────────────────────
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// GeneralError wraps any Go error into the standard Response shape.
// Use this for unexpected errors and for controller sentinels.
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// ValidationError converts the schema's field errors into a Response.
//
// The messages are joined in field-path order with ", " so the "error"
// string is stable across requests; the structured map is kept in "fields".
//
// Example output:
//
//	{ "status": "error",
//	  "error": "Please enter a valid email address, First name must be at least 3 characters",
//	  "fields": { "email": {...}, "firstName": {...} } }
//
// ─────────────────────────────────────────────────────────────────────────────
func ValidationError(errs schema.FieldErrors) Response {
	paths := make([]string, 0, len(errs))
	for path := range errs {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	msgs := make([]string, 0, len(paths))
	for _, path := range paths {
		msgs = append(msgs, errs[path].Message)
	}

	return Response{
		Status: StatusError,
		Error:  strings.Join(msgs, ", "),
		Fields: errs,
	}
}
