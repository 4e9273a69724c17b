// Package errs defines the error types returned to API clients.
//
// Every error that leaves the service is shaped as an HTTPError so
// clients receive a consistent JSON structure: a machine-readable code,
// a human-readable message, the HTTP status, and optional field-level
// validation errors.
package errs

import "strings"

// FieldError is a single field-level validation error.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ActionType enumerates client instructions attached to an error.
type ActionType string

const (
	// ActionTypeRedirect tells the client to navigate elsewhere; Value
	// carries the target.
	ActionTypeRedirect ActionType = "redirect"
)

// Action is an optional instruction for the client attached to an error
// response.
type Action struct {
	Type    ActionType `json:"type"`
	Message string     `json:"message"`
	Value   string     `json:"value"`
}

// HTTPError is the error shape serialized to API clients.
//
// Override signals whether the message is safe to surface verbatim in a
// UI; generic internal errors keep it false.
type HTTPError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Status   int    `json:"status"`
	Override bool   `json:"override"`

	Errors []FieldError `json:"errors"`
	Action *Action      `json:"action"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is matches any *HTTPError so errors.Is can be used to detect the type
// regardless of code or status.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// WithMessage returns a copy of the error with the message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:     e.Code,
		Message:  message,
		Status:   e.Status,
		Override: e.Override,
		Errors:   e.Errors,
		Action:   e.Action,
	}
}

// MakeUpperCaseWithUnderscores turns "Bad Request" into "BAD_REQUEST".
// Used to derive stable error codes from HTTP status text.
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
