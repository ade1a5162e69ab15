// Package apierr defines the API error taxonomy. Codes are numeric and
// grouped by HTTP status class: code/1000 is the HTTP status to respond
// with, the remainder distinguishes causes within that class.
package apierr

import "fmt"

const (
	InvalidPayload = 400000
	AlreadyExists  = 400001

	TokenExpired    = 401001
	TokenInvalid    = 401002
	SessionNotFound = 401003

	Forbidden          = 403000
	UnverifiedAdmin    = 403004
	ConfirmationFailed = 403006

	NotFound = 404000

	NotAcceptable = 406000

	Conflict              = 409000
	EmailExists           = 409001
	StatusAlreadyAssigned = 409002

	UnsupportedMediaType = 415000

	TooManyRequests = 429000

	InternalServerError = 500000
)

var messages = map[int]string{
	InvalidPayload:        "Bad Request",
	AlreadyExists:         "Already Exists",
	TokenExpired:          "Token expired",
	TokenInvalid:          "Invalid token",
	SessionNotFound:       "Session not found",
	Forbidden:             "Forbidden",
	UnverifiedAdmin:       "Unverified admin",
	ConfirmationFailed:    "Failed to confirm operation",
	NotFound:              "Not found",
	NotAcceptable:         "Not acceptable",
	Conflict:              "Conflict",
	EmailExists:           "Email exists",
	StatusAlreadyAssigned: "Status already assigned",
	UnsupportedMediaType:  "Unsupported media type",
	TooManyRequests:       "Too many requests",
	InternalServerError:   "Internal server error",
}

// Error is a domain error carrying an API code and optional detail data
// that is echoed back to the client in the failure envelope.
type Error struct {
	Code int
	Msg  string
	Data any
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Code, e.Msg)
}

// HTTPStatus derives the HTTP status class from the code.
func (e *Error) HTTPStatus() int {
	return e.Code / 1000
}

// New builds an Error with the default message for code.
func New(code int) *Error {
	return &Error{Code: code, Msg: Message(code)}
}

// Newf builds an Error with a custom message.
func Newf(code int, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// WithData attaches detail data echoed to the client.
func (e *Error) WithData(data any) *Error {
	e.Data = data
	return e
}

// Message returns the default message for a code.
func Message(code int) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return messages[InternalServerError]
}
