package httperrors

import (
	"errors"
	"net/http"
)

// Kind is the closed set of failure categories the service can surface.
type Kind int

const (
	KindValidation Kind = iota
	KindBadCredentials
	KindConflict
	KindUnauthorized
	KindNotFound
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindBadCredentials:
		return "BadCredentials"
	case KindConflict:
		return "Conflict"
	case KindUnauthorized:
		return "Unauthorized"
	case KindNotFound:
		return "NotFound"
	default:
		return "InternalError"
	}
}

// Status maps every kind to its HTTP status. Duplicate email is reported as
// 400, matching the service's observed contract rather than 409.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindBadCredentials, KindConflict:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// FieldError is one entry of the uniform error body.
type FieldError struct {
	Type     string `json:"type"`
	Msg      string `json:"msg"`
	Path     string `json:"path"`
	Location string `json:"location"`
}

type Error struct {
	Kind   Kind
	Msg    string
	Fields []FieldError
	cause  error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Msg + ": " + e.cause.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Status() int { return e.Kind.Status() }

// Entries returns the error body payload. Internal causes never leak; the
// client only ever sees the kind name and the public message.
func (e *Error) Entries() []FieldError {
	if len(e.Fields) > 0 {
		return e.Fields
	}
	return []FieldError{{Type: e.Kind.String(), Msg: e.Msg}}
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, cause: cause}
}

func Validation(fields []FieldError) *Error {
	return &Error{Kind: KindValidation, Msg: "validation failed", Fields: fields}
}

func BadCredentials() *Error {
	return New(KindBadCredentials, "Email or Password is incorrect")
}

func Internal(cause error) *Error {
	return Wrap(KindInternal, "internal error", cause)
}

// As unwraps err into an *Error, or wraps it as internal when it is not one.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}
