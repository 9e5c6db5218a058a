package services

import "fmt"

// ErrorKind classifies a domain error so the handler layer can translate it
// 1:1 into an HTTP status.
type ErrorKind int

const (
	ErrValidation ErrorKind = iota // malformed or out-of-range input -> 400
	ErrAuth                        // bad credentials -> 401
	ErrPermission                  // authenticated but not allowed -> 403
	ErrNotFound                    // -> 404
	ErrConflict                    // duplicate email, duplicate active booking -> 409
	ErrState                       // invalid lifecycle transition -> 400
)

// Error is a domain error raised at the point of detection. Operations either
// succeed or fail definitively on the first attempt; nothing here is retried.
// Code is an optional machine-readable identifier carried into the response
// envelope alongside the message.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// WithCode attaches a stable identifier clients can branch on.
func (e *Error) WithCode(code string) *Error {
	e.Code = code
	return e
}

func errf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func validationf(format string, args ...any) *Error {
	return errf(ErrValidation, format, args...)
}

func authf(format string, args ...any) *Error {
	return errf(ErrAuth, format, args...)
}

func permissionf(format string, args ...any) *Error {
	return errf(ErrPermission, format, args...)
}

func notFoundf(format string, args ...any) *Error {
	return errf(ErrNotFound, format, args...)
}

func conflictf(format string, args ...any) *Error {
	return errf(ErrConflict, format, args...)
}

func statef(format string, args ...any) *Error {
	return errf(ErrState, format, args...)
}
