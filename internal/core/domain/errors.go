package domain

import "errors"

// Error kinds. Every failure leaving the core wraps exactly one of these.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrRequest       = errors.New("request error")
	ErrConflict      = errors.New("resource conflict")
	ErrAuthorization = errors.New("unauthorized")
	ErrCredential    = errors.New("forbidden")
)

// ServiceError carries a client-facing message together with its kind.
type ServiceError struct {
	Kind    error
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

// Unwrap exposes the kind so errors.Is(err, ErrNotFound) holds.
func (e *ServiceError) Unwrap() error { return e.Kind }

func newServiceError(kind error, msg, fallback string) *ServiceError {
	if msg == "" {
		msg = fallback
	}
	return &ServiceError{Kind: kind, Message: msg}
}

// NotFound reports a missing collection or record.
func NotFound(msg string) error {
	return newServiceError(ErrNotFound, msg, "Resource not found")
}

// RequestErr reports malformed input: query syntax, payload shape or path.
func RequestErr(msg string) error {
	return newServiceError(ErrRequest, msg, "Request error")
}

// Conflict reports a duplicate identity on creation.
func Conflict(msg string) error {
	return newServiceError(ErrConflict, msg, "Resource conflict")
}

// Unauthorized reports that the action needs an authenticated actor.
func Unauthorized(msg string) error {
	return newServiceError(ErrAuthorization, msg, "Unauthorized")
}

// Forbidden reports that the authenticated actor is denied by a rule.
func Forbidden(msg string) error {
	return newServiceError(ErrCredential, msg, "Forbidden")
}

// Message returns the client-facing message of err.
func Message(err error) string {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Message
	}
	return err.Error()
}
