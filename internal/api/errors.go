package api

import (
	"errors"
	"fmt"
)

// Kind classifies an API failure. The view layer picks its message and
// behavior off the kind; authorization failures are additionally handled
// centrally by the session guard.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindNetwork
	KindServer
)

// String returns the taxonomy name of the kind
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindAuthentication:
		return "AuthenticationError"
	case KindAuthorization:
		return "AuthorizationError"
	case KindNotFound:
		return "NotFoundError"
	case KindNetwork:
		return "NetworkError"
	case KindServer:
		return "ServerError"
	default:
		return "UnknownError"
	}
}

// Error is a typed API failure. Message is safe to show to the user.
type Error struct {
	Kind    Kind
	Message string
	Status  int   // HTTP status, 0 for transport failures
	Err     error // underlying cause, if any
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is an *Error of the given kind
func IsKind(err error, k Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == k
}

// Message extracts the user-facing message from err, falling back to
// err.Error() for untyped failures.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
