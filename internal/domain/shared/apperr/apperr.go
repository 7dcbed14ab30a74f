package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so transports can map it without matching
// message strings.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindInvalidCursor   Kind = "invalid_cursor"
	KindMissingIdentity Kind = "missing_identity"
	KindForbidden       Kind = "forbidden"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindInvalidOp       Kind = "invalid_operation"
	KindStorage         Kind = "storage"
)

// Error carries a kind alongside the message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func InvalidCursor(raw string) *Error {
	return &Error{Kind: KindInvalidCursor, Message: fmt.Sprintf("malformed cursor %q", raw)}
}

func MissingIdentity() *Error {
	return &Error{Kind: KindMissingIdentity, Message: "caller identity is required"}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func InvalidOperation(message string) *Error {
	return &Error{Kind: KindInvalidOp, Message: message}
}

func Storage(message string, err error) *Error {
	return &Error{Kind: KindStorage, Message: message, Err: err}
}

// KindOf extracts the kind from err, defaulting to KindStorage for errors
// that did not originate in the application layer.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindStorage
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}
