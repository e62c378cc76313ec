// Package errs defines the error taxonomy shared by the storage, recorder,
// and handler layers. Backends wrap their native errors into *errs.Error;
// handlers branch on the Kind predicates to decide what the user sees,
// without importing SDK error types.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure independently of which backend produced it.
type Kind int

const (
	KindUnknown          Kind = iota
	KindNotFound              // missing bucket, object, or record
	KindConnectionFailed      // unreachable endpoint or rejected credentials
	KindTimeout               // deadline exceeded or request cancelled
	KindUploadFailed          // backend rejected a write
	KindDecodeFailed          // object bytes are not a renderable image
	KindInvalidInput          // caller supplied a bad name or path
	KindPermissionDenied      // authenticated but not authorised
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConnectionFailed:
		return "connection_failed"
	case KindTimeout:
		return "timeout"
	case KindUploadFailed:
		return "upload_failed"
	case KindDecodeFailed:
		return "decode_failed"
	case KindInvalidInput:
		return "invalid_input"
	case KindPermissionDenied:
		return "permission_denied"
	default:
		return "unknown"
	}
}

// Error carries a kind, a human-readable message, and the original cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap lets errors.Is / errors.As walk the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New returns an *Error without a cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap returns an *Error that preserves cause for logging.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

func kindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsNotFound reports whether err represents a missing bucket, object, or row.
func IsNotFound(err error) bool {
	return kindOf(err) == KindNotFound
}

// IsConnectionFailed reports whether err is a connectivity or auth failure.
func IsConnectionFailed(err error) bool {
	return kindOf(err) == KindConnectionFailed
}

// IsTimeout reports whether err was caused by a deadline or cancellation.
func IsTimeout(err error) bool {
	return kindOf(err) == KindTimeout
}

// IsUploadFailed reports whether the backend rejected a write.
func IsUploadFailed(err error) bool {
	return kindOf(err) == KindUploadFailed
}

// IsDecodeFailed reports whether an object could not be decoded as an image.
func IsDecodeFailed(err error) bool {
	return kindOf(err) == KindDecodeFailed
}

// IsInvalidInput reports whether err was caused by bad caller input.
func IsInvalidInput(err error) bool {
	return kindOf(err) == KindInvalidInput
}

// IsPermissionDenied reports whether err is an access control failure.
func IsPermissionDenied(err error) bool {
	return kindOf(err) == KindPermissionDenied
}
