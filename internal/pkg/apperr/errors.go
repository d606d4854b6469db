// Package apperr holds the error taxonomy shared by every service and the
// gateway. Transport edges translate it to gRPC status codes and HTTP
// statuses; everything in between wraps with %w and checks with errors.Is/As.
package apperr

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrServiceUnavailable marks a failure to reach an owning service
	// (no registered address, dial failure, timeout). Lookups retry it.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrInvalidIdentity is returned for malformed or partially populated
	// identities. It is raised before any store access.
	ErrInvalidIdentity = errors.New("invalid identity")

	// ErrInvalidArgument covers other structural problems with a request,
	// such as an update without an identity.
	ErrInvalidArgument = errors.New("invalid argument")
)

// NotFoundError reports that no aggregate of Kind exists under ID.
type NotFoundError struct {
	Kind string
	ID   any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %v not found", e.Kind, e.ID)
}

func NotFound(kind string, id any) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsUnavailable reports whether err means the remote side could not be
// reached in time. Deadline expiry counts; caller cancellation does not.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable) || errors.Is(err, context.DeadlineExceeded)
}

func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalidIdentity) || errors.Is(err, ErrInvalidArgument)
}

// Unavailable wraps cause so that it matches ErrServiceUnavailable while
// keeping the original error in the chain.
func Unavailable(kind string, id any, cause error) error {
	if cause == nil {
		return fmt.Errorf("%s %v: %w", kind, id, ErrServiceUnavailable)
	}
	return fmt.Errorf("%s %v: %w: %w", kind, id, ErrServiceUnavailable, cause)
}

func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
