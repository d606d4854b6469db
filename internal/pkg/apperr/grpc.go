package apperr

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ToStatus converts an application error into a gRPC status error.
// Errors that already carry a status are returned unchanged.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case IsNotFound(err):
		return status.Error(codes.NotFound, err.Error())
	case IsInvalid(err):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case IsUnavailable(err):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// FromStatus maps a gRPC error received for (kind, id) back into the
// application taxonomy. Non-status errors (dial failures surfaced before
// the call) count as unavailable.
func FromStatus(err error, kind string, id any) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return Unavailable(kind, id, err)
	}
	switch st.Code() {
	case codes.NotFound:
		return NotFound(kind, id)
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidArgument, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return Unavailable(kind, id, err)
	case codes.Canceled:
		return context.Canceled
	default:
		return err
	}
}
