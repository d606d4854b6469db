// Package refs resolves references to aggregates owned by other services.
//
// Every foreign call has three outcomes: found, absent (the owner answered
// "not found") and unreachable (the owner did not answer in time). Only
// unreachable is retried; it fails the enclosing operation, while absent is
// reported to the caller as data.
package refs

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/apperr"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/identity"
)

// Policy bounds a single foreign read.
type Policy struct {
	Timeout         time.Duration
	MaxAttempts     uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		Timeout:         2 * time.Second,
		MaxAttempts:     3,
		InitialInterval: 50 * time.Millisecond,
		MaxInterval:     500 * time.Millisecond,
	}
}

func (p Policy) backOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}
	return b
}

// Fetch runs fn under p: each attempt gets its own timeout, unreachable
// failures are retried with exponential backoff, and any failure other than
// not-found or invalid comes back wrapped as apperr.ErrServiceUnavailable for
// kind/id. Not-found and invalid errors are returned unchanged.
func Fetch[T any](ctx context.Context, p Policy, kind identity.Kind, id any, fn func(ctx context.Context) (T, error)) (T, error) {
	attempt := func() (T, error) {
		callCtx := ctx
		if p.Timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, p.Timeout)
			defer cancel()
		}
		v, err := fn(callCtx)
		if err == nil {
			return v, nil
		}
		if ctx.Err() != nil {
			return v, backoff.Permanent(ctx.Err())
		}
		if apperr.IsUnavailable(err) {
			return v, err
		}
		return v, backoff.Permanent(err)
	}

	maxAttempts := p.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = 1
	}
	v, err := backoff.Retry(ctx, attempt,
		backoff.WithBackOff(p.backOff()),
		backoff.WithMaxTries(maxAttempts),
	)
	if err == nil {
		return v, nil
	}

	var zero T
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		err = perm.Unwrap()
	}
	switch {
	case apperr.IsNotFound(err), apperr.IsInvalid(err):
		return zero, err
	case errors.Is(err, context.Canceled):
		return zero, err
	default:
		return zero, apperr.Unavailable(string(kind), id, err)
	}
}
