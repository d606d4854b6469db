package refs

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/apperr"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/cache"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/contracts"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/identity"
)

// LookupFunc reads the un-composed transfer object of a foreign aggregate.
type LookupFunc[T any] func(ctx context.Context, id int) (T, error)

// Source resolves references of one foreign kind.
type Source[T any] interface {
	Resolve(ctx context.Context, id int) (*contracts.Ref[T], error)
}

var _ Source[struct{}] = (*Resolver[struct{}])(nil)

// Resolver turns an identity of a foreign kind into a Ref.
type Resolver[T any] struct {
	kind   identity.Kind
	lookup LookupFunc[T]
	policy Policy
	cache  cache.Cache
	ttl    time.Duration
}

type Option[T any] func(*Resolver[T])

func WithPolicy[T any](p Policy) Option[T] {
	return func(r *Resolver[T]) { r.policy = p }
}

// WithCache enables the read-through cache. Only resolved values are
// stored; absent answers are always asked again.
func WithCache[T any](c cache.Cache, ttl time.Duration) Option[T] {
	return func(r *Resolver[T]) {
		r.cache = c
		r.ttl = ttl
	}
}

func NewResolver[T any](kind identity.Kind, lookup LookupFunc[T], opts ...Option[T]) *Resolver[T] {
	r := &Resolver[T]{kind: kind, lookup: lookup, policy: DefaultPolicy()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver[T]) Kind() identity.Kind { return r.kind }

// Resolve returns a resolved Ref when the owner has the aggregate and an
// absent Ref when it answers not-found. Any other outcome is an error
// matching apperr.ErrServiceUnavailable.
func (r *Resolver[T]) Resolve(ctx context.Context, id int) (*contracts.Ref[T], error) {
	if v, ok := r.cached(ctx, id); ok {
		return contracts.Resolved(v), nil
	}

	v, err := Fetch(ctx, r.policy, r.kind, id, func(ctx context.Context) (T, error) {
		return r.lookup(ctx, id)
	})
	if apperr.IsNotFound(err) {
		slog.DebugContext(ctx, "reference absent", "kind", r.kind, "id", id)
		return contracts.Absent[T](), nil
	}
	if err != nil {
		return nil, err
	}

	r.store(ctx, id, v)
	return contracts.Resolved(v), nil
}

func (r *Resolver[T]) cached(ctx context.Context, id int) (T, bool) {
	var v T
	if r.cache == nil {
		return v, false
	}
	raw, err := r.cache.Get(ctx, CacheKey(r.cache, r.kind, id))
	if err != nil {
		slog.WarnContext(ctx, "reference cache read failed", "kind", r.kind, "id", id, "error", err)
		return v, false
	}
	if raw == nil {
		return v, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, false
	}
	return v, true
}

func (r *Resolver[T]) store(ctx context.Context, id int, v T) {
	if r.cache == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, CacheKey(r.cache, r.kind, id), raw, r.ttl); err != nil {
		slog.WarnContext(ctx, "reference cache write failed", "kind", r.kind, "id", id, "error", err)
	}
}

// CacheKey is the key a resolved value of kind/id is cached under.
func CacheKey(c cache.Cache, kind identity.Kind, id int) string {
	return c.Key(string(kind), "lookup", strconv.Itoa(id))
}

// Invalidate drops the cached value of kind/id. Owning services call it
// after writes so consumers do not serve stale references for a full TTL.
func Invalidate(ctx context.Context, c cache.Cache, kind identity.Kind, id int) {
	if c == nil {
		return
	}
	if err := c.Delete(ctx, CacheKey(c, kind, id)); err != nil {
		slog.WarnContext(ctx, "reference cache invalidation failed", "kind", kind, "id", id, "error", err)
	}
}

// InvalidateOnWrite returns a write hook that drops cached lookups of kind.
func InvalidateOnWrite(c cache.Cache, kind identity.Kind) func(ctx context.Context, id int) {
	return func(ctx context.Context, id int) { Invalidate(ctx, c, kind, id) }
}
