package refs_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/apperr"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/cache"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/contracts"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/identity"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/refs"
)

func fastPolicy(attempts uint) refs.Policy {
	return refs.Policy{
		Timeout:         50 * time.Millisecond,
		MaxAttempts:     attempts,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
	}
}

// productLookup answers from a fixed table and counts calls.
type productLookup struct {
	calls    atomic.Int32
	products map[int]contracts.Product
	err      error
}

func (l *productLookup) lookup(_ context.Context, id int) (contracts.Product, error) {
	l.calls.Add(1)
	if l.err != nil {
		return contracts.Product{}, l.err
	}
	p, ok := l.products[id]
	if !ok {
		return contracts.Product{}, identity.KindProduct.NotFound(id)
	}
	return p, nil
}

func TestResolveFound(t *testing.T) {
	l := &productLookup{products: map[int]contracts.Product{1: {ProductID: 1, ProductTitle: "mug"}}}
	r := refs.NewResolver(identity.KindProduct, l.lookup, refs.WithPolicy[contracts.Product](fastPolicy(3)))

	ref, err := r.Resolve(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, ref.IsResolved())
	assert.Equal(t, "mug", ref.Value.ProductTitle)
}

func TestResolveAbsentIsNotAnError(t *testing.T) {
	l := &productLookup{products: map[int]contracts.Product{}}
	r := refs.NewResolver(identity.KindProduct, l.lookup, refs.WithPolicy[contracts.Product](fastPolicy(3)))

	ref, err := r.Resolve(context.Background(), 9)
	require.NoError(t, err)
	assert.True(t, ref.IsAbsent())
	assert.Equal(t, int32(1), l.calls.Load(), "not-found must not be retried")
}

func TestResolveUnreachableIsRetriedThenFails(t *testing.T) {
	l := &productLookup{err: apperr.Unavailable("product", 1, errors.New("connection refused"))}
	r := refs.NewResolver(identity.KindProduct, l.lookup, refs.WithPolicy[contracts.Product](fastPolicy(3)))

	ref, err := r.Resolve(context.Background(), 1)
	assert.Nil(t, ref)
	assert.ErrorIs(t, err, apperr.ErrServiceUnavailable)
	assert.False(t, apperr.IsNotFound(err))
	assert.Equal(t, int32(3), l.calls.Load())
}

func TestResolveRecoversAfterTransientFailure(t *testing.T) {
	var calls atomic.Int32
	lookup := func(_ context.Context, id int) (contracts.Product, error) {
		if calls.Add(1) == 1 {
			return contracts.Product{}, apperr.Unavailable("product", id, nil)
		}
		return contracts.Product{ProductID: id}, nil
	}
	r := refs.NewResolver(identity.KindProduct, lookup, refs.WithPolicy[contracts.Product](fastPolicy(3)))

	ref, err := r.Resolve(context.Background(), 4)
	require.NoError(t, err)
	assert.True(t, ref.IsResolved())
	assert.Equal(t, int32(2), calls.Load())
}

func TestResolveTimeoutIsUnreachableNotAbsent(t *testing.T) {
	lookup := func(ctx context.Context, id int) (contracts.Product, error) {
		<-ctx.Done()
		return contracts.Product{}, ctx.Err()
	}
	r := refs.NewResolver(identity.KindProduct, lookup, refs.WithPolicy[contracts.Product](fastPolicy(2)))

	start := time.Now()
	ref, err := r.Resolve(context.Background(), 1)
	assert.Nil(t, ref)
	assert.ErrorIs(t, err, apperr.ErrServiceUnavailable)
	assert.Less(t, time.Since(start), time.Second)
}

func TestResolveOtherFailureFailsWithoutRetry(t *testing.T) {
	l := &productLookup{err: errors.New("internal: database locked")}
	r := refs.NewResolver(identity.KindProduct, l.lookup, refs.WithPolicy[contracts.Product](fastPolicy(3)))

	_, err := r.Resolve(context.Background(), 1)
	assert.ErrorIs(t, err, apperr.ErrServiceUnavailable)
	assert.Equal(t, int32(1), l.calls.Load())
}

func TestResolveCancelledCaller(t *testing.T) {
	l := &productLookup{err: apperr.Unavailable("product", 1, nil)}
	r := refs.NewResolver(identity.KindProduct, l.lookup, refs.WithPolicy[contracts.Product](fastPolicy(3)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Resolve(ctx, 1)
	assert.Error(t, err)
	assert.False(t, apperr.IsNotFound(err))
}

func setupCache(t *testing.T) (*miniredis.Miniredis, cache.Cache) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return mr, cache.NewRedisCache(mr.Addr(), "refs")
}

func TestResolveReadThroughCache(t *testing.T) {
	ctx := context.Background()
	mr, c := setupCache(t)
	l := &productLookup{products: map[int]contracts.Product{1: {ProductID: 1, ProductTitle: "mug"}}}
	r := refs.NewResolver(identity.KindProduct, l.lookup,
		refs.WithPolicy[contracts.Product](fastPolicy(1)),
		refs.WithCache[contracts.Product](c, time.Minute),
	)

	for i := 0; i < 3; i++ {
		ref, err := r.Resolve(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "mug", ref.Value.ProductTitle)
	}
	assert.Equal(t, int32(1), l.calls.Load())
	assert.True(t, mr.Exists("refs:product:lookup:1"))

	refs.Invalidate(ctx, c, identity.KindProduct, 1)
	_, err := r.Resolve(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(2), l.calls.Load())
}

func TestResolveDoesNotCacheAbsent(t *testing.T) {
	ctx := context.Background()
	mr, c := setupCache(t)
	l := &productLookup{products: map[int]contracts.Product{}}
	r := refs.NewResolver(identity.KindProduct, l.lookup,
		refs.WithPolicy[contracts.Product](fastPolicy(1)),
		refs.WithCache[contracts.Product](c, time.Minute),
	)

	for i := 0; i < 2; i++ {
		ref, err := r.Resolve(ctx, 5)
		require.NoError(t, err)
		assert.True(t, ref.IsAbsent())
	}
	assert.Equal(t, int32(2), l.calls.Load())
	assert.False(t, mr.Exists("refs:product:lookup:5"))
}

func TestResolveIgnoresCacheOutage(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	c := cache.NewRedisCache(mr.Addr(), "refs")
	mr.Close()
	l := &productLookup{products: map[int]contracts.Product{1: {ProductID: 1}}}
	r := refs.NewResolver(identity.KindProduct, l.lookup,
		refs.WithPolicy[contracts.Product](fastPolicy(1)),
		refs.WithCache[contracts.Product](c, time.Minute),
	)

	ref, err := r.Resolve(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, ref.IsResolved())
}

func TestFetchPassesNotFoundThrough(t *testing.T) {
	_, err := refs.Fetch(context.Background(), fastPolicy(3), identity.KindOrderItem, 1,
		func(context.Context) ([]contracts.OrderItem, error) {
			return nil, identity.KindOrderItem.NotFound(1)
		})
	assert.True(t, apperr.IsNotFound(err))
}

func TestFetchPassesInvalidThrough(t *testing.T) {
	l := &productLookup{err: identity.KindProduct.Invalid(0)}
	r := refs.NewResolver(identity.KindProduct, l.lookup, refs.WithPolicy[contracts.Product](fastPolicy(3)))

	ref, err := r.Resolve(context.Background(), 0)
	assert.Nil(t, ref)
	assert.ErrorIs(t, err, apperr.ErrInvalidIdentity)
	assert.False(t, apperr.IsUnavailable(err))
	assert.Equal(t, int32(1), l.calls.Load())
}
