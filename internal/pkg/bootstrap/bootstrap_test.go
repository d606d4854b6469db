package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/config"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/identity"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/refs"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/registry"
)

func TestStartMemoryStatic(t *testing.T) {
	cfg := config.Service{
		Name:     "order-service",
		Kind:     identity.KindOrder,
		DBDriver: "memory",
		Registry: config.Registry{Kind: config.RegistryStatic},
		Lookup:   config.Lookup{Timeout: time.Second, MaxAttempts: 2, CacheTTL: time.Minute},
	}

	rt, err := Start(context.Background(), cfg)
	require.NoError(t, err)
	defer rt.Close()

	assert.Nil(t, rt.DB)
	assert.Nil(t, rt.Cache)
	addr, err := rt.Registry.Resolve(context.Background(), identity.KindProduct)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9092", addr)

	p := rt.Policy()
	assert.Equal(t, time.Second, p.Timeout)
	assert.Equal(t, uint(2), p.MaxAttempts)
	assert.Len(t, ResolverOptions[struct{}](rt), 1)
}

func TestStartSQLiteWithRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cfg := config.Service{
		Name:      "product-service",
		Kind:      identity.KindProduct,
		DBDriver:  "sqlite",
		DBDSN:     ":memory:",
		RedisAddr: mr.Addr(),
		Registry:  config.Registry{Kind: config.RegistryRedis, Namespace: "t", TTL: time.Minute},
	}

	rt, err := Start(context.Background(), cfg)
	require.NoError(t, err)
	defer rt.Close()

	assert.NotNil(t, rt.DB)
	assert.NotNil(t, rt.Cache)
	_, ok := rt.Registry.(*registry.Redis)
	assert.True(t, ok)
	assert.Len(t, ResolverOptions[struct{}](rt), 2)
}

func TestNewRegistryErrors(t *testing.T) {
	_, err := NewRegistry(config.Registry{Kind: config.RegistryRedis}, nil)
	assert.Error(t, err)

	_, err = NewRegistry(config.Registry{Kind: "consul"}, redis.NewClient(&redis.Options{}))
	assert.Error(t, err)
}

func TestPolicyKeepsDefaultBoundsForUnsetValues(t *testing.T) {
	rt := &Runtime{}
	p := rt.Policy()
	assert.Equal(t, refs.DefaultPolicy().Timeout, p.Timeout)
	assert.Equal(t, refs.DefaultPolicy().MaxAttempts, p.MaxAttempts)

	rt.Config.Lookup.Timeout = -time.Second
	assert.Equal(t, refs.DefaultPolicy().Timeout, rt.Policy().Timeout)
}

func TestServeWithdrawsRegistrationOnShutdown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cfg := config.Service{
		Name:          "payment-service",
		Kind:          identity.KindPayment,
		Addr:          "127.0.0.1:0",
		AdvertiseAddr: "payment:9091",
		DBDriver:      "memory",
		RedisAddr:     mr.Addr(),
		Registry:      config.Registry{Kind: config.RegistryRedis, Namespace: "t", TTL: time.Minute},
	}
	rt, err := Start(context.Background(), cfg)
	require.NoError(t, err)
	defer rt.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- rt.Serve(ctx, func(grpc.ServiceRegistrar) {}) }()

	key := "t:services:payment:payment:9091"
	require.Eventually(t, func() bool { return mr.Exists(key) }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	// gone as soon as Serve returns, not after the TTL
	assert.False(t, mr.Exists(key))
}
