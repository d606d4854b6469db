// Package bootstrap wires the process-level dependencies shared by every
// service binary: database, redis, registry, outbound connections and the
// gRPC server lifecycle.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"
	"gorm.io/gorm"

	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/cache"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/config"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/database"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/refs"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/registry"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/rpc"
)

// RefNamespace prefixes reference cache keys. It is shared by all services
// so an owner can invalidate what its consumers cached.
const RefNamespace = "refs"

const unregisterTimeout = 2 * time.Second

type Runtime struct {
	Config config.Service
	// DB is nil for the memory driver.
	DB *gorm.DB
	// Redis and Cache are nil when REDIS_ADDR is unset.
	Redis    *redis.Client
	Cache    cache.Cache
	Registry registry.Registry
	Dialer   *rpc.Dialer

	closers []func() error
}

// Start opens everything cfg asks for. Close releases it.
func Start(ctx context.Context, cfg config.Service) (*Runtime, error) {
	rt := &Runtime{Config: cfg}

	if cfg.DBDriver != database.DriverMemory {
		db, err := database.Open(cfg.DBDriver, cfg.DBDSN)
		if err != nil {
			return nil, err
		}
		rt.DB = db
		if sqlDB, err := db.DB(); err == nil {
			rt.closers = append(rt.closers, sqlDB.Close)
		}
	}

	if cfg.RedisAddr != "" {
		rt.Redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rt.Redis.Ping(ctx).Err(); err != nil {
			slog.WarnContext(ctx, "redis not reachable, continuing", "addr", cfg.RedisAddr, "error", err)
		}
		rt.Cache = cache.NewRedisCacheFromClient(rt.Redis, RefNamespace)
		rt.closers = append(rt.closers, rt.Redis.Close)
	}

	reg, err := NewRegistry(cfg.Registry, rt.Redis)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.Registry = reg
	rt.Dialer = rpc.NewDialer(reg)
	rt.closers = append(rt.closers, rt.Dialer.Close)

	return rt, nil
}

// NewRegistry builds the registry named by cfg. The redis registry needs
// client.
func NewRegistry(cfg config.Registry, client *redis.Client) (registry.Registry, error) {
	switch cfg.Kind {
	case config.RegistryRedis:
		if client == nil {
			return nil, errors.New("bootstrap: redis registry needs REDIS_ADDR")
		}
		return registry.NewRedis(client, cfg.Namespace, cfg.TTL), nil
	case config.RegistryStatic, "":
		return registry.LoadStatic(cfg.File, config.DefaultAddrs, cfg.Addrs)
	default:
		return nil, fmt.Errorf("bootstrap: unknown registry %q", cfg.Kind)
	}
}

// Policy is the lookup policy from configuration. Unset or non-positive
// values keep the defaults, so every lookup stays bounded.
func (rt *Runtime) Policy() refs.Policy {
	p := refs.DefaultPolicy()
	if rt.Config.Lookup.Timeout > 0 {
		p.Timeout = rt.Config.Lookup.Timeout
	}
	if rt.Config.Lookup.MaxAttempts > 0 {
		p.MaxAttempts = uint(rt.Config.Lookup.MaxAttempts)
	}
	return p
}

// ResolverOptions applies the configured policy and, when redis is on,
// the read-through cache.
func ResolverOptions[T any](rt *Runtime) []refs.Option[T] {
	opts := []refs.Option[T]{refs.WithPolicy[T](rt.Policy())}
	if rt.Cache != nil {
		opts = append(opts, refs.WithCache[T](rt.Cache, rt.Config.Lookup.CacheTTL))
	}
	return opts
}

// Serve listens on the configured address, registers the service with
// register and blocks until ctx is cancelled. With the redis registry the
// instance announces itself for as long as it serves.
func (rt *Runtime) Serve(ctx context.Context, register func(grpc.ServiceRegistrar)) error {
	lis, err := net.Listen("tcp", rt.Config.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", rt.Config.Addr, err)
	}

	srv := rpc.NewServer()
	register(srv)

	r, announced := rt.Registry.(*registry.Redis)
	if announced {
		if err := r.Heartbeat(ctx, rt.Config.Kind, rt.Config.AdvertiseAddr); err != nil {
			slog.WarnContext(ctx, "self registration failed", "error", err)
			announced = false
		}
	}

	slog.Info(rt.Config.Name+" gRPC running", "addr", rt.Config.Addr, "db", rt.Config.DBDriver)
	err = rpc.Serve(ctx, srv, lis)

	// Withdraw the entry once the server has stopped.
	if announced {
		stopCtx, cancel := context.WithTimeout(context.Background(), unregisterTimeout)
		defer cancel()
		if uerr := r.Unregister(stopCtx, rt.Config.Kind, rt.Config.AdvertiseAddr); uerr != nil {
			slog.Warn("registry unregister failed", "kind", rt.Config.Kind, "error", uerr)
		}
	}
	return err
}

func (rt *Runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			slog.Error("close failed", "error", err)
		}
	}
	rt.closers = nil
}
