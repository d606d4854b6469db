package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/apperr"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/identity"
)

// Redis is a self-registration registry. Each instance writes
// <ns>:services:<kind>:<addr> with a TTL and keeps it alive with a
// heartbeat; <ns>:names:<kind> indexes the instances of a kind.
type Redis struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
	next      atomic.Uint64
}

var _ Registry = (*Redis)(nil)

func NewRedis(client *redis.Client, namespace string, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Redis{client: client, namespace: namespace, ttl: ttl}
}

func (r *Redis) instanceKey(kind identity.Kind, addr string) string {
	return fmt.Sprintf("%s:services:%s:%s", r.namespace, kind, addr)
}

func (r *Redis) namesKey(kind identity.Kind) string {
	return fmt.Sprintf("%s:names:%s", r.namespace, kind)
}

// Register announces addr as an instance of kind for one TTL.
func (r *Redis) Register(ctx context.Context, kind identity.Kind, addr string) error {
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.instanceKey(kind, addr), addr, r.ttl)
	pipe.SAdd(ctx, r.namesKey(kind), addr)
	pipe.Expire(ctx, r.namesKey(kind), r.ttl*2)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("registry: register %s at %s: %w", kind, addr, err)
	}
	return nil
}

func (r *Redis) Unregister(ctx context.Context, kind identity.Kind, addr string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.instanceKey(kind, addr))
	pipe.SRem(ctx, r.namesKey(kind), addr)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("registry: unregister %s at %s: %w", kind, addr, err)
	}
	return nil
}

// Heartbeat registers addr and refreshes it every half TTL until ctx is
// done. Withdrawing the entry is the caller's job, see Unregister.
func (r *Redis) Heartbeat(ctx context.Context, kind identity.Kind, addr string) error {
	if err := r.Register(ctx, kind, addr); err != nil {
		return err
	}
	go func() {
		ticker := time.NewTicker(r.ttl / 2)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := r.Register(ctx, kind, addr); err != nil && !errors.Is(err, context.Canceled) {
					slog.Warn("registry heartbeat failed", "kind", kind, "addr", addr, "error", err)
				}
			}
		}
	}()
	return nil
}

// Resolve picks a live instance of kind, rotating between instances.
// Entries whose instance key expired are dropped from the index.
func (r *Redis) Resolve(ctx context.Context, kind identity.Kind) (string, error) {
	members, err := r.client.SMembers(ctx, r.namesKey(kind)).Result()
	if err != nil {
		return "", fmt.Errorf("registry: resolve %s: %w: %w", kind, apperr.ErrServiceUnavailable, err)
	}

	live := make([]string, 0, len(members))
	for _, addr := range members {
		n, err := r.client.Exists(ctx, r.instanceKey(kind, addr)).Result()
		if err != nil {
			return "", fmt.Errorf("registry: resolve %s: %w: %w", kind, apperr.ErrServiceUnavailable, err)
		}
		if n == 0 {
			r.client.SRem(ctx, r.namesKey(kind), addr)
			continue
		}
		live = append(live, addr)
	}
	if len(live) == 0 {
		return "", fmt.Errorf("registry: no live instance of %s: %w", kind, apperr.ErrServiceUnavailable)
	}
	i := r.next.Add(1) - 1
	return live[i%uint64(len(live))], nil
}
