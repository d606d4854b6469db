// Package cache holds the shared read-through cache used for reference
// lookups. Values are opaque bytes; callers own the encoding.
package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a namespaced byte cache with per-entry expiry. Get returns a nil
// slice and no error on a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Key(parts ...string) string
}

type redisCache struct {
	client    redis.UniversalClient
	namespace string
}

// NewRedisCache dials addr with its own client.
func NewRedisCache(addr, namespace string) Cache {
	return NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: addr}), namespace)
}

// NewRedisCacheFromClient shares an existing client, e.g. with the registry.
func NewRedisCacheFromClient(client redis.UniversalClient, namespace string) Cache {
	return &redisCache{client: client, namespace: namespace}
}

func (r *redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, nil
	case err != nil:
		return nil, err
	}
	return val, nil
}

func (r *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

// Key joins the namespace and parts with ':'.
func (r *redisCache) Key(parts ...string) string {
	return strings.Join(append([]string{r.namespace}, parts...), ":")
}
