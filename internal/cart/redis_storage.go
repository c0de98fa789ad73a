package cart

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/lumenmarket/storefront-backend/pkg/errors"
	"github.com/lumenmarket/storefront-backend/pkg/redis"
)

// RedisStorage persists guest carts in Redis under namespaced session keys.
// Entries expire after the configured TTL so abandoned guest carts age out.
type RedisStorage struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStorage wires a Redis-backed guest storage.
func NewRedisStorage(client *redis.Client, ttl time.Duration) (*RedisStorage, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "redis client is required")
	}
	return &RedisStorage{client: client, ttl: ttl}, nil
}

// Get returns the serialized guest cart for the session, if present.
func (r *RedisStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, r.client.GuestCartKey(key))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return []byte(value), true, nil
}

// Set writes the serialized guest cart, refreshing the TTL.
func (r *RedisStorage) Set(ctx context.Context, key string, payload []byte) error {
	return r.client.Set(ctx, r.client.GuestCartKey(key), payload, r.ttl)
}

// Delete removes the guest cart entry.
func (r *RedisStorage) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.client.GuestCartKey(key))
}
