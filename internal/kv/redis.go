// Package kv holds API key secrets in a key-value store with per-key expiry.
package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"restinvoice/internal/core"
)

// RedisOptions configures the Redis secret store.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// RedisStore implements core.SecretStore on Redis, using native key TTLs for expiry.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore connects and pings Redis.
func NewRedisStore(opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: redis ping: %v", core.ErrSecretStore, err)
	}

	return &RedisStore{client: client, prefix: opts.Prefix}, nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// PutIfAbsent writes with SET NX so an existing ref is never overwritten.
func (r *RedisStore) PutIfAbsent(ctx context.Context, key string, value []byte, expiresAt *time.Time) (bool, error) {
	var ttl time.Duration
	if expiresAt != nil {
		ttl = time.Until(*expiresAt)
		if ttl <= 0 {
			return false, fmt.Errorf("%w: expiry %s is not in the future", core.ErrSecretStore, expiresAt.UTC().Format(time.RFC3339))
		}
	}
	stored, err := r.client.SetNX(ctx, r.prefix+key, value, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%w: redis setnx: %v", core.ErrSecretStore, err)
	}
	return stored, nil
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("%w: redis get: %v", core.ErrSecretStore, err)
	}
	return value, nil
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("%w: redis del: %v", core.ErrSecretStore, err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
