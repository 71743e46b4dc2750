// Copyright (C) 2026 ISA Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCacheConfig configures the optional warm cache in front of a
// durable Store.
type RedisCacheConfig struct {
	Address  string
	Password string
	DB       int

	// Prefix namespaces every key this cache touches, so one Redis
	// instance can be shared across devices or environments.
	Prefix string

	// TTL is how long a cached value survives before Redis expires it.
	// Zero means cached entries never expire on their own.
	TTL time.Duration
}

// RedisCache wraps a durable Store with a read-through, write-through
// Redis cache. Reads try Redis first and fall back to the backing Store
// on a miss, repopulating Redis; writes and deletes go to both.
type RedisCache struct {
	backing Store
	client  *redis.Client
	prefix  string
	ttl     time.Duration
}

var _ Store = (*RedisCache)(nil)

// NewRedisCache connects to Redis and wraps backing with a warm cache.
func NewRedisCache(ctx context.Context, backing Store, cfg RedisCacheConfig) (*RedisCache, error) {
	if backing == nil {
		return nil, errors.New("store: redis cache requires a non-nil backing store")
	}
	if cfg.Address == "" {
		return nil, errors.New("store: redis address must not be empty")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("store: connect to redis: %w", err)
	}
	return &RedisCache{backing: backing, client: client, prefix: cfg.Prefix, ttl: cfg.TTL}, nil
}

func (c *RedisCache) cacheKey(key string) string {
	return c.prefix + key
}

// Save writes through to both Redis and the backing store.
func (c *RedisCache) Save(ctx context.Context, key string, value []byte) error {
	if err := c.backing.Save(ctx, key, value); err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.cacheKey(key), value, c.ttl).Err(); err != nil {
		return fmt.Errorf("store: redis cache write: %w", err)
	}
	return nil
}

// Load tries Redis first, falling back to the backing store on a miss and
// repopulating the cache before returning.
func (c *RedisCache) Load(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.cacheKey(key)).Bytes()
	if err == nil {
		return val, nil
	}
	if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("store: redis cache read: %w", err)
	}

	val, err = c.backing.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if setErr := c.client.Set(ctx, c.cacheKey(key), val, c.ttl).Err(); setErr != nil {
		return val, nil // the backing read succeeded; a cache repopulation failure is not fatal
	}
	return val, nil
}

// Exists checks Redis first, falling back to the backing store on a miss.
func (c *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, c.cacheKey(key)).Result()
	if err == nil && n > 0 {
		return true, nil
	}
	return c.backing.Exists(ctx, key)
}

// Delete removes key from both Redis and the backing store.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.backing.Delete(ctx, key); err != nil {
		return err
	}
	if err := c.client.Del(ctx, c.cacheKey(key)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("store: redis cache delete: %w", err)
	}
	return nil
}

// Iterate always walks the backing store: Redis holds only a subset of
// keys and cannot be relied on for full enumeration.
func (c *RedisCache) Iterate(ctx context.Context, fn func(key string, value []byte) bool) error {
	return c.backing.Iterate(ctx, fn)
}

// Close closes the Redis client. The backing store is left open; callers
// own its lifecycle independently.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
