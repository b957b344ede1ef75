package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache provides caching and per-credit locking backed by Redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache client
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	log.Println("Redis connection established")
	return &RedisCache{client: client}, nil
}

// Set stores a value in cache with expiration
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, expiration).Err()
}

// Get retrieves a value from cache
func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// GetOrSet retrieves a value from cache, or calls the callback to fetch and cache it
// The callback is only called if the key doesn't exist in cache
func GetOrSet[T any](c *RedisCache, ctx context.Context, key string, expiration time.Duration, fn func() (T, error)) (T, error) {
	var result T

	err := c.Get(ctx, key, &result)
	if err == nil {
		return result, nil
	}

	// Cache miss or error - call the callback
	result, err = fn()
	if err != nil {
		return result, err
	}

	// Store in cache (ignore cache set errors)
	_ = c.Set(ctx, key, result, expiration)

	return result, nil
}

// Delete removes a key from cache
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// ErrLockHeld is returned when a per-credit lock could not be acquired
// within the retry window.
var ErrLockHeld = fmt.Errorf("lock is held by another writer")

// AcquireLock takes the named lock via SetNX, retrying briefly. The
// returned release function is safe to defer; the TTL bounds how long
// a crashed holder can block others.
func (c *RedisCache) AcquireLock(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	const (
		attempts = 10
		backoff  = 100 * time.Millisecond
	)
	for i := 0; i < attempts; i++ {
		ok, err := c.client.SetNX(ctx, key, 1, ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() { _ = c.client.Del(context.Background(), key).Err() }, nil
		}
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, ErrLockHeld
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}
