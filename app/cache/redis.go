package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blogledger/app/models"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures a RedisCache
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisCache implements the Cache interface using Redis
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis and verifies the connection
func NewRedisCache(ctx context.Context, opts RedisOptions) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 2 * time.Second,
		ReadTimeout: 2 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", opts.Addr, err)
	}

	return &RedisCache{client: client, ttl: opts.TTL}, nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) Get(ctx context.Context, addr models.Address, dst interface{}) (bool, error) {
	data, err := c.client.Get(ctx, cacheKey(addr)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, decode(data, dst)
}

func (c *RedisCache) Set(ctx context.Context, addr models.Address, value interface{}) error {
	data, err := encode(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(addr), data, c.ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, addrs ...models.Address) error {
	if len(addrs) == 0 {
		return nil
	}
	keys := make([]string, len(addrs))
	for i, addr := range addrs {
		keys[i] = cacheKey(addr)
	}
	return c.client.Del(ctx, keys...).Err()
}
