package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"blogledger/app/models"
)

const keyPrefix = "blogledger:record:"

// Cache holds decoded records by address. A miss is (false, nil).
type Cache interface {
	Get(ctx context.Context, addr models.Address, dst interface{}) (bool, error)
	Set(ctx context.Context, addr models.Address, value interface{}) error
	Delete(ctx context.Context, addrs ...models.Address) error
	Close() error
}

func cacheKey(addr models.Address) string {
	return keyPrefix + addr.String()
}

func encode(value interface{}) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cache value: %w", err)
	}
	return data, nil
}

func decode(data []byte, dst interface{}) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to decode cache value: %w", err)
	}
	return nil
}

// NoOpCache implements the Cache interface but does nothing
type NoOpCache struct{}

// Get always misses
func (NoOpCache) Get(ctx context.Context, addr models.Address, dst interface{}) (bool, error) {
	return false, nil
}

// Set does nothing
func (NoOpCache) Set(ctx context.Context, addr models.Address, value interface{}) error {
	return nil
}

// Delete does nothing
func (NoOpCache) Delete(ctx context.Context, addrs ...models.Address) error {
	return nil
}

func (NoOpCache) Close() error {
	return nil
}
