// Package redis implements the storage port on a Redis instance, for
// deployments where the data directory is not durable.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/abenezerg/pluszone/pkg/logger"
)

// Store persists each collection key as one JSON string value. Keys carry
// the "plus_" namespace already, so no extra prefixing is applied.
type Store struct {
	client *redis.Client
	log    *logger.Logger
}

// New returns a store over an established client.
func New(client *redis.Client, log *logger.Logger) *Store {
	return &Store{
		client: client,
		log:    log.WithField("component", "redisstore"),
	}
}

// Connect dials Redis and verifies the connection before returning a store.
func Connect(ctx context.Context, addr, password string, log *logger.Logger) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	return New(client, log), nil
}

// Get reads and decodes one collection value.
func (s *Store) Get(ctx context.Context, key string, dest any) (bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		s.log.Error("redis get failed", "key", key, "error", err)
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Set encodes value and overwrites the collection key. Values persist
// without a TTL; this is primary storage, not a cache.
func (s *Store) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		s.log.Error("redis set failed", "key", key, "error", err)
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
