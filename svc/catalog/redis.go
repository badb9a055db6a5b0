package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces catalogue keys.
const DefaultRedisPrefix = "catalog:item:"

// RedisClient is the subset of go-redis used by Redis.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	MSet(ctx context.Context, values ...any) *redis.StatusCmd
}

// Redis stores items as JSON documents under <prefix><id>.
type Redis struct {
	client RedisClient
	prefix string
}

// NewRedis returns a Redis store. An empty prefix means DefaultRedisPrefix.
func NewRedis(client RedisClient, prefix string) *Redis {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &Redis{client: client, prefix: prefix}
}

// Get fetches and decodes the item document.
func (s *Redis) Get(ctx context.Context, id string) (Item, error) {
	raw, err := s.client.Get(ctx, s.prefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("catalog: get %q: %w", id, err)
	}

	var item Item
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("catalog: decode %q: %w", id, err)
	}
	return item, nil
}

// Seed writes all items in a single MSET.
func (s *Redis) Seed(ctx context.Context, items map[string]Item) error {
	if len(items) == 0 {
		return nil
	}

	pairs := make([]any, 0, len(items)*2)
	for id, item := range items {
		doc, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("catalog: encode %q: %w", id, err)
		}
		pairs = append(pairs, s.prefix+id, doc)
	}

	if err := s.client.MSet(ctx, pairs...).Err(); err != nil {
		return fmt.Errorf("catalog: seed: %w", err)
	}
	return nil
}
