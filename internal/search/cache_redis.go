package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"vodhub/internal/domain"
)

const redisCachePrefix = "vodhub:cache:"

// RedisCacheBackend persists search responses in Redis so cache contents
// survive restarts and are shared between replicas.
type RedisCacheBackend struct {
	client *redis.Client
}

func NewRedisCacheBackend(client *redis.Client) *RedisCacheBackend {
	if client == nil {
		return nil
	}
	return &RedisCacheBackend{client: client}
}

func (b *RedisCacheBackend) Get(ctx context.Context, key string) (domain.SearchResponse, bool, error) {
	if b == nil || b.client == nil {
		return domain.SearchResponse{}, false, nil
	}
	raw, err := b.client.Get(ctx, redisCachePrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.SearchResponse{}, false, nil
		}
		return domain.SearchResponse{}, false, fmt.Errorf("redis get: %w", err)
	}
	var response domain.SearchResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return domain.SearchResponse{}, false, fmt.Errorf("redis decode: %w", err)
	}
	return response, true, nil
}

func (b *RedisCacheBackend) Set(ctx context.Context, key string, response domain.SearchResponse, ttl time.Duration) error {
	if b == nil || b.client == nil {
		return nil
	}
	raw, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("redis encode: %w", err)
	}
	if err := b.client.Set(ctx, redisCachePrefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (b *RedisCacheBackend) Delete(ctx context.Context, key string) error {
	if b == nil || b.client == nil {
		return nil
	}
	if err := b.client.Del(ctx, redisCachePrefix+key).Err(); err != nil {
		return fmt.Errorf("redis delete: %w", err)
	}
	return nil
}

func (b *RedisCacheBackend) Ping(ctx context.Context) error {
	if b == nil || b.client == nil {
		return errors.New("redis client is not configured")
	}
	return b.client.Ping(ctx).Err()
}
