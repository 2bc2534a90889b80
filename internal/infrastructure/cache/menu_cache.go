package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sangkips/restaurant-pos-api/internal/domain/entity"
)

const menuKey = "pos:menu"

// MenuCache stores the public menu between dish and category writes.
type MenuCache interface {
	Get(ctx context.Context) ([]entity.Category, bool, error)
	Set(ctx context.Context, menu []entity.Category) error
	Invalidate(ctx context.Context) error
}

type redisMenuCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisMenuCache(client *redis.Client, ttl time.Duration) MenuCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &redisMenuCache{client: client, ttl: ttl}
}

func (c *redisMenuCache) Get(ctx context.Context) ([]entity.Category, bool, error) {
	raw, err := c.client.Get(ctx, menuKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("menu cache get: %w", err)
	}

	var menu []entity.Category
	if err := json.Unmarshal(raw, &menu); err != nil {
		// A payload from an older layout is treated as a miss.
		return nil, false, nil
	}
	return menu, true, nil
}

func (c *redisMenuCache) Set(ctx context.Context, menu []entity.Category) error {
	raw, err := json.Marshal(menu)
	if err != nil {
		return fmt.Errorf("menu cache encode: %w", err)
	}
	if err := c.client.Set(ctx, menuKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("menu cache set: %w", err)
	}
	return nil
}

func (c *redisMenuCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, menuKey).Err(); err != nil {
		return fmt.Errorf("menu cache invalidate: %w", err)
	}
	return nil
}

type nopMenuCache struct{}

// NewNopMenuCache is used when redis is disabled; every Get is a miss.
func NewNopMenuCache() MenuCache {
	return nopMenuCache{}
}

func (nopMenuCache) Get(context.Context) ([]entity.Category, bool, error) { return nil, false, nil }
func (nopMenuCache) Set(context.Context, []entity.Category) error          { return nil }
func (nopMenuCache) Invalidate(context.Context) error                      { return nil }
