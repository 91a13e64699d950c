package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"farmconnect/internal/domain"

	"github.com/go-redis/redis/v8"
)

// OrderCache stores order lists as JSON with a short TTL. Misses and redis
// failures look the same to callers.
type OrderCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewOrderCache(rdb *redis.Client, ttl time.Duration) *OrderCache {
	return &OrderCache{rdb: rdb, ttl: ttl}
}

func (c *OrderCache) Get(ctx context.Context, key string) ([]domain.Order, bool) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("order cache get %s: %v", key, err)
		}
		return nil, false
	}
	var orders []domain.Order
	if err := json.Unmarshal(b, &orders); err != nil {
		return nil, false
	}
	return orders, true
}

func (c *OrderCache) Set(ctx context.Context, key string, orders []domain.Order) {
	data, err := json.Marshal(orders)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("order cache set %s: %v", key, err)
	}
}

func (c *OrderCache) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Printf("order cache del %v: %v", keys, err)
	}
}
