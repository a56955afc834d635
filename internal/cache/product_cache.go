package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"shopfront/internal/domain"
)

// ProductCache keeps product detail documents (product, variants, images)
// in Redis under product:<id>. Redis failures are logged and treated as misses.
type ProductCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewProductCache(rdb *redis.Client, ttl time.Duration) *ProductCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ProductCache{redis: rdb, ttl: ttl}
}

func productKey(id int64) string { return fmt.Sprintf("product:%d", id) }

func (c *ProductCache) Get(ctx context.Context, id int64) (domain.ProductDetail, bool) {
	var d domain.ProductDetail
	data, err := c.redis.Get(ctx, productKey(id)).Bytes()
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &d); err != nil {
			log.Printf("[cache] bad product entry %d (continuing with DB): %v", id, err)
			return d, false
		}
		return d, true
	case errors.Is(err, redis.Nil):
	default:
		log.Printf("[cache] redis error (continuing with DB): %v", err)
	}
	return d, false
}

func (c *ProductCache) Set(ctx context.Context, d domain.ProductDetail) {
	data, err := json.Marshal(d)
	if err != nil {
		log.Printf("[cache] marshal product %d: %v", d.ID, err)
		return
	}
	if err := c.redis.Set(ctx, productKey(d.ID), data, c.ttl).Err(); err != nil {
		log.Printf("[cache] set product %d: %v", d.ID, err)
	}
}

func (c *ProductCache) Invalidate(ctx context.Context, id int64) {
	if err := c.redis.Del(ctx, productKey(id)).Err(); err != nil {
		log.Printf("[cache] delete product %d: %v", id, err)
	}
}
