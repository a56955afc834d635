package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"shopfront/internal/domain"
)

// An unreachable server must degrade to cache misses.
func TestProductCacheUnavailable(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	c := NewProductCache(rdb, 0)
	ctx := context.Background()

	c.Set(ctx, domain.ProductDetail{Product: domain.Product{ID: 1, Name: "Trail Runner GTX"}})
	if _, ok := c.Get(ctx, 1); ok {
		t.Fatal("expected a miss when redis is down")
	}
	c.Invalidate(ctx, 1)
}

func TestProductKey(t *testing.T) {
	if got := productKey(42); got != "product:42" {
		t.Fatalf("key: %q", got)
	}
}
