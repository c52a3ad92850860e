package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/shadeapp/shade-backend/internal/logger"
	"github.com/shadeapp/shade-backend/internal/types"
)

// CatalogCache caches catalog listing responses. The catalog is globally
// readable, so cached entries carry no per-user data.
type CatalogCache interface {
	Get(ctx context.Context, key string) ([]*types.ExternalProduct, bool)
	Set(ctx context.Context, key string, products []*types.ExternalProduct)
	Close() error
}

type catalogCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewCatalogCache(log *logger.Logger) (CatalogCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &catalogCache{
		log: log.With("client", "CatalogCache"),
		rdb: rdb,
		ttl: 5 * time.Minute,
	}, nil
}

func (c *catalogCache) Get(ctx context.Context, key string) ([]*types.ExternalProduct, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, "catalog:"+key).Bytes()
	if err != nil {
		return nil, false
	}
	var products []*types.ExternalProduct
	if err := json.Unmarshal(raw, &products); err != nil {
		c.log.Warn("Failed to decode cached catalog entry", "error", err)
		return nil, false
	}
	return products, true
}

func (c *catalogCache) Set(ctx context.Context, key string, products []*types.ExternalProduct) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(products)
	if err != nil {
		c.log.Warn("Failed to encode catalog entry for cache", "error", err)
		return
	}
	if err := c.rdb.Set(ctx, "catalog:"+key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("Failed to write catalog cache entry", "error", err)
	}
}

func (c *catalogCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
