package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/storelane/catalog_api/internal/models"
)

// List cache keys for the storefront carousel endpoints.
const (
	KeyTopProducts = "catalog:products:top"
	KeyNewProducts = "catalog:products:new"
)

// listTTL bounds staleness of the cached carousel lists. Writes invalidate
// eagerly, the TTL is the backstop.
const listTTL = 5 * time.Minute

// CatalogCache caches read-heavy product lists (top rated, newest) in Redis.
type CatalogCache struct {
	redis *RedisClient
}

// NewCatalogCache creates a new CatalogCache.
func NewCatalogCache(redis *RedisClient) *CatalogCache {
	return &CatalogCache{redis: redis}
}

// GetProducts returns the cached product list for key, or ok=false on a miss
// or decode failure.
func (c *CatalogCache) GetProducts(ctx context.Context, key string) ([]models.Product, bool) {
	raw, err := c.redis.Get(ctx, key)
	if err != nil {
		return nil, false
	}

	var products []models.Product
	if err := json.Unmarshal([]byte(raw), &products); err != nil {
		return nil, false
	}
	return products, true
}

// SetProducts stores a product list under key.
func (c *CatalogCache) SetProducts(ctx context.Context, key string, products []models.Product) error {
	raw, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to marshal product list: %w", err)
	}
	return c.redis.Set(ctx, key, string(raw), listTTL)
}

// InvalidateLists drops all cached product lists. Called after any catalog
// write so readers never see a deleted or stale-rated product in a carousel
// beyond the TTL.
func (c *CatalogCache) InvalidateLists(ctx context.Context) error {
	return c.redis.Delete(ctx, KeyTopProducts, KeyNewProducts)
}
