package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/NoDrammaCode/nodramma-back/internal/domain"
	"github.com/NoDrammaCode/nodramma-back/internal/logging"
	"github.com/NoDrammaCode/nodramma-back/internal/metrics"
)

// ProductCacheRepo is a read-through cache in front of the product repository.
// Lookup order: in-memory L1 → Redis L2 → PostgreSQL. Cache failures are
// logged and degrade to database reads, never failing the request.
type ProductCacheRepo struct {
	rdb      goredis.Cmdable
	products domain.ProductRepository
	mem      *memoryCache
	group    singleflight.Group
	redisTTL time.Duration
}

var (
	_ domain.ProductSource           = (*ProductCacheRepo)(nil)
	_ domain.ProductCacheInvalidator = (*ProductCacheRepo)(nil)
)

func NewProductCacheRepo(rdb goredis.Cmdable, products domain.ProductRepository, memTTL, redisTTL time.Duration, clock clockwork.Clock) *ProductCacheRepo {
	return &ProductCacheRepo{
		rdb:      rdb,
		products: products,
		mem:      newMemoryCache(memTTL, clock),
		redisTTL: redisTTL,
	}
}

// StartEvictionTimer runs a periodic goroutine that evicts expired in-memory
// cache entries. Returns a stop function that should be deferred.
func (r *ProductCacheRepo) StartEvictionTimer(interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	done := make(chan bool)

	go func() {
		for {
			select {
			case <-ticker.C:
				evicted := r.mem.evictExpired()
				if evicted > 0 {
					slog.Debug("Evicted expired product cache entries", "count", evicted, "remaining", r.mem.size())
				}

			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() {
		close(done)
	}
}

func (r *ProductCacheRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	// Layer 1: in-memory cache
	if product, ok := r.mem.get(id); ok {
		metrics.CacheHitsTotal.WithLabelValues("memory").Inc()
		return product, nil
	}

	// Layer 2: Redis cache
	if product, ok := r.getCached(ctx, id); ok {
		metrics.CacheHitsTotal.WithLabelValues("redis").Inc()
		r.mem.set(id, product)
		return product, nil
	}

	// Layer 3: PostgreSQL. Concurrent misses for the same id collapse into
	// one database round trip.
	metrics.CacheMissesTotal.Inc()
	result, err, _ := r.group.Do(strconv.FormatInt(id, 10), func() (any, error) {
		product, err := r.products.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		r.mem.set(id, product)
		r.writeCache(ctx, id, product)
		return product, nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("product lookup failed: %w", err)
	}

	return result.(*domain.Product), nil
}

// Invalidate evicts the product from both the in-memory cache and Redis.
func (r *ProductCacheRepo) Invalidate(ctx context.Context, id int64) error {
	r.mem.invalidate(id)
	metrics.CacheInvalidationsTotal.Inc()

	if err := r.rdb.Del(ctx, productCacheKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate product cache: %w", err)
	}
	return nil
}

func (r *ProductCacheRepo) writeCache(ctx context.Context, id int64, product *domain.Product) {
	encoded, err := json.Marshal(product)
	if err != nil {
		logging.WithProduct(id).Warn("Failed to marshal product for Redis cache", "error", err)
		return
	}

	if err := r.rdb.Set(ctx, productCacheKey(id), encoded, r.redisTTL).Err(); err != nil {
		logging.WithProduct(id).Warn("Failed to populate Redis product cache", "error", err)
	}
}

func (r *ProductCacheRepo) getCached(ctx context.Context, id int64) (*domain.Product, bool) {
	data, err := r.rdb.Get(ctx, productCacheKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			logging.WithProduct(id).Warn("Redis product cache GET failed", "error", err)
		}
		return nil, false
	}

	var product domain.Product
	if err := json.Unmarshal(data, &product); err != nil {
		logging.WithProduct(id).Warn("Failed to unmarshal cached product", "error", err)
		return nil, false
	}

	return &product, true
}

func productCacheKey(id int64) string {
	return "product_cache:" + strconv.FormatInt(id, 10)
}

// memoryCache is an in-memory L1 cache with TTL-based expiry.
type memoryCache struct {
	mu      sync.RWMutex
	entries map[int64]*memoryCacheEntry
	ttl     time.Duration
	clock   clockwork.Clock
}

type memoryCacheEntry struct {
	product   domain.Product
	expiresAt time.Time
}

func newMemoryCache(ttl time.Duration, clock clockwork.Clock) *memoryCache {
	return &memoryCache{
		entries: make(map[int64]*memoryCacheEntry),
		ttl:     ttl,
		clock:   clock,
	}
}

func (c *memoryCache) get(id int64) (*domain.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[id]
	if !ok || c.clock.Now().After(entry.expiresAt) {
		return nil, false
	}

	product := entry.product
	return &product, true
}

func (c *memoryCache) set(id int64, product *domain.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[id] = &memoryCacheEntry{
		product:   *product,
		expiresAt: c.clock.Now().Add(c.ttl),
	}
}

func (c *memoryCache) invalidate(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, id)
}

func (c *memoryCache) evictExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	evicted := 0
	for id, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, id)
			evicted++
		}
	}
	return evicted
}

func (c *memoryCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
