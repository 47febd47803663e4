package redis

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NoDrammaCode/nodramma-back/internal/domain"
)

// mockProductRepository implements domain.ProductRepository for tests.
type mockProductRepository struct {
	getByIDFn func(ctx context.Context, id int64) (*domain.Product, error)
	getCalls  atomic.Int64
}

func (m *mockProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	m.getCalls.Add(1)
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrProductNotFound
}

func (m *mockProductRepository) List(_ context.Context, _, _ int) ([]domain.Product, error) {
	return nil, nil
}

func (m *mockProductRepository) Create(_ context.Context, _ domain.ProductDraft) (*domain.Product, error) {
	return nil, nil
}

func (m *mockProductRepository) Update(_ context.Context, _ int64, _ domain.ProductUpdate) (*domain.Product, error) {
	return nil, nil
}

func (m *mockProductRepository) Delete(_ context.Context, _ int64) error {
	return nil
}

func testProduct(id int64) *domain.Product {
	return &domain.Product{
		ID:          id,
		Version:     1,
		Name:        "calming tea",
		Description: "herbal blend",
		Price:       990,
	}
}

// unreachableRedis returns a client whose commands always fail, exercising the
// degrade-to-database path without a server.
func unreachableRedis() goredis.Cmdable {
	return goredis.NewClient(&goredis.Options{
		Addr:            "127.0.0.1:1",
		DialTimeout:     50 * time.Millisecond,
		MaxRetries:      -1,
		PoolTimeout:     50 * time.Millisecond,
		ConnMaxIdleTime: time.Millisecond,
	})
}

// --- In-memory cache unit tests (no Redis needed) ---

func TestMemoryCache_Miss(t *testing.T) {
	cache := newMemoryCache(10*time.Second, clockwork.NewFakeClock())

	_, hit := cache.get(123)
	assert.False(t, hit, "Should be cache miss for non-existent key")
}

func TestMemoryCache_HitAndInvalidate(t *testing.T) {
	cache := newMemoryCache(10*time.Second, clockwork.NewFakeClock())

	cache.set(1, testProduct(1))

	got, hit := cache.get(1)
	require.True(t, hit)
	assert.Equal(t, "calming tea", got.Name)
	assert.Equal(t, int64(990), got.Price)

	cache.invalidate(1)
	_, hit = cache.get(1)
	assert.False(t, hit, "Should miss after invalidation")
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cache := newMemoryCache(10*time.Second, clock)

	cache.set(1, testProduct(1))

	clock.Advance(9 * time.Second)
	_, hit := cache.get(1)
	assert.True(t, hit, "Should still be cached before TTL")

	clock.Advance(2 * time.Second)
	_, hit = cache.get(1)
	assert.False(t, hit, "Should expire after TTL")
}

func TestMemoryCache_EvictExpired(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cache := newMemoryCache(10*time.Second, clock)

	cache.set(1, testProduct(1))
	cache.set(2, testProduct(2))
	clock.Advance(11 * time.Second)
	cache.set(3, testProduct(3))

	evicted := cache.evictExpired()
	assert.Equal(t, 2, evicted)
	assert.Equal(t, 1, cache.size())
}

// --- Read-through behavior with Redis unavailable ---

func TestProductCacheRepo_FallsBackToDatabase(t *testing.T) {
	repo := &mockProductRepository{
		getByIDFn: func(_ context.Context, id int64) (*domain.Product, error) {
			return testProduct(id), nil
		},
	}
	cache := NewProductCacheRepo(unreachableRedis(), repo, 10*time.Second, time.Hour, clockwork.NewFakeClock())

	product, err := cache.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), product.ID)
	assert.EqualValues(t, 1, repo.getCalls.Load())
}

func TestProductCacheRepo_MemoryHitSkipsDatabase(t *testing.T) {
	repo := &mockProductRepository{
		getByIDFn: func(_ context.Context, id int64) (*domain.Product, error) {
			return testProduct(id), nil
		},
	}
	cache := NewProductCacheRepo(unreachableRedis(), repo, 10*time.Second, time.Hour, clockwork.NewFakeClock())

	ctx := context.Background()
	_, err := cache.GetByID(ctx, 7)
	require.NoError(t, err)

	_, err = cache.GetByID(ctx, 7)
	require.NoError(t, err)

	assert.EqualValues(t, 1, repo.getCalls.Load(), "Second read should be served from L1")
}

func TestProductCacheRepo_NotFoundPassesThrough(t *testing.T) {
	repo := &mockProductRepository{}
	cache := NewProductCacheRepo(unreachableRedis(), repo, 10*time.Second, time.Hour, clockwork.NewFakeClock())

	_, err := cache.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
