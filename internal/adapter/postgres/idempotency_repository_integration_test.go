package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NoDrammaCode/nodramma-back/internal/domain"
)

func TestIdempotencyRepo_SaveAndGet(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewIdempotencyRepo(pool)
	ctx := context.Background()

	key := uuid.New()
	record := domain.IdempotencyRecord{
		Key:            key,
		RequestHash:    "abc123",
		ResponseStatus: 201,
		ProductID:      42,
		ExpiresAt:      time.Now().UTC().Add(24 * time.Hour),
	}

	require.NoError(t, repo.Save(ctx, record))

	got, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, key, got.Key)
	assert.Equal(t, "abc123", got.RequestHash)
	assert.Equal(t, 201, got.ResponseStatus)
	assert.Equal(t, int64(42), got.ProductID)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestIdempotencyRepo_Get_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewIdempotencyRepo(pool)

	_, err := repo.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrIdempotencyKeyNotFound)
}

func TestIdempotencyRepo_Save_FirstWriteWins(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewIdempotencyRepo(pool)
	ctx := context.Background()

	key := uuid.New()
	first := domain.IdempotencyRecord{
		Key: key, RequestHash: "first", ResponseStatus: 201, ProductID: 1,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	second := domain.IdempotencyRecord{
		Key: key, RequestHash: "second", ResponseStatus: 201, ProductID: 2,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}

	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))

	got, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "first", got.RequestHash)
	assert.Equal(t, int64(1), got.ProductID)
}

func TestIdempotencyRepo_ExpiredRecordInvisible(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewIdempotencyRepo(pool)
	ctx := context.Background()

	key := uuid.New()
	record := domain.IdempotencyRecord{
		Key: key, RequestHash: "expired", ResponseStatus: 201, ProductID: 7,
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}
	require.NoError(t, repo.Save(ctx, record))

	_, err := repo.Get(ctx, key)
	assert.ErrorIs(t, err, domain.ErrIdempotencyKeyNotFound)
}

func TestIdempotencyRepo_DeleteExpired(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewIdempotencyRepo(pool)
	ctx := context.Background()

	expired := domain.IdempotencyRecord{
		Key: uuid.New(), RequestHash: "old", ResponseStatus: 201, ProductID: 1,
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
	}
	live := domain.IdempotencyRecord{
		Key: uuid.New(), RequestHash: "new", ResponseStatus: 201, ProductID: 2,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	require.NoError(t, repo.Save(ctx, expired))
	require.NoError(t, repo.Save(ctx, live))

	deleted, err := repo.DeleteExpired(ctx, time.Now().UTC())
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	_, err = repo.Get(ctx, live.Key)
	assert.NoError(t, err)
}
