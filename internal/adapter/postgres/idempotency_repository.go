package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NoDrammaCode/nodramma-back/internal/domain"
)

// IdempotencyRepo implements domain.IdempotencyRepository backed by PostgreSQL.
type IdempotencyRepo struct {
	pool *pgxpool.Pool
}

func NewIdempotencyRepo(pool *pgxpool.Pool) *IdempotencyRepo {
	return &IdempotencyRepo{pool: pool}
}

func (r *IdempotencyRepo) Get(ctx context.Context, key uuid.UUID) (*domain.IdempotencyRecord, error) {
	var rec domain.IdempotencyRecord
	err := r.pool.QueryRow(ctx, `
		SELECT key, request_hash, response_status, product_id, created_at, expires_at
		FROM idempotency_keys
		WHERE key = $1 AND expires_at > NOW()
	`, key).Scan(
		&rec.Key, &rec.RequestHash, &rec.ResponseStatus, &rec.ProductID,
		&rec.CreatedAt, &rec.ExpiresAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrIdempotencyKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load idempotency record: %w", err)
	}
	return &rec, nil
}

// Save stores a record. A concurrent save of the same key wins once; later
// saves are ignored so the first stored response stays authoritative.
func (r *IdempotencyRepo) Save(ctx context.Context, record domain.IdempotencyRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO idempotency_keys (key, request_hash, response_status, product_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4, NOW(), $5)
		ON CONFLICT (key) DO NOTHING
	`, record.Key, record.RequestHash, record.ResponseStatus, record.ProductID, record.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to save idempotency record: %w", err)
	}
	return nil
}

func (r *IdempotencyRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM idempotency_keys WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired idempotency records: %w", err)
	}
	return tag.RowsAffected(), nil
}
