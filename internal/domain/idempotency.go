package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// IdempotencyKey identifies a create request for safe retries. RequestHash is
// a hex-encoded SHA-256 of the request payload, used to detect key reuse with
// a different body.
type IdempotencyKey struct {
	Key         uuid.UUID
	RequestHash string
}

// IdempotencyRecord is the stored outcome of a completed create request.
type IdempotencyRecord struct {
	Key            uuid.UUID
	RequestHash    string
	ResponseStatus int
	ProductID      int64
	CreatedAt      time.Time
	ExpiresAt      time.Time
}

type IdempotencyRepository interface {
	Get(ctx context.Context, key uuid.UUID) (*IdempotencyRecord, error)
	Save(ctx context.Context, record IdempotencyRecord) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
