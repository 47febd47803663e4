package domain

import (
	"context"
	"time"
)

const (
	MaxNameLength        = 255
	MaxDescriptionLength = 1000

	// MaxPageSize caps the limit parameter on product listings.
	MaxPageSize     = 100
	DefaultPageSize = 50
)

type Product struct {
	ID      int64
	Version int

	Name        string
	Description string
	// Price is stored in minor currency units (cents).
	Price int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductDraft carries the fields a client supplies when creating a product.
type ProductDraft struct {
	Name        string
	Description string
	Price       int64
}

// ProductUpdate is a full replacement of a product's client-editable fields.
// Version must match the stored row or the update is rejected.
type ProductUpdate struct {
	Name        string
	Description string
	Price       int64
	Version     int
}

type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*Product, error)
	List(ctx context.Context, limit, offset int) ([]Product, error)
	Create(ctx context.Context, draft ProductDraft) (*Product, error)
	Update(ctx context.Context, id int64, update ProductUpdate) (*Product, error)
	Delete(ctx context.Context, id int64) error
}

// ProductSource provides product lookup by ID, possibly through caching layers.
// Implementations should provide read-through caching (e.g., Redis → PostgreSQL).
type ProductSource interface {
	GetByID(ctx context.Context, id int64) (*Product, error)
}

// ProductCacheInvalidator removes a product from all cache layers after a write.
type ProductCacheInvalidator interface {
	Invalidate(ctx context.Context, id int64) error
}
