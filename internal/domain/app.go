package domain

import "context"

// CreateResult reports how a create request was answered. Status is the HTTP
// status to serve; on a replay it is the status stored with the original
// idempotency record rather than a freshly computed one.
type CreateResult struct {
	Product  *Product
	Status   int
	Replayed bool
}

// ProductService is the application-layer contract consumed by HTTP handlers.
type ProductService interface {
	ListProducts(ctx context.Context, limit, offset int) ([]Product, error)
	GetProduct(ctx context.Context, id int64) (*Product, error)
	// CreateProduct creates a product, or replays a previous creation when idem
	// matches a stored record.
	CreateProduct(ctx context.Context, draft ProductDraft, idem *IdempotencyKey) (CreateResult, error)
	UpdateProduct(ctx context.Context, id int64, update ProductUpdate) (*Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}
