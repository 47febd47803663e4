package httpserver

import (
	"context"
	"errors"

	"github.com/NoDrammaCode/nodramma-back/internal/config"
	"github.com/NoDrammaCode/nodramma-back/internal/domain"
)

// mockProductService lets each test plug in just the behavior it needs.
type mockProductService struct {
	listFunc   func(ctx context.Context, limit, offset int) ([]domain.Product, error)
	getFunc    func(ctx context.Context, id int64) (*domain.Product, error)
	createFunc func(ctx context.Context, draft domain.ProductDraft, idem *domain.IdempotencyKey) (domain.CreateResult, error)
	updateFunc func(ctx context.Context, id int64, update domain.ProductUpdate) (*domain.Product, error)
	deleteFunc func(ctx context.Context, id int64) error
}

func (m *mockProductService) ListProducts(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit, offset)
	}
	return nil, errors.New("listFunc not set")
}

func (m *mockProductService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, errors.New("getFunc not set")
}

func (m *mockProductService) CreateProduct(ctx context.Context, draft domain.ProductDraft, idem *domain.IdempotencyKey) (domain.CreateResult, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, draft, idem)
	}
	return domain.CreateResult{}, errors.New("createFunc not set")
}

func (m *mockProductService) UpdateProduct(ctx context.Context, id int64, update domain.ProductUpdate) (*domain.Product, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, update)
	}
	return nil, errors.New("updateFunc not set")
}

func (m *mockProductService) DeleteProduct(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return errors.New("deleteFunc not set")
}

type mockPostgresChecker struct {
	pingErr error
}

func (m *mockPostgresChecker) Ping(_ context.Context) error {
	return m.pingErr
}

func newTestServer(svc domain.ProductService) *Server {
	cfg := &config.Config{
		Port:         "0",
		RateLimitRPS: 0,
	}
	return NewServer(cfg, svc, &mockPostgresChecker{}, nil)
}
