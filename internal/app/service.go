package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/NoDrammaCode/nodramma-back/internal/domain"
	"github.com/NoDrammaCode/nodramma-back/internal/logging"
	"github.com/NoDrammaCode/nodramma-back/internal/metrics"
)

// Service is the application layer, the only component that references
// multiple domain components. It orchestrates all use cases.
type Service struct {
	products    domain.ProductRepository
	idempotency domain.IdempotencyRepository
	source      domain.ProductSource
	invalidator domain.ProductCacheInvalidator
	clock       clockwork.Clock
	idemTTL     time.Duration
}

var _ domain.ProductService = (*Service)(nil)

// NewService creates the application layer service.
// source may be the repository itself when caching is disabled;
// invalidator may be nil in that case.
func NewService(products domain.ProductRepository, idempotency domain.IdempotencyRepository, source domain.ProductSource, invalidator domain.ProductCacheInvalidator, clock clockwork.Clock, idemTTL time.Duration) *Service {
	return &Service{
		products:    products,
		idempotency: idempotency,
		source:      source,
		invalidator: invalidator,
		clock:       clock,
		idemTTL:     idemTTL,
	}
}

// ListProducts returns a page of products. Out-of-range paging parameters are
// clamped rather than rejected.
func (s *Service) ListProducts(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = domain.DefaultPageSize
	}
	if limit > domain.MaxPageSize {
		limit = domain.MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	return s.products.List(ctx, limit, offset)
}

// GetProduct retrieves a single product through the read path (cache if configured).
func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.source.GetByID(ctx, id)
}

// CreateProduct creates a product. When idem is non-nil the creation is
// idempotent: a repeated key with the same payload replays the original
// result with its stored response status, a repeated key with a different
// payload fails with ErrIdempotencyMismatch.
func (s *Service) CreateProduct(ctx context.Context, draft domain.ProductDraft, idem *domain.IdempotencyKey) (domain.CreateResult, error) {
	if idem == nil {
		product, err := s.products.Create(ctx, draft)
		if err != nil {
			return domain.CreateResult{}, err
		}
		return domain.CreateResult{Product: product, Status: http.StatusCreated}, nil
	}

	record, err := s.idempotency.Get(ctx, idem.Key)
	if err == nil {
		if record.RequestHash != idem.RequestHash {
			metrics.IdempotencyConflictsTotal.Inc()
			return domain.CreateResult{}, domain.ErrIdempotencyMismatch
		}

		product, err := s.source.GetByID(ctx, record.ProductID)
		if err != nil {
			// The product was deleted after the original create; the stored
			// record still answers for the original request.
			if errors.Is(err, domain.ErrProductNotFound) {
				return domain.CreateResult{}, domain.ErrProductNotFound
			}
			return domain.CreateResult{}, err
		}

		metrics.IdempotentReplaysTotal.Inc()
		return domain.CreateResult{
			Product:  product,
			Status:   record.ResponseStatus,
			Replayed: true,
		}, nil
	}
	if !errors.Is(err, domain.ErrIdempotencyKeyNotFound) {
		return domain.CreateResult{}, err
	}

	product, err := s.products.Create(ctx, draft)
	if err != nil {
		return domain.CreateResult{}, err
	}

	saveErr := s.idempotency.Save(ctx, domain.IdempotencyRecord{
		Key:            idem.Key,
		RequestHash:    idem.RequestHash,
		ResponseStatus: http.StatusCreated,
		ProductID:      product.ID,
		ExpiresAt:      s.clock.Now().UTC().Add(s.idemTTL),
	})
	if saveErr != nil {
		// The create succeeded; a lost record only costs replay protection.
		logging.WithError(saveErr).Warn("Failed to save idempotency record", "key", idem.Key.String())
	}

	return domain.CreateResult{Product: product, Status: http.StatusCreated}, nil
}

// UpdateProduct replaces a product's fields and evicts it from the cache.
func (s *Service) UpdateProduct(ctx context.Context, id int64, update domain.ProductUpdate) (*domain.Product, error) {
	product, err := s.products.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	return product, nil
}

// DeleteProduct removes a product and evicts it from the cache.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	return nil
}

// CleanupExpiredIdempotencyKeys removes stale records. Run periodically from main.
func (s *Service) CleanupExpiredIdempotencyKeys(ctx context.Context) error {
	deleted, err := s.idempotency.DeleteExpired(ctx, s.clock.Now().UTC())
	if err != nil {
		return err
	}
	if deleted > 0 {
		slog.Info("Deleted expired idempotency records", "count", deleted)
	}
	return nil
}

// invalidate evicts a product from the cache. Eviction failures are logged,
// not returned: the write already committed and the cache entry will expire.
func (s *Service) invalidate(ctx context.Context, id int64) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx, id); err != nil {
		logging.WithProduct(id).Warn("Failed to invalidate product cache", "error", err)
	}
}
