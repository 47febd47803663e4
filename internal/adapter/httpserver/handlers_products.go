package httpserver

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/NoDrammaCode/nodramma-back/internal/domain"
	apperrors "github.com/NoDrammaCode/nodramma-back/internal/errors"
)

const idempotencyKeyHeader = "Idempotency-Key"

type productPayload struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *int64  `json:"price"`
	Version     *int    `json:"version"`
}

type productResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Version:     p.Version,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func parseProductID(c echo.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.ValidationError("invalid product id").WithField("id", raw)
	}
	return id, nil
}

// validateDraft checks the shared create/update field constraints.
func validateDraft(p productPayload) (domain.ProductDraft, *apperrors.Error) {
	if p.Name == nil || *p.Name == "" {
		return domain.ProductDraft{}, apperrors.ValidationError("name is required")
	}
	if len(*p.Name) > domain.MaxNameLength {
		return domain.ProductDraft{}, apperrors.ValidationError("name is too long").
			WithField("max_length", domain.MaxNameLength)
	}
	if p.Description == nil || *p.Description == "" {
		return domain.ProductDraft{}, apperrors.ValidationError("description is required")
	}
	if len(*p.Description) > domain.MaxDescriptionLength {
		return domain.ProductDraft{}, apperrors.ValidationError("description is too long").
			WithField("max_length", domain.MaxDescriptionLength)
	}
	if p.Price == nil {
		return domain.ProductDraft{}, apperrors.ValidationError("price is required")
	}
	if *p.Price < 0 {
		return domain.ProductDraft{}, apperrors.ValidationError("price must not be negative").
			WithField("price", *p.Price)
	}

	return domain.ProductDraft{
		Name:        *p.Name,
		Description: *p.Description,
		Price:       *p.Price,
	}, nil
}

func (s *Server) handleListProducts(c echo.Context) error {
	limit, err := parsePagingParam(c.QueryParam("limit"), "limit")
	if err != nil {
		return err
	}
	offset, err := parsePagingParam(c.QueryParam("offset"), "offset")
	if err != nil {
		return err
	}

	products, err := s.app.ListProducts(c.Request().Context(), limit, offset)
	if err != nil {
		return apperrors.InternalError("failed to list products", err)
	}

	resp := lo.Map(products, func(p domain.Product, _ int) productResponse {
		return toProductResponse(p)
	})

	if err := c.JSON(http.StatusOK, resp); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func parsePagingParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, apperrors.ValidationError("invalid paging parameter").WithField(name, raw)
	}
	return value, nil
}

func (s *Server) handleGetProduct(c echo.Context) error {
	id, err := parseProductID(c)
	if err != nil {
		return err
	}

	product, err := s.app.GetProduct(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return apperrors.NotFoundError("product not found").WithField("product_id", id)
		}
		return apperrors.InternalError("failed to load product", err).WithField("product_id", id)
	}

	if err := c.JSON(http.StatusOK, toProductResponse(*product)); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleCreateProduct(c echo.Context) error {
	// The raw body is read (not bound) so the idempotency hash covers the
	// exact payload the client sent.
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return apperrors.ValidationError("failed to read request body")
	}

	var payload productPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return apperrors.ValidationError("invalid JSON body")
	}

	draft, verr := validateDraft(payload)
	if verr != nil {
		return verr
	}

	idem, err := parseIdempotencyKey(c, body)
	if err != nil {
		return err
	}

	result, err := s.app.CreateProduct(c.Request().Context(), draft, idem)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrIdempotencyMismatch):
			return apperrors.ConflictError("idempotency key reused with a different payload").
				WithField("idempotency_key", idem.Key.String())
		case errors.Is(err, domain.ErrProductNotFound):
			// Replay target was deleted after the original create.
			return apperrors.ConflictError("original product for this idempotency key no longer exists").
				WithField("idempotency_key", idem.Key.String())
		default:
			return apperrors.InternalError("failed to create product", err)
		}
	}

	if result.Replayed {
		c.Response().Header().Set("Idempotent-Replay", "true")
	}

	if err := c.JSON(result.Status, toProductResponse(*result.Product)); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func parseIdempotencyKey(c echo.Context, body []byte) (*domain.IdempotencyKey, error) {
	raw := c.Request().Header.Get(idempotencyKeyHeader)
	if raw == "" {
		return nil, nil
	}

	key, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperrors.ValidationError("Idempotency-Key must be a valid UUID").
			WithField("idempotency_key", raw)
	}

	sum := sha256.Sum256(body)
	return &domain.IdempotencyKey{
		Key:         key,
		RequestHash: hex.EncodeToString(sum[:]),
	}, nil
}

func (s *Server) handleUpdateProduct(c echo.Context) error {
	id, err := parseProductID(c)
	if err != nil {
		return err
	}

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return apperrors.ValidationError("invalid JSON body")
	}

	draft, verr := validateDraft(payload)
	if verr != nil {
		return verr
	}
	if payload.Version == nil || *payload.Version < 1 {
		return apperrors.ValidationError("version is required")
	}

	update := domain.ProductUpdate{
		Name:        draft.Name,
		Description: draft.Description,
		Price:       draft.Price,
		Version:     *payload.Version,
	}

	product, err := s.app.UpdateProduct(c.Request().Context(), id, update)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProductNotFound):
			return apperrors.NotFoundError("product not found").WithField("product_id", id)
		case errors.Is(err, domain.ErrVersionConflict):
			return apperrors.ConflictError("product was modified concurrently").
				WithField("product_id", id).
				WithField("submitted_version", *payload.Version)
		default:
			return apperrors.InternalError("failed to update product", err).WithField("product_id", id)
		}
	}

	if err := c.JSON(http.StatusOK, toProductResponse(*product)); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleDeleteProduct(c echo.Context) error {
	id, err := parseProductID(c)
	if err != nil {
		return err
	}

	if err := s.app.DeleteProduct(c.Request().Context(), id); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return apperrors.NotFoundError("product not found").WithField("product_id", id)
		}
		return apperrors.InternalError("failed to delete product", err).WithField("product_id", id)
	}

	return c.NoContent(http.StatusNoContent)
}
