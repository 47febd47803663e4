package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NoDrammaCode/nodramma-back/internal/domain"
)

// productColumns must match the Scan order in scanProduct.
const productColumns = `id, version, name, description, price_cents, created_at, updated_at`

// ProductRepo implements domain.ProductRepository backed by PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
}

func NewProductRepo(pool *pgxpool.Pool) *ProductRepo {
	return &ProductRepo{pool: pool}
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.Version, &p.Name, &p.Description, &p.Price,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return scanProduct(r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
}

func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0, limit)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Version, &p.Name, &p.Description, &p.Price, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}

	return products, nil
}

func (r *ProductRepo) Create(ctx context.Context, draft domain.ProductDraft) (*domain.Product, error) {
	product, err := scanProduct(r.pool.QueryRow(ctx, `
		INSERT INTO products (name, description, price_cents, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING `+productColumns,
		draft.Name, draft.Description, draft.Price))
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// Update replaces the editable fields if the caller's version matches the
// stored row. A version mismatch on an existing row yields ErrVersionConflict.
func (r *ProductRepo) Update(ctx context.Context, id int64, update domain.ProductUpdate) (*domain.Product, error) {
	product, err := scanProduct(r.pool.QueryRow(ctx, `
		UPDATE products
		SET name = $1, description = $2, price_cents = $3, version = version + 1, updated_at = NOW()
		WHERE id = $4 AND version = $5
		RETURNING `+productColumns,
		update.Name, update.Description, update.Price, id, update.Version))
	if errors.Is(err, domain.ErrProductNotFound) {
		// Distinguish a missing row from a stale version.
		var exists bool
		if checkErr := r.pool.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists); checkErr != nil {
			return nil, fmt.Errorf("failed to check product existence: %w", checkErr)
		}
		if exists {
			return nil, domain.ErrVersionConflict
		}
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}
