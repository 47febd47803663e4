package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/NoDrammaCode/nodramma-back/internal/domain"
)

// CreateTestProduct is a helper that creates a product with default values for testing.
func CreateTestProduct(t *testing.T, repo *ProductRepo, name string) *domain.Product {
	t.Helper()

	product, err := repo.Create(context.Background(), domain.ProductDraft{
		Name:        name,
		Description: "description of " + name,
		Price:       1990,
	})
	require.NoError(t, err)
	require.NotZero(t, product.ID)

	return product
}
