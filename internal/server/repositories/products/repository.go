// Package products provides the repository contract and PostgreSQL
// implementation for catalog items and their color/size variants.
package products

import (
	"context"

	"github.com/ksolovey/modacart/internal/server/models"
)

// Filter narrows List results. Zero values mean "no constraint".
type Filter struct {
	Category string
	VendorID string
	// ActiveOnly hides deactivated products (the storefront default).
	ActiveOnly bool
	Limit      int
	Offset     int
}

// Repository defines persistence operations for products.
type Repository interface {
	// Create inserts the product and returns it with its generated id.
	// Variants are not inserted here; use ReplaceColors/ReplaceSizes.
	Create(ctx context.Context, p *models.Product) (*models.Product, error)

	// GetByID returns the product with its color and size variants loaded.
	// Returns common.ErrorNotFound when absent.
	GetByID(ctx context.Context, id string) (*models.Product, error)

	// List returns products matching the filter, without variants.
	List(ctx context.Context, f Filter) ([]*models.Product, error)

	// Update rewrites the mutable fields of the product identified by p.ID,
	// guarded by vendorID ownership. Returns common.ErrorNotFound when no
	// row matches.
	Update(ctx context.Context, vendorID string, p *models.Product) error

	// Delete removes the product, guarded by vendorID ownership.
	Delete(ctx context.Context, vendorID, id string) error

	// ReplaceColors swaps the product's color variants for the given set.
	ReplaceColors(ctx context.Context, productID string, names []string) error

	// ReplaceSizes swaps the product's size variants for the given set.
	ReplaceSizes(ctx context.Context, productID string, names []string) error

	// DecrementStock subtracts quantity from the product's stock only when
	// enough stock remains; otherwise common.ErrInsufficientStock.
	DecrementStock(ctx context.Context, productID string, quantity int) error

	// IncrementStock restores quantity to the product's stock.
	IncrementStock(ctx context.Context, productID string, quantity int) error
}
