// Package cartitems provides the repository contract and PostgreSQL
// implementation for shopping cart rows.
package cartitems

import (
	"context"

	"github.com/ksolovey/modacart/internal/server/models"
)

// Repository defines persistence operations for cart items.
type Repository interface {
	// Add inserts a cart row and returns it with its generated id.
	Add(ctx context.Context, item *models.CartItem) (*models.CartItem, error)

	// ListByUser returns the user's cart, oldest first.
	ListByUser(ctx context.Context, userID string) ([]*models.CartItem, error)

	// UpdateQuantity sets the quantity of the user's cart row.
	// Returns common.ErrorNotFound when the row is absent or owned by
	// someone else.
	UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) error

	// Remove deletes the user's cart row.
	Remove(ctx context.Context, userID, itemID string) error

	// Clear deletes every cart row belonging to the user.
	Clear(ctx context.Context, userID string) error
}
