// Package orders provides the repository contract and PostgreSQL
// implementation for orders and their item snapshots.
package orders

import (
	"context"

	"github.com/ksolovey/modacart/internal/server/models"
)

// Repository defines persistence operations for orders.
type Repository interface {
	// Create inserts the order header and its items.
	Create(ctx context.Context, order *models.Order) (*models.Order, error)

	// GetByID returns the order with items loaded.
	// Returns common.ErrorNotFound when absent.
	GetByID(ctx context.Context, id string) (*models.Order, error)

	// ListByCustomer returns the customer's orders, newest first,
	// without items.
	ListByCustomer(ctx context.Context, customerID string) ([]*models.Order, error)

	// ListByVendor returns orders containing at least one of the vendor's
	// items, newest first, without items.
	ListByVendor(ctx context.Context, vendorID string) ([]*models.Order, error)

	// UpdateStatus moves the order from one status to another. The update
	// is conditional on the current status, so concurrent transitions
	// cannot double-apply; a miss yields common.ErrorNotFound.
	UpdateStatus(ctx context.Context, orderID, fromStatus, toStatus string) error
}
