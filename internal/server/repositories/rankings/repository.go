// Package rankings provides the repository contract and PostgreSQL
// implementation for vendor rankings.
package rankings

import (
	"context"

	"github.com/ksolovey/modacart/internal/server/models"
)

// Repository defines persistence operations for vendor rankings.
type Repository interface {
	// Upsert inserts the customer's ranking of a vendor, or replaces their
	// previous one (one ranking per customer per vendor).
	Upsert(ctx context.Context, ranking *models.Ranking) (*models.Ranking, error)

	// ListByVendor returns a vendor's rankings, newest first.
	ListByVendor(ctx context.Context, vendorID string) ([]*models.Ranking, error)

	// AverageScore returns the vendor's mean score and the ranking count.
	// A vendor with no rankings has average 0 and count 0.
	AverageScore(ctx context.Context, vendorID string) (float64, int, error)
}
