package rankings

import (
	"context"
	"fmt"

	"github.com/ksolovey/modacart/internal/dbx"
	"github.com/ksolovey/modacart/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, ranking *models.Ranking) (*models.Ranking, error) {
	query := `
		INSERT INTO rankings (vendor_id, customer_id, score, comment)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (vendor_id, customer_id)
		DO UPDATE SET score = EXCLUDED.score, comment = EXCLUDED.comment, created_at = now()
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		ranking.VendorID, ranking.CustomerID, ranking.Score, ranking.Comment,
	).Scan(&ranking.ID, &ranking.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ranking, nil
}

func (r *PostgresRepository) ListByVendor(ctx context.Context, vendorID string) ([]*models.Ranking, error) {
	query := `
		SELECT id, vendor_id, customer_id, score, comment, created_at
		FROM rankings
		WHERE vendor_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, vendorID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Ranking
	for rows.Next() {
		ranking := &models.Ranking{}
		if err := rows.Scan(&ranking.ID, &ranking.VendorID, &ranking.CustomerID,
			&ranking.Score, &ranking.Comment, &ranking.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, ranking)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) AverageScore(ctx context.Context, vendorID string) (float64, int, error) {
	query := `
		SELECT COALESCE(AVG(score), 0), COUNT(*)
		FROM rankings
		WHERE vendor_id = $1
	`
	var avg float64
	var count int
	if err := r.db.QueryRowContext(ctx, query, vendorID).Scan(&avg, &count); err != nil {
		return 0, 0, fmt.Errorf("db error: %w", err)
	}
	return avg, count, nil
}
