package cartitems

import (
	"context"
	"fmt"

	"github.com/ksolovey/modacart/internal/common"
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

func (r *PostgresRepository) Add(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	query := `
		INSERT INTO cart_items (user_id, product_id, quantity, color, size)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		item.UserID, item.ProductID, item.Quantity, item.Color, item.Size,
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.CartItem, error) {
	query := `
		SELECT id, user_id, product_id, quantity, color, size, created_at
		FROM cart_items
		WHERE user_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.CartItem
	for rows.Next() {
		item := &models.CartItem{}
		if err := rows.Scan(&item.ID, &item.UserID, &item.ProductID,
			&item.Quantity, &item.Color, &item.Size, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	query := `
		UPDATE cart_items
		SET quantity = $3
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, itemID, userID, quantity)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Remove(ctx context.Context, userID, itemID string) error {
	query := `
		DELETE FROM cart_items
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, itemID, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Clear(ctx context.Context, userID string) error {
	query := `
		DELETE FROM cart_items
		WHERE user_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
