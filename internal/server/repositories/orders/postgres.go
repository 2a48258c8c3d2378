package orders

import (
	"context"
	"database/sql"
	"errors"
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

func (r *PostgresRepository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	query := `
		INSERT INTO orders (customer_id, status, total, shipping_address)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		order.CustomerID, order.Status, order.Total, order.ShippingAddress,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, vendor_id, product_name, unit_price, quantity, color, size)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		err := r.db.QueryRowContext(ctx, itemQuery,
			order.ID, item.ProductID, item.VendorID, item.ProductName,
			item.UnitPrice, item.Quantity, item.Color, item.Size,
		).Scan(&item.ID)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
	}

	return order, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	query := `
		SELECT id, customer_id, status, total, shipping_address, created_at, updated_at
		FROM orders
		WHERE id = $1
	`
	order := &models.Order{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID, &order.CustomerID, &order.Status, &order.Total,
		&order.ShippingAddress, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	itemQuery := `
		SELECT id, order_id, product_id, vendor_id, product_name, unit_price, quantity, color, size
		FROM order_items
		WHERE order_id = $1
	`
	rows, err := r.db.QueryContext(ctx, itemQuery, id)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.VendorID,
			&item.ProductName, &item.UnitPrice, &item.Quantity, &item.Color, &item.Size); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *PostgresRepository) ListByCustomer(ctx context.Context, customerID string) ([]*models.Order, error) {
	query := `
		SELECT id, customer_id, status, total, shipping_address, created_at, updated_at
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC
	`
	return r.selectOrders(ctx, query, customerID)
}

func (r *PostgresRepository) ListByVendor(ctx context.Context, vendorID string) ([]*models.Order, error) {
	query := `
		SELECT DISTINCT o.id, o.customer_id, o.status, o.total, o.shipping_address, o.created_at, o.updated_at
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		WHERE oi.vendor_id = $1
		ORDER BY o.created_at DESC
	`
	return r.selectOrders(ctx, query, vendorID)
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, orderID, fromStatus, toStatus string) error {
	query := `
		UPDATE orders
		SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2
	`
	res, err := r.db.ExecContext(ctx, query, orderID, fromStatus, toStatus)
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

func (r *PostgresRepository) selectOrders(ctx context.Context, query string, arg any) ([]*models.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Order
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(&order.ID, &order.CustomerID, &order.Status, &order.Total,
			&order.ShippingAddress, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
