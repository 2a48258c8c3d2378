package products

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

func (r *PostgresRepository) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	query := `
		INSERT INTO products (vendor_id, name, description, category, price, stock, image_key, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		p.VendorID, p.Name, p.Description, p.Category, p.Price, p.Stock, p.ImageKey, p.IsActive,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	query := `
		SELECT id, vendor_id, name, description, category, price, stock, image_key, is_active, created_at, updated_at
		FROM products
		WHERE id = $1
	`
	p := &models.Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.VendorID, &p.Name, &p.Description, &p.Category,
		&p.Price, &p.Stock, &p.ImageKey, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	colors, err := r.selectVariants(ctx, "product_colors", id)
	if err != nil {
		return nil, err
	}
	for _, v := range colors {
		p.Colors = append(p.Colors, models.ProductColor{ID: v.id, ProductID: id, Name: v.name})
	}

	sizes, err := r.selectVariants(ctx, "product_sizes", id)
	if err != nil {
		return nil, err
	}
	for _, v := range sizes {
		p.Sizes = append(p.Sizes, models.ProductSize{ID: v.id, ProductID: id, Name: v.name})
	}

	return p, nil
}

func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]*models.Product, error) {
	query := `
		SELECT id, vendor_id, name, description, category, price, stock, image_key, is_active, created_at, updated_at
		FROM products
		WHERE ($1 = '' OR category = $1)
		  AND ($2 = '' OR vendor_id = $2::uuid)
		  AND (NOT $3::bool OR is_active)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5
	`
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, query, f.Category, f.VendorID, f.ActiveOnly, limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Product
	for rows.Next() {
		p := &models.Product{}
		if err := rows.Scan(
			&p.ID, &p.VendorID, &p.Name, &p.Description, &p.Category,
			&p.Price, &p.Stock, &p.ImageKey, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, vendorID string, p *models.Product) error {
	query := `
		UPDATE products
		SET name = $3, description = $4, category = $5, price = $6, stock = $7,
		    image_key = $8, is_active = $9, updated_at = now()
		WHERE id = $1 AND vendor_id = $2
	`
	res, err := r.db.ExecContext(ctx, query,
		p.ID, vendorID, p.Name, p.Description, p.Category, p.Price, p.Stock, p.ImageKey, p.IsActive)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, vendorID, id string) error {
	query := `
		DELETE FROM products
		WHERE id = $1 AND vendor_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, vendorID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func (r *PostgresRepository) ReplaceColors(ctx context.Context, productID string, names []string) error {
	return r.replaceVariants(ctx, "product_colors", productID, names)
}

func (r *PostgresRepository) ReplaceSizes(ctx context.Context, productID string, names []string) error {
	return r.replaceVariants(ctx, "product_sizes", productID, names)
}

// DecrementStock is the conditional update guarding order placement: the
// stock check and the subtraction happen in one statement.
func (r *PostgresRepository) DecrementStock(ctx context.Context, productID string, quantity int) error {
	query := `
		UPDATE products
		SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND stock >= $2
	`
	res, err := r.db.ExecContext(ctx, query, productID, quantity)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrInsufficientStock
	}
	return nil
}

func (r *PostgresRepository) IncrementStock(ctx context.Context, productID string, quantity int) error {
	query := `
		UPDATE products
		SET stock = stock + $2, updated_at = now()
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, productID, quantity); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

type variant struct {
	id   string
	name string
}

func (r *PostgresRepository) selectVariants(ctx context.Context, table, productID string) ([]variant, error) {
	query := fmt.Sprintf(`SELECT id, name FROM %s WHERE product_id = $1 ORDER BY name`, table)
	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []variant
	for rows.Next() {
		var v variant
		if err := rows.Scan(&v.id, &v.name); err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) replaceVariants(ctx context.Context, table, productID string, names []string) error {
	del := fmt.Sprintf(`DELETE FROM %s WHERE product_id = $1`, table)
	if _, err := r.db.ExecContext(ctx, del, productID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	ins := fmt.Sprintf(`INSERT INTO %s (product_id, name) VALUES ($1, $2)`, table)
	for _, name := range names {
		if _, err := r.db.ExecContext(ctx, ins, productID, name); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
