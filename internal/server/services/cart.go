package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ksolovey/modacart/internal/common"
	sc "github.com/ksolovey/modacart/internal/server/config"
	"github.com/ksolovey/modacart/internal/server/models"
	"github.com/ksolovey/modacart/internal/server/repositories/repomanager"
)

// CartService manages the per-customer shopping cart.
type CartService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	storeTimeout time.Duration
}

// NewCartService constructs a CartService.
func NewCartService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config) *CartService {
	return &CartService{db: db, repomanager: m, storeTimeout: cfg.StoreTimeout}
}

// Add puts a product into the user's cart. The product must exist, be
// active, and the chosen color/size must be among its variants.
func (s *CartService) Add(ctx context.Context, userID, productID string, quantity int, color, size string) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, ValidationErrors{{Field: "quantity", Message: "must be at least 1"}}
	}

	ctx, cancel := storeCtx(ctx, s.storeTimeout)
	defer cancel()

	product, err := s.repomanager.Products(s.db).GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, storeErr(err)
	}
	if !product.IsActive {
		return nil, common.ErrorNotFound
	}
	if violations := validateVariant(product, color, size); violations != nil {
		return nil, violations
	}

	item, err := s.repomanager.CartItems(s.db).Add(ctx, &models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		Color:     color,
		Size:      size,
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return item, nil
}

// List returns the user's cart, oldest first.
func (s *CartService) List(ctx context.Context, userID string) ([]*models.CartItem, error) {
	ctx, cancel := storeCtx(ctx, s.storeTimeout)
	defer cancel()

	items, err := s.repomanager.CartItems(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	return items, nil
}

// UpdateQuantity changes the quantity of a cart row owned by the user.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	if quantity < 1 {
		return ValidationErrors{{Field: "quantity", Message: "must be at least 1"}}
	}

	ctx, cancel := storeCtx(ctx, s.storeTimeout)
	defer cancel()

	err := s.repomanager.CartItems(s.db).UpdateQuantity(ctx, userID, itemID, quantity)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return storeErr(err)
	}
	return nil
}

// Remove deletes a cart row owned by the user.
func (s *CartService) Remove(ctx context.Context, userID, itemID string) error {
	ctx, cancel := storeCtx(ctx, s.storeTimeout)
	defer cancel()

	err := s.repomanager.CartItems(s.db).Remove(ctx, userID, itemID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return storeErr(err)
	}
	return nil
}

// Clear empties the user's cart.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	ctx, cancel := storeCtx(ctx, s.storeTimeout)
	defer cancel()

	if err := s.repomanager.CartItems(s.db).Clear(ctx, userID); err != nil {
		return storeErr(err)
	}
	return nil
}

// validateVariant checks a chosen color/size against the product's variant
// sets. Products with no variants of a kind accept only the empty choice.
func validateVariant(product *models.Product, color, size string) ValidationErrors {
	var violations ValidationErrors

	if color != "" || len(product.Colors) > 0 {
		found := false
		for _, c := range product.Colors {
			if c.Name == color {
				found = true
				break
			}
		}
		if !found {
			violations = append(violations, ValidationError{Field: "color", Message: "not offered for this product"})
		}
	}

	if size != "" || len(product.Sizes) > 0 {
		found := false
		for _, v := range product.Sizes {
			if v.Name == size {
				found = true
				break
			}
		}
		if !found {
			violations = append(violations, ValidationError{Field: "size", Message: "not offered for this product"})
		}
	}

	return violations
}
