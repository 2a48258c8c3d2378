package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ksolovey/modacart/internal/common"
	"github.com/ksolovey/modacart/internal/dbx"
	sc "github.com/ksolovey/modacart/internal/server/config"
	"github.com/ksolovey/modacart/internal/server/models"
	"github.com/ksolovey/modacart/internal/server/repositories/repomanager"
)

// OrderService turns carts into orders and walks orders through their
// status lifecycle.
type OrderService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	storeTimeout time.Duration
}

// NewOrderService constructs an OrderService.
func NewOrderService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config) *OrderService {
	return &OrderService{db: db, repomanager: m, storeTimeout: cfg.StoreTimeout}
}

// PlaceOrder converts the customer's cart into a pending order. Inside one
// transaction it snapshots every cart row into an order item, decrements
// product stock, and clears the cart. Returns common.ErrEmptyCart when the
// cart has no rows and common.ErrInsufficientStock when any product cannot
// cover its quantity, leaving everything unchanged.
func (s *OrderService) PlaceOrder(ctx context.Context, customerID, shippingAddress string) (*models.Order, error) {
	if shippingAddress == "" {
		return nil, ValidationErrors{{Field: "shippingAddress", Message: "must not be empty"}}
	}

	ctx, cancel := storeCtx(ctx, s.storeTimeout)
	defer cancel()

	var created *models.Order
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		cartRepo := s.repomanager.CartItems(tx)
		productRepo := s.repomanager.Products(tx)
		orderRepo := s.repomanager.Orders(tx)

		items, err := cartRepo.ListByUser(ctx, customerID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return common.ErrEmptyCart
		}

		order := &models.Order{
			CustomerID:      customerID,
			Status:          models.OrderStatusPending,
			ShippingAddress: shippingAddress,
		}
		for _, item := range items {
			product, err := productRepo.GetByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if err := productRepo.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
			order.Items = append(order.Items, models.OrderItem{
				ProductID:   product.ID,
				VendorID:    product.VendorID,
				ProductName: product.Name,
				UnitPrice:   product.Price,
				Quantity:    item.Quantity,
				Color:       item.Color,
				Size:        item.Size,
			})
			order.Total += product.Price * int64(item.Quantity)
		}

		created, err = orderRepo.Create(ctx, order)
		if err != nil {
			return err
		}
		return cartRepo.Clear(ctx, customerID)
	})
	if err != nil {
		if errors.Is(err, common.ErrEmptyCart) || errors.Is(err, common.ErrInsufficientStock) {
			return nil, err
		}
		return nil, storeErr(err)
	}
	return created, nil
}

// Get returns an order with items. Customers see only their own orders;
// vendors see orders containing their items; admins see everything.
func (s *OrderService) Get(ctx context.Context, requesterID, role, orderID string) (*models.Order, error) {
	ctx, cancel := storeCtx(ctx, s.storeTimeout)
	defer cancel()

	order, err := s.repomanager.Orders(s.db).GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, storeErr(err)
	}
	if !canSeeOrder(order, requesterID, role) {
		return nil, common.ErrorNotFound
	}
	return order, nil
}

// ListForCustomer returns the customer's orders, newest first.
func (s *OrderService) ListForCustomer(ctx context.Context, customerID string) ([]*models.Order, error) {
	ctx, cancel := storeCtx(ctx, s.storeTimeout)
	defer cancel()

	result, err := s.repomanager.Orders(s.db).ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, storeErr(err)
	}
	return result, nil
}

// ListForVendor returns orders containing the vendor's items, newest first.
func (s *OrderService) ListForVendor(ctx context.Context, vendorID string) ([]*models.Order, error) {
	ctx, cancel := storeCtx(ctx, s.storeTimeout)
	defer cancel()

	result, err := s.repomanager.Orders(s.db).ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, storeErr(err)
	}
	return result, nil
}

// Dispatch moves a pending order to dispatched. Only a vendor with items
// in the order, or an admin, may dispatch.
func (s *OrderService) Dispatch(ctx context.Context, requesterID, role, orderID string) error {
	return s.transition(ctx, requesterID, role, orderID,
		models.OrderStatusPending, models.OrderStatusDispatched, false)
}

// Deliver moves a dispatched order to delivered. Only a vendor with items
// in the order, or an admin, may mark delivery.
func (s *OrderService) Deliver(ctx context.Context, requesterID, role, orderID string) error {
	return s.transition(ctx, requesterID, role, orderID,
		models.OrderStatusDispatched, models.OrderStatusDelivered, false)
}

// Cancel moves a pending order to cancelled and restores the stock its
// items consumed. Only the owning customer or an admin may cancel, and
// only while the order is still pending. Orders the requester cannot
// see report not-found, as Get does.
func (s *OrderService) Cancel(ctx context.Context, requesterID, role, orderID string) error {
	return s.transition(ctx, requesterID, role, orderID,
		models.OrderStatusPending, models.OrderStatusCancelled, true)
}

func (s *OrderService) transition(ctx context.Context, requesterID, role, orderID, from, to string, restock bool) error {
	ctx, cancel := storeCtx(ctx, s.storeTimeout)
	defer cancel()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		orderRepo := s.repomanager.Orders(tx)

		order, err := orderRepo.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if !canSeeOrder(order, requesterID, role) {
			return common.ErrorNotFound
		}
		if !canTransition(order, requesterID, role, to) {
			return common.ErrorForbidden
		}
		if order.Status != from {
			return common.ErrInvalidStatus
		}

		if err := orderRepo.UpdateStatus(ctx, orderID, from, to); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidStatus
			}
			return err
		}

		if restock {
			productRepo := s.repomanager.Products(tx)
			for _, item := range order.Items {
				if err := productRepo.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound),
			errors.Is(err, common.ErrorForbidden),
			errors.Is(err, common.ErrInvalidStatus):
			return err
		}
		return storeErr(err)
	}
	return nil
}

func canSeeOrder(order *models.Order, requesterID, role string) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleVendor:
		return orderHasVendor(order, requesterID)
	default:
		return order.CustomerID == requesterID
	}
}

// canTransition restricts who may move an order to a given status:
// cancellation belongs to the customer, fulfilment to the vendor.
func canTransition(order *models.Order, requesterID, role, to string) bool {
	if role == models.RoleAdmin {
		return true
	}
	if to == models.OrderStatusCancelled {
		return order.CustomerID == requesterID
	}
	return role == models.RoleVendor && orderHasVendor(order, requesterID)
}

func orderHasVendor(order *models.Order, vendorID string) bool {
	for _, item := range order.Items {
		if item.VendorID == vendorID {
			return true
		}
	}
	return false
}
