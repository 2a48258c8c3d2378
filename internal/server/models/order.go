package models

import "time"

// Order statuses. Pending orders may be cancelled; dispatched and
// delivered orders may not.
const (
	OrderStatusPending    = "pending"
	OrderStatusDispatched = "dispatched"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Order is a customer's purchase, created by snapshotting the cart.
// Total is in minor currency units.
type Order struct {
	ID              string
	CustomerID      string
	Status          string
	Total           int64
	ShippingAddress string

	Items []OrderItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem snapshots a product at purchase time. ProductName and UnitPrice
// are copied from the product so later catalog edits do not rewrite history.
type OrderItem struct {
	ID          string
	OrderID     string
	ProductID   string
	VendorID    string
	ProductName string
	UnitPrice   int64
	Quantity    int
	Color       string
	Size        string
}
