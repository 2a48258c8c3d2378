package models

import "time"

// CartItem links a user to a product with a chosen variant and quantity.
type CartItem struct {
	ID        string
	UserID    string
	ProductID string
	Quantity  int
	Color     string
	Size      string
	CreatedAt time.Time
}
