package models

import "time"

// Product is a catalog item owned by a vendor. Colors and Sizes are loaded
// on demand by the repository; they are not navigation properties.
type Product struct {
	ID          string
	VendorID    string
	Name        string
	Description string
	Category    string
	// Price is the unit price in minor currency units (cents).
	Price    int64
	Stock    int
	ImageKey string
	IsActive bool

	Colors []ProductColor
	Sizes  []ProductSize

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductColor is a color variant of a product.
type ProductColor struct {
	ID        string
	ProductID string
	Name      string
}

// ProductSize is a size variant of a product.
type ProductSize struct {
	ID        string
	ProductID string
	Name      string
}
