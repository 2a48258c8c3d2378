package models

import "time"

// Ranking is a customer's score (1-5) for a vendor, with an optional comment.
type Ranking struct {
	ID         string
	VendorID   string
	CustomerID string
	Score      int
	Comment    string
	CreatedAt  time.Time
}
