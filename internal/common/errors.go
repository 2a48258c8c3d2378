// Package common defines shared constants and sentinel errors used across
// the ModaCart server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound  = errors.New("not found")
	ErrorDuplicate = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal       = errors.New("internal error")
	ErrorUnauthorized   = errors.New("unauthorized")
	ErrorForbidden      = errors.New("forbidden")
	ErrStoreUnavailable = errors.New("store unavailable")

	// Cart/order errors.
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidStatus     = errors.New("invalid status transition")

	// Auth errors (invalid, expired, or already consumed token).
	ErrInvalidToken = errors.New("invalid token")
)
