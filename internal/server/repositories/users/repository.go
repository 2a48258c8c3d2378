// Package users declares the repository contract for account records.
package users

import (
	"context"

	"github.com/ksolovey/modacart/internal/server/models"
)

// Repository defines persistence operations for accounts.
type Repository interface {
	// Create inserts a new account and returns it with its generated id.
	// A username or email collision yields common.ErrorDuplicate.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByIdentifier looks up an account by username or email.
	// Returns common.ErrorNotFound when no account matches.
	GetByIdentifier(ctx context.Context, identifier string) (*models.User, error)

	// GetByID looks up an account by its id.
	GetByID(ctx context.Context, id string) (*models.User, error)
}
