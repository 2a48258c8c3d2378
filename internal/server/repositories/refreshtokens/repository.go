// Package refreshtokens declares the repository contract for managing
// refresh tokens in persistent storage.
package refreshtokens

import (
	"context"
	"time"
)

// Repository defines operations for issuing, consuming, and pruning
// refresh tokens. Tokens are addressed by the SHA-256 digest of their
// opaque bearer value, never by the value itself.
type Repository interface {
	// Create stores a new refresh token digest for userID with an expiry
	// of now+validity.
	Create(ctx context.Context, userID string, tokenHash string, validity time.Duration) error

	// Consume atomically marks the token consumed and returns the owning
	// user id. The update is conditional on the token being unconsumed and
	// unexpired, so exactly one of any number of concurrent callers
	// succeeds; the rest get common.ErrorNotFound.
	Consume(ctx context.Context, tokenHash string) (string, error)

	// DeleteExpired prunes tokens whose expiry or consumption lies in the
	// past, returning the number of rows removed.
	DeleteExpired(ctx context.Context) (int64, error)
}
