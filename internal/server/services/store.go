package services

import (
	"context"
	"errors"
	"time"

	"github.com/ksolovey/modacart/internal/common"
)

// storeCtx bounds a store round trip with the configured timeout.
func storeCtx(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// storeErr maps a store deadline overrun to ErrStoreUnavailable and hides
// unexpected store failures behind ErrorInternal. Domain sentinels pass
// through unchanged.
func storeErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return common.ErrStoreUnavailable
	}
	if errors.Is(err, common.ErrInvalidToken) || errors.Is(err, common.ErrorUnauthorized) {
		return err
	}
	return common.ErrorInternal
}
