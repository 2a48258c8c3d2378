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

// VendorRating aggregates a vendor's received rankings.
type VendorRating struct {
	VendorID string
	Average  float64
	Count    int
}

// RankingService lets customers score vendors they have bought from.
type RankingService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	storeTimeout time.Duration
}

// NewRankingService constructs a RankingService.
func NewRankingService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config) *RankingService {
	return &RankingService{db: db, repomanager: m, storeTimeout: cfg.StoreTimeout}
}

// Rate records the customer's score for a vendor, replacing any previous
// score from the same customer. The vendor must exist and hold the vendor
// role; the customer must have a delivered order containing the vendor's
// items.
func (s *RankingService) Rate(ctx context.Context, customerID, vendorID string, score int, comment string) (*models.Ranking, error) {
	if score < 1 || score > 5 {
		return nil, ValidationErrors{{Field: "score", Message: "must be between 1 and 5"}}
	}

	ctx, cancel := storeCtx(ctx, s.storeTimeout)
	defer cancel()

	vendor, err := s.repomanager.Users(s.db).GetByID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, storeErr(err)
	}
	if vendor.Role != models.RoleVendor {
		return nil, common.ErrorNotFound
	}

	bought, err := s.hasDeliveredOrderFrom(ctx, customerID, vendorID)
	if err != nil {
		return nil, storeErr(err)
	}
	if !bought {
		return nil, common.ErrorForbidden
	}

	ranking, err := s.repomanager.Rankings(s.db).Upsert(ctx, &models.Ranking{
		VendorID:   vendorID,
		CustomerID: customerID,
		Score:      score,
		Comment:    comment,
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return ranking, nil
}

// ListForVendor returns a vendor's rankings, newest first.
func (s *RankingService) ListForVendor(ctx context.Context, vendorID string) ([]*models.Ranking, error) {
	ctx, cancel := storeCtx(ctx, s.storeTimeout)
	defer cancel()

	result, err := s.repomanager.Rankings(s.db).ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, storeErr(err)
	}
	return result, nil
}

// Rating returns a vendor's mean score and ranking count.
func (s *RankingService) Rating(ctx context.Context, vendorID string) (*VendorRating, error) {
	ctx, cancel := storeCtx(ctx, s.storeTimeout)
	defer cancel()

	avg, count, err := s.repomanager.Rankings(s.db).AverageScore(ctx, vendorID)
	if err != nil {
		return nil, storeErr(err)
	}
	return &VendorRating{VendorID: vendorID, Average: avg, Count: count}, nil
}

// hasDeliveredOrderFrom reports whether the customer has at least one
// delivered order containing the vendor's items.
func (s *RankingService) hasDeliveredOrderFrom(ctx context.Context, customerID, vendorID string) (bool, error) {
	orderRepo := s.repomanager.Orders(s.db)

	list, err := orderRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return false, err
	}
	for _, o := range list {
		if o.Status != models.OrderStatusDelivered {
			continue
		}
		full, err := orderRepo.GetByID(ctx, o.ID)
		if err != nil {
			return false, err
		}
		if orderHasVendor(full, vendorID) {
			return true, nil
		}
	}
	return false, nil
}
