package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ksolovey/modacart/internal/common"
	"github.com/ksolovey/modacart/internal/server/models"
)

type fakeRankingsRepo struct {
	upsertOut *models.Ranking
	upsertErr error

	listOut []*models.Ranking
	listErr error

	avg    float64
	count  int
	avgErr error
}

func (f *fakeRankingsRepo) Upsert(ctx context.Context, r *models.Ranking) (*models.Ranking, error) {
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	if f.upsertOut != nil {
		return f.upsertOut, nil
	}
	out := *r
	out.ID = "rk-new"
	return &out, nil
}

func (f *fakeRankingsRepo) ListByVendor(ctx context.Context, vendorID string) ([]*models.Ranking, error) {
	return f.listOut, f.listErr
}

func (f *fakeRankingsRepo) AverageScore(ctx context.Context, vendorID string) (float64, int, error) {
	return f.avg, f.count, f.avgErr
}

func deliveredOrderFrom(vendorID string) *fakeOrdersRepo {
	full := &models.Order{
		ID: "o1", CustomerID: "u1", Status: models.OrderStatusDelivered,
		Items: []models.OrderItem{{ProductID: "p1", VendorID: vendorID, Quantity: 1}},
	}
	return &fakeOrdersRepo{
		byID:       map[string]*models.Order{"o1": full},
		byCustomer: []*models.Order{{ID: "o1", CustomerID: "u1", Status: models.OrderStatusDelivered}},
	}
}

func TestRate_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	o := deliveredOrderFrom("v1")
	rm := &fakeRepoManager{
		u:  &fakeUsersRepo{byID: &models.User{ID: "v1", Role: models.RoleVendor}},
		o:  o,
		rk: &fakeRankingsRepo{},
	}
	s := NewRankingService(db, rm, testConfig())

	r, err := s.Rate(context.Background(), "u1", "v1", 4, "fast shipping")
	if err != nil {
		t.Fatalf("Rate error: %v", err)
	}
	if r.ID == "" || r.Score != 4 || r.VendorID != "v1" || r.CustomerID != "u1" {
		t.Fatalf("unexpected ranking: %+v", r)
	}
}

func TestRate_ScoreOutOfRange(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()
	s := NewRankingService(db, &fakeRepoManager{}, testConfig())

	for _, score := range []int{0, 6, -1} {
		_, err := s.Rate(context.Background(), "u1", "v1", score, "")
		var violations ValidationErrors
		if !errors.As(err, &violations) || violations[0].Field != "score" {
			t.Fatalf("score %d: want score violation, got %v", score, err)
		}
	}
}

func TestRate_RequiresDeliveredOrder(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		u:  &fakeUsersRepo{byID: &models.User{ID: "v1", Role: models.RoleVendor}},
		o:  &fakeOrdersRepo{},
		rk: &fakeRankingsRepo{},
	}
	s := NewRankingService(db, rm, testConfig())

	_, err := s.Rate(context.Background(), "u1", "v1", 5, "")
	if !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("want ErrorForbidden, got %v", err)
	}
}

func TestRate_TargetMustBeVendor(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		u: &fakeUsersRepo{byID: &models.User{ID: "u2", Role: models.RoleCustomer}},
	}
	s := NewRankingService(db, rm, testConfig())

	_, err := s.Rate(context.Background(), "u1", "u2", 5, "")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestRating_Aggregates(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{rk: &fakeRankingsRepo{avg: 4.5, count: 12}}
	s := NewRankingService(db, rm, testConfig())

	r, err := s.Rating(context.Background(), "v1")
	if err != nil {
		t.Fatalf("Rating error: %v", err)
	}
	if r.Average != 4.5 || r.Count != 12 {
		t.Fatalf("unexpected rating: %+v", r)
	}
}
