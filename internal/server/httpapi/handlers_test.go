package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ksolovey/modacart/internal/common"
	"github.com/ksolovey/modacart/internal/logging"
	"github.com/ksolovey/modacart/internal/server/auth"
	"github.com/ksolovey/modacart/internal/server/models"
	"github.com/ksolovey/modacart/internal/server/repositories/products"
	"github.com/ksolovey/modacart/internal/server/services"
)

const testSecret = "test-secret"

// ---- test logger ----

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger          { return n }

// ---- fakes ----

type fakeAuth struct {
	registerOut *models.User
	registerErr error

	loginOut *services.TokenPair
	loginErr error

	refreshOut *services.TokenPair
	refreshErr error
	refreshIn  string
}

func (f *fakeAuth) Register(ctx context.Context, req services.RegisterRequest) (*models.User, error) {
	return f.registerOut, f.registerErr
}
func (f *fakeAuth) Login(ctx context.Context, identifier, password string) (*services.TokenPair, error) {
	return f.loginOut, f.loginErr
}
func (f *fakeAuth) RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	f.refreshIn = refreshToken
	return f.refreshOut, f.refreshErr
}

type fakeProducts struct {
	out     *models.Product
	listOut []*models.Product
	err     error

	uploadKey string
	uploadURL string

	downloadURL string
}

func (f *fakeProducts) Create(ctx context.Context, vendorID string, req services.ProductRequest) (*models.Product, error) {
	return f.out, f.err
}
func (f *fakeProducts) Get(ctx context.Context, id string) (*models.Product, error) {
	return f.out, f.err
}
func (f *fakeProducts) List(ctx context.Context, fl products.Filter) ([]*models.Product, error) {
	return f.listOut, f.err
}
func (f *fakeProducts) Update(ctx context.Context, vendorID, productID string, req services.ProductRequest) (*models.Product, error) {
	return f.out, f.err
}
func (f *fakeProducts) Delete(ctx context.Context, vendorID, productID string) error {
	return f.err
}
func (f *fakeProducts) GetImageUploadURL(ctx context.Context) (string, string, error) {
	return f.uploadKey, f.uploadURL, f.err
}
func (f *fakeProducts) GetImageDownloadURL(ctx context.Context, key string) (string, error) {
	return f.downloadURL, f.err
}

type fakeCart struct {
	addOut  *models.CartItem
	listOut []*models.CartItem
	err     error
}

func (f *fakeCart) Add(ctx context.Context, userID, productID string, quantity int, color, size string) (*models.CartItem, error) {
	return f.addOut, f.err
}
func (f *fakeCart) List(ctx context.Context, userID string) ([]*models.CartItem, error) {
	return f.listOut, f.err
}
func (f *fakeCart) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	return f.err
}
func (f *fakeCart) Remove(ctx context.Context, userID, itemID string) error { return f.err }
func (f *fakeCart) Clear(ctx context.Context, userID string) error          { return f.err }

type fakeOrders struct {
	out     *models.Order
	listOut []*models.Order
	err     error

	lastRequester string
	lastRole      string
}

func (f *fakeOrders) PlaceOrder(ctx context.Context, customerID, shippingAddress string) (*models.Order, error) {
	f.lastRequester = customerID
	return f.out, f.err
}
func (f *fakeOrders) Get(ctx context.Context, requesterID, role, orderID string) (*models.Order, error) {
	f.lastRequester, f.lastRole = requesterID, role
	return f.out, f.err
}
func (f *fakeOrders) ListForCustomer(ctx context.Context, customerID string) ([]*models.Order, error) {
	return f.listOut, f.err
}
func (f *fakeOrders) ListForVendor(ctx context.Context, vendorID string) ([]*models.Order, error) {
	return f.listOut, f.err
}
func (f *fakeOrders) Dispatch(ctx context.Context, requesterID, role, orderID string) error {
	f.lastRequester, f.lastRole = requesterID, role
	return f.err
}
func (f *fakeOrders) Deliver(ctx context.Context, requesterID, role, orderID string) error {
	return f.err
}
func (f *fakeOrders) Cancel(ctx context.Context, requesterID, role, orderID string) error {
	return f.err
}

type fakeRankings struct {
	out     *models.Ranking
	listOut []*models.Ranking
	rating  *services.VendorRating
	err     error
}

func (f *fakeRankings) Rate(ctx context.Context, customerID, vendorID string, score int, comment string) (*models.Ranking, error) {
	return f.out, f.err
}
func (f *fakeRankings) ListForVendor(ctx context.Context, vendorID string) ([]*models.Ranking, error) {
	return f.listOut, f.err
}
func (f *fakeRankings) Rating(ctx context.Context, vendorID string) (*services.VendorRating, error) {
	return f.rating, f.err
}

// ---- helpers ----

type serverFakes struct {
	auth     *fakeAuth
	products *fakeProducts
	cart     *fakeCart
	orders   *fakeOrders
	rankings *fakeRankings
}

func newTestServer(t *testing.T) (*Server, *serverFakes) {
	t.Helper()
	f := &serverFakes{
		auth:     &fakeAuth{},
		products: &fakeProducts{},
		cart:     &fakeCart{},
		orders:   &fakeOrders{},
		rankings: &fakeRankings{},
	}
	s := NewServer(":0", nopLogger{}, testSecret, f.auth, f.products, f.cart, f.orders, f.rankings)
	return s, f
}

func doJSON(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func mintToken(t *testing.T, userID string, roles ...string) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, roles, []byte(testSecret), time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

// ---- tests ----

func TestSignUp(t *testing.T) {
	s, f := newTestServer(t)
	f.auth.registerOut = &models.User{ID: "u1", UserName: "alice", Email: "a@b.c", Role: models.RoleCustomer}

	w := doJSON(t, s, http.MethodPost, "/api/v1/auth/sign-up", "",
		signUpRequest{UserName: "alice", Email: "a@b.c", Password: "Sup3rSecret"})
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", w.Code, w.Body)
	}

	var resp signUpResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID != "u1" || resp.Role != models.RoleCustomer {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestSignUp_Violations(t *testing.T) {
	s, f := newTestServer(t)
	f.auth.registerErr = services.ValidationErrors{{Field: "password", Message: "too short"}}

	w := doJSON(t, s, http.MethodPost, "/api/v1/auth/sign-up", "", signUpRequest{UserName: "a"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", w.Code)
	}

	var resp validationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Field != "password" {
		t.Fatalf("unexpected violations: %+v", resp)
	}
}

func TestSignUp_MalformedBody(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-up", bytes.NewBufferString("{"))
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", w.Code)
	}
}

func TestSignIn(t *testing.T) {
	s, f := newTestServer(t)
	f.auth.loginOut = &services.TokenPair{AccessToken: "at", RefreshToken: "rt"}

	w := doJSON(t, s, http.MethodPost, "/api/v1/auth/sign-in", "",
		signInRequest{Identifier: "alice", Password: "Sup3rSecret"})
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}

	var resp tokenPairResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.AccessToken != "at" || resp.RefreshToken != "rt" {
		t.Fatalf("unexpected pair: %+v", resp)
	}
}

func TestSignIn_UnauthorizedWithoutDetail(t *testing.T) {
	s, f := newTestServer(t)
	f.auth.loginErr = common.ErrorUnauthorized

	w := doJSON(t, s, http.MethodPost, "/api/v1/auth/sign-in", "",
		signInRequest{Identifier: "alice", Password: "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", w.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error != "unauthorized" {
		t.Fatalf("leaked detail: %q", resp.Error)
	}
}

func TestRefreshToken_Route(t *testing.T) {
	s, f := newTestServer(t)
	f.auth.refreshOut = &services.TokenPair{AccessToken: "at2", RefreshToken: "rt2"}

	w := doJSON(t, s, http.MethodGet, "/api/v1/auth/refresh-token/old-token", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	if f.auth.refreshIn != "old-token" {
		t.Fatalf("path value not passed: %q", f.auth.refreshIn)
	}
}

func TestRefreshToken_Invalid(t *testing.T) {
	s, f := newTestServer(t)
	f.auth.refreshErr = common.ErrInvalidToken

	w := doJSON(t, s, http.MethodGet, "/api/v1/auth/refresh-token/used", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", w.Code)
	}
}

func TestRequireAuth(t *testing.T) {
	s, f := newTestServer(t)
	f.cart.listOut = []*models.CartItem{}

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"garbage token", "not-a-jwt", http.StatusUnauthorized},
		{"wrong role", mintToken(t, "v1", models.RoleVendor), http.StatusForbidden},
		{"customer", mintToken(t, "u1", models.RoleCustomer), http.StatusOK},
		{"admin passes", mintToken(t, "a1", models.RoleAdmin), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, s, http.MethodGet, "/api/v1/cart", tt.token, nil)
			if w.Code != tt.want {
				t.Fatalf("want %d, got %d: %s", tt.want, w.Code, w.Body)
			}
		})
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	s, _ := newTestServer(t)

	expired, err := auth.GenerateToken("u1", []string{models.RoleCustomer}, []byte(testSecret), -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	w := doJSON(t, s, http.MethodGet, "/api/v1/cart", expired, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", w.Code)
	}
}

func TestPlaceOrder_UsesTokenIdentity(t *testing.T) {
	s, f := newTestServer(t)
	f.orders.out = &models.Order{ID: "o1", Status: models.OrderStatusPending, Total: 2500}

	token := mintToken(t, "u1", models.RoleCustomer)
	w := doJSON(t, s, http.MethodPost, "/api/v1/orders", token,
		placeOrderRequest{ShippingAddress: "12 Main St"})
	if w.Code != http.StatusCreated {
		t.Fatalf("want 201, got %d: %s", w.Code, w.Body)
	}
	if f.orders.lastRequester != "u1" {
		t.Fatalf("requester not taken from token: %q", f.orders.lastRequester)
	}
}

func TestPlaceOrder_EmptyCartConflict(t *testing.T) {
	s, f := newTestServer(t)
	f.orders.err = common.ErrEmptyCart

	token := mintToken(t, "u1", models.RoleCustomer)
	w := doJSON(t, s, http.MethodPost, "/api/v1/orders", token,
		placeOrderRequest{ShippingAddress: "12 Main St"})
	if w.Code != http.StatusConflict {
		t.Fatalf("want 409, got %d", w.Code)
	}
}

func TestDispatchOrder(t *testing.T) {
	s, f := newTestServer(t)

	token := mintToken(t, "v1", models.RoleVendor)
	w := doJSON(t, s, http.MethodPost, "/api/v1/orders/o1/dispatch", token, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("want 204, got %d: %s", w.Code, w.Body)
	}
	if f.orders.lastRequester != "v1" || f.orders.lastRole != models.RoleVendor {
		t.Fatalf("identity not propagated: %q %q", f.orders.lastRequester, f.orders.lastRole)
	}
}

func TestListProducts_Public(t *testing.T) {
	s, f := newTestServer(t)
	f.products.listOut = []*models.Product{
		{ID: "p1", Name: "Shirt", Price: 2500, IsActive: true},
	}

	w := doJSON(t, s, http.MethodGet, "/api/v1/products?category=shirts", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}

	var resp []productResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp) != 1 || resp[0].Name != "Shirt" {
		t.Fatalf("unexpected list: %+v", resp)
	}
}

func TestCreateProduct_RequiresVendor(t *testing.T) {
	s, f := newTestServer(t)
	f.products.out = &models.Product{ID: "p1", Name: "Shirt"}

	customer := mintToken(t, "u1", models.RoleCustomer)
	w := doJSON(t, s, http.MethodPost, "/api/v1/products", customer, productRequest{Name: "Shirt"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("customer: want 403, got %d", w.Code)
	}

	vendor := mintToken(t, "v1", models.RoleVendor)
	w = doJSON(t, s, http.MethodPost, "/api/v1/products", vendor, productRequest{Name: "Shirt"})
	if w.Code != http.StatusCreated {
		t.Fatalf("vendor: want 201, got %d: %s", w.Code, w.Body)
	}
}

func TestStoreUnavailable(t *testing.T) {
	s, f := newTestServer(t)
	f.products.err = common.ErrStoreUnavailable

	w := doJSON(t, s, http.MethodGet, "/api/v1/products/p1", "", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("want 503, got %d", w.Code)
	}
}

func TestVendorRating(t *testing.T) {
	s, f := newTestServer(t)
	f.rankings.rating = &services.VendorRating{VendorID: "v1", Average: 4.5, Count: 12}

	w := doJSON(t, s, http.MethodGet, "/api/v1/vendors/v1/rating", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}

	var resp vendorRatingResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Average != 4.5 || resp.Count != 12 {
		t.Fatalf("unexpected rating: %+v", resp)
	}
}

func TestPing(t *testing.T) {
	s, _ := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/v1/ping", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
}
