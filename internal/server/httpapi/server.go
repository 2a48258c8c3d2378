// Package httpapi exposes the ModaCart REST surface: authentication,
// catalog, cart, orders, and vendor rankings.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/ksolovey/modacart/internal/logging"
	"github.com/ksolovey/modacart/internal/server/models"
	"github.com/ksolovey/modacart/internal/server/repositories/products"
	"github.com/ksolovey/modacart/internal/server/services"
)

// shutdownGrace bounds how long in-flight requests may run after a stop
// signal before the listener is torn down.
const shutdownGrace = 5 * time.Second

// AuthService is the authentication surface the handlers depend on.
type AuthService interface {
	Register(ctx context.Context, req services.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, identifier, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

// ProductService is the catalog surface the handlers depend on.
type ProductService interface {
	Create(ctx context.Context, vendorID string, req services.ProductRequest) (*models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context, f products.Filter) ([]*models.Product, error)
	Update(ctx context.Context, vendorID, productID string, req services.ProductRequest) (*models.Product, error)
	Delete(ctx context.Context, vendorID, productID string) error
	GetImageUploadURL(ctx context.Context) (key string, url string, err error)
	GetImageDownloadURL(ctx context.Context, key string) (string, error)
}

// CartService is the cart surface the handlers depend on.
type CartService interface {
	Add(ctx context.Context, userID, productID string, quantity int, color, size string) (*models.CartItem, error)
	List(ctx context.Context, userID string) ([]*models.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) error
	Remove(ctx context.Context, userID, itemID string) error
	Clear(ctx context.Context, userID string) error
}

// OrderService is the order surface the handlers depend on.
type OrderService interface {
	PlaceOrder(ctx context.Context, customerID, shippingAddress string) (*models.Order, error)
	Get(ctx context.Context, requesterID, role, orderID string) (*models.Order, error)
	ListForCustomer(ctx context.Context, customerID string) ([]*models.Order, error)
	ListForVendor(ctx context.Context, vendorID string) ([]*models.Order, error)
	Dispatch(ctx context.Context, requesterID, role, orderID string) error
	Deliver(ctx context.Context, requesterID, role, orderID string) error
	Cancel(ctx context.Context, requesterID, role, orderID string) error
}

// RankingService is the vendor-ranking surface the handlers depend on.
type RankingService interface {
	Rate(ctx context.Context, customerID, vendorID string, score int, comment string) (*models.Ranking, error)
	ListForVendor(ctx context.Context, vendorID string) ([]*models.Ranking, error)
	Rating(ctx context.Context, vendorID string) (*services.VendorRating, error)
}

// Server routes REST requests to the domain services.
type Server struct {
	address   string
	logger    logging.Logger
	jwtSecret []byte
	mux       *http.ServeMux

	auth     AuthService
	products ProductService
	cart     CartService
	orders   OrderService
	rankings RankingService
}

// NewServer wires the REST routes to the given services.
func NewServer(address string, l logging.Logger, secretKey string,
	auth AuthService, products ProductService, cart CartService,
	orders OrderService, rankings RankingService) *Server {

	s := &Server{
		address:   address,
		logger:    l.With("module", "http_server"),
		jwtSecret: []byte(secretKey),
		mux:       http.NewServeMux(),
		auth:      auth,
		products:  products,
		cart:      cart,
		orders:    orders,
		rankings:  rankings,
	}
	s.initRoutes()
	return s
}

func (s *Server) initRoutes() {
	s.mux.HandleFunc("GET /api/v1/ping", s.pingHandler)

	s.mux.HandleFunc("POST /api/v1/auth/sign-up", s.signUpHandler)
	s.mux.HandleFunc("POST /api/v1/auth/sign-in", s.signInHandler)
	s.mux.HandleFunc("GET /api/v1/auth/refresh-token/{refreshToken}", s.refreshTokenHandler)

	s.mux.HandleFunc("GET /api/v1/products", s.listProductsHandler)
	s.mux.HandleFunc("GET /api/v1/products/{id}", s.getProductHandler)
	s.mux.HandleFunc("GET /api/v1/products/{id}/image-url", s.productImageURLHandler)
	s.mux.HandleFunc("POST /api/v1/products", s.requireAuth(s.createProductHandler, models.RoleVendor))
	s.mux.HandleFunc("PUT /api/v1/products/{id}", s.requireAuth(s.updateProductHandler, models.RoleVendor))
	s.mux.HandleFunc("DELETE /api/v1/products/{id}", s.requireAuth(s.deleteProductHandler, models.RoleVendor))
	s.mux.HandleFunc("POST /api/v1/products/image-upload-url", s.requireAuth(s.imageUploadURLHandler, models.RoleVendor))

	s.mux.HandleFunc("GET /api/v1/cart", s.requireAuth(s.listCartHandler, models.RoleCustomer))
	s.mux.HandleFunc("POST /api/v1/cart", s.requireAuth(s.addCartItemHandler, models.RoleCustomer))
	s.mux.HandleFunc("PUT /api/v1/cart/{id}", s.requireAuth(s.updateCartItemHandler, models.RoleCustomer))
	s.mux.HandleFunc("DELETE /api/v1/cart/{id}", s.requireAuth(s.removeCartItemHandler, models.RoleCustomer))
	s.mux.HandleFunc("DELETE /api/v1/cart", s.requireAuth(s.clearCartHandler, models.RoleCustomer))

	s.mux.HandleFunc("POST /api/v1/orders", s.requireAuth(s.placeOrderHandler, models.RoleCustomer))
	s.mux.HandleFunc("GET /api/v1/orders", s.requireAuth(s.listCustomerOrdersHandler, models.RoleCustomer))
	s.mux.HandleFunc("GET /api/v1/orders/vendor", s.requireAuth(s.listVendorOrdersHandler, models.RoleVendor))
	s.mux.HandleFunc("GET /api/v1/orders/{id}", s.requireAuth(s.getOrderHandler))
	s.mux.HandleFunc("POST /api/v1/orders/{id}/dispatch", s.requireAuth(s.dispatchOrderHandler, models.RoleVendor))
	s.mux.HandleFunc("POST /api/v1/orders/{id}/deliver", s.requireAuth(s.deliverOrderHandler, models.RoleVendor))
	s.mux.HandleFunc("POST /api/v1/orders/{id}/cancel", s.requireAuth(s.cancelOrderHandler, models.RoleCustomer))

	s.mux.HandleFunc("GET /api/v1/vendors/{id}/rankings", s.listRankingsHandler)
	s.mux.HandleFunc("GET /api/v1/vendors/{id}/rating", s.vendorRatingHandler)
	s.mux.HandleFunc("POST /api/v1/vendors/{id}/rankings", s.requireAuth(s.rateVendorHandler, models.RoleCustomer))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Run serves requests until ctx is cancelled, then drains in-flight
// requests before returning.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.mux,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) pingHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}
