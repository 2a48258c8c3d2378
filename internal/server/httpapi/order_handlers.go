package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/ksolovey/modacart/internal/server/models"
)

type placeOrderRequest struct {
	ShippingAddress string `json:"shippingAddress"`
}

type orderItemResponse struct {
	ProductID   string `json:"productId"`
	VendorID    string `json:"vendorId"`
	ProductName string `json:"productName"`
	UnitPrice   int64  `json:"unitPrice"`
	Quantity    int    `json:"quantity"`
	Color       string `json:"color,omitempty"`
	Size        string `json:"size,omitempty"`
}

type orderResponse struct {
	ID              string              `json:"id"`
	Status          string              `json:"status"`
	Total           int64               `json:"total"`
	ShippingAddress string              `json:"shippingAddress"`
	Items           []orderItemResponse `json:"items,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
}

func toOrderResponse(o *models.Order) orderResponse {
	resp := orderResponse{
		ID:              o.ID,
		Status:          o.Status,
		Total:           o.Total,
		ShippingAddress: o.ShippingAddress,
		CreatedAt:       o.CreatedAt,
	}
	for _, item := range o.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			ProductID:   item.ProductID,
			VendorID:    item.VendorID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			Color:       item.Color,
			Size:        item.Size,
		})
	}
	return resp
}

func (s *Server) placeOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	order, err := s.orders.PlaceOrder(r.Context(), requesterID(r), req.ShippingAddress)
	if err != nil {
		writeError(w, err)
		return
	}

	s.logger.Info(r.Context(), "Order placed", "order_id", order.ID, "total", order.Total)
	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

func (s *Server) getOrderHandler(w http.ResponseWriter, r *http.Request) {
	order, err := s.orders.Get(r.Context(), requesterID(r), requesterRole(r), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (s *Server) listCustomerOrdersHandler(w http.ResponseWriter, r *http.Request) {
	list, err := s.orders.ListForCustomer(r.Context(), requesterID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOrderList(w, list)
}

func (s *Server) listVendorOrdersHandler(w http.ResponseWriter, r *http.Request) {
	list, err := s.orders.ListForVendor(r.Context(), requesterID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOrderList(w, list)
}

func writeOrderList(w http.ResponseWriter, list []*models.Order) {
	resp := make([]orderResponse, 0, len(list))
	for _, o := range list {
		resp = append(resp, toOrderResponse(o))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) dispatchOrderHandler(w http.ResponseWriter, r *http.Request) {
	s.transitionOrder(w, r, s.orders.Dispatch)
}

func (s *Server) deliverOrderHandler(w http.ResponseWriter, r *http.Request) {
	s.transitionOrder(w, r, s.orders.Deliver)
}

func (s *Server) cancelOrderHandler(w http.ResponseWriter, r *http.Request) {
	s.transitionOrder(w, r, s.orders.Cancel)
}

func (s *Server) transitionOrder(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, requesterID, role, orderID string) error) {

	if err := op(r.Context(), requesterID(r), requesterRole(r), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
