package httpapi

import (
	"net/http"

	"github.com/ksolovey/modacart/internal/server/models"
)

type addCartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Color     string `json:"color,omitempty"`
	Size      string `json:"size,omitempty"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type cartItemResponse struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Color     string `json:"color,omitempty"`
	Size      string `json:"size,omitempty"`
}

func toCartItemResponse(item *models.CartItem) cartItemResponse {
	return cartItemResponse{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Color:     item.Color,
		Size:      item.Size,
	}
}

func (s *Server) addCartItemHandler(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	item, err := s.cart.Add(r.Context(), requesterID(r), req.ProductID, req.Quantity, req.Color, req.Size)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCartItemResponse(item))
}

func (s *Server) listCartHandler(w http.ResponseWriter, r *http.Request) {
	items, err := s.cart.List(r.Context(), requesterID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]cartItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toCartItemResponse(item))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) updateCartItemHandler(w http.ResponseWriter, r *http.Request) {
	var req updateCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	if err := s.cart.UpdateQuantity(r.Context(), requesterID(r), r.PathValue("id"), req.Quantity); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) removeCartItemHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.cart.Remove(r.Context(), requesterID(r), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) clearCartHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.cart.Clear(r.Context(), requesterID(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
