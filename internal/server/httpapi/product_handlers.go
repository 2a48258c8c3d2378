package httpapi

import (
	"net/http"
	"strconv"

	"github.com/ksolovey/modacart/internal/server/models"
	"github.com/ksolovey/modacart/internal/server/repositories/products"
	"github.com/ksolovey/modacart/internal/server/services"
)

type productRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Price       int64    `json:"price"`
	Stock       int      `json:"stock"`
	ImageKey    string   `json:"imageKey,omitempty"`
	IsActive    bool     `json:"isActive"`
	Colors      []string `json:"colors,omitempty"`
	Sizes       []string `json:"sizes,omitempty"`
}

type productResponse struct {
	ID          string   `json:"id"`
	VendorID    string   `json:"vendorId"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Price       int64    `json:"price"`
	Stock       int      `json:"stock"`
	ImageKey    string   `json:"imageKey,omitempty"`
	IsActive    bool     `json:"isActive"`
	Colors      []string `json:"colors,omitempty"`
	Sizes       []string `json:"sizes,omitempty"`
}

type uploadURLResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type imageURLResponse struct {
	URL string `json:"url"`
}

func toProductResponse(p *models.Product) productResponse {
	resp := productResponse{
		ID:          p.ID,
		VendorID:    p.VendorID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Stock:       p.Stock,
		ImageKey:    p.ImageKey,
		IsActive:    p.IsActive,
	}
	for _, c := range p.Colors {
		resp.Colors = append(resp.Colors, c.Name)
	}
	for _, v := range p.Sizes {
		resp.Sizes = append(resp.Sizes, v.Name)
	}
	return resp
}

func (req productRequest) toService() services.ProductRequest {
	return services.ProductRequest{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageKey:    req.ImageKey,
		IsActive:    req.IsActive,
		Colors:      req.Colors,
		Sizes:       req.Sizes,
	}
}

func (s *Server) createProductHandler(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	p, err := s.products.Create(r.Context(), requesterID(r), req.toService())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductResponse(p))
}

func (s *Server) getProductHandler(w http.ResponseWriter, r *http.Request) {
	p, err := s.products.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(p))
}

func (s *Server) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	list, err := s.products.List(r.Context(), products.Filter{
		Category:   q.Get("category"),
		VendorID:   q.Get("vendor"),
		ActiveOnly: true,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]productResponse, 0, len(list))
	for _, p := range list {
		resp = append(resp, toProductResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) updateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	p, err := s.products.Update(r.Context(), requesterID(r), r.PathValue("id"), req.toService())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(p))
}

func (s *Server) deleteProductHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.products.Delete(r.Context(), requesterID(r), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) imageUploadURLHandler(w http.ResponseWriter, r *http.Request) {
	key, url, err := s.products.GetImageUploadURL(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, uploadURLResponse{Key: key, URL: url})
}

func (s *Server) productImageURLHandler(w http.ResponseWriter, r *http.Request) {
	p, err := s.products.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if p.ImageKey == "" {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}

	url, err := s.products.GetImageDownloadURL(r.Context(), p.ImageKey)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, imageURLResponse{URL: url})
}
