package httpapi

import (
	"net/http"
	"time"

	"github.com/ksolovey/modacart/internal/server/models"
)

type rateVendorRequest struct {
	Score   int    `json:"score"`
	Comment string `json:"comment,omitempty"`
}

type rankingResponse struct {
	ID         string    `json:"id"`
	VendorID   string    `json:"vendorId"`
	CustomerID string    `json:"customerId"`
	Score      int       `json:"score"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type vendorRatingResponse struct {
	VendorID string  `json:"vendorId"`
	Average  float64 `json:"average"`
	Count    int     `json:"count"`
}

func toRankingResponse(r *models.Ranking) rankingResponse {
	return rankingResponse{
		ID:         r.ID,
		VendorID:   r.VendorID,
		CustomerID: r.CustomerID,
		Score:      r.Score,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}

func (s *Server) rateVendorHandler(w http.ResponseWriter, r *http.Request) {
	var req rateVendorRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	ranking, err := s.rankings.Rate(r.Context(), requesterID(r), r.PathValue("id"), req.Score, req.Comment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRankingResponse(ranking))
}

func (s *Server) listRankingsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := s.rankings.ListForVendor(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]rankingResponse, 0, len(list))
	for _, rk := range list {
		resp = append(resp, toRankingResponse(rk))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) vendorRatingHandler(w http.ResponseWriter, r *http.Request) {
	rating, err := s.rankings.Rating(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vendorRatingResponse{
		VendorID: rating.VendorID,
		Average:  rating.Average,
		Count:    rating.Count,
	})
}
