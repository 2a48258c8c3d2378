package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ksolovey/modacart/internal/common"
	"github.com/ksolovey/modacart/internal/server/services"
)

type errorResponse struct {
	Error string `json:"error"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type validationResponse struct {
	Errors []fieldError `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to HTTP statuses. Unauthorized responses
// carry no detail so callers cannot probe which part of a credential failed.
func writeError(w http.ResponseWriter, err error) {
	var violations services.ValidationErrors
	if errors.As(err, &violations) {
		resp := validationResponse{}
		for _, v := range violations {
			resp.Errors = append(resp.Errors, fieldError{Field: v.Field, Message: v.Message})
		}
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	switch {
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	case errors.Is(err, common.ErrorForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
	case errors.Is(err, common.ErrorNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, common.ErrEmptyCart),
		errors.Is(err, common.ErrInsufficientStock),
		errors.Is(err, common.ErrInvalidStatus):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, common.ErrStoreUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "store unavailable"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// decodeJSON rejects malformed bodies and unknown fields up front.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}
