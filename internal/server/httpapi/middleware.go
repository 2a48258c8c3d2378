package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/ksolovey/modacart/internal/common"
	"github.com/ksolovey/modacart/internal/server/auth"
	"github.com/ksolovey/modacart/internal/server/models"
)

type ctxKey string

const (
	userIDKey ctxKey = "userID"
	roleKey   ctxKey = "role"
)

// requireAuth validates the Bearer access token and, when roles are given,
// requires one of them. Admin passes every role check.
func (s *Server) requireAuth(next http.HandlerFunc, roles ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing token"})
			return
		}

		claims, err := auth.ParseToken(token, s.jwtSecret)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}

		if !roleAllowed(claims.Roles, roles) {
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		ctx = context.WithValue(ctx, roleKey, primaryRole(claims.Roles))
		next(w, r.WithContext(ctx))
	}
}

func roleAllowed(have []string, want []string) bool {
	if len(want) == 0 {
		return true
	}
	for _, h := range have {
		if h == models.RoleAdmin {
			return true
		}
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}

func primaryRole(roles []string) string {
	if len(roles) == 0 {
		return ""
	}
	return roles[0]
}

// requesterID returns the authenticated account id stored by requireAuth.
func requesterID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

func requesterRole(r *http.Request) string {
	role, _ := r.Context().Value(roleKey).(string)
	return role
}
