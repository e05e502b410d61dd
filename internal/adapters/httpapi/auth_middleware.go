package httpapi

import (
	"net/http"
	"strings"
)

// authMiddleware enforces Authorization: Bearer <JWT> on mutation routes.
//
// On success it stores the authenticated admin in request context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if authz == "" {
			writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", s.Catalog.Get("auth_unauthorized"), nil)
			return
		}
		const prefix = "Bearer "
		if !strings.HasPrefix(authz, prefix) {
			writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", s.Catalog.Get("auth_unauthorized"), nil)
			return
		}
		raw := strings.TrimSpace(strings.TrimPrefix(authz, prefix))
		if raw == "" {
			writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", s.Catalog.Get("auth_unauthorized"), nil)
			return
		}

		admin, err := s.Auth.Verify(r.Context(), raw)
		if err != nil {
			s.handleError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithAdmin(r.Context(), admin)))
	})
}
