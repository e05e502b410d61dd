package httpapi

import "net/http"

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", s.Catalog.Get("invalid_input"), map[string]any{
			"credentials": "username and password are required",
		})
		return
	}

	tok, err := s.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TokenResponse{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		ExpiresAt:   tok.ExpiresAt,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	admin, ok := AdminFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", s.Catalog.Get("auth_unauthorized"), nil)
		return
	}
	writeJSON(w, http.StatusOK, AdminResponse{
		ID:        int64(admin.ID),
		Username:  admin.Username,
		IsActive:  admin.IsActive,
		CreatedAt: admin.CreatedAt,
		LastLogin: admin.LastLogin,
	})
}
