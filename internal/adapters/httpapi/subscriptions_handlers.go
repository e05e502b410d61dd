package httpapi

import "net/http"

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	sub, err := s.Subscriptions.Subscribe(r.Context(), string(req.Email))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, SubscribeResponse{
		ID:       int64(sub.ID),
		Email:    sub.Email,
		IsActive: sub.IsActive,
		Message:  s.Catalog.Get("subscription_successful"),
	})
}
