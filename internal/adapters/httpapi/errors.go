package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/family-archive/family-tree-api/internal/app/auth"
	"github.com/family-archive/family-tree-api/internal/app/birthdays"
	"github.com/family-archive/family-tree-api/internal/app/family"
	"github.com/family-archive/family-tree-api/internal/app/subscriptions"
)

// ErrorResponse is the uniform error envelope of every non-2xx response.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"requestId,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]any) {
	resp := ErrorResponse{Error: ErrorBody{
		Code:    code,
		Message: message,
		Details: details,
	}}
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		resp.Error.RequestID = rid
	}
	writeJSON(w, status, resp)
}

// handleError maps an application error onto the envelope. Errors without an
// application mapping are opaque storage or programming failures and become
// a 500 with a localized generic message.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	if status, code, message, details, ok := appError(err); ok {
		writeError(w, r, status, code, message, details)
		return
	}
	writeError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", s.Catalog.Get("error_occurred"), nil)
}

func appError(err error) (status int, code, message string, details map[string]any, ok bool) {
	if fe := (*family.Error)(nil); errors.As(err, &fe) {
		return fe.Status, fe.Code, fe.Message, fe.Details, true
	}
	if be := (*birthdays.Error)(nil); errors.As(err, &be) {
		return be.Status, be.Code, be.Message, be.Details, true
	}
	if se := (*subscriptions.Error)(nil); errors.As(err, &se) {
		return se.Status, se.Code, se.Message, se.Details, true
	}
	if ae := (*auth.Error)(nil); errors.As(err, &ae) {
		return ae.Status, ae.Code, ae.Message, ae.Details, true
	}
	return 0, "", "", nil, false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON parses the request body into dst, reporting a validation error
// on malformed input. Returns false when a response has already been written.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "missing request body", nil)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", s.Catalog.Get("invalid_input"), map[string]any{
			"body": err.Error(),
		})
		return false
	}
	return true
}
