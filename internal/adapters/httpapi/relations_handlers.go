package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/family-archive/family-tree-api/internal/app/family"
	"github.com/family-archive/family-tree-api/internal/domain"
)

func (s *Server) handleCreateRelation(w http.ResponseWriter, r *http.Request) {
	var req CreateRelationRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	rel, err := s.Family.CreateRelation(r.Context(), family.CreateRelationInput{
		FromMemberID: req.FromMemberID,
		ToMemberID:   req.ToMemberID,
		Type:         domain.RelationType(req.Type),
		StartDate:    timePtrFromDate(req.StartDate),
		EndDate:      timePtrFromDate(req.EndDate),
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, relationFromDomain(rel))
}

func (s *Server) handleDeleteRelation(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "relationId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", s.Catalog.Get("invalid_input"), map[string]any{
			"relationId": "must be an integer",
		})
		return
	}
	if err := s.Family.DeleteRelation(r.Context(), domain.RelationID(id)); err != nil {
		s.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
