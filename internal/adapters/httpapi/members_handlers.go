package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/family-archive/family-tree-api/internal/app/family"
	"github.com/family-archive/family-tree-api/internal/domain"
)

func (s *Server) handleCreateMember(w http.ResponseWriter, r *http.Request) {
	var req CreateMemberRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	in := family.CreateMemberInput{
		ID:        req.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		BirthDate: timePtrFromDate(req.BirthDate),
		DeathDate: timePtrFromDate(req.DeathDate),
		Location:  req.Location,
		Notes:     req.Notes,
	}
	if req.Gender != nil {
		g := domain.Gender(*req.Gender)
		in.Gender = &g
	}

	m, err := s.Family.CreateMember(r.Context(), in)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, memberFromDomain(m))
}

func (s *Server) handleGetMember(w http.ResponseWriter, r *http.Request) {
	id := domain.MemberID(chi.URLParam(r, "memberId"))
	m, err := s.Family.GetMember(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, memberFromDomain(m))
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	in := family.ListMembersInput{Search: r.URL.Query().Get("search")}

	var ok bool
	if in.Page, ok = s.queryInt(w, r, "page"); !ok {
		return
	}
	if in.PageSize, ok = s.queryInt(w, r, "pageSize"); !ok {
		return
	}

	page, err := s.Family.ListMembers(r.Context(), in)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	out := MemberPageResponse{
		Items:      make([]MemberResponse, 0, len(page.Items)),
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
	for _, m := range page.Items {
		out.Items = append(out.Items, memberFromDomain(m))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleFamilyTree(w http.ResponseWriter, r *http.Request) {
	tree, err := s.Family.FamilyTree(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	out := FamilyTreeResponse{Members: make([]TreeMemberResponse, 0, len(tree))}
	for _, tm := range tree {
		out.Members = append(out.Members, treeMemberFromDomain(tm))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	id := domain.MemberID(chi.URLParam(r, "memberId"))
	var req UpdateMemberRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	in := family.UpdateMemberInput{
		FirstName: optionalString(req.FirstName),
		LastName:  optionalString(req.LastName),
		BirthDate: optionalDate(req.BirthDate),
		DeathDate: optionalDate(req.DeathDate),
		Gender:    optionalGender(req.Gender),
		Location:  optionalString(req.Location),
		Notes:     optionalString(req.Notes),
	}

	m, err := s.Family.UpdateMember(r.Context(), id, in)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, memberFromDomain(m))
}

func (s *Server) handleDeleteMember(w http.ResponseWriter, r *http.Request) {
	id := domain.MemberID(chi.URLParam(r, "memberId"))
	if err := s.Family.DeleteMember(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBatchDeleteMembers(w http.ResponseWriter, r *http.Request) {
	var req BatchDeleteRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	ids := make([]domain.MemberID, 0, len(req.IDs))
	for _, id := range req.IDs {
		ids = append(ids, domain.MemberID(id))
	}
	n, err := s.Family.DeleteMembers(r.Context(), ids)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, BatchDeleteResponse{DeletedCount: n})
}

// queryInt reads an optional non-negative integer query parameter; zero means
// absent. Writes a validation error and returns ok=false on malformed input.
func (s *Server) queryInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", s.Catalog.Get("invalid_input"), map[string]any{
			name: "must be a non-negative integer",
		})
		return 0, false
	}
	return n, true
}

func optionalString(n nullable.Nullable[string]) family.Optional[string] {
	if !n.IsSpecified() {
		return family.Unspecified[string]()
	}
	if n.IsNull() {
		return family.Null[string]()
	}
	v, _ := n.Get()
	return family.Some(v)
}

func optionalDate(n nullable.Nullable[openapi_types.Date]) family.Optional[time.Time] {
	if !n.IsSpecified() {
		return family.Unspecified[time.Time]()
	}
	if n.IsNull() {
		return family.Null[time.Time]()
	}
	v, _ := n.Get()
	return family.Some(v.Time)
}

func optionalGender(n nullable.Nullable[string]) family.Optional[domain.Gender] {
	if !n.IsSpecified() {
		return family.Unspecified[domain.Gender]()
	}
	if n.IsNull() {
		return family.Null[domain.Gender]()
	}
	v, _ := n.Get()
	return family.Some(domain.Gender(v))
}
