package family

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/family-archive/family-tree-api/internal/domain"
	clockport "github.com/family-archive/family-tree-api/internal/ports/out/clock"
	"github.com/family-archive/family-tree-api/internal/ports/out/memberrepo"
	"github.com/family-archive/family-tree-api/internal/ports/out/relationrepo"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Service maintains the family graph: member records, typed relations between
// them, and the derived views (full tree with descendant flags).
type Service struct {
	members   memberrepo.Repository
	relations relationrepo.Repository
	clk       clockport.Clock

	newMemberID func() domain.MemberID
}

func NewService(members memberrepo.Repository, relations relationrepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		members:   members,
		relations: relations,
		clk:       clk,
		newMemberID: func() domain.MemberID {
			return domain.MemberID(uuid.NewString())
		},
	}
}

// SetNewMemberIDForTest overrides member ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewMemberIDForTest(fn func() domain.MemberID) {
	if fn != nil {
		s.newMemberID = fn
	}
}

func (s *Service) CreateMember(ctx context.Context, in CreateMemberInput) (domain.Member, error) {
	firstName := domain.NormalizeHumanName(in.FirstName)
	if firstName == "" {
		return domain.Member{}, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid firstName",
			Details: map[string]any{"firstName": "must be non-empty"},
		}
	}
	if in.Gender != nil && !domain.ValidGender(*in.Gender) {
		return domain.Member{}, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid gender",
			Details: map[string]any{"gender": "must be MALE, FEMALE or OTHER"},
		}
	}
	if err := validateLifespan(in.BirthDate, in.DeathDate); err != nil {
		return domain.Member{}, err
	}

	id := s.newMemberID()
	if in.ID != nil {
		trimmed := domain.NormalizeHumanName(*in.ID)
		if trimmed == "" {
			return domain.Member{}, &Error{
				Status:  422,
				Code:    "VALIDATION_ERROR",
				Message: "invalid id",
				Details: map[string]any{"id": "must be non-empty when supplied"},
			}
		}
		id = domain.MemberID(trimmed)
	}

	now := s.clk.Now()
	m := domain.Member{
		ID:        id,
		FirstName: firstName,
		LastName:  normalizeOptName(in.LastName),
		BirthDate: cloneDatePtr(in.BirthDate),
		DeathDate: cloneDatePtr(in.DeathDate),
		Gender:    cloneGenderPtr(in.Gender),
		Location:  cloneStringPtr(in.Location),
		Notes:     cloneStringPtr(in.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.members.Create(ctx, m); err != nil {
		if errors.Is(err, memberrepo.ErrAlreadyExists) {
			return domain.Member{}, &Error{
				Status:  409,
				Code:    "MEMBER_ALREADY_EXISTS",
				Message: "a member with this id already exists",
			}
		}
		return domain.Member{}, err
	}
	return m, nil
}

func (s *Service) GetMember(ctx context.Context, id domain.MemberID) (domain.Member, error) {
	m, err := s.members.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, memberrepo.ErrNotFound) {
			return domain.Member{}, memberNotFound(id)
		}
		return domain.Member{}, err
	}
	return m, nil
}

func (s *Service) ListMembers(ctx context.Context, in ListMembersInput) (MemberPage, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	size := in.PageSize
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	items, total, err := s.members.List(ctx, (page-1)*size, size, in.Search)
	if err != nil {
		return MemberPage{}, err
	}
	totalPages := (total + size - 1) / size
	return MemberPage{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages,
	}, nil
}

// FamilyTree returns every member with its incident relations and the
// descendant flag. The flag is computed here and nowhere else: the root
// heuristic is only meaningful over the complete member set.
func (s *Service) FamilyTree(ctx context.Context) ([]TreeMember, error) {
	members, err := s.members.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	relations, err := s.relations.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	byFrom := make(map[domain.MemberID][]domain.Relation)
	byTo := make(map[domain.MemberID][]domain.Relation)
	for _, r := range relations {
		byFrom[r.FromMemberID] = append(byFrom[r.FromMemberID], r)
		byTo[r.ToMemberID] = append(byTo[r.ToMemberID], r)
	}
	flags := descendantFlags(members, relations)

	out := make([]TreeMember, 0, len(members))
	for _, m := range members {
		out = append(out, TreeMember{
			Member:        m,
			RelationsFrom: byFrom[m.ID],
			RelationsTo:   byTo[m.ID],
			IsDescendant:  flags[m.ID],
		})
	}
	return out, nil
}

func (s *Service) UpdateMember(ctx context.Context, id domain.MemberID, in UpdateMemberInput) (domain.Member, error) {
	m, err := s.members.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, memberrepo.ErrNotFound) {
			return domain.Member{}, memberNotFound(id)
		}
		return domain.Member{}, err
	}

	if in.FirstName.IsSpecified() {
		if in.FirstName.IsNull() {
			return domain.Member{}, &Error{
				Status:  422,
				Code:    "VALIDATION_ERROR",
				Message: "invalid firstName",
				Details: map[string]any{"firstName": "cannot be null"},
			}
		}
		firstName := domain.NormalizeHumanName(in.FirstName.Value())
		if firstName == "" {
			return domain.Member{}, &Error{
				Status:  422,
				Code:    "VALIDATION_ERROR",
				Message: "invalid firstName",
				Details: map[string]any{"firstName": "must be non-empty"},
			}
		}
		m.FirstName = firstName
	}

	if in.LastName.IsSpecified() {
		if in.LastName.IsNull() {
			m.LastName = nil
		} else {
			m.LastName = normalizeOptName(ptr(in.LastName.Value()))
		}
	}
	if in.BirthDate.IsSpecified() {
		if in.BirthDate.IsNull() {
			m.BirthDate = nil
		} else {
			m.BirthDate = cloneDatePtr(ptr(in.BirthDate.Value()))
		}
	}
	if in.DeathDate.IsSpecified() {
		if in.DeathDate.IsNull() {
			m.DeathDate = nil
		} else {
			m.DeathDate = cloneDatePtr(ptr(in.DeathDate.Value()))
		}
	}
	if in.Gender.IsSpecified() {
		if in.Gender.IsNull() {
			m.Gender = nil
		} else {
			g := in.Gender.Value()
			if !domain.ValidGender(g) {
				return domain.Member{}, &Error{
					Status:  422,
					Code:    "VALIDATION_ERROR",
					Message: "invalid gender",
					Details: map[string]any{"gender": "must be MALE, FEMALE or OTHER"},
				}
			}
			m.Gender = &g
		}
	}
	if in.Location.IsSpecified() {
		if in.Location.IsNull() {
			m.Location = nil
		} else {
			v := in.Location.Value()
			m.Location = &v
		}
	}
	if in.Notes.IsSpecified() {
		if in.Notes.IsNull() {
			m.Notes = nil
		} else {
			v := in.Notes.Value()
			m.Notes = &v
		}
	}

	if err := validateLifespan(m.BirthDate, m.DeathDate); err != nil {
		return domain.Member{}, err
	}

	m.UpdatedAt = s.clk.Now()
	if err := s.members.Update(ctx, m); err != nil {
		if errors.Is(err, memberrepo.ErrNotFound) {
			return domain.Member{}, memberNotFound(id)
		}
		return domain.Member{}, err
	}
	return m, nil
}

// DeleteMember removes the member and, in the same transaction, every relation
// where it is an endpoint.
func (s *Service) DeleteMember(ctx context.Context, id domain.MemberID) error {
	if err := s.members.Delete(ctx, id); err != nil {
		if errors.Is(err, memberrepo.ErrNotFound) {
			return memberNotFound(id)
		}
		return err
	}
	return nil
}

// DeleteMembers removes the given members, skipping ids that do not exist, and
// returns the number actually deleted.
func (s *Service) DeleteMembers(ctx context.Context, ids []domain.MemberID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return s.members.DeleteMany(ctx, ids)
}

func (s *Service) CreateRelation(ctx context.Context, in CreateRelationInput) (domain.Relation, error) {
	if !domain.ValidRelationType(in.Type) {
		return domain.Relation{}, &Error{
			Status:  422,
			Code:    "INVALID_RELATION_TYPE",
			Message: "invalid relation type",
			Details: map[string]any{"type": "must be PARENT, CHILD, SPOUSE or SIBLING"},
		}
	}
	from := domain.MemberID(in.FromMemberID)
	to := domain.MemberID(in.ToMemberID)
	if from == to {
		return domain.Relation{}, &Error{
			Status:  422,
			Code:    "SELF_RELATION",
			Message: "a member cannot be related to itself",
		}
	}
	if _, err := s.members.GetByID(ctx, from); err != nil {
		if errors.Is(err, memberrepo.ErrNotFound) {
			return domain.Relation{}, memberNotFound(from)
		}
		return domain.Relation{}, err
	}
	if _, err := s.members.GetByID(ctx, to); err != nil {
		if errors.Is(err, memberrepo.ErrNotFound) {
			return domain.Relation{}, memberNotFound(to)
		}
		return domain.Relation{}, err
	}

	now := s.clk.Now()
	r := domain.Relation{
		FromMemberID: from,
		ToMemberID:   to,
		Type:         in.Type,
		StartDate:    cloneDatePtr(in.StartDate),
		EndDate:      cloneDatePtr(in.EndDate),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	created, err := s.relations.Create(ctx, r)
	if err != nil {
		switch {
		case errors.Is(err, relationrepo.ErrDuplicate):
			return domain.Relation{}, &Error{
				Status:  409,
				Code:    "DUPLICATE_RELATION",
				Message: "this relation already exists",
			}
		case errors.Is(err, relationrepo.ErrMemberMissing):
			// Store-level reference check lost a race with a concurrent member
			// delete; attribute it generically.
			return domain.Relation{}, memberNotFound(from)
		}
		return domain.Relation{}, err
	}
	return created, nil
}

// DeleteRelation removes the relation. A repeated delete of the same id
// reports RELATION_NOT_FOUND rather than silently succeeding.
func (s *Service) DeleteRelation(ctx context.Context, id domain.RelationID) error {
	if err := s.relations.Delete(ctx, id); err != nil {
		if errors.Is(err, relationrepo.ErrNotFound) {
			return &Error{
				Status:  404,
				Code:    "RELATION_NOT_FOUND",
				Message: "relation not found",
			}
		}
		return err
	}
	return nil
}

func memberNotFound(id domain.MemberID) *Error {
	return &Error{
		Status:  404,
		Code:    "MEMBER_NOT_FOUND",
		Message: "member not found",
		Details: map[string]any{"memberId": string(id)},
	}
}

func validateLifespan(birth, death *time.Time) error {
	if birth != nil && death != nil && death.Before(*birth) {
		return &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid deathDate",
			Details: map[string]any{"deathDate": "cannot precede birthDate"},
		}
	}
	return nil
}

func normalizeOptName(p *string) *string {
	if p == nil {
		return nil
	}
	v := domain.NormalizeHumanName(*p)
	if v == "" {
		return nil
	}
	return &v
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneDatePtr(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := domain.DateOnly(*p)
	return &v
}

func cloneGenderPtr(p *domain.Gender) *domain.Gender {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func ptr[T any](v T) *T { return &v }
