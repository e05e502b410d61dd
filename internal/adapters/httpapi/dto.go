package httpapi

import (
	"time"

	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/family-archive/family-tree-api/internal/app/birthdays"
	"github.com/family-archive/family-tree-api/internal/app/family"
	"github.com/family-archive/family-tree-api/internal/domain"
)

// Wire types. Dates are calendar dates (YYYY-MM-DD); timestamps are RFC 3339.

type MemberResponse struct {
	ID        string              `json:"id"`
	FirstName string              `json:"firstName"`
	LastName  *string             `json:"lastName"`
	Name      string              `json:"name"`
	BirthDate *openapi_types.Date `json:"birthDate"`
	DeathDate *openapi_types.Date `json:"deathDate"`
	Gender    *string             `json:"gender"`
	Location  *string             `json:"location"`
	Notes     *string             `json:"notes"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

type RelationResponse struct {
	ID           int64               `json:"id"`
	FromMemberID string              `json:"fromMemberId"`
	ToMemberID   string              `json:"toMemberId"`
	Type         string              `json:"type"`
	StartDate    *openapi_types.Date `json:"startDate"`
	EndDate      *openapi_types.Date `json:"endDate"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// TreeMemberResponse is the full-tree representation: the member, its
// incident relations, and the descendant flag.
type TreeMemberResponse struct {
	MemberResponse

	RelationshipsFrom []RelationResponse `json:"relationshipsFrom"`
	RelationshipsTo   []RelationResponse `json:"relationshipsTo"`
	IsDescendant      bool               `json:"isDescendant"`
}

type FamilyTreeResponse struct {
	Members []TreeMemberResponse `json:"members"`
}

type MemberPageResponse struct {
	Items      []MemberResponse `json:"items"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalPages int              `json:"totalPages"`
}

type CreateMemberRequest struct {
	ID        *string             `json:"id,omitempty"`
	FirstName string              `json:"firstName"`
	LastName  *string             `json:"lastName,omitempty"`
	BirthDate *openapi_types.Date `json:"birthDate,omitempty"`
	DeathDate *openapi_types.Date `json:"deathDate,omitempty"`
	Gender    *string             `json:"gender,omitempty"`
	Location  *string             `json:"location,omitempty"`
	Notes     *string             `json:"notes,omitempty"`
}

// UpdateMemberRequest is a sparse patch. Each field distinguishes omitted,
// null, and a value; null clears the stored field.
type UpdateMemberRequest struct {
	FirstName nullable.Nullable[string]             `json:"firstName,omitempty"`
	LastName  nullable.Nullable[string]             `json:"lastName,omitempty"`
	BirthDate nullable.Nullable[openapi_types.Date] `json:"birthDate,omitempty"`
	DeathDate nullable.Nullable[openapi_types.Date] `json:"deathDate,omitempty"`
	Gender    nullable.Nullable[string]             `json:"gender,omitempty"`
	Location  nullable.Nullable[string]             `json:"location,omitempty"`
	Notes     nullable.Nullable[string]             `json:"notes,omitempty"`
}

type BatchDeleteRequest struct {
	IDs []string `json:"ids"`
}

type BatchDeleteResponse struct {
	DeletedCount int `json:"deletedCount"`
}

type CreateRelationRequest struct {
	FromMemberID string              `json:"fromMemberId"`
	ToMemberID   string              `json:"toMemberId"`
	Type         string              `json:"type"`
	StartDate    *openapi_types.Date `json:"startDate,omitempty"`
	EndDate      *openapi_types.Date `json:"endDate,omitempty"`
}

type UpcomingBirthdayResponse struct {
	MemberID          string             `json:"memberId"`
	Name              string             `json:"name"`
	BirthDate         openapi_types.Date `json:"birthDate"`
	NextBirthdayDate  openapi_types.Date `json:"nextBirthdayDate"`
	DaysUntilBirthday int                `json:"daysUntilBirthday"`
	UpcomingAge       int                `json:"upcomingAge"`
}

type UpcomingBirthdaysResponse struct {
	Birthdays []UpcomingBirthdayResponse `json:"birthdays"`
	Message   string                     `json:"message"`
}

type SubscribeRequest struct {
	Email openapi_types.Email `json:"email"`
}

type SubscribeResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	IsActive bool   `json:"isActive"`
	Message  string `json:"message"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type AdminResponse struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
	LastLogin *time.Time `json:"lastLogin"`
}

func memberFromDomain(m domain.Member) MemberResponse {
	return MemberResponse{
		ID:        string(m.ID),
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Name:      m.DisplayName(),
		BirthDate: datePtr(m.BirthDate),
		DeathDate: datePtr(m.DeathDate),
		Gender:    genderPtr(m.Gender),
		Location:  m.Location,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func relationFromDomain(r domain.Relation) RelationResponse {
	return RelationResponse{
		ID:           int64(r.ID),
		FromMemberID: string(r.FromMemberID),
		ToMemberID:   string(r.ToMemberID),
		Type:         string(r.Type),
		StartDate:    datePtr(r.StartDate),
		EndDate:      datePtr(r.EndDate),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func treeMemberFromDomain(t family.TreeMember) TreeMemberResponse {
	out := TreeMemberResponse{
		MemberResponse:    memberFromDomain(t.Member),
		RelationshipsFrom: make([]RelationResponse, 0, len(t.RelationsFrom)),
		RelationshipsTo:   make([]RelationResponse, 0, len(t.RelationsTo)),
		IsDescendant:      t.IsDescendant,
	}
	for _, rel := range t.RelationsFrom {
		out.RelationshipsFrom = append(out.RelationshipsFrom, relationFromDomain(rel))
	}
	for _, rel := range t.RelationsTo {
		out.RelationshipsTo = append(out.RelationshipsTo, relationFromDomain(rel))
	}
	return out
}

func upcomingBirthdayFromDomain(b birthdays.UpcomingBirthday) UpcomingBirthdayResponse {
	return UpcomingBirthdayResponse{
		MemberID:          string(b.MemberID),
		Name:              b.Name,
		BirthDate:         openapi_types.Date{Time: b.BirthDate},
		NextBirthdayDate:  openapi_types.Date{Time: b.NextBirthdayDate},
		DaysUntilBirthday: b.DaysUntilBirthday,
		UpcomingAge:       b.UpcomingAge,
	}
}

func datePtr(t *time.Time) *openapi_types.Date {
	if t == nil {
		return nil
	}
	return &openapi_types.Date{Time: *t}
}

func genderPtr(g *domain.Gender) *string {
	if g == nil {
		return nil
	}
	s := string(*g)
	return &s
}

func timePtrFromDate(d *openapi_types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
