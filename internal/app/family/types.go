package family

import (
	"time"

	"github.com/family-archive/family-tree-api/internal/domain"
)

// Optional is a tri-state field used to distinguish:
// - unspecified (omitted)
// - specified as null
// - specified with a value
type Optional[T any] struct {
	specified bool
	isNull    bool
	value     T
}

func Unspecified[T any]() Optional[T] { return Optional[T]{} }
func Null[T any]() Optional[T]        { return Optional[T]{specified: true, isNull: true} }
func Some[T any](v T) Optional[T]     { return Optional[T]{specified: true, value: v} }

func (o Optional[T]) IsSpecified() bool { return o.specified }
func (o Optional[T]) IsNull() bool      { return o.specified && o.isNull }
func (o Optional[T]) Value() T          { return o.value }

type CreateMemberInput struct {
	// ID is optional; when nil a UUID is assigned.
	ID        *string
	FirstName string
	LastName  *string
	BirthDate *time.Time
	DeathDate *time.Time
	Gender    *domain.Gender
	Location  *string
	Notes     *string
}

// UpdateMemberInput carries a sparse patch: only specified fields change, and
// null clears an optional field. FirstName cannot be null.
type UpdateMemberInput struct {
	FirstName Optional[string]
	LastName  Optional[string]
	BirthDate Optional[time.Time]
	DeathDate Optional[time.Time]
	Gender    Optional[domain.Gender]
	Location  Optional[string]
	Notes     Optional[string]
}

type CreateRelationInput struct {
	FromMemberID string
	ToMemberID   string
	Type         domain.RelationType
	StartDate    *time.Time
	EndDate      *time.Time
}

type ListMembersInput struct {
	// Page is 1-based; 0 means page 1.
	Page int
	// PageSize defaults to DefaultPageSize and is capped at MaxPageSize.
	PageSize int
	// Search filters by case-insensitive substring match on the display name.
	Search string
}

// MemberPage is one page of the member listing.
type MemberPage struct {
	Items      []domain.Member
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// TreeMember is a member as returned by the full-tree read: the record, its
// incident relations, and the descendant flag relative to the root heuristic.
type TreeMember struct {
	domain.Member

	RelationsFrom []domain.Relation
	RelationsTo   []domain.Relation
	IsDescendant  bool
}
