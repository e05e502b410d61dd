package domain

import "time"

// RelationType is the fixed enumeration of directed edge kinds between members.
// A PARENT relation reads from-member -> to-member as parent -> child.
type RelationType string

const (
	RelationParent  RelationType = "PARENT"
	RelationChild   RelationType = "CHILD"
	RelationSpouse  RelationType = "SPOUSE"
	RelationSibling RelationType = "SIBLING"
)

// ValidRelationType reports whether t is one of the known relation types.
func ValidRelationType(t RelationType) bool {
	switch t {
	case RelationParent, RelationChild, RelationSpouse, RelationSibling:
		return true
	}
	return false
}

// Relation is a typed directed edge between two members.
// Invariants: FromMemberID != ToMemberID, and (from, to, type) is unique.
type Relation struct {
	ID RelationID

	FromMemberID MemberID
	ToMemberID   MemberID
	Type         RelationType

	StartDate *time.Time
	EndDate   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
