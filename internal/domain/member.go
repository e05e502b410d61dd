package domain

import "time"

// Gender is the optional gender of a family member.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// ValidGender reports whether g is one of the known gender values.
func ValidGender(g Gender) bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Member is the domain representation of a person node in the family graph.
// Members never hold pointers to their relations; relations reference members
// by id only.
type Member struct {
	ID MemberID

	FirstName string
	// LastName is optional; nil means unset.
	LastName *string
	// BirthDate and DeathDate are calendar dates at UTC midnight; nil means unset.
	BirthDate *time.Time
	DeathDate *time.Time
	// Gender is optional; nil means unset.
	Gender   *Gender
	Location *string
	Notes    *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName is the member's full name: first name plus last name when set.
func (m Member) DisplayName() string {
	if m.LastName != nil && *m.LastName != "" {
		return m.FirstName + " " + *m.LastName
	}
	return m.FirstName
}

// Alive reports whether the member has no recorded death date.
func (m Member) Alive() bool { return m.DeathDate == nil }
