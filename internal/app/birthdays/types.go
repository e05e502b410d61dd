package birthdays

import (
	"time"

	"github.com/family-archive/family-tree-api/internal/domain"
)

// UpcomingBirthday is one entry of the windowed projection.
type UpcomingBirthday struct {
	MemberID          domain.MemberID
	Name              string
	BirthDate         time.Time
	NextBirthdayDate  time.Time
	DaysUntilBirthday int
	UpcomingAge       int
}

// Notification is a birthday-today fact: who is celebrating, the age they are
// turning, and the recipients to tell. Formatting and delivery belong to the
// caller.
type Notification struct {
	Name       string
	Age        int
	Recipients []string
}
