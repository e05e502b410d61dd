package birthdays

import (
	"context"
	"sort"

	"github.com/family-archive/family-tree-api/internal/domain"
	clockport "github.com/family-archive/family-tree-api/internal/ports/out/clock"
	"github.com/family-archive/family-tree-api/internal/ports/out/memberrepo"
	"github.com/family-archive/family-tree-api/internal/ports/out/subscriberrepo"
)

const (
	DefaultWindowDays = 30
	MaxWindowDays     = 365
)

// Service projects the member set onto calendar views: the upcoming-birthday
// window and the birthday-today notification facts.
type Service struct {
	members     memberrepo.Repository
	subscribers subscriberrepo.Repository
	clk         clockport.Clock
}

func NewService(members memberrepo.Repository, subscribers subscriberrepo.Repository, clk clockport.Clock) *Service {
	return &Service{members: members, subscribers: subscribers, clk: clk}
}

// Upcoming returns living members whose next birthday falls within windowDays
// of today (inclusive), sorted ascending by the next birthday date. Ties keep
// the stable store order.
func (s *Service) Upcoming(ctx context.Context, windowDays int) ([]UpcomingBirthday, error) {
	if windowDays < 1 || windowDays > MaxWindowDays {
		return nil, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid days window",
			Details: map[string]any{"days": "must be between 1 and 365"},
		}
	}
	members, err := s.members.ListLivingWithBirthDate(ctx)
	if err != nil {
		return nil, err
	}

	today := domain.DateOnly(s.clk.Now())
	out := make([]UpcomingBirthday, 0)
	for _, m := range members {
		if m.BirthDate == nil || m.DeathDate != nil {
			continue
		}
		next := domain.NextBirthday(*m.BirthDate, today)
		daysUntil := int(next.Sub(today).Hours() / 24)
		if daysUntil < 0 || daysUntil > windowDays {
			continue
		}
		out = append(out, UpcomingBirthday{
			MemberID:          m.ID,
			Name:              m.DisplayName(),
			BirthDate:         *m.BirthDate,
			NextBirthdayDate:  next,
			DaysUntilBirthday: daysUntil,
			UpcomingAge:       domain.AgeOn(*m.BirthDate, next),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NextBirthdayDate.Before(out[j].NextBirthdayDate)
	})
	return out, nil
}

// TodaysNotifications returns one notification fact per living member whose
// birthday is today, each addressed to every active subscriber. No subscribers
// means no facts; no matching member means an empty list, not an error.
func (s *Service) TodaysNotifications(ctx context.Context) ([]Notification, error) {
	emails, err := s.subscribers.ListActiveEmails(ctx)
	if err != nil {
		return nil, err
	}
	if len(emails) == 0 {
		return []Notification{}, nil
	}

	members, err := s.members.ListLivingWithBirthDate(ctx)
	if err != nil {
		return nil, err
	}

	today := domain.DateOnly(s.clk.Now())
	out := make([]Notification, 0)
	for _, m := range members {
		if m.BirthDate == nil || m.DeathDate != nil {
			continue
		}
		if !domain.SameMonthDay(*m.BirthDate, today) {
			continue
		}
		out = append(out, Notification{
			Name:       m.DisplayName(),
			Age:        domain.AgeOn(*m.BirthDate, today),
			Recipients: append([]string(nil), emails...),
		})
	}
	return out, nil
}
