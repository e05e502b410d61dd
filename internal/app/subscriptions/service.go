package subscriptions

import (
	"context"
	"errors"
	"net/mail"

	"github.com/family-archive/family-tree-api/internal/domain"
	clockport "github.com/family-archive/family-tree-api/internal/ports/out/clock"
	"github.com/family-archive/family-tree-api/internal/ports/out/subscriberrepo"
)

// Service implements the subscription state machine:
// absent -> active -> inactive -> active -> ...
// Inactive records are retained so a later subscribe reactivates them.
type Service struct {
	repo subscriberrepo.Repository
	clk  clockport.Clock
}

func NewService(repo subscriberrepo.Repository, clk clockport.Clock) *Service {
	return &Service{repo: repo, clk: clk}
}

// Subscribe registers an email for birthday notifications.
//
// An active record is a conflict; an inactive record is flipped back to
// active in place, keeping its id. A first-time insert that loses a race to a
// concurrent insert of the same email is re-resolved by re-reading the record
// instead of surfacing the storage uniqueness error.
func (s *Service) Subscribe(ctx context.Context, email string) (domain.Subscriber, error) {
	email = domain.NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return domain.Subscriber{}, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid email",
			Details: map[string]any{"email": err.Error()},
		}
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return s.resolveExisting(ctx, existing)
	case errors.Is(err, subscriberrepo.ErrNotFound):
		// fall through to insert
	default:
		return domain.Subscriber{}, err
	}

	now := s.clk.Now()
	created, err := s.repo.Create(ctx, domain.Subscriber{
		Email:        email,
		IsActive:     true,
		SubscribedAt: now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, subscriberrepo.ErrEmailTaken) {
			// Lost the race: someone inserted this email between our read and
			// our write. Re-read and resolve from the current state.
			current, readErr := s.repo.GetByEmail(ctx, email)
			if readErr != nil {
				return domain.Subscriber{}, err
			}
			return s.resolveExisting(ctx, current)
		}
		return domain.Subscriber{}, err
	}
	return created, nil
}

func (s *Service) resolveExisting(ctx context.Context, sub domain.Subscriber) (domain.Subscriber, error) {
	if sub.IsActive {
		return domain.Subscriber{}, &Error{
			Status:  409,
			Code:    "EMAIL_ALREADY_SUBSCRIBED",
			Message: "this email is already subscribed",
		}
	}
	sub.IsActive = true
	sub.UpdatedAt = s.clk.Now()
	if err := s.repo.Update(ctx, sub); err != nil {
		return domain.Subscriber{}, err
	}
	return sub, nil
}

func validateEmail(email string) error {
	if email == "" {
		return errors.New("must be non-empty")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return err
	}
	// Ensure no "Name <email@x>" format sneaks in.
	if addr.Address != email {
		return errors.New("must be a bare email address")
	}
	return nil
}
