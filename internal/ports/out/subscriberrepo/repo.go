package subscriberrepo

import (
	"context"

	"github.com/family-archive/family-tree-api/internal/domain"
)

// Repository provides access to persisted subscribers.
//
// Email uniqueness is store-enforced: Create reports ErrEmailTaken when a
// record with the same email already exists, which the application layer uses
// to resolve concurrent first-time subscriptions.
type Repository interface {
	// Create persists the subscriber and returns it with the assigned id.
	Create(ctx context.Context, s domain.Subscriber) (domain.Subscriber, error)

	Update(ctx context.Context, s domain.Subscriber) error

	// GetByEmail looks up a subscriber (active or not) by its normalized email.
	GetByEmail(ctx context.Context, email string) (domain.Subscriber, error)

	// ListActiveEmails returns the emails of active subscribers, ordered
	// ascending for determinism.
	ListActiveEmails(ctx context.Context) ([]string, error)
}
