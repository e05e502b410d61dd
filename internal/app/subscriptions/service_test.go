package subscriptions

import (
	"context"
	"errors"
	"testing"
	"time"

	memclock "github.com/family-archive/family-tree-api/internal/adapters/memory/clock"
	memsubscriberrepo "github.com/family-archive/family-tree-api/internal/adapters/memory/subscriberrepo"
	"github.com/family-archive/family-tree-api/internal/domain"
	"github.com/family-archive/family-tree-api/internal/ports/out/subscriberrepo"
)

func newTestService(t *testing.T) (*Service, *memclock.ManualClock) {
	t.Helper()
	clk := memclock.NewManualClock(time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC))
	return NewService(memsubscriberrepo.NewRepo(), clk), clk
}

func assertAppError(t *testing.T, err error, status int, code string) {
	t.Helper()
	ae := (*Error)(nil)
	if !errors.As(err, &ae) {
		t.Fatalf("err=%v, want *Error", err)
	}
	if ae.Status != status || ae.Code != code {
		t.Fatalf("got %d %s, want %d %s", ae.Status, ae.Code, status, code)
	}
}

func TestSubscribe_NewEmail(t *testing.T) {
	t.Parallel()

	svc, clk := newTestService(t)
	sub, err := svc.Subscribe(context.Background(), "anna@example.com")
	if err != nil {
		t.Fatalf("Subscribe err=%v", err)
	}
	if sub.ID == 0 {
		t.Fatalf("id not assigned: %+v", sub)
	}
	if sub.Email != "anna@example.com" || !sub.IsActive {
		t.Fatalf("unexpected subscriber: %+v", sub)
	}
	if !sub.SubscribedAt.Equal(clk.Now()) {
		t.Fatalf("subscribedAt=%v, want %v", sub.SubscribedAt, clk.Now())
	}
}

func TestSubscribe_NormalizesCase(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	sub, err := svc.Subscribe(context.Background(), "Anna@Example.COM")
	if err != nil {
		t.Fatalf("Subscribe err=%v", err)
	}
	if sub.Email != "anna@example.com" {
		t.Fatalf("email not normalized: %q", sub.Email)
	}

	// The mixed-case spelling is the same subscription.
	_, err = svc.Subscribe(context.Background(), "ANNA@example.com")
	assertAppError(t, err, 409, "EMAIL_ALREADY_SUBSCRIBED")
}

func TestSubscribe_ActiveDuplicateConflicts(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	if _, err := svc.Subscribe(context.Background(), "anna@example.com"); err != nil {
		t.Fatalf("first Subscribe err=%v", err)
	}
	_, err := svc.Subscribe(context.Background(), "anna@example.com")
	assertAppError(t, err, 409, "EMAIL_ALREADY_SUBSCRIBED")
}

func TestSubscribe_ReactivatesInactiveKeepingID(t *testing.T) {
	t.Parallel()

	repo := memsubscriberrepo.NewRepo()
	clk := memclock.NewManualClock(time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC))
	svc := NewService(repo, clk)

	first, err := svc.Subscribe(context.Background(), "anna@example.com")
	if err != nil {
		t.Fatalf("Subscribe err=%v", err)
	}

	first.IsActive = false
	if err := repo.Update(context.Background(), first); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	clk.Advance(time.Hour)
	again, err := svc.Subscribe(context.Background(), "anna@example.com")
	if err != nil {
		t.Fatalf("resubscribe err=%v", err)
	}
	if again.ID != first.ID {
		t.Fatalf("id changed on reactivation: %d -> %d", first.ID, again.ID)
	}
	if !again.IsActive {
		t.Fatalf("subscriber not reactivated: %+v", again)
	}
	if !again.UpdatedAt.Equal(clk.Now()) {
		t.Fatalf("updatedAt=%v, want %v", again.UpdatedAt, clk.Now())
	}
}

// racedRepo simulates losing a first-time insert to a concurrent subscribe of
// the same email: the initial read sees no record, Create reports the email
// taken, and every later read returns the winner.
type racedRepo struct {
	winner  domain.Subscriber
	raced   bool
	updated *domain.Subscriber
}

func (r *racedRepo) Create(_ context.Context, _ domain.Subscriber) (domain.Subscriber, error) {
	r.raced = true
	return domain.Subscriber{}, subscriberrepo.ErrEmailTaken
}

func (r *racedRepo) Update(_ context.Context, s domain.Subscriber) error {
	r.updated = &s
	return nil
}

func (r *racedRepo) GetByEmail(_ context.Context, _ string) (domain.Subscriber, error) {
	if !r.raced {
		return domain.Subscriber{}, subscriberrepo.ErrNotFound
	}
	return r.winner, nil
}

func (r *racedRepo) ListActiveEmails(_ context.Context) ([]string, error) { return nil, nil }

func TestSubscribe_LostRaceAgainstActiveWinner(t *testing.T) {
	t.Parallel()

	repo := &racedRepo{winner: domain.Subscriber{ID: 7, Email: "anna@example.com", IsActive: true}}
	clk := memclock.NewManualClock(time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC))
	svc := NewService(repo, clk)

	_, err := svc.Subscribe(context.Background(), "anna@example.com")
	assertAppError(t, err, 409, "EMAIL_ALREADY_SUBSCRIBED")
	if !repo.raced {
		t.Fatalf("Create was never attempted")
	}
	if repo.updated != nil {
		t.Fatalf("active winner must not be rewritten: %+v", repo.updated)
	}
}

func TestSubscribe_LostRaceAgainstInactiveWinner(t *testing.T) {
	t.Parallel()

	repo := &racedRepo{winner: domain.Subscriber{ID: 7, Email: "anna@example.com", IsActive: false}}
	clk := memclock.NewManualClock(time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC))
	svc := NewService(repo, clk)

	sub, err := svc.Subscribe(context.Background(), "anna@example.com")
	if err != nil {
		t.Fatalf("Subscribe err=%v", err)
	}
	if sub.ID != 7 || !sub.IsActive {
		t.Fatalf("winner not reactivated in place: %+v", sub)
	}
	if !sub.UpdatedAt.Equal(clk.Now()) {
		t.Fatalf("updatedAt=%v, want %v", sub.UpdatedAt, clk.Now())
	}
	if repo.updated == nil || repo.updated.ID != 7 || !repo.updated.IsActive {
		t.Fatalf("reactivation not persisted: %+v", repo.updated)
	}
}

func TestSubscribe_InvalidEmail(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	for _, email := range []string{"", "not-an-email", "Anna <anna@example.com>"} {
		_, err := svc.Subscribe(context.Background(), email)
		if err == nil {
			t.Fatalf("email %q: expected error", email)
		}
		assertAppError(t, err, 422, "VALIDATION_ERROR")
	}
}
