package subscriberrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/family-archive/family-tree-api/internal/domain"
	"github.com/family-archive/family-tree-api/internal/ports/out/subscriberrepo"
)

// Repo is an in-memory implementation of subscriberrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byEmail map[string]domain.Subscriber
	nextID  domain.SubscriberID
}

func NewRepo() *Repo {
	return &Repo{byEmail: make(map[string]domain.Subscriber)}
}

func (r *Repo) Create(ctx context.Context, s domain.Subscriber) (domain.Subscriber, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[s.Email]; ok {
		return domain.Subscriber{}, subscriberrepo.ErrEmailTaken
	}
	r.nextID++
	s.ID = r.nextID
	r.byEmail[s.Email] = s
	return s, nil
}

func (r *Repo) Update(ctx context.Context, s domain.Subscriber) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byEmail[s.Email]
	if !ok || existing.ID != s.ID {
		return subscriberrepo.ErrNotFound
	}
	r.byEmail[s.Email] = s
	return nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (domain.Subscriber, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byEmail[email]
	if !ok {
		return domain.Subscriber{}, subscriberrepo.ErrNotFound
	}
	return s, nil
}

func (r *Repo) ListActiveEmails(ctx context.Context) ([]string, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.byEmail))
	for email, s := range r.byEmail {
		if s.IsActive {
			out = append(out, email)
		}
	}
	sort.Strings(out)
	return out, nil
}
