package adminrepo

import (
	"context"
	"sync"

	"github.com/family-archive/family-tree-api/internal/domain"
	"github.com/family-archive/family-tree-api/internal/ports/out/adminrepo"
)

// Repo is an in-memory implementation of adminrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byUsername map[string]domain.AdminUser
	nextID     domain.AdminID
}

func NewRepo() *Repo {
	return &Repo{byUsername: make(map[string]domain.AdminUser)}
}

func (r *Repo) Create(ctx context.Context, u domain.AdminUser) (domain.AdminUser, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUsername[u.Username]; ok {
		return domain.AdminUser{}, adminrepo.ErrAlreadyExists
	}
	r.nextID++
	u.ID = r.nextID
	r.byUsername[u.Username] = u
	return u, nil
}

func (r *Repo) Update(ctx context.Context, u domain.AdminUser) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUsername[u.Username]; !ok {
		return adminrepo.ErrNotFound
	}
	r.byUsername[u.Username] = u
	return nil
}

func (r *Repo) GetByUsername(ctx context.Context, username string) (domain.AdminUser, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byUsername[username]
	if !ok {
		return domain.AdminUser{}, adminrepo.ErrNotFound
	}
	return u, nil
}
