package adminrepo

import (
	"context"

	"github.com/family-archive/family-tree-api/internal/domain"
)

// Repository provides access to persisted admin users.
type Repository interface {
	Create(ctx context.Context, u domain.AdminUser) (domain.AdminUser, error)
	Update(ctx context.Context, u domain.AdminUser) error
	GetByUsername(ctx context.Context, username string) (domain.AdminUser, error)
}
