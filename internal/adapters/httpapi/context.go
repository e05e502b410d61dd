package httpapi

import (
	"context"

	"github.com/family-archive/family-tree-api/internal/domain"
)

type adminKey struct{}

func WithAdmin(ctx context.Context, admin domain.AdminUser) context.Context {
	return context.WithValue(ctx, adminKey{}, admin)
}

func AdminFromContext(ctx context.Context) (domain.AdminUser, bool) {
	v, ok := ctx.Value(adminKey{}).(domain.AdminUser)
	return v, ok && v.Username != ""
}
