package httpapi

import (
	"github.com/family-archive/family-tree-api/internal/app/auth"
	"github.com/family-archive/family-tree-api/internal/app/birthdays"
	"github.com/family-archive/family-tree-api/internal/app/family"
	"github.com/family-archive/family-tree-api/internal/app/subscriptions"
	"github.com/family-archive/family-tree-api/internal/platform/i18n"
)

// Server is the HTTP adapter: it decodes requests, delegates to the
// application services, and shapes responses. No domain logic lives here.
// User-facing message text comes from the injected catalog.
type Server struct {
	Family        *family.Service
	Birthdays     *birthdays.Service
	Subscriptions *subscriptions.Service
	Auth          *auth.Service
	Catalog       i18n.Catalog
}

func NewServer(familySvc *family.Service, birthdaysSvc *birthdays.Service, subsSvc *subscriptions.Service, authSvc *auth.Service, cat i18n.Catalog) *Server {
	return &Server{
		Family:        familySvc,
		Birthdays:     birthdaysSvc,
		Subscriptions: subsSvc,
		Auth:          authSvc,
		Catalog:       cat,
	}
}
