package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter constructs the API HTTP router.
//
// Reads are public; member and relationship mutations plus the admin identity
// endpoint sit behind bearer auth.
func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)

	// Infra endpoints, unauthenticated.
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/family-tree", s.handleFamilyTree)
		r.Get("/members", s.handleListMembers)
		r.Get("/members/{memberId}", s.handleGetMember)
		r.Get("/upcoming-birthdays", s.handleUpcomingBirthdays)
		r.Post("/subscribe", s.handleSubscribe)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Post("/members", s.handleCreateMember)
			r.Patch("/members/{memberId}", s.handleUpdateMember)
			r.Delete("/members/{memberId}", s.handleDeleteMember)
			r.Post("/members/batch-delete", s.handleBatchDeleteMembers)
			r.Post("/relationships", s.handleCreateRelation)
			r.Delete("/relationships/{relationId}", s.handleDeleteRelation)
			r.Get("/auth/me", s.handleMe)
		})
	})

	return r
}
