package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/family-archive/family-tree-api/internal/adapters/httpapi"
	memadminrepo "github.com/family-archive/family-tree-api/internal/adapters/memory/adminrepo"
	memfamilystore "github.com/family-archive/family-tree-api/internal/adapters/memory/familystore"
	memsubscriberrepo "github.com/family-archive/family-tree-api/internal/adapters/memory/subscriberrepo"
	postgres "github.com/family-archive/family-tree-api/internal/adapters/postgres"
	pgadminrepo "github.com/family-archive/family-tree-api/internal/adapters/postgres/adminrepo"
	pgfamilystore "github.com/family-archive/family-tree-api/internal/adapters/postgres/familystore"
	pgsubscriberrepo "github.com/family-archive/family-tree-api/internal/adapters/postgres/subscriberrepo"
	"github.com/family-archive/family-tree-api/internal/app/auth"
	"github.com/family-archive/family-tree-api/internal/app/birthdays"
	"github.com/family-archive/family-tree-api/internal/app/family"
	"github.com/family-archive/family-tree-api/internal/app/subscriptions"
	platformclock "github.com/family-archive/family-tree-api/internal/platform/clock"
	"github.com/family-archive/family-tree-api/internal/platform/config"
	"github.com/family-archive/family-tree-api/internal/platform/i18n"
	adminrepoport "github.com/family-archive/family-tree-api/internal/ports/out/adminrepo"
	memberrepoport "github.com/family-archive/family-tree-api/internal/ports/out/memberrepo"
	relationrepoport "github.com/family-archive/family-tree-api/internal/ports/out/relationrepo"
	subscriberrepoport "github.com/family-archive/family-tree-api/internal/ports/out/subscriberrepo"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	clk := platformclock.NewSystemClock()

	var (
		memberRepo     memberrepoport.Repository
		relationRepo   relationrepoport.Repository
		subscriberRepo subscriberrepoport.Repository
		adminRepo      adminrepoport.Repository
		cleanup        func()
	)

	switch cfg.StorageBackend {
	case "postgres":
		pool, err := postgres.NewPool(context.Background(), cfg.DatabaseURL, postgres.PoolOptions{})
		if err != nil {
			slog.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		cleanup = pool.Close
		if err := postgres.Migrate(context.Background(), pool); err != nil {
			slog.Error("schema migration failed", "error", err)
			pool.Close()
			os.Exit(1)
		}

		store := pgfamilystore.NewStore(pool)
		memberRepo = store.Members()
		relationRepo = store.Relations()
		subscriberRepo = pgsubscriberrepo.NewRepo(pool)
		adminRepo = pgadminrepo.NewRepo(pool)
	default:
		store := memfamilystore.NewStore()
		memberRepo = store.Members()
		relationRepo = store.Relations()
		subscriberRepo = memsubscriberrepo.NewRepo()
		adminRepo = memadminrepo.NewRepo()
	}
	if cleanup != nil {
		defer cleanup()
	}

	familySvc := family.NewService(memberRepo, relationRepo, clk)
	birthdaysSvc := birthdays.NewService(memberRepo, subscriberRepo, clk)
	subsSvc := subscriptions.NewService(subscriberRepo, clk)
	authSvc := auth.NewService(adminRepo, clk, cfg.JWTSecretKey, cfg.AccessTokenTTL)

	if err := authSvc.Bootstrap(context.Background(), cfg.AdminUsername, cfg.AdminPassword); err != nil {
		slog.Error("admin bootstrap failed", "error", err)
		os.Exit(1)
	}

	api := httpapi.NewServer(familySvc, birthdaysSvc, subsSvc, authSvc, i18n.Default())
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpapi.NewRouter(api),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("api listening", "port", cfg.Port, "storage", cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
