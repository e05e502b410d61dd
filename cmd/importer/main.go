// The importer loads a sheet-shaped CSV of members and their parent/spouse
// links, creating records through the same service operations as the API.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	memfamilystore "github.com/family-archive/family-tree-api/internal/adapters/memory/familystore"
	postgres "github.com/family-archive/family-tree-api/internal/adapters/postgres"
	pgfamilystore "github.com/family-archive/family-tree-api/internal/adapters/postgres/familystore"
	"github.com/family-archive/family-tree-api/internal/app/family"
	"github.com/family-archive/family-tree-api/internal/app/ingest"
	platformclock "github.com/family-archive/family-tree-api/internal/platform/clock"
	"github.com/family-archive/family-tree-api/internal/platform/config"
	memberrepoport "github.com/family-archive/family-tree-api/internal/ports/out/memberrepo"
	relationrepoport "github.com/family-archive/family-tree-api/internal/ports/out/relationrepo"
)

func main() {
	path := flag.String("file", os.Getenv("IMPORT_CSV_PATH"), "path to the CSV file to import")
	flag.Parse()

	_ = godotenv.Load()

	if *path == "" {
		slog.Error("no input file: pass -file or set IMPORT_CSV_PATH")
		os.Exit(1)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	var (
		memberRepo   memberrepoport.Repository
		relationRepo relationrepoport.Repository
	)
	switch cfg.StorageBackend {
	case "postgres":
		pool, err := postgres.NewPool(context.Background(), cfg.DatabaseURL, postgres.PoolOptions{})
		if err != nil {
			slog.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := postgres.Migrate(context.Background(), pool); err != nil {
			slog.Error("schema migration failed", "error", err)
			os.Exit(1)
		}
		store := pgfamilystore.NewStore(pool)
		memberRepo = store.Members()
		relationRepo = store.Relations()
	default:
		slog.Warn("importing into the in-memory store; data is lost on exit")
		store := memfamilystore.NewStore()
		memberRepo = store.Members()
		relationRepo = store.Relations()
	}

	f, err := os.Open(*path)
	if err != nil {
		slog.Error("open input file", "error", err)
		os.Exit(1)
	}
	defer f.Close()

	familySvc := family.NewService(memberRepo, relationRepo, platformclock.NewSystemClock())
	stats, err := ingest.NewService(familySvc).ImportCSV(context.Background(), f)
	if err != nil {
		slog.Error("import failed", "error", err)
		os.Exit(1)
	}

	slog.Info("import finished",
		"membersCreated", stats.MembersCreated,
		"membersSkipped", stats.MembersSkipped,
		"relationsCreated", stats.RelationsCreated,
		"relationsSkipped", stats.RelationsSkipped,
	)
}
