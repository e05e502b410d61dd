package adminrepo

import (
	"testing"

	"github.com/family-archive/family-tree-api/internal/adapters/contracttest"
	"github.com/family-archive/family-tree-api/internal/adapters/postgres/testutil"
	adminrepoport "github.com/family-archive/family-tree-api/internal/ports/out/adminrepo"
)

func TestContract_PostgresAdminRepo(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)

	contracttest.RunAdminRepo(t, func(t *testing.T) (adminrepoport.Repository, func()) {
		t.Helper()
		return NewRepo(pool), nil
	})
}
