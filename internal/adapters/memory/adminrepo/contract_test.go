package adminrepo

import (
	"testing"

	"github.com/family-archive/family-tree-api/internal/adapters/contracttest"
	adminrepoport "github.com/family-archive/family-tree-api/internal/ports/out/adminrepo"
)

func TestContract_MemoryAdminRepo(t *testing.T) {
	t.Parallel()
	contracttest.RunAdminRepo(t, func(t *testing.T) (adminrepoport.Repository, func()) {
		t.Helper()
		return NewRepo(), nil
	})
}
