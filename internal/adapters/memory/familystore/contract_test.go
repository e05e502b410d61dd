package familystore

import (
	"testing"

	"github.com/family-archive/family-tree-api/internal/adapters/contracttest"
	memberrepoport "github.com/family-archive/family-tree-api/internal/ports/out/memberrepo"
	relationrepoport "github.com/family-archive/family-tree-api/internal/ports/out/relationrepo"
)

func newStore(t *testing.T) (memberrepoport.Repository, relationrepoport.Repository, func()) {
	t.Helper()
	s := NewStore()
	return s.Members(), s.Relations(), nil
}

func TestContract_MemoryMemberRepo(t *testing.T) {
	t.Parallel()
	contracttest.RunMemberRepo(t, newStore)
}

func TestContract_MemoryRelationRepo(t *testing.T) {
	t.Parallel()
	contracttest.RunRelationRepo(t, newStore)
}
