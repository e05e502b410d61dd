package subscriberrepo

import (
	"testing"

	"github.com/family-archive/family-tree-api/internal/adapters/contracttest"
	subscriberrepoport "github.com/family-archive/family-tree-api/internal/ports/out/subscriberrepo"
)

func TestContract_MemorySubscriberRepo(t *testing.T) {
	t.Parallel()
	contracttest.RunSubscriberRepo(t, func(t *testing.T) (subscriberrepoport.Repository, func()) {
		t.Helper()
		return NewRepo(), nil
	})
}
