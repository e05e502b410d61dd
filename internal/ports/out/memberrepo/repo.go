package memberrepo

import (
	"context"

	"github.com/family-archive/family-tree-api/internal/domain"
)

// Repository provides access to persisted family members.
//
// Result ordering expectations:
// - List/ListAll return results ordered by id ascending to keep behavior deterministic.
type Repository interface {
	Create(ctx context.Context, m domain.Member) error
	Update(ctx context.Context, m domain.Member) error

	GetByID(ctx context.Context, id domain.MemberID) (domain.Member, error)

	// List returns a page of members plus the total count matching the search
	// term. search is a case-insensitive substring match on the display name;
	// empty search matches everything.
	List(ctx context.Context, skip, limit int, search string) ([]domain.Member, int, error)

	// ListAll returns every member. Used by the full-tree read and the
	// descendant computation, which are only meaningful over the complete set.
	ListAll(ctx context.Context) ([]domain.Member, error)

	// ListLivingWithBirthDate returns members with a birth date and no death
	// date, i.e. the population eligible for birthday projections.
	ListLivingWithBirthDate(ctx context.Context) ([]domain.Member, error)

	// Delete removes the member and every relation where it is an endpoint,
	// atomically. Returns ErrNotFound if the member does not exist.
	Delete(ctx context.Context, id domain.MemberID) error

	// DeleteMany removes the given members (with their incident relations) and
	// returns the number actually deleted. Ids that do not exist are skipped
	// silently.
	DeleteMany(ctx context.Context, ids []domain.MemberID) (int, error)
}
