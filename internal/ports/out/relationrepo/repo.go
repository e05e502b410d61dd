package relationrepo

import (
	"context"

	"github.com/family-archive/family-tree-api/internal/domain"
)

// Repository provides access to persisted relations.
//
// The (from, to, type) triple is unique; Create enforces it and reports
// ErrDuplicate. Both endpoints must reference existing members; Create reports
// ErrMemberMissing when the store-level reference check fails (the application
// layer performs its own existence checks first for precise error attribution).
type Repository interface {
	// Create persists the relation and returns it with the assigned id and
	// timestamps.
	Create(ctx context.Context, r domain.Relation) (domain.Relation, error)

	GetByID(ctx context.Context, id domain.RelationID) (domain.Relation, error)

	// Delete removes the relation. Returns ErrNotFound if it does not exist,
	// including on a repeated delete of the same id.
	Delete(ctx context.Context, id domain.RelationID) error

	// ListAll returns every relation ordered by id ascending.
	ListAll(ctx context.Context) ([]domain.Relation, error)

	// ListByMember returns the relations where the member is the from-endpoint
	// and those where it is the to-endpoint, each ordered by id ascending.
	ListByMember(ctx context.Context, id domain.MemberID) (from []domain.Relation, to []domain.Relation, err error)
}
