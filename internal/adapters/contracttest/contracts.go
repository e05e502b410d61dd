// Package contracttest holds behavioral suites shared by every storage
// adapter. Each Run* function takes a factory so the same assertions execute
// against the memory and Postgres implementations.
package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/family-archive/family-tree-api/internal/domain"
	adminrepoport "github.com/family-archive/family-tree-api/internal/ports/out/adminrepo"
	memberrepoport "github.com/family-archive/family-tree-api/internal/ports/out/memberrepo"
	relationrepoport "github.com/family-archive/family-tree-api/internal/ports/out/relationrepo"
	subscriberrepoport "github.com/family-archive/family-tree-api/internal/ports/out/subscriberrepo"
)

type CleanupFunc = func()

// StoreFactory produces the member and relation facets of one store so the
// suites can exercise cross-entity behavior (reference checks, cascades).
type StoreFactory func(t *testing.T) (memberrepoport.Repository, relationrepoport.Repository, CleanupFunc)

type SubscriberRepoFactory func(t *testing.T) (subscriberrepoport.Repository, CleanupFunc)
type AdminRepoFactory func(t *testing.T) (adminrepoport.Repository, CleanupFunc)

func RunMemberRepo(t *testing.T, newStore StoreFactory) {
	t.Helper()
	ctx := context.Background()

	members, _, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(1000, 0).UTC()
	// Ids share a random base so their relative order is known, and names
	// carry a unique token so search-scoped assertions hold even when the
	// backing database is shared with other runs.
	base := uuid.NewString()
	token := "fam" + base[:8]
	aID := domain.MemberID(base + "-a")
	bID := domain.MemberID(base + "-b")

	birth := time.Date(1950, time.March, 10, 0, 0, 0, 0, time.UTC)
	if err := members.Create(ctx, domain.Member{
		ID:        aID,
		FirstName: "Anna " + token,
		BirthDate: &birth,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		t.Fatalf("Create a: %v", err)
	}

	got, err := members.GetByID(ctx, aID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.FirstName != "Anna "+token || got.BirthDate == nil || !got.BirthDate.Equal(birth) {
		t.Fatalf("unexpected member: %+v", got)
	}

	// Id uniqueness.
	if err := members.Create(ctx, domain.Member{
		ID:        aID,
		FirstName: "Anna again",
		CreatedAt: now,
		UpdatedAt: now,
	}); !errors.Is(err, memberrepoport.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	death := time.Date(2000, time.June, 1, 0, 0, 0, 0, time.UTC)
	if err := members.Create(ctx, domain.Member{
		ID:        bID,
		FirstName: "Boris " + token,
		BirthDate: &birth,
		DeathDate: &death,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		t.Fatalf("Create b: %v", err)
	}

	// Search-scoped listing: both members match the token, ordered by id.
	page, total, err := members.List(ctx, 0, 10, token)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(page) != 2 || page[0].ID != aID || page[1].ID != bID {
		t.Fatalf("unexpected page: total=%d page=%#v", total, page)
	}

	// Paging window: skip past the first match, total unchanged.
	page, total, err = members.List(ctx, 1, 10, token)
	if err != nil {
		t.Fatalf("List skip: %v", err)
	}
	if total != 2 || len(page) != 1 || page[0].ID != bID {
		t.Fatalf("unexpected window: total=%d page=%#v", total, page)
	}

	// The search term is a literal substring: % and _ carry no pattern
	// meaning, so "100%_" must not match "100xy".
	cID := domain.MemberID(base + "-c")
	dID := domain.MemberID(base + "-d")
	if err := members.Create(ctx, domain.Member{
		ID:        cID,
		FirstName: "Clara " + token + "100%_ok",
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		t.Fatalf("Create c: %v", err)
	}
	if err := members.Create(ctx, domain.Member{
		ID:        dID,
		FirstName: "Dmitri " + token + "100xyok",
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		t.Fatalf("Create d: %v", err)
	}
	page, total, err = members.List(ctx, 0, 10, token+"100%_")
	if err != nil {
		t.Fatalf("List literal: %v", err)
	}
	if total != 1 || len(page) != 1 || page[0].ID != cID {
		t.Fatalf("metacharacter search leaked: total=%d page=%#v", total, page)
	}

	// Update replaces stored fields.
	got.Location = strptr("Riga")
	got.UpdatedAt = now.Add(time.Minute)
	if err := members.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got2, err := members.GetByID(ctx, aID)
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if got2.Location == nil || *got2.Location != "Riga" {
		t.Fatalf("update not persisted: %+v", got2)
	}

	// Birthday population: alive with birth date is in, deceased is out.
	living, err := members.ListLivingWithBirthDate(ctx)
	if err != nil {
		t.Fatalf("ListLivingWithBirthDate: %v", err)
	}
	if !containsMember(living, aID) {
		t.Fatalf("expected %s in living set", aID)
	}
	if containsMember(living, bID) {
		t.Fatalf("deceased member %s must not be in living set", bID)
	}

	// Delete is strict about existence, DeleteMany is not.
	if err := members.Delete(ctx, aID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := members.Delete(ctx, aID); !errors.Is(err, memberrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on repeat delete, got %v", err)
	}
	n, err := members.DeleteMany(ctx, []domain.MemberID{bID, domain.MemberID(base + "-missing")})
	if err != nil {
		t.Fatalf("DeleteMany: %v", err)
	}
	if n != 1 {
		t.Fatalf("DeleteMany deleted %d, want 1", n)
	}
}

func RunRelationRepo(t *testing.T, newStore StoreFactory) {
	t.Helper()
	ctx := context.Background()

	members, relations, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(2000, 0).UTC()
	base := uuid.NewString()
	parentID := domain.MemberID(base + "-p")
	childID := domain.MemberID(base + "-c")
	for _, m := range []domain.Member{
		{ID: parentID, FirstName: "Parent", CreatedAt: now, UpdatedAt: now},
		{ID: childID, FirstName: "Child", CreatedAt: now, UpdatedAt: now},
	} {
		if err := members.Create(ctx, m); err != nil {
			t.Fatalf("seed member %s: %v", m.ID, err)
		}
	}

	rel, err := relations.Create(ctx, domain.Relation{
		FromMemberID: parentID,
		ToMemberID:   childID,
		Type:         domain.RelationParent,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("Create relation: %v", err)
	}
	if rel.ID == 0 {
		t.Fatalf("expected assigned relation id")
	}

	// (from, to, type) uniqueness.
	if _, err := relations.Create(ctx, domain.Relation{
		FromMemberID: parentID,
		ToMemberID:   childID,
		Type:         domain.RelationParent,
		CreatedAt:    now,
		UpdatedAt:    now,
	}); !errors.Is(err, relationrepoport.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// Same pair, different type is a distinct edge.
	spouseRel, err := relations.Create(ctx, domain.Relation{
		FromMemberID: parentID,
		ToMemberID:   childID,
		Type:         domain.RelationSpouse,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("Create second type: %v", err)
	}

	// Endpoints must exist.
	if _, err := relations.Create(ctx, domain.Relation{
		FromMemberID: parentID,
		ToMemberID:   domain.MemberID(base + "-missing"),
		Type:         domain.RelationChild,
		CreatedAt:    now,
		UpdatedAt:    now,
	}); !errors.Is(err, relationrepoport.ErrMemberMissing) {
		t.Fatalf("expected ErrMemberMissing, got %v", err)
	}

	got, err := relations.GetByID(ctx, rel.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.FromMemberID != parentID || got.ToMemberID != childID || got.Type != domain.RelationParent {
		t.Fatalf("unexpected relation: %+v", got)
	}

	from, to, err := relations.ListByMember(ctx, parentID)
	if err != nil {
		t.Fatalf("ListByMember: %v", err)
	}
	if len(from) != 2 || len(to) != 0 {
		t.Fatalf("unexpected incident relations: from=%d to=%d", len(from), len(to))
	}
	if from[0].ID != rel.ID || from[1].ID != spouseRel.ID {
		t.Fatalf("expected id-ordered from list: %#v", from)
	}

	if err := relations.Delete(ctx, spouseRel.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := relations.Delete(ctx, spouseRel.ID); !errors.Is(err, relationrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on repeat delete, got %v", err)
	}

	// Member delete cascades to incident relations.
	if err := members.Delete(ctx, childID); err != nil {
		t.Fatalf("Delete member: %v", err)
	}
	if _, err := relations.GetByID(ctx, rel.ID); !errors.Is(err, relationrepoport.ErrNotFound) {
		t.Fatalf("expected cascade to remove relation, got %v", err)
	}
	if err := members.Delete(ctx, parentID); err != nil {
		t.Fatalf("cleanup parent: %v", err)
	}
}

func RunSubscriberRepo(t *testing.T, newRepo SubscriberRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(3000, 0).UTC()
	email := "reader-" + uuid.NewString() + "@example.com"

	created, err := repo.Create(ctx, domain.Subscriber{
		Email:        email,
		IsActive:     true,
		SubscribedAt: now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected assigned subscriber id")
	}

	if _, err := repo.Create(ctx, domain.Subscriber{
		Email:        email,
		IsActive:     true,
		SubscribedAt: now,
		UpdatedAt:    now,
	}); !errors.Is(err, subscriberrepoport.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	got, err := repo.GetByEmail(ctx, email)
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != created.ID || !got.IsActive {
		t.Fatalf("unexpected subscriber: %+v", got)
	}

	active, err := repo.ListActiveEmails(ctx)
	if err != nil {
		t.Fatalf("ListActiveEmails: %v", err)
	}
	if !containsString(active, email) {
		t.Fatalf("expected %s in active emails", email)
	}

	got.IsActive = false
	got.UpdatedAt = now.Add(time.Hour)
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	active, err = repo.ListActiveEmails(ctx)
	if err != nil {
		t.Fatalf("ListActiveEmails after deactivate: %v", err)
	}
	if containsString(active, email) {
		t.Fatalf("deactivated email %s must not be listed", email)
	}

	// Inactive records stay readable for reactivation.
	if got, err = repo.GetByEmail(ctx, email); err != nil || got.IsActive {
		t.Fatalf("expected inactive record, got %+v err=%v", got, err)
	}
}

func RunAdminRepo(t *testing.T, newRepo AdminRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(4000, 0).UTC()
	username := "admin-" + uuid.NewString()

	created, err := repo.Create(ctx, domain.AdminUser{
		Username:     username,
		PasswordHash: "$2a$10$fakehashfakehashfakehash",
		IsActive:     true,
		CreatedAt:    now,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected assigned admin id")
	}

	if _, err := repo.Create(ctx, domain.AdminUser{
		Username:     username,
		PasswordHash: "other",
		IsActive:     true,
		CreatedAt:    now,
	}); !errors.Is(err, adminrepoport.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	if _, err := repo.GetByUsername(ctx, "nobody-"+uuid.NewString()); !errors.Is(err, adminrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	login := now.Add(time.Hour)
	created.LastLogin = &login
	if err := repo.Update(ctx, created); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := repo.GetByUsername(ctx, username)
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if got.LastLogin == nil || !got.LastLogin.Equal(login) {
		t.Fatalf("last login not persisted: %+v", got)
	}
}

func containsMember(ms []domain.Member, id domain.MemberID) bool {
	for _, m := range ms {
		if m.ID == id {
			return true
		}
	}
	return false
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

func strptr(s string) *string { return &s }
