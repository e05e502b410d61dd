package family

import (
	"context"
	"errors"
	"testing"
	"time"

	memclock "github.com/family-archive/family-tree-api/internal/adapters/memory/clock"
	memfamilystore "github.com/family-archive/family-tree-api/internal/adapters/memory/familystore"
	"github.com/family-archive/family-tree-api/internal/domain"
)

func newTestService(t *testing.T) (*Service, *memclock.ManualClock) {
	t.Helper()
	store := memfamilystore.NewStore()
	clk := memclock.NewManualClock(time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC))
	return NewService(store.Members(), store.Relations(), clk), clk
}

func mustCreate(t *testing.T, svc *Service, id, firstName string) domain.Member {
	t.Helper()
	m, err := svc.CreateMember(context.Background(), CreateMemberInput{
		ID:        &id,
		FirstName: firstName,
	})
	if err != nil {
		t.Fatalf("CreateMember(%s) err=%v", id, err)
	}
	return m
}

func assertAppError(t *testing.T, err error, status int, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s", code)
	}
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Status != status || ae.Code != code {
		t.Fatalf("err=%v (type=%T), want %s %d", err, err, code, status)
	}
}

func TestService_CreateMember_AssignsIDAndNormalizes(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	svc.SetNewMemberIDForTest(func() domain.MemberID { return "gen-1" })

	last := "  smith  "
	m, err := svc.CreateMember(context.Background(), CreateMemberInput{
		FirstName: "  Anna ",
		LastName:  &last,
	})
	if err != nil {
		t.Fatalf("CreateMember err=%v", err)
	}
	if m.ID != "gen-1" {
		t.Fatalf("id=%q, want generated id", m.ID)
	}
	if m.FirstName != "Anna" || m.LastName == nil || *m.LastName != "smith" {
		t.Fatalf("names not normalized: %+v", m)
	}
	if m.DisplayName() != "Anna smith" {
		t.Fatalf("displayName=%q", m.DisplayName())
	}
}

func TestService_CreateMember_DuplicateID(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	mustCreate(t, svc, "m1", "Anna")

	id := "m1"
	_, err := svc.CreateMember(context.Background(), CreateMemberInput{ID: &id, FirstName: "Other"})
	assertAppError(t, err, 409, "MEMBER_ALREADY_EXISTS")
}

func TestService_CreateMember_RejectsDeathBeforeBirth(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	birth := time.Date(1990, time.May, 1, 0, 0, 0, 0, time.UTC)
	death := time.Date(1980, time.May, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.CreateMember(context.Background(), CreateMemberInput{
		FirstName: "Anna",
		BirthDate: &birth,
		DeathDate: &death,
	})
	assertAppError(t, err, 422, "VALIDATION_ERROR")
}

func TestService_GetMember_NotFound(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	_, err := svc.GetMember(context.Background(), "missing")
	assertAppError(t, err, 404, "MEMBER_NOT_FOUND")
}

func TestService_UpdateMember_SparsePatch(t *testing.T) {
	t.Parallel()

	svc, clk := newTestService(t)
	loc := "Riga"
	notes := "keep me"
	_, err := svc.CreateMember(context.Background(), CreateMemberInput{
		ID:        ptr("m1"),
		FirstName: "Anna",
		Location:  &loc,
		Notes:     &notes,
	})
	if err != nil {
		t.Fatalf("CreateMember err=%v", err)
	}

	clk.Advance(time.Hour)
	// Location cleared via explicit null, notes untouched (unspecified).
	got, err := svc.UpdateMember(context.Background(), "m1", UpdateMemberInput{
		FirstName: Some("Anne"),
		Location:  Null[string](),
	})
	if err != nil {
		t.Fatalf("UpdateMember err=%v", err)
	}
	if got.FirstName != "Anne" {
		t.Fatalf("firstName=%q", got.FirstName)
	}
	if got.Location != nil {
		t.Fatalf("location should be cleared, got %q", *got.Location)
	}
	if got.Notes == nil || *got.Notes != "keep me" {
		t.Fatalf("notes should be untouched: %+v", got.Notes)
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Fatalf("updatedAt not bumped: %+v", got)
	}
}

func TestService_UpdateMember_FirstNameNullRejected(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	mustCreate(t, svc, "m1", "Anna")

	_, err := svc.UpdateMember(context.Background(), "m1", UpdateMemberInput{
		FirstName: Null[string](),
	})
	assertAppError(t, err, 422, "VALIDATION_ERROR")
}

func TestService_UpdateMember_LifespanCheckedAfterPatch(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	birth := time.Date(1990, time.May, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.CreateMember(context.Background(), CreateMemberInput{
		ID:        ptr("m1"),
		FirstName: "Anna",
		BirthDate: &birth,
	})
	if err != nil {
		t.Fatalf("CreateMember err=%v", err)
	}

	_, err = svc.UpdateMember(context.Background(), "m1", UpdateMemberInput{
		DeathDate: Some(time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)),
	})
	assertAppError(t, err, 422, "VALIDATION_ERROR")
}

func TestService_CreateRelation_ErrorOrder(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	mustCreate(t, svc, "m1", "Anna")

	// Invalid type wins even over a self-relation.
	_, err := svc.CreateRelation(context.Background(), CreateRelationInput{
		FromMemberID: "m1", ToMemberID: "m1", Type: "FRIEND",
	})
	assertAppError(t, err, 422, "INVALID_RELATION_TYPE")

	_, err = svc.CreateRelation(context.Background(), CreateRelationInput{
		FromMemberID: "m1", ToMemberID: "m1", Type: domain.RelationSpouse,
	})
	assertAppError(t, err, 422, "SELF_RELATION")

	_, err = svc.CreateRelation(context.Background(), CreateRelationInput{
		FromMemberID: "ghost", ToMemberID: "m1", Type: domain.RelationParent,
	})
	assertAppError(t, err, 404, "MEMBER_NOT_FOUND")

	_, err = svc.CreateRelation(context.Background(), CreateRelationInput{
		FromMemberID: "m1", ToMemberID: "ghost", Type: domain.RelationParent,
	})
	assertAppError(t, err, 404, "MEMBER_NOT_FOUND")
}

func TestService_CreateRelation_DuplicateAndDistinctType(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	mustCreate(t, svc, "m1", "Anna")
	mustCreate(t, svc, "m2", "Boris")

	first, err := svc.CreateRelation(context.Background(), CreateRelationInput{
		FromMemberID: "m1", ToMemberID: "m2", Type: domain.RelationParent,
	})
	if err != nil {
		t.Fatalf("CreateRelation err=%v", err)
	}
	if first.ID == 0 {
		t.Fatalf("expected assigned relation id")
	}

	_, err = svc.CreateRelation(context.Background(), CreateRelationInput{
		FromMemberID: "m1", ToMemberID: "m2", Type: domain.RelationParent,
	})
	assertAppError(t, err, 409, "DUPLICATE_RELATION")

	// Same endpoints, different type is a distinct edge.
	if _, err := svc.CreateRelation(context.Background(), CreateRelationInput{
		FromMemberID: "m1", ToMemberID: "m2", Type: domain.RelationSpouse,
	}); err != nil {
		t.Fatalf("CreateRelation distinct type err=%v", err)
	}
}

func TestService_DeleteRelation_RepeatedDeleteReportsNotFound(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	mustCreate(t, svc, "m1", "Anna")
	mustCreate(t, svc, "m2", "Boris")
	rel, err := svc.CreateRelation(context.Background(), CreateRelationInput{
		FromMemberID: "m1", ToMemberID: "m2", Type: domain.RelationParent,
	})
	if err != nil {
		t.Fatalf("CreateRelation err=%v", err)
	}

	if err := svc.DeleteRelation(context.Background(), rel.ID); err != nil {
		t.Fatalf("DeleteRelation err=%v", err)
	}
	assertAppError(t, svc.DeleteRelation(context.Background(), rel.ID), 404, "RELATION_NOT_FOUND")
}

func TestService_DeleteMember_CascadesRelations(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	mustCreate(t, svc, "m1", "Anna")
	mustCreate(t, svc, "m2", "Boris")
	rel, err := svc.CreateRelation(context.Background(), CreateRelationInput{
		FromMemberID: "m1", ToMemberID: "m2", Type: domain.RelationParent,
	})
	if err != nil {
		t.Fatalf("CreateRelation err=%v", err)
	}

	if err := svc.DeleteMember(context.Background(), "m2"); err != nil {
		t.Fatalf("DeleteMember err=%v", err)
	}
	assertAppError(t, svc.DeleteRelation(context.Background(), rel.ID), 404, "RELATION_NOT_FOUND")
}

func TestService_DeleteMembers_SkipsMissing(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	mustCreate(t, svc, "m1", "Anna")
	mustCreate(t, svc, "m2", "Boris")

	n, err := svc.DeleteMembers(context.Background(), []domain.MemberID{"m1", "m2", "m999"})
	if err != nil {
		t.Fatalf("DeleteMembers err=%v", err)
	}
	if n != 2 {
		t.Fatalf("deleted %d, want 2", n)
	}

	if n, err = svc.DeleteMembers(context.Background(), nil); err != nil || n != 0 {
		t.Fatalf("empty batch: n=%d err=%v", n, err)
	}
}

func TestService_ListMembers_Pagination(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		mustCreate(t, svc, id, "Member "+id)
	}

	page, err := svc.ListMembers(context.Background(), ListMembersInput{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("ListMembers err=%v", err)
	}
	if page.Total != 5 || page.TotalPages != 3 || page.Page != 2 || page.PageSize != 2 {
		t.Fatalf("unexpected page meta: %+v", page)
	}
	if len(page.Items) != 2 || page.Items[0].ID != "c" || page.Items[1].ID != "d" {
		t.Fatalf("unexpected window: %+v", page.Items)
	}

	// Page size is clamped; page defaults to 1.
	page, err = svc.ListMembers(context.Background(), ListMembersInput{PageSize: 1000})
	if err != nil {
		t.Fatalf("ListMembers err=%v", err)
	}
	if page.PageSize != MaxPageSize || page.Page != 1 {
		t.Fatalf("clamping failed: %+v", page)
	}
}

func TestService_ListMembers_Search(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	lastA := "Ivanova"
	if _, err := svc.CreateMember(context.Background(), CreateMemberInput{
		ID: ptr("m1"), FirstName: "Anna", LastName: &lastA,
	}); err != nil {
		t.Fatalf("CreateMember err=%v", err)
	}
	mustCreate(t, svc, "m2", "Boris")

	page, err := svc.ListMembers(context.Background(), ListMembersInput{Search: "ivanova"})
	if err != nil {
		t.Fatalf("ListMembers err=%v", err)
	}
	if page.Total != 1 || len(page.Items) != 1 || page.Items[0].ID != "m1" {
		t.Fatalf("unexpected search result: %+v", page)
	}
}

func TestService_FamilyTree_IncludesRelationsAndFlags(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	mustCreate(t, svc, "1", "Root")
	mustCreate(t, svc, "2", "Child")
	if _, err := svc.CreateRelation(context.Background(), CreateRelationInput{
		FromMemberID: "1", ToMemberID: "2", Type: domain.RelationParent,
	}); err != nil {
		t.Fatalf("CreateRelation err=%v", err)
	}

	tree, err := svc.FamilyTree(context.Background())
	if err != nil {
		t.Fatalf("FamilyTree err=%v", err)
	}
	if len(tree) != 2 {
		t.Fatalf("len=%d", len(tree))
	}
	byID := map[domain.MemberID]TreeMember{}
	for _, tm := range tree {
		byID[tm.ID] = tm
	}
	root := byID["1"]
	if !root.IsDescendant || len(root.RelationsFrom) != 1 || len(root.RelationsTo) != 0 {
		t.Fatalf("unexpected root entry: %+v", root)
	}
	child := byID["2"]
	if !child.IsDescendant || len(child.RelationsFrom) != 0 || len(child.RelationsTo) != 1 {
		t.Fatalf("unexpected child entry: %+v", child)
	}
}
