package ingest

import (
	"context"
	"strings"
	"testing"
	"time"

	memclock "github.com/family-archive/family-tree-api/internal/adapters/memory/clock"
	memfamilystore "github.com/family-archive/family-tree-api/internal/adapters/memory/familystore"
	"github.com/family-archive/family-tree-api/internal/app/family"
	"github.com/family-archive/family-tree-api/internal/domain"
)

const sheetCSV = `id,first_name,last_name,birth_date,death_date,gender,location,notes,mother_id,father_id,spouse_id
p1,Ivan,Petrov,1950-03-10,,MALE,Moscow,,,,p2
p2,Anna,Petrova,15.07.1952,,FEMALE,Moscow,,,,
p3,Oleg,Petrov,1980-01-05,,MALE,,,p2,p1,
`

func newTestService(t *testing.T) (*Service, *family.Service) {
	t.Helper()
	store := memfamilystore.NewStore()
	clk := memclock.NewManualClock(time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC))
	familySvc := family.NewService(store.Members(), store.Relations(), clk)
	return NewService(familySvc), familySvc
}

func TestImportCSV_CreatesMembersAndRelations(t *testing.T) {
	t.Parallel()

	svc, familySvc := newTestService(t)
	stats, err := svc.ImportCSV(context.Background(), strings.NewReader(sheetCSV))
	if err != nil {
		t.Fatalf("ImportCSV err=%v", err)
	}
	if stats.MembersCreated != 3 || stats.MembersSkipped != 0 {
		t.Fatalf("member stats: %+v", stats)
	}
	// Two parent links for p3 plus the p1-p2 spouse link.
	if stats.RelationsCreated != 3 || stats.RelationsSkipped != 0 {
		t.Fatalf("relation stats: %+v", stats)
	}

	m, err := familySvc.GetMember(context.Background(), "p2")
	if err != nil {
		t.Fatalf("GetMember p2: %v", err)
	}
	if m.BirthDate == nil || !m.BirthDate.Equal(time.Date(1952, time.July, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("dotted date not parsed: %+v", m.BirthDate)
	}

	tree, err := familySvc.FamilyTree(context.Background())
	if err != nil {
		t.Fatalf("FamilyTree: %v", err)
	}
	types := map[domain.RelationType]int{}
	seen := map[domain.RelationID]bool{}
	for _, tm := range tree {
		for _, r := range append(tm.RelationsFrom, tm.RelationsTo...) {
			if !seen[r.ID] {
				seen[r.ID] = true
				types[r.Type]++
			}
		}
	}
	if types[domain.RelationParent] != 2 || types[domain.RelationSpouse] != 1 {
		t.Fatalf("relation types: %v", types)
	}
}

func TestImportCSV_RerunIsIdempotent(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	if _, err := svc.ImportCSV(context.Background(), strings.NewReader(sheetCSV)); err != nil {
		t.Fatalf("first run: %v", err)
	}
	stats, err := svc.ImportCSV(context.Background(), strings.NewReader(sheetCSV))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if stats.MembersCreated != 0 || stats.MembersSkipped != 3 {
		t.Fatalf("member stats on rerun: %+v", stats)
	}
	if stats.RelationsCreated != 0 || stats.RelationsSkipped != 3 {
		t.Fatalf("relation stats on rerun: %+v", stats)
	}
}

func TestImportCSV_BlankIDRowsIgnored(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	csv := "id,first_name\np1,Ivan\n,Ghost\n"
	stats, err := svc.ImportCSV(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportCSV err=%v", err)
	}
	if stats.MembersCreated != 1 {
		t.Fatalf("stats: %+v", stats)
	}
}

func TestImportCSV_MissingRequiredColumns(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	if _, err := svc.ImportCSV(context.Background(), strings.NewReader("first_name\nIvan\n")); err == nil {
		t.Fatalf("expected error for missing id column")
	}
	if _, err := svc.ImportCSV(context.Background(), strings.NewReader("id\np1\n")); err == nil {
		t.Fatalf("expected error for missing first_name column")
	}
}

func TestImportCSV_BadDateFails(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	csv := "id,first_name,birth_date\np1,Ivan,03/10/1950\n"
	if _, err := svc.ImportCSV(context.Background(), strings.NewReader(csv)); err == nil {
		t.Fatalf("expected error for unrecognized date format")
	}
}
