package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/family-archive/family-tree-api/internal/app/family"
	"github.com/family-archive/family-tree-api/internal/domain"
)

// Stats summarizes one import run.
type Stats struct {
	MembersCreated   int
	MembersSkipped   int
	RelationsCreated int
	RelationsSkipped int
}

// Service imports sheet-shaped CSV data through the same mutation operations
// as any other client. Rows already present (same member id, or an existing
// (from, to, type) relation) are skipped, so re-running an import is safe.
type Service struct {
	family *family.Service
}

func NewService(familySvc *family.Service) *Service {
	return &Service{family: familySvc}
}

type row struct {
	id        string
	firstName string
	lastName  string
	birthDate string
	deathDate string
	gender    string
	location  string
	notes     string
	motherID  string
	fatherID  string
	spouseID  string
}

// ImportCSV reads the sheet export and creates members first, then the
// PARENT/SPOUSE relations between them. Expected header columns: id,
// first_name, last_name, birth_date, death_date, gender, location, notes,
// mother_id, father_id, spouse_id.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (Stats, error) {
	rows, err := parseRows(r)
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	for _, rec := range rows {
		created, err := s.importMember(ctx, rec)
		if err != nil {
			return stats, fmt.Errorf("member %q: %w", rec.id, err)
		}
		if created {
			stats.MembersCreated++
		} else {
			stats.MembersSkipped++
		}
	}

	for _, rec := range rows {
		child := rec.id
		for _, parentID := range []string{rec.motherID, rec.fatherID} {
			if parentID == "" {
				continue
			}
			created, err := s.importRelation(ctx, parentID, child, domain.RelationParent)
			if err != nil {
				return stats, fmt.Errorf("parent relation %q -> %q: %w", parentID, child, err)
			}
			if created {
				stats.RelationsCreated++
			} else {
				stats.RelationsSkipped++
			}
		}
		if rec.spouseID != "" {
			created, err := s.importRelation(ctx, rec.id, rec.spouseID, domain.RelationSpouse)
			if err != nil {
				return stats, fmt.Errorf("spouse relation %q -> %q: %w", rec.id, rec.spouseID, err)
			}
			if created {
				stats.RelationsCreated++
			} else {
				stats.RelationsSkipped++
			}
		}
	}
	return stats, nil
}

func (s *Service) importMember(ctx context.Context, rec row) (bool, error) {
	in := family.CreateMemberInput{
		ID:        &rec.id,
		FirstName: rec.firstName,
	}
	if rec.lastName != "" {
		in.LastName = &rec.lastName
	}
	if rec.location != "" {
		in.Location = &rec.location
	}
	if rec.notes != "" {
		in.Notes = &rec.notes
	}
	if rec.gender != "" {
		g := domain.Gender(strings.ToUpper(rec.gender))
		in.Gender = &g
	}
	var err error
	if in.BirthDate, err = parseSheetDate(rec.birthDate); err != nil {
		return false, err
	}
	if in.DeathDate, err = parseSheetDate(rec.deathDate); err != nil {
		return false, err
	}

	_, err = s.family.CreateMember(ctx, in)
	if err != nil {
		if isAppError(err, "MEMBER_ALREADY_EXISTS") {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Service) importRelation(ctx context.Context, from, to string, t domain.RelationType) (bool, error) {
	_, err := s.family.CreateRelation(ctx, family.CreateRelationInput{
		FromMemberID: from,
		ToMemberID:   to,
		Type:         t,
	})
	if err != nil {
		if isAppError(err, "DUPLICATE_RELATION") {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func parseRows(r io.Reader) ([]row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := col["id"]; !ok {
		return nil, errors.New("csv is missing the id column")
	}
	if _, ok := col["first_name"]; !ok {
		return nil, errors.New("csv is missing the first_name column")
	}

	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var rows []row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		rw := row{
			id:        field(rec, "id"),
			firstName: field(rec, "first_name"),
			lastName:  field(rec, "last_name"),
			birthDate: field(rec, "birth_date"),
			deathDate: field(rec, "death_date"),
			gender:    field(rec, "gender"),
			location:  field(rec, "location"),
			notes:     field(rec, "notes"),
			motherID:  field(rec, "mother_id"),
			fatherID:  field(rec, "father_id"),
			spouseID:  field(rec, "spouse_id"),
		}
		if rw.id == "" {
			continue
		}
		rows = append(rows, rw)
	}
	return rows, nil
}

// parseSheetDate accepts the two date spellings seen in sheet exports.
func parseSheetDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", "02.01.2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			d := domain.DateOnly(t)
			return &d, nil
		}
	}
	return nil, fmt.Errorf("unrecognized date %q", s)
}

func isAppError(err error, code string) bool {
	ae := (*family.Error)(nil)
	return errors.As(err, &ae) && ae.Code == code
}
