package familystore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/family-archive/family-tree-api/internal/adapters/postgres"
	"github.com/family-archive/family-tree-api/internal/domain"
	"github.com/family-archive/family-tree-api/internal/ports/out/memberrepo"
	"github.com/family-archive/family-tree-api/internal/ports/out/relationrepo"
)

// Store is the Postgres implementation of the member and relation
// repositories. The two facets share the pool so member deletion and its
// relation cascade run in one transaction.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Members returns the member-repository facet of the store.
func (s *Store) Members() memberrepo.Repository { return &memberFacet{pool: s.pool} }

// Relations returns the relation-repository facet of the store.
func (s *Store) Relations() relationrepo.Repository { return &relationFacet{pool: s.pool} }

// --- member facet ---

type memberFacet struct {
	pool *pgxpool.Pool
}

const memberColumns = `
	id,
	first_name,
	last_name,
	birth_date,
	death_date,
	gender,
	location,
	notes,
	created_at,
	updated_at
`

func (f *memberFacet) Create(ctx context.Context, m domain.Member) error {
	if f.pool == nil {
		return errors.New("nil postgres pool")
	}
	_, err := f.pool.Exec(ctx, `
		INSERT INTO family_members (
			id,
			first_name,
			last_name,
			birth_date,
			death_date,
			gender,
			location,
			notes,
			created_at,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		string(m.ID),
		m.FirstName,
		m.LastName,
		m.BirthDate,
		m.DeathDate,
		genderArg(m.Gender),
		m.Location,
		m.Notes,
		m.CreatedAt.UTC(),
		m.UpdatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return memberrepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (f *memberFacet) Update(ctx context.Context, m domain.Member) error {
	if f.pool == nil {
		return errors.New("nil postgres pool")
	}
	ct, err := f.pool.Exec(ctx, `
		UPDATE family_members
		SET first_name = $2,
		    last_name = $3,
		    birth_date = $4,
		    death_date = $5,
		    gender = $6,
		    location = $7,
		    notes = $8,
		    updated_at = $9
		WHERE id = $1
	`,
		string(m.ID),
		m.FirstName,
		m.LastName,
		m.BirthDate,
		m.DeathDate,
		genderArg(m.Gender),
		m.Location,
		m.Notes,
		m.UpdatedAt.UTC(),
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return memberrepo.ErrNotFound
	}
	return nil
}

func (f *memberFacet) GetByID(ctx context.Context, id domain.MemberID) (domain.Member, error) {
	if f.pool == nil {
		return domain.Member{}, errors.New("nil postgres pool")
	}
	row := f.pool.QueryRow(ctx, `SELECT `+memberColumns+` FROM family_members WHERE id = $1`, string(id))
	return scanMember(row)
}

func (f *memberFacet) List(ctx context.Context, skip, limit int, search string) ([]domain.Member, int, error) {
	if f.pool == nil {
		return nil, 0, errors.New("nil postgres pool")
	}
	where := ""
	args := []any{}
	if search != "" {
		where = ` WHERE lower(first_name || coalesce(' ' || last_name, '')) LIKE $1 ESCAPE '\'`
		args = append(args, "%"+escapeLike(strings.ToLower(search))+"%")
	}

	var total int
	if err := f.pool.QueryRow(ctx, `SELECT count(*) FROM family_members`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + memberColumns + ` FROM family_members` + where + ` ORDER BY id ASC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
	}
	if skip > 0 {
		query += fmt.Sprintf(` OFFSET %d`, skip)
	}
	rows, err := f.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out, err := collectMembers(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// escapeLike makes the search term match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (f *memberFacet) ListAll(ctx context.Context) ([]domain.Member, error) {
	if f.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := f.pool.Query(ctx, `SELECT `+memberColumns+` FROM family_members ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMembers(rows)
}

func (f *memberFacet) ListLivingWithBirthDate(ctx context.Context) ([]domain.Member, error) {
	if f.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := f.pool.Query(ctx, `
		SELECT `+memberColumns+`
		FROM family_members
		WHERE birth_date IS NOT NULL AND death_date IS NULL
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMembers(rows)
}

func (f *memberFacet) Delete(ctx context.Context, id domain.MemberID) error {
	if f.pool == nil {
		return errors.New("nil postgres pool")
	}
	return pgx.BeginFunc(ctx, f.pool, func(tx pgx.Tx) error {
		return deleteMemberInTx(ctx, tx, id)
	})
}

func (f *memberFacet) DeleteMany(ctx context.Context, ids []domain.MemberID) (int, error) {
	if f.pool == nil {
		return 0, errors.New("nil postgres pool")
	}
	deleted := 0
	err := pgx.BeginFunc(ctx, f.pool, func(tx pgx.Tx) error {
		for _, id := range ids {
			switch err := deleteMemberInTx(ctx, tx, id); {
			case err == nil:
				deleted++
			case errors.Is(err, memberrepo.ErrNotFound):
				// Unknown ids are skipped, not reported.
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

func deleteMemberInTx(ctx context.Context, tx pgx.Tx, id domain.MemberID) error {
	if _, err := tx.Exec(ctx, `
		DELETE FROM relations WHERE from_member_id = $1 OR to_member_id = $1
	`, string(id)); err != nil {
		return err
	}
	ct, err := tx.Exec(ctx, `DELETE FROM family_members WHERE id = $1`, string(id))
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return memberrepo.ErrNotFound
	}
	return nil
}

// --- relation facet ---

type relationFacet struct {
	pool *pgxpool.Pool
}

const relationColumns = `
	id,
	from_member_id,
	to_member_id,
	relation_type,
	start_date,
	end_date,
	created_at,
	updated_at
`

func (f *relationFacet) Create(ctx context.Context, r domain.Relation) (domain.Relation, error) {
	if f.pool == nil {
		return domain.Relation{}, errors.New("nil postgres pool")
	}
	var id int64
	err := f.pool.QueryRow(ctx, `
		INSERT INTO relations (
			from_member_id,
			to_member_id,
			relation_type,
			start_date,
			end_date,
			created_at,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`,
		string(r.FromMemberID),
		string(r.ToMemberID),
		string(r.Type),
		r.StartDate,
		r.EndDate,
		r.CreatedAt.UTC(),
		r.UpdatedAt.UTC(),
	).Scan(&id)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok {
			switch pe.Code {
			case postgres.UniqueViolationCode:
				return domain.Relation{}, relationrepo.ErrDuplicate
			case postgres.ForeignKeyViolationCode:
				return domain.Relation{}, relationrepo.ErrMemberMissing
			}
		}
		return domain.Relation{}, err
	}
	r.ID = domain.RelationID(id)
	return r, nil
}

func (f *relationFacet) GetByID(ctx context.Context, id domain.RelationID) (domain.Relation, error) {
	if f.pool == nil {
		return domain.Relation{}, errors.New("nil postgres pool")
	}
	row := f.pool.QueryRow(ctx, `SELECT `+relationColumns+` FROM relations WHERE id = $1`, int64(id))
	return scanRelation(row)
}

func (f *relationFacet) Delete(ctx context.Context, id domain.RelationID) error {
	if f.pool == nil {
		return errors.New("nil postgres pool")
	}
	ct, err := f.pool.Exec(ctx, `DELETE FROM relations WHERE id = $1`, int64(id))
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return relationrepo.ErrNotFound
	}
	return nil
}

func (f *relationFacet) ListAll(ctx context.Context) ([]domain.Relation, error) {
	if f.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := f.pool.Query(ctx, `SELECT `+relationColumns+` FROM relations ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRelations(rows)
}

func (f *relationFacet) ListByMember(ctx context.Context, id domain.MemberID) ([]domain.Relation, []domain.Relation, error) {
	if f.pool == nil {
		return nil, nil, errors.New("nil postgres pool")
	}
	rows, err := f.pool.Query(ctx, `
		SELECT `+relationColumns+`
		FROM relations
		WHERE from_member_id = $1 OR to_member_id = $1
		ORDER BY id ASC
	`, string(id))
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	all, err := collectRelations(rows)
	if err != nil {
		return nil, nil, err
	}
	var from, to []domain.Relation
	for _, r := range all {
		if r.FromMemberID == id {
			from = append(from, r)
		}
		if r.ToMemberID == id {
			to = append(to, r)
		}
	}
	return from, to, nil
}

// --- helpers ---

func scanMember(row interface {
	Scan(dest ...any) error
}) (domain.Member, error) {
	var (
		id        string
		firstName string
		lastName  *string
		birthDate *time.Time
		deathDate *time.Time
		gender    *string
		location  *string
		notes     *string
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(
		&id,
		&firstName,
		&lastName,
		&birthDate,
		&deathDate,
		&gender,
		&location,
		&notes,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Member{}, memberrepo.ErrNotFound
		}
		return domain.Member{}, err
	}
	var g *domain.Gender
	if gender != nil {
		v := domain.Gender(*gender)
		g = &v
	}
	return domain.Member{
		ID:        domain.MemberID(id),
		FirstName: firstName,
		LastName:  lastName,
		BirthDate: dateOnlyPtr(birthDate),
		DeathDate: dateOnlyPtr(deathDate),
		Gender:    g,
		Location:  location,
		Notes:     notes,
		CreatedAt: createdAt.UTC(),
		UpdatedAt: updatedAt.UTC(),
	}, nil
}

func collectMembers(rows pgx.Rows) ([]domain.Member, error) {
	out := make([]domain.Member, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanRelation(row interface {
	Scan(dest ...any) error
}) (domain.Relation, error) {
	var (
		id        int64
		from      string
		to        string
		typ       string
		startDate *time.Time
		endDate   *time.Time
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&id, &from, &to, &typ, &startDate, &endDate, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Relation{}, relationrepo.ErrNotFound
		}
		return domain.Relation{}, err
	}
	return domain.Relation{
		ID:           domain.RelationID(id),
		FromMemberID: domain.MemberID(from),
		ToMemberID:   domain.MemberID(to),
		Type:         domain.RelationType(typ),
		StartDate:    dateOnlyPtr(startDate),
		EndDate:      dateOnlyPtr(endDate),
		CreatedAt:    createdAt.UTC(),
		UpdatedAt:    updatedAt.UTC(),
	}, nil
}

func collectRelations(rows pgx.Rows) ([]domain.Relation, error) {
	out := make([]domain.Relation, 0)
	for rows.Next() {
		r, err := scanRelation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func dateOnlyPtr(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := domain.DateOnly(*p)
	return &v
}

func genderArg(g *domain.Gender) *string {
	if g == nil {
		return nil
	}
	v := string(*g)
	return &v
}
