package familystore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/family-archive/family-tree-api/internal/domain"
	"github.com/family-archive/family-tree-api/internal/ports/out/memberrepo"
	"github.com/family-archive/family-tree-api/internal/ports/out/relationrepo"
)

// Store is an in-memory implementation of the member and relation
// repositories. Both live behind one mutex so a member delete and its relation
// cascade are a single atomic step, matching the transactional unit the
// postgres adapter gets from a database transaction.
//
// It is safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	members    map[domain.MemberID]domain.Member
	relations  map[domain.RelationID]domain.Relation
	nextRelID  domain.RelationID
	relByTuple map[relKey]domain.RelationID
}

type relKey struct {
	from domain.MemberID
	to   domain.MemberID
	typ  domain.RelationType
}

func NewStore() *Store {
	return &Store{
		members:    make(map[domain.MemberID]domain.Member),
		relations:  make(map[domain.RelationID]domain.Relation),
		relByTuple: make(map[relKey]domain.RelationID),
	}
}

// Members returns the member-repository facet of the store.
func (s *Store) Members() memberrepo.Repository { return (*memberFacet)(s) }

// Relations returns the relation-repository facet of the store.
func (s *Store) Relations() relationrepo.Repository { return (*relationFacet)(s) }

// --- member facet ---

type memberFacet Store

func (f *memberFacet) Create(ctx context.Context, m domain.Member) error {
	_ = ctx
	f.mu.Lock()
	defer f.mu.Unlock()

	if m.ID == "" {
		return memberrepo.ErrAlreadyExists
	}
	if _, ok := f.members[m.ID]; ok {
		return memberrepo.ErrAlreadyExists
	}
	f.members[m.ID] = cloneMember(m)
	return nil
}

func (f *memberFacet) Update(ctx context.Context, m domain.Member) error {
	_ = ctx
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.members[m.ID]; !ok {
		return memberrepo.ErrNotFound
	}
	f.members[m.ID] = cloneMember(m)
	return nil
}

func (f *memberFacet) GetByID(ctx context.Context, id domain.MemberID) (domain.Member, error) {
	_ = ctx
	f.mu.RLock()
	defer f.mu.RUnlock()

	m, ok := f.members[id]
	if !ok {
		return domain.Member{}, memberrepo.ErrNotFound
	}
	return cloneMember(m), nil
}

func (f *memberFacet) List(ctx context.Context, skip, limit int, search string) ([]domain.Member, int, error) {
	_ = ctx
	f.mu.RLock()
	defer f.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(search))
	matched := make([]domain.Member, 0, len(f.members))
	for _, m := range f.members {
		if needle != "" && !strings.Contains(strings.ToLower(m.DisplayName()), needle) {
			continue
		}
		matched = append(matched, cloneMember(m))
	}
	sortMembersByID(matched)

	total := len(matched)
	if skip < 0 {
		skip = 0
	}
	if skip >= total {
		return []domain.Member{}, total, nil
	}
	matched = matched[skip:]
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (f *memberFacet) ListAll(ctx context.Context) ([]domain.Member, error) {
	_ = ctx
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]domain.Member, 0, len(f.members))
	for _, m := range f.members {
		out = append(out, cloneMember(m))
	}
	sortMembersByID(out)
	return out, nil
}

func (f *memberFacet) ListLivingWithBirthDate(ctx context.Context) ([]domain.Member, error) {
	_ = ctx
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]domain.Member, 0)
	for _, m := range f.members {
		if m.BirthDate == nil || m.DeathDate != nil {
			continue
		}
		out = append(out, cloneMember(m))
	}
	sortMembersByID(out)
	return out, nil
}

func (f *memberFacet) Delete(ctx context.Context, id domain.MemberID) error {
	_ = ctx
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.members[id]; !ok {
		return memberrepo.ErrNotFound
	}
	(*Store)(f).deleteMemberLocked(id)
	return nil
}

func (f *memberFacet) DeleteMany(ctx context.Context, ids []domain.MemberID) (int, error) {
	_ = ctx
	f.mu.Lock()
	defer f.mu.Unlock()

	deleted := 0
	for _, id := range ids {
		if _, ok := f.members[id]; !ok {
			continue
		}
		(*Store)(f).deleteMemberLocked(id)
		deleted++
	}
	return deleted, nil
}

// deleteMemberLocked removes the member and every incident relation.
// Caller must hold the write lock.
func (s *Store) deleteMemberLocked(id domain.MemberID) {
	delete(s.members, id)
	for relID, r := range s.relations {
		if r.FromMemberID != id && r.ToMemberID != id {
			continue
		}
		delete(s.relations, relID)
		delete(s.relByTuple, relKey{from: r.FromMemberID, to: r.ToMemberID, typ: r.Type})
	}
}

// --- relation facet ---

type relationFacet Store

func (f *relationFacet) Create(ctx context.Context, r domain.Relation) (domain.Relation, error) {
	_ = ctx
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.members[r.FromMemberID]; !ok {
		return domain.Relation{}, relationrepo.ErrMemberMissing
	}
	if _, ok := f.members[r.ToMemberID]; !ok {
		return domain.Relation{}, relationrepo.ErrMemberMissing
	}
	key := relKey{from: r.FromMemberID, to: r.ToMemberID, typ: r.Type}
	if _, ok := f.relByTuple[key]; ok {
		return domain.Relation{}, relationrepo.ErrDuplicate
	}

	f.nextRelID++
	r.ID = f.nextRelID
	f.relations[r.ID] = cloneRelation(r)
	f.relByTuple[key] = r.ID
	return cloneRelation(r), nil
}

func (f *relationFacet) GetByID(ctx context.Context, id domain.RelationID) (domain.Relation, error) {
	_ = ctx
	f.mu.RLock()
	defer f.mu.RUnlock()

	r, ok := f.relations[id]
	if !ok {
		return domain.Relation{}, relationrepo.ErrNotFound
	}
	return cloneRelation(r), nil
}

func (f *relationFacet) Delete(ctx context.Context, id domain.RelationID) error {
	_ = ctx
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.relations[id]
	if !ok {
		return relationrepo.ErrNotFound
	}
	delete(f.relations, id)
	delete(f.relByTuple, relKey{from: r.FromMemberID, to: r.ToMemberID, typ: r.Type})
	return nil
}

func (f *relationFacet) ListAll(ctx context.Context) ([]domain.Relation, error) {
	_ = ctx
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]domain.Relation, 0, len(f.relations))
	for _, r := range f.relations {
		out = append(out, cloneRelation(r))
	}
	sortRelationsByID(out)
	return out, nil
}

func (f *relationFacet) ListByMember(ctx context.Context, id domain.MemberID) ([]domain.Relation, []domain.Relation, error) {
	_ = ctx
	f.mu.RLock()
	defer f.mu.RUnlock()

	var from, to []domain.Relation
	for _, r := range f.relations {
		if r.FromMemberID == id {
			from = append(from, cloneRelation(r))
		}
		if r.ToMemberID == id {
			to = append(to, cloneRelation(r))
		}
	}
	sortRelationsByID(from)
	sortRelationsByID(to)
	return from, to, nil
}

// --- helpers ---

func cloneMember(m domain.Member) domain.Member {
	out := m
	out.LastName = cloneStringPtr(m.LastName)
	out.Location = cloneStringPtr(m.Location)
	out.Notes = cloneStringPtr(m.Notes)
	if m.BirthDate != nil {
		v := *m.BirthDate
		out.BirthDate = &v
	}
	if m.DeathDate != nil {
		v := *m.DeathDate
		out.DeathDate = &v
	}
	if m.Gender != nil {
		v := *m.Gender
		out.Gender = &v
	}
	return out
}

func cloneRelation(r domain.Relation) domain.Relation {
	out := r
	if r.StartDate != nil {
		v := *r.StartDate
		out.StartDate = &v
	}
	if r.EndDate != nil {
		v := *r.EndDate
		out.EndDate = &v
	}
	return out
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func sortMembersByID(ms []domain.Member) {
	sort.Slice(ms, func(i, j int) bool { return ms[i].ID < ms[j].ID })
}

func sortRelationsByID(rs []domain.Relation) {
	sort.Slice(rs, func(i, j int) bool { return rs[i].ID < rs[j].ID })
}
