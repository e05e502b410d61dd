package family

import "github.com/family-archive/family-tree-api/internal/domain"

// descendantFlags marks every member reachable from the root over PARENT
// edges (parent -> child), the root included. The root is the member with the
// smallest id among the supplied members.
//
// The root choice is a heuristic, not genealogical root detection: in
// multi-root or disconnected datasets members under another root are reported
// as non-descendants. That behavior is deliberate and covered by tests.
func descendantFlags(members []domain.Member, relations []domain.Relation) map[domain.MemberID]bool {
	flags := make(map[domain.MemberID]bool, len(members))
	if len(members) == 0 {
		return flags
	}
	for _, m := range members {
		flags[m.ID] = false
	}

	// Child adjacency over PARENT edges. Edges pointing at members outside the
	// supplied set are dropped so partial inputs cannot leak unknown ids.
	children := make(map[domain.MemberID][]domain.MemberID)
	for _, r := range relations {
		if r.Type != domain.RelationParent {
			continue
		}
		if _, ok := flags[r.ToMemberID]; !ok {
			continue
		}
		children[r.FromMemberID] = append(children[r.FromMemberID], r.ToMemberID)
	}

	root := members[0].ID
	for _, m := range members[1:] {
		if m.ID < root {
			root = m.ID
		}
	}

	// Breadth-first, cycle-safe: a visited child is never enqueued twice.
	flags[root] = true
	queue := []domain.MemberID{root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, child := range children[cur] {
			if flags[child] {
				continue
			}
			flags[child] = true
			queue = append(queue, child)
		}
	}
	return flags
}
