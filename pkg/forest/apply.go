package forest

// ApplyMove returns a new node list in which every node whose id is in ids
// has its ParentID replaced by target, plus the ids that were changed.
//
// ApplyMove does not validate; call ValidateMove on the same snapshot first.
// Untouched nodes are copied verbatim, including their ParentID pointer, so
// callers can detect changes by pointer comparison. Each moved node gets its
// own freshly allocated ParentID. The returned ids are deduplicated and
// follow the order of nodes, not of ids.
//
// The input slice is not modified, so a failure to persist the result leaves
// the caller's snapshot intact.
func ApplyMove(nodes []Node, ids []int64, target *int64) ([]Node, []int64) {
	want := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	updated := make([]Node, len(nodes))
	moved := make([]int64, 0, len(want))
	seen := make(map[int64]struct{}, len(want))

	for i, n := range nodes {
		if _, ok := want[n.ID]; ok {
			n.ParentID = nil
			if target != nil {
				n.ParentID = Ref(*target)
			}
			if _, dup := seen[n.ID]; !dup {
				seen[n.ID] = struct{}{}
				moved = append(moved, n.ID)
			}
		}
		updated[i] = n
	}

	return updated, moved
}
