package forest

// FindNode returns the first node with the given id.
// A missing node is an ordinary outcome, reported through ok.
func FindNode(nodes []Node, id int64) (Node, bool) {
	for _, n := range nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// IsDescendant reports whether candidate lies on or below ancestorID.
//
// The walk starts at the candidate itself and follows parent pointers,
// returning true as soon as a visited node has ancestorID. A nil candidate
// (root level) is never a descendant. The walk stops with false at a root, at
// a dangling parent, or when a node is revisited; the last case only guarantees
// termination on corrupted data and says nothing about where the cycle is.
func IsDescendant(nodes []Node, ancestorID int64, candidate *int64) bool {
	return newIndex(nodes).isDescendant(ancestorID, candidate)
}

func (idx index) isDescendant(ancestorID int64, candidate *int64) bool {
	if candidate == nil {
		return false
	}

	visited := make(map[int64]struct{})
	cur, ok := idx[*candidate]
	for ok {
		if cur.ID == ancestorID {
			return true
		}
		if cur.ParentID == nil {
			return false
		}
		if _, seen := visited[cur.ID]; seen {
			return false
		}
		visited[cur.ID] = struct{}{}
		cur, ok = idx[*cur.ParentID]
	}
	return false
}

// AreSameLevel reports whether all ids resolve to siblings: nodes sharing the
// first node's ParentID, with all roots counting as one level.
// An empty id list is vacuously same-level; an unknown id never is.
func AreSameLevel(nodes []Node, ids []int64) bool {
	if len(ids) == 0 {
		return true
	}

	idx := newIndex(nodes)
	first, ok := idx[ids[0]]
	if !ok {
		return false
	}
	for _, id := range ids[1:] {
		n, ok := idx[id]
		if !ok || !SameParent(n.ParentID, first.ParentID) {
			return false
		}
	}
	return true
}

// GetParentID returns the parent of id. It returns nil both for roots and for
// unknown ids; use LookupParentID when the difference matters.
func GetParentID(nodes []Node, id int64) *int64 {
	parent, _ := LookupParentID(nodes, id)
	return parent
}

// LookupParentID returns the parent of id and whether id exists at all.
func LookupParentID(nodes []Node, id int64) (*int64, bool) {
	n, ok := FindNode(nodes, id)
	if !ok {
		return nil, false
	}
	return n.ParentID, true
}

// Children returns the direct children of parent in list order. A nil parent
// returns the nodes stored with a nil ParentID.
func Children(nodes []Node, parent *int64) []Node {
	var out []Node
	for _, n := range nodes {
		if SameParent(n.ParentID, parent) {
			out = append(out, n)
		}
	}
	return out
}
