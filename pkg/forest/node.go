package forest

import (
	"fmt"
	"strconv"
	"strings"
)

// Node is the flat, stored representation of one forest member.
// A nil ParentID marks a root.
type Node struct {
	ID       int64  `json:"id" yaml:"id" bson:"id"`
	Name     string `json:"name" yaml:"name" bson:"name"`
	ParentID *int64 `json:"parent_id" yaml:"parent_id" bson:"parent_id"`
}

// IsRoot reports whether the node has no parent pointer.
// Nodes with a dangling parent are still roots of the built forest but
// report false here.
func (n Node) IsRoot() bool { return n.ParentID == nil }

// TreeNode is the derived, read-only nested view produced by BuildForest.
// It is recomputed on demand and never stored.
type TreeNode struct {
	ID       int64       `json:"id" yaml:"id"`
	Name     string      `json:"name" yaml:"name"`
	Depth    int         `json:"depth" yaml:"depth"`
	Children []*TreeNode `json:"children" yaml:"children"`
}

// Ref returns a pointer to a copy of id. It is the usual way to spell a
// parent or move target: forest.Ref(4).
func Ref(id int64) *int64 { return &id }

// FormatParent renders a parent pointer as its id, or "root" when nil.
func FormatParent(p *int64) string {
	if p == nil {
		return "root"
	}
	return strconv.FormatInt(*p, 10)
}

// ParseParent is the inverse of FormatParent. It also accepts "null" and
// the empty string for the root level.
func ParseParent(s string) (*int64, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "root", "null":
		return nil, nil
	}
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid parent %q: want a node id or \"root\"", s)
	}
	return &id, nil
}

// ParseIDs parses node ids given as separate arguments or comma-separated
// lists, as in "2,3 4".
func ParseIDs(args []string) ([]int64, error) {
	var ids []int64
	for _, arg := range args {
		for _, field := range strings.Split(arg, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			id, err := strconv.ParseInt(field, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid node id %q", field)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// SameParent reports whether two parent pointers denote the same level.
// Two nil pointers (root level) are equal.
func SameParent(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Clone returns a deep copy of nodes. Parent pointers are reallocated so the
// copy shares no memory with the input.
func Clone(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		if n.ParentID != nil {
			n.ParentID = Ref(*n.ParentID)
		}
		out[i] = n
	}
	return out
}

// index maps ids to nodes. The first occurrence of a duplicated id wins.
type index map[int64]Node

func newIndex(nodes []Node) index {
	idx := make(index, len(nodes))
	for _, n := range nodes {
		if _, ok := idx[n.ID]; !ok {
			idx[n.ID] = n
		}
	}
	return idx
}
