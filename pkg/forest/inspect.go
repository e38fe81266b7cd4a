package forest

import (
	"slices"

	nferrors "github.com/matzehuels/nodeforest/pkg/errors"
)

// Report summarizes the structural health of a flat node list.
type Report struct {
	Nodes    int // entries in the list
	Roots    int // roots of the built forest, dangling promotions included
	MaxDepth int // deepest depth reached from any root

	Duplicates []int64 // ids that appear more than once
	Dangling   []int64 // nodes whose ParentID does not resolve
	Cyclic     []int64 // nodes that never reach a root by following parents
}

// OK reports whether the list satisfies the forest invariants that cannot be
// tolerated: unique ids and no cycles. Dangling parents are allowed.
func (r Report) OK() bool {
	return len(r.Duplicates) == 0 && len(r.Cyclic) == 0
}

// Inspect checks nodes for duplicate ids, dangling parents and parent cycles.
// Unlike IsDescendant, which only guards against cycles, Inspect names the
// nodes involved. All id lists are sorted ascending.
func Inspect(nodes []Node) Report {
	r := Report{Nodes: len(nodes)}

	idx := make(map[int64]int, len(nodes))
	for _, n := range nodes {
		idx[n.ID]++
	}
	for id, count := range idx {
		if count > 1 {
			r.Duplicates = append(r.Duplicates, id)
		}
	}

	for _, n := range nodes {
		if n.ParentID == nil {
			continue
		}
		if _, ok := idx[*n.ParentID]; !ok {
			r.Dangling = append(r.Dangling, n.ID)
		}
	}

	roots := BuildForest(nodes)
	r.Roots = len(roots)

	reached := make(map[int64]struct{}, len(nodes))
	Walk(roots, func(tn *TreeNode) bool {
		reached[tn.ID] = struct{}{}
		r.MaxDepth = max(r.MaxDepth, tn.Depth)
		return true
	})
	for _, n := range nodes {
		if _, ok := reached[n.ID]; !ok {
			r.Cyclic = append(r.Cyclic, n.ID)
		}
	}

	slices.Sort(r.Duplicates)
	slices.Sort(r.Dangling)
	slices.Sort(r.Cyclic)
	r.Cyclic = slices.Compact(r.Cyclic)
	return r
}

// ValidateList checks a complete node list before it replaces a stored one,
// as on import. Names must be valid, ids unique and parents acyclic;
// dangling parents are allowed. Failures carry code INVALID_INPUT.
func ValidateList(nodes []Node) error {
	for _, n := range nodes {
		if err := nferrors.ValidateNodeName(n.Name); err != nil {
			return nferrors.New(nferrors.ErrCodeInvalidInput, "node %d: %s", n.ID, nferrors.UserMessage(err)).WithNode(n.ID)
		}
	}
	r := Inspect(nodes)
	if len(r.Duplicates) > 0 {
		return nferrors.New(nferrors.ErrCodeInvalidInput, "duplicate node ids: %v", r.Duplicates).WithNode(r.Duplicates[0])
	}
	if len(r.Cyclic) > 0 {
		return nferrors.New(nferrors.ErrCodeInvalidInput, "nodes on a parent cycle: %v", r.Cyclic).WithNode(r.Cyclic[0])
	}
	return nil
}
