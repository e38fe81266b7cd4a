package forest

// BuildForest converts a flat node list into an ordered sequence of root
// TreeNodes with depth annotations.
//
// One TreeNode is created per input entry. An entry becomes a root when its
// ParentID is nil or does not resolve to any node (dangling parent). Otherwise
// it is appended to its parent's Children, so siblings keep the relative order
// of the input. Roots are returned in order of first appearance.
//
// Depth is assigned top-down from 1 at each root with an explicit stack, so
// arbitrarily deep trees are fine. Entries on a parent cycle never reach a
// root and are absent from the result. When an id is duplicated, children
// attach to its first occurrence.
//
// The input is not modified. Children slices are never nil.
func BuildForest(nodes []Node) []*TreeNode {
	built := make([]*TreeNode, len(nodes))
	byID := make(map[int64]*TreeNode, len(nodes))
	for i, n := range nodes {
		tn := &TreeNode{ID: n.ID, Name: n.Name, Children: []*TreeNode{}}
		built[i] = tn
		if _, ok := byID[n.ID]; !ok {
			byID[n.ID] = tn
		}
	}

	roots := []*TreeNode{}
	for i, n := range nodes {
		tn := built[i]
		if n.ParentID == nil {
			roots = append(roots, tn)
			continue
		}
		if parent, ok := byID[*n.ParentID]; ok {
			parent.Children = append(parent.Children, tn)
		} else {
			roots = append(roots, tn)
		}
	}

	assignDepths(roots)
	return roots
}

// assignDepths walks the forest iteratively and sets Depth on every node
// reachable from roots.
func assignDepths(roots []*TreeNode) {
	stack := make([]*TreeNode, 0, len(roots))
	for _, r := range roots {
		r.Depth = 1
		stack = append(stack, r)
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range n.Children {
			c.Depth = n.Depth + 1
			stack = append(stack, c)
		}
	}
}

// Flatten walks roots in pre-order and returns the equivalent flat list.
// Root entries get a nil ParentID. Flatten(BuildForest(nodes)) reproduces
// the parent relationships of an acyclic list without dangling parents.
func Flatten(roots []*TreeNode) []Node {
	type frame struct {
		node   *TreeNode
		parent *int64
	}

	var out []Node
	stack := make([]frame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: roots[i]})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, Node{ID: f.node.ID, Name: f.node.Name, ParentID: f.parent})
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: f.node.Children[i], parent: Ref(f.node.ID)})
		}
	}
	return out
}

// Walk calls fn for every node of the forest in pre-order. Returning false
// from fn skips that node's children.
func Walk(roots []*TreeNode, fn func(*TreeNode) bool) {
	stack := make([]*TreeNode, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, roots[i])
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(n) {
			continue
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
}
