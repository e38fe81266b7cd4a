package forest

import (
	"testing"

	nferrors "github.com/matzehuels/nodeforest/pkg/errors"
)

func TestApplyMove_Scenario(t *testing.T) {
	nodes := sample()
	target := Ref(2)

	if err := ValidateMove(nodes, []int64{3}, target); err != nil {
		t.Fatalf("ValidateMove() = %v", err)
	}
	updated, moved := ApplyMove(nodes, []int64{3}, target)

	if len(moved) != 1 || moved[0] != 3 {
		t.Errorf("moved = %v, want [3]", moved)
	}
	if p := updated[2].ParentID; p == nil || *p != 2 {
		t.Errorf("node 3 parent = %v, want 2", p)
	}

	// Untouched nodes are copied verbatim, parent pointer included.
	for _, i := range []int{0, 1, 3} {
		if updated[i].ParentID != nodes[i].ParentID || updated[i].Name != nodes[i].Name {
			t.Errorf("node %d was touched: %+v", nodes[i].ID, updated[i])
		}
	}

	// The input snapshot is unchanged.
	if *nodes[2].ParentID != 1 {
		t.Errorf("input node 3 parent = %d, want 1", *nodes[2].ParentID)
	}
}

func TestApplyMove_ToRoot(t *testing.T) {
	updated, moved := ApplyMove(sample(), []int64{4}, nil)

	if updated[3].ParentID != nil {
		t.Errorf("node 4 parent = %d, want nil", *updated[3].ParentID)
	}
	if len(moved) != 1 || moved[0] != 4 {
		t.Errorf("moved = %v, want [4]", moved)
	}
}

func TestApplyMove_DedupesAndFollowsListOrder(t *testing.T) {
	_, moved := ApplyMove(sample(), []int64{4, 3, 4, 3}, Ref(1))

	want := []int64{3, 4}
	if len(moved) != len(want) || moved[0] != want[0] || moved[1] != want[1] {
		t.Errorf("moved = %v, want %v", moved, want)
	}
}

func TestApplyMove_FreshParentPointers(t *testing.T) {
	target := Ref(1)
	updated, _ := ApplyMove(sample(), []int64{3, 4}, target)

	if updated[2].ParentID == target || updated[3].ParentID == target {
		t.Error("moved nodes must not alias the caller's target pointer")
	}
	if updated[2].ParentID == updated[3].ParentID {
		t.Error("moved nodes must not share a parent pointer")
	}
}

func TestApplyMove_KeepsForestValid(t *testing.T) {
	nodes := facility()
	ids := []int64{5, 6}
	target := Ref(4)

	if err := ValidateMove(nodes, ids, target); err != nil {
		t.Fatalf("ValidateMove() = %v", err)
	}
	updated, moved := ApplyMove(nodes, ids, target)

	if len(moved) != 2 {
		t.Errorf("moved = %v, want 2 ids", moved)
	}
	if r := Inspect(updated); !r.OK() || r.Roots != 1 {
		t.Errorf("Inspect(updated) = %+v, want one healthy tree", r)
	}
	if !AreSameLevel(updated, ids) {
		t.Error("moved nodes should be siblings")
	}
}

func TestInspect(t *testing.T) {
	tests := []struct {
		name         string
		nodes        []Node
		wantOK       bool
		wantRoots    int
		wantDepth    int
		wantDup      []int64
		wantDangling []int64
		wantCyclic   []int64
	}{
		{
			name:      "healthy",
			nodes:     sample(),
			wantOK:    true,
			wantRoots: 1,
			wantDepth: 3,
		},
		{
			name: "dangling is tolerated",
			nodes: []Node{
				{ID: 1, Name: "a"},
				{ID: 2, Name: "b", ParentID: Ref(9)},
			},
			wantOK:       true,
			wantRoots:    2,
			wantDepth:    1,
			wantDangling: []int64{2},
		},
		{
			name: "duplicates",
			nodes: []Node{
				{ID: 1, Name: "a"},
				{ID: 1, Name: "a again"},
			},
			wantOK:    false,
			wantRoots: 2,
			wantDepth: 1,
			wantDup:   []int64{1},
		},
		{
			name: "cycle",
			nodes: []Node{
				{ID: 1, Name: "root"},
				{ID: 2, Name: "x", ParentID: Ref(3)},
				{ID: 3, Name: "y", ParentID: Ref(2)},
				{ID: 4, Name: "tail", ParentID: Ref(3)},
			},
			wantOK:     false,
			wantRoots:  1,
			wantDepth:  1,
			wantCyclic: []int64{2, 3, 4},
		},
	}

	equal := func(a, b []int64) bool {
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Inspect(tt.nodes)
			if r.OK() != tt.wantOK {
				t.Errorf("OK() = %v, want %v", r.OK(), tt.wantOK)
			}
			if r.Roots != tt.wantRoots {
				t.Errorf("Roots = %d, want %d", r.Roots, tt.wantRoots)
			}
			if r.MaxDepth != tt.wantDepth {
				t.Errorf("MaxDepth = %d, want %d", r.MaxDepth, tt.wantDepth)
			}
			if !equal(r.Duplicates, tt.wantDup) {
				t.Errorf("Duplicates = %v, want %v", r.Duplicates, tt.wantDup)
			}
			if !equal(r.Dangling, tt.wantDangling) {
				t.Errorf("Dangling = %v, want %v", r.Dangling, tt.wantDangling)
			}
			if !equal(r.Cyclic, tt.wantCyclic) {
				t.Errorf("Cyclic = %v, want %v", r.Cyclic, tt.wantCyclic)
			}
		})
	}
}

func TestValidateList(t *testing.T) {
	tests := []struct {
		name     string
		nodes    []Node
		wantNode int64
	}{
		{"ok", facility(), 0},
		{"blank name", []Node{{ID: 1, Name: "A"}, {ID: 2, Name: ""}}, 2},
		{"control char", []Node{{ID: 3, Name: "a\nb"}}, 3},
		{"duplicate", []Node{{ID: 5, Name: "a"}, {ID: 5, Name: "b"}}, 5},
		{"cycle", []Node{{ID: 8, Name: "a", ParentID: Ref(9)}, {ID: 9, Name: "b", ParentID: Ref(8)}}, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateList(tt.nodes)
			if tt.wantNode == 0 {
				if err != nil {
					t.Fatalf("ValidateList() = %v, want nil", err)
				}
				return
			}
			if !nferrors.Is(err, nferrors.ErrCodeInvalidInput) {
				t.Fatalf("ValidateList() = %v, want INVALID_INPUT", err)
			}
			if id, ok := nferrors.GetNodeID(err); !ok || id != tt.wantNode {
				t.Errorf("NodeID = (%d, %v), want %d", id, ok, tt.wantNode)
			}
		})
	}
}
