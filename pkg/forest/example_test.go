package forest_test

import (
	"fmt"
	"strings"

	nferrors "github.com/matzehuels/nodeforest/pkg/errors"
	"github.com/matzehuels/nodeforest/pkg/forest"
)

func ExampleBuildForest() {
	nodes := []forest.Node{
		{ID: 1, Name: "A"},
		{ID: 2, Name: "B", ParentID: forest.Ref(1)},
		{ID: 3, Name: "C", ParentID: forest.Ref(1)},
		{ID: 4, Name: "D", ParentID: forest.Ref(2)},
	}

	forest.Walk(forest.BuildForest(nodes), func(n *forest.TreeNode) bool {
		fmt.Printf("%s%s (depth %d)\n", strings.Repeat("  ", n.Depth-1), n.Name, n.Depth)
		return true
	})
	// Output:
	// A (depth 1)
	//   B (depth 2)
	//     D (depth 3)
	//   C (depth 2)
}

func ExampleValidateMove() {
	nodes := []forest.Node{
		{ID: 1, Name: "A"},
		{ID: 2, Name: "B", ParentID: forest.Ref(1)},
		{ID: 3, Name: "C", ParentID: forest.Ref(1)},
		{ID: 4, Name: "D", ParentID: forest.Ref(2)},
	}

	err := forest.ValidateMove(nodes, []int64{2}, forest.Ref(4))
	fmt.Println(nferrors.GetCode(err))
	fmt.Println(nferrors.UserMessage(err))
	// Output:
	// DESCENDANT_CYCLE
	// Cannot move node under its own descendant
}

func ExampleApplyMove() {
	nodes := []forest.Node{
		{ID: 1, Name: "A"},
		{ID: 2, Name: "B", ParentID: forest.Ref(1)},
		{ID: 3, Name: "C", ParentID: forest.Ref(1)},
		{ID: 4, Name: "D", ParentID: forest.Ref(2)},
	}
	ids, target := []int64{3}, forest.Ref(2)

	if err := forest.ValidateMove(nodes, ids, target); err != nil {
		fmt.Println("rejected:", err)
		return
	}
	updated, moved := forest.ApplyMove(nodes, ids, target)

	fmt.Println("moved:", moved)
	fmt.Println("parent of 3:", *forest.GetParentID(updated, 3))
	// Output:
	// moved: [3]
	// parent of 3: 2
}
