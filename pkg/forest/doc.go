// Package forest is the tree-integrity and mutation engine for nodeforest.
//
// # Overview
//
// A facility's meters and pumps are stored as a flat list of [Node] values,
// each pointing at most at one parent. The list forms a forest: several
// disjoint trees, no cycles. This package turns that flat list into a rooted
// forest, answers ancestry questions about it, and validates and applies
// batched reparenting moves.
//
// Every function in this package is pure and synchronous. Nothing here reads
// or writes storage; callers load a snapshot, hand it in, and persist whatever
// comes back. See the repository and service packages for that side.
//
// # Building the Forest
//
// [BuildForest] converts the flat list into [TreeNode] roots with depth
// annotations (roots have depth 1). Children keep the relative order of the
// input list. A node whose parent does not resolve is promoted to a root:
// partially loaded data degrades to "more roots" rather than an error.
//
//	roots := forest.BuildForest(nodes)
//	for _, r := range roots {
//	    fmt.Println(r.Name, len(r.Children))
//	}
//
// [Flatten] is the inverse: it walks a forest in pre-order and reproduces the
// parent pointers.
//
// # Queries
//
// [FindNode], [IsDescendant], [AreSameLevel], [GetParentID] and
// [LookupParentID] answer the questions the selection and move logic need.
// [IsDescendant] carries a visited-set guard so it terminates on corrupted
// input; it never reports corruption. Use [Inspect] for that.
//
// # Moves
//
// A move reparents a batch of nodes under one target (nil target = root
// level). [ValidateMove] checks the batch against the snapshot and returns a
// coded error from the errors package naming the first violated rule;
// [ApplyMove] produces the updated list. The two are always used as a pair:
//
//	if err := forest.ValidateMove(nodes, ids, target); err != nil {
//	    return err
//	}
//	updated, moved := forest.ApplyMove(nodes, ids, target)
//
// [ValidateMove] has no side effects, so it can be called speculatively to
// grey out UI actions.
//
// # Concurrency
//
// The functions never mutate their inputs and keep no state, so they are safe
// to call from multiple goroutines on the same snapshot. Keeping a snapshot
// consistent between validation and write is the caller's job.
package forest
