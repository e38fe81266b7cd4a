// Package pkg provides the core libraries for nodeforest.
//
// # Overview
//
// nodeforest keeps a forest of named nodes, each pointing at an optional
// parent, and moves batches of nodes between parents without ever creating
// a cycle. The pkg directory is organized into four areas:
//
//  1. [forest] - Domain logic (forest building, queries, move validation)
//  2. [service] - The single entry point pairing the engine with storage
//  3. [repository], [session] - Persistence of nodes and client state
//  4. [api], [render], [io] - Outer surfaces (HTTP, terminal, files)
//
// # Architecture
//
// The data flow for a move:
//
//	HTTP PATCH /nodes/move, CLI move, TUI or shell
//	         ↓
//	    [service] package (lock, read snapshot)
//	         ↓
//	    [forest] package (ValidateMove, then ApplyMove)
//	         ↓
//	    [repository] package (write the whole list)
//
// Reads go the same way and end in [forest.BuildForest] when a nested view
// is requested.
//
// # Quick Start
//
//	repo := repository.NewMemoryRepository(repository.Seed())
//	svc := service.New(repo, service.Options{})
//
//	res, err := svc.Move(ctx, service.MoveRequest{
//	    NodeIDs:        []int64{5},
//	    TargetParentID: forest.Ref(4),
//	})
//	if errors.Is(err, errors.ErrCodeDescendantCycle) {
//	    // rejected, nothing was written
//	}
//
// # Main Packages
//
// ## Domain
//
// [forest] - Node and TreeNode types, BuildForest, FindNode, IsDescendant,
// AreSameLevel, ValidateMove and ApplyMove. Pure functions over a flat
// node slice.
//
// [errors] - Coded errors. Validation codes map to HTTP 400; storage
// failures to 500.
//
// ## Infrastructure
//
// [repository] - Node list backends: memory, JSON file (with fsnotify
// watching), SQLite, Badger, Redis and MongoDB.
//
// [session] - Persisted selectedIds and expandedIds with file, memory and
// Redis stores.
//
// [config] - TOML configuration layered with environment variables.
//
// [observability] - Hook registry with a Prometheus implementation.
//
// ## Surfaces
//
// [api] - chi router serving GET /nodes and PATCH /nodes/move.
//
// [render] - Terminal tree rendering; [render/nodelink] for Graphviz
// diagrams.
//
// [io] - JSON and YAML import and export.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/forest/...       # Specific package
//	go test -run Example ./pkg/... # Examples only
//
// [forest]: https://pkg.go.dev/github.com/matzehuels/nodeforest/pkg/forest
// [forest.BuildForest]: https://pkg.go.dev/github.com/matzehuels/nodeforest/pkg/forest#BuildForest
// [service]: https://pkg.go.dev/github.com/matzehuels/nodeforest/pkg/service
// [repository]: https://pkg.go.dev/github.com/matzehuels/nodeforest/pkg/repository
// [session]: https://pkg.go.dev/github.com/matzehuels/nodeforest/pkg/session
// [errors]: https://pkg.go.dev/github.com/matzehuels/nodeforest/pkg/errors
// [config]: https://pkg.go.dev/github.com/matzehuels/nodeforest/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/nodeforest/pkg/observability
// [api]: https://pkg.go.dev/github.com/matzehuels/nodeforest/pkg/api
// [render]: https://pkg.go.dev/github.com/matzehuels/nodeforest/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/nodeforest/pkg/render/nodelink
// [io]: https://pkg.go.dev/github.com/matzehuels/nodeforest/pkg/io
package pkg
