// Package repository stores the flat node list behind a small interface.
//
// The engine in [forest] is pure: it reads a snapshot, decides, and returns a
// new snapshot. A Repository is where snapshots come from and go back to.
// Every backend stores the whole list as one unit so that a write is all or
// nothing, which is what the move engine needs for atomic batches.
//
// # Backends
//
//   - memory: process-local, seeded with the demo facility (default)
//   - file: a JSON document on disk, replaced atomically; supports [Watcher]
//   - sqlite: one row per node, rewritten in a single transaction
//   - badger: one key holding the JSON list in an embedded Badger database
//   - redis: one key holding the JSON list
//   - mongo: one document holding the list, upserted on write
//
// # Usage
//
//	repo, err := repository.Open(ctx, repository.Config{
//	    Backend: repository.BackendFile,
//	    Path:    "nodes.json",
//	})
//	if err != nil {
//	    return err
//	}
//	defer repo.Close()
//
//	if err := repository.EnsureSeeded(ctx, repo, repository.Seed()); err != nil {
//	    return err
//	}
//
// Repositories are safe for concurrent use. They do not serialize
// read-modify-write cycles; that is the job of the service layer.
package repository
