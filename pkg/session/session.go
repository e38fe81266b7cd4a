// Package session persists client view state: which nodes are selected and
// which are expanded.
//
// The state is small and per-user, so it lives apart from the node
// repository. Implementations exist for different backends:
//   - memory: in-process storage for tests and one-shot commands
//   - file: a JSON file for the CLI, TUI and shell
//   - redis: shared storage when several processes serve one user
//
// # Selection Rules
//
// A [Selection] wraps a Store and enforces the same-level rule: all selected
// ids share one parent, with all roots counting as one level. Every change is
// saved immediately.
//
//	sel, err := session.NewSelection(ctx, store, logger)
//	if err != nil {
//	    return err
//	}
//	sel.Toggle(ctx, nodes, 3)
//	parent, ok := sel.ParentID(nodes)
//
// # Wire Format
//
// State is stored as JSON with the keys selectedIds and expandedIds. A missing
// record loads as the empty state.
package session

import (
	"context"
	"errors"
	"slices"
)

// Sentinel errors for session operations.
var (
	// ErrCorrupt is returned by Load when the stored state cannot be decoded.
	ErrCorrupt = errors.New("corrupt session state")

	// ErrNotSameLevel is returned when a selection would span several levels.
	ErrNotSameLevel = errors.New("cannot select nodes from different levels")
)

// State is the persisted client view state.
type State struct {
	SelectedIDs []int64 `json:"selectedIds"`
	ExpandedIDs []int64 `json:"expandedIds"`
}

// Clone returns a copy of s that shares no memory with it.
func (s State) Clone() State {
	return State{
		SelectedIDs: slices.Clone(s.SelectedIDs),
		ExpandedIDs: slices.Clone(s.ExpandedIDs),
	}
}

// normalize replaces nil slices with empty ones so the JSON form uses [].
func (s State) normalize() State {
	if s.SelectedIDs == nil {
		s.SelectedIDs = []int64{}
	}
	if s.ExpandedIDs == nil {
		s.ExpandedIDs = []int64{}
	}
	return s
}

// Store is the interface for state storage backends.
type Store interface {
	// Load returns the stored state, or the empty state if none was saved.
	Load(ctx context.Context) (State, error)

	// Save replaces the stored state.
	Save(ctx context.Context, state State) error

	// Close releases the backend's resources.
	Close() error
}
