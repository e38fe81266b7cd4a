package session

import (
	"context"
	"errors"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodeforest/pkg/forest"
)

// Selection is the client's working selection and expansion state, backed
// by a Store. Methods that change state save it before returning.
type Selection struct {
	mu     sync.Mutex
	store  Store
	logger *log.Logger
	state  State
}

// NewSelection loads the state from store. Corrupt stored state is logged
// and replaced by the empty state rather than failing.
func NewSelection(ctx context.Context, store Store, logger *log.Logger) (*Selection, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	st, err := store.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrCorrupt) {
			return nil, err
		}
		logger.Warn("discarding unreadable session state", "error", err)
		st = State{}.normalize()
	}
	return &Selection{store: store, logger: logger, state: st}, nil
}

// State returns a copy of the current state.
func (s *Selection) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Selected returns the selected ids in selection order.
func (s *Selection) Selected() []int64 { return s.State().SelectedIDs }

// Expanded returns the expanded ids.
func (s *Selection) Expanded() []int64 { return s.State().ExpandedIDs }

// IsSelected reports whether id is selected.
func (s *Selection) IsSelected(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.state.SelectedIDs, id)
}

// IsExpanded reports whether id is expanded.
func (s *Selection) IsExpanded(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.state.ExpandedIDs, id)
}

// SetSelected replaces the selection with ids. It returns ErrNotSameLevel and
// leaves the selection unchanged when ids are not siblings in nodes.
func (s *Selection) SetSelected(ctx context.Context, nodes []forest.Node, ids []int64) error {
	if !forest.AreSameLevel(nodes, ids) {
		s.logger.Warn("rejected cross-level selection", "ids", ids)
		return ErrNotSameLevel
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SelectedIDs = slices.Clone(ids)
	return s.save(ctx)
}

// Toggle deselects id if it is selected. Otherwise it adds id to the
// selection; when that would mix levels, the selection restarts with id alone.
func (s *Selection) Toggle(ctx context.Context, nodes []forest.Node, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := slices.Index(s.state.SelectedIDs, id); i >= 0 {
		s.state.SelectedIDs = slices.Delete(slices.Clone(s.state.SelectedIDs), i, i+1)
		return s.save(ctx)
	}

	next := append(slices.Clone(s.state.SelectedIDs), id)
	if forest.AreSameLevel(nodes, next) {
		s.state.SelectedIDs = next
	} else {
		s.state.SelectedIDs = []int64{id}
	}
	return s.save(ctx)
}

// Clear empties the selection.
func (s *Selection) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SelectedIDs = []int64{}
	return s.save(ctx)
}

// SetExpanded replaces the expanded set.
func (s *Selection) SetExpanded(ctx context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ExpandedIDs = slices.Clone(ids)
	return s.save(ctx)
}

// ToggleExpanded expands id if collapsed and collapses it if expanded.
func (s *Selection) ToggleExpanded(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := slices.Index(s.state.ExpandedIDs, id); i >= 0 {
		s.state.ExpandedIDs = slices.Delete(slices.Clone(s.state.ExpandedIDs), i, i+1)
	} else {
		s.state.ExpandedIDs = append(slices.Clone(s.state.ExpandedIDs), id)
	}
	return s.save(ctx)
}

// ParentID returns the parent shared by the selection, taken from the first
// selected node. ok is false when nothing is selected or the first selected
// node no longer exists; a nil parent with ok true means root level.
func (s *Selection) ParentID(nodes []forest.Node) (parent *int64, ok bool) {
	sel := s.Selected()
	if len(sel) == 0 {
		return nil, false
	}
	return forest.LookupParentID(nodes, sel[0])
}

// Valid reports whether the selection is same-level in nodes.
func (s *Selection) Valid(nodes []forest.Node) bool {
	return forest.AreSameLevel(nodes, s.Selected())
}

// Prune drops selected and expanded ids that no longer exist in nodes.
// It saves only when something was dropped.
func (s *Selection) Prune(ctx context.Context, nodes []forest.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	missing := func(id int64) bool {
		_, ok := forest.FindNode(nodes, id)
		return !ok
	}
	sel := slices.DeleteFunc(slices.Clone(s.state.SelectedIDs), missing)
	exp := slices.DeleteFunc(slices.Clone(s.state.ExpandedIDs), missing)
	if len(sel) == len(s.state.SelectedIDs) && len(exp) == len(s.state.ExpandedIDs) {
		return nil
	}
	s.state.SelectedIDs, s.state.ExpandedIDs = sel, exp
	return s.save(ctx)
}

// save must be called with s.mu held.
func (s *Selection) save(ctx context.Context) error {
	return s.store.Save(ctx, s.state)
}
