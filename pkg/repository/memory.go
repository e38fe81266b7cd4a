package repository

import (
	"context"
	"sync"

	"github.com/matzehuels/nodeforest/pkg/forest"
)

// MemoryRepository keeps the node list in process memory.
// Reads and writes copy the list, so callers never share memory with it.
type MemoryRepository struct {
	mu     sync.RWMutex
	nodes  []forest.Node
	closed bool
}

// NewMemoryRepository creates a memory repository holding a copy of nodes.
func NewMemoryRepository(nodes []forest.Node) *MemoryRepository {
	return &MemoryRepository{nodes: forest.Clone(nodes)}
}

// Read returns a copy of the stored list.
func (m *MemoryRepository) Read(ctx context.Context) ([]forest.Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}
	return nonNil(forest.Clone(m.nodes)), nil
}

// Write replaces the stored list with a copy of nodes.
func (m *MemoryRepository) Write(ctx context.Context, nodes []forest.Node) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.nodes = forest.Clone(nodes)
	return nil
}

// Close marks the repository closed.
func (m *MemoryRepository) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

var _ Repository = (*MemoryRepository)(nil)
