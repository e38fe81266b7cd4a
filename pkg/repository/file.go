package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/nodeforest/pkg/forest"
)

// FileRepository stores the node list as a JSON document:
//
//	{"nodes": [{"id": 1, "name": "...", "parent_id": null}, ...]}
//
// Writes go to a temporary file in the same directory which then replaces
// the document with a rename, so readers see either the old or the new list.
type FileRepository struct {
	mu     sync.RWMutex
	path   string
	logger *log.Logger
}

// fileDocument is the on-disk shape.
type fileDocument struct {
	Nodes []forest.Node `json:"nodes"`
}

// NewFileRepository creates a file repository at path.
// The parent directory is created if needed; the file itself is created on
// the first Write.
func NewFileRepository(path string, logger *log.Logger) (*FileRepository, error) {
	if path == "" {
		return nil, errors.New("file repository: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileRepository{path: path, logger: logger}, nil
}

// Path returns the JSON document path.
func (f *FileRepository) Path() string { return f.path }

// Read loads the document. A missing file reads as an empty list.
func (f *FileRepository) Read(ctx context.Context) ([]forest.Node, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return []forest.Node{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read nodes file: %w", err)
	}

	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse nodes file %s: %w", f.path, err)
	}
	return nonNil(doc.Nodes), nil
}

// Write atomically replaces the document.
func (f *FileRepository) Write(ctx context.Context, nodes []forest.Node) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.MarshalIndent(fileDocument{Nodes: nonNil(nodes)}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal nodes: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".nodes-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace nodes file: %w", err)
	}
	return nil
}

// Close does nothing for the file repository.
func (f *FileRepository) Close() error { return nil }

// Watch calls onChange whenever the document is written or replaced,
// including by this repository's own Write. It watches the parent directory
// since replacement by rename drops a watch held on the file itself.
func (f *FileRepository) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(f.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(f.path), err)
	}

	name := filepath.Clean(f.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				onChange()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if f.logger != nil {
				f.logger.Warn("file watcher error", "path", f.path, "error", err)
			}
		}
	}
}

var (
	_ Repository = (*FileRepository)(nil)
	_ Watcher    = (*FileRepository)(nil)
)
