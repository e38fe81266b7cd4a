package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/dgraph-io/badger/v4"

	"github.com/matzehuels/nodeforest/pkg/forest"
)

// badgerKey holds the JSON-encoded node list.
var badgerKey = []byte("nodeforest/nodes")

// BadgerConfig holds configuration for the embedded Badger backend.
type BadgerConfig struct {
	// Path is the database directory. Ignored when InMemory is true.
	Path string

	// InMemory keeps the database in RAM only. Useful for tests.
	InMemory bool

	// SyncWrites flushes every write to disk before returning.
	SyncWrites bool

	// Logger receives Badger's internal logging. Nil disables it.
	Logger *log.Logger
}

// DefaultBadgerConfig returns durable defaults. Path must still be set.
func DefaultBadgerConfig() BadgerConfig {
	return BadgerConfig{SyncWrites: true}
}

// InMemoryBadgerConfig returns a configuration for tests.
func InMemoryBadgerConfig() BadgerConfig {
	return BadgerConfig{InMemory: true}
}

// badgerLogger adapts a charmbracelet logger to Badger's Logger interface.
type badgerLogger struct {
	logger *log.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{})   { l.logger.Errorf(format, args...) }
func (l *badgerLogger) Warningf(format string, args ...interface{}) { l.logger.Warnf(format, args...) }
func (l *badgerLogger) Infof(format string, args ...interface{})    { l.logger.Debugf(format, args...) }
func (l *badgerLogger) Debugf(format string, args ...interface{})   { l.logger.Debugf(format, args...) }

// BadgerRepository stores the node list under a single key, so every
// write is one Badger transaction.
type BadgerRepository struct {
	db *badger.DB
}

// NewBadgerRepository opens a Badger database with cfg.
func NewBadgerRepository(cfg BadgerConfig) (*BadgerRepository, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("badger repository: path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger.WithPrefix("badger")})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return &BadgerRepository{db: db}, nil
}

// Read decodes the stored list. A missing key reads as an empty list.
func (b *BadgerRepository) Read(ctx context.Context) ([]forest.Node, error) {
	var nodes []forest.Node
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &nodes)
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrDBClosed) {
			return nil, ErrClosed
		}
		return nil, fmt.Errorf("read nodes: %w", err)
	}
	return nonNil(nodes), nil
}

// Write encodes and stores the list in one transaction.
func (b *BadgerRepository) Write(ctx context.Context, nodes []forest.Node) error {
	data, err := json.Marshal(nonNil(nodes))
	if err != nil {
		return fmt.Errorf("marshal nodes: %w", err)
	}
	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerKey, data)
	})
	if err != nil {
		if errors.Is(err, badger.ErrDBClosed) {
			return ErrClosed
		}
		return fmt.Errorf("write nodes: %w", err)
	}
	return nil
}

// Close closes the database.
func (b *BadgerRepository) Close() error {
	return b.db.Close()
}

var _ Repository = (*BadgerRepository)(nil)
