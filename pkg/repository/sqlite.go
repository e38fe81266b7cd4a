package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/matzehuels/nodeforest/pkg/forest"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS nodes (
	id        INTEGER PRIMARY KEY,
	name      TEXT NOT NULL,
	parent_id INTEGER,
	position  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS nodes_parent_id ON nodes (parent_id);
`

// SQLiteRepository stores one row per node. The position column keeps the
// list order, which determines sibling order in the built forest.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (or creates) the database at path.
// The special path ":memory:" opens a private in-memory database.
func NewSQLiteRepository(ctx context.Context, path string) (*SQLiteRepository, error) {
	if path == "" {
		return nil, errors.New("sqlite repository: path is required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// Read returns all nodes ordered by position.
func (s *SQLiteRepository) Read(ctx context.Context) ([]forest.Node, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, parent_id FROM nodes ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("query nodes: %w", err)
	}
	defer rows.Close()

	nodes := []forest.Node{}
	for rows.Next() {
		var (
			n      forest.Node
			parent sql.NullInt64
		)
		if err := rows.Scan(&n.ID, &n.Name, &parent); err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		if parent.Valid {
			n.ParentID = forest.Ref(parent.Int64)
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nodes: %w", err)
	}
	return nodes, nil
}

// Write replaces every row inside one transaction.
func (s *SQLiteRepository) Write(ctx context.Context, nodes []forest.Node) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM nodes"); err != nil {
		return fmt.Errorf("clear nodes: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO nodes (id, name, parent_id, position) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, n := range nodes {
		var parent sql.NullInt64
		if n.ParentID != nil {
			parent = sql.NullInt64{Int64: *n.ParentID, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, n.ID, n.Name, parent, i); err != nil {
			return fmt.Errorf("insert node %d: %w", n.ID, err)
		}
	}

	return tx.Commit()
}

// Close closes the database.
func (s *SQLiteRepository) Close() error {
	return s.db.Close()
}

var _ Repository = (*SQLiteRepository)(nil)
