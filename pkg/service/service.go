// Package service pairs the forest engine with a repository.
//
// Every entry point (HTTP API, CLI commands, TUI and shell) goes through a
// single [Service], so they share one validator, one no-op policy and one
// write lock. The engine functions in [forest] stay pure; the service adds
// I/O, serialization, logging and observability hooks.
//
// # Moves
//
// [Service.Move] reads a snapshot, validates the request against it, applies
// it and writes the result back, all while holding a mutex. Validation
// failures are returned as *errors.Error with a validation code and leave
// the repository untouched. Storage failures are wrapped with code STORAGE.
// Moves are never retried.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	nferrors "github.com/matzehuels/nodeforest/pkg/errors"
	"github.com/matzehuels/nodeforest/pkg/forest"
	"github.com/matzehuels/nodeforest/pkg/observability"
	"github.com/matzehuels/nodeforest/pkg/repository"
)

// Options configures a Service.
type Options struct {
	// RejectNoop makes moves fail with ALREADY_IN_PLACE when a node is
	// already under the requested parent.
	RejectNoop bool

	// Backend labels storage metrics. Defaults to "unknown".
	Backend string

	// Logger receives structured logs. Defaults to log.Default().
	Logger *log.Logger
}

// MoveRequest is a batch reparenting request. A nil TargetParentID moves the
// nodes to the root level.
type MoveRequest struct {
	NodeIDs        []int64 `json:"node_ids"`
	TargetParentID *int64  `json:"target_parent_id"`
}

// MoveResult describes a committed move.
type MoveResult struct {
	// Moved lists the reparented ids in stored order.
	Moved []int64 `json:"moved"`

	// Nodes is the snapshot that was written.
	Nodes []forest.Node `json:"-"`

	Duration time.Duration `json:"-"`
}

// Service is the single entry point to the node forest.
// It is safe for concurrent use.
type Service struct {
	repo   repository.Repository
	opts   Options
	logger *log.Logger

	// mu serializes read-validate-apply-write cycles.
	mu sync.Mutex
}

// New creates a service over repo.
func New(repo repository.Repository, opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Backend == "" {
		opts.Backend = "unknown"
	}
	return &Service{repo: repo, opts: opts, logger: opts.Logger}
}

// RejectsNoop reports whether no-op moves are rejected.
func (s *Service) RejectsNoop() bool { return s.opts.RejectNoop }

// Nodes returns the current flat node list.
func (s *Service) Nodes(ctx context.Context) ([]forest.Node, error) {
	start := time.Now()
	nodes, err := s.repo.Read(ctx)
	observability.Storage().OnRead(ctx, s.opts.Backend, time.Since(start), err)
	if err != nil {
		return nil, nferrors.Wrap(nferrors.ErrCodeStorage, err, "read nodes")
	}
	if nodes == nil {
		nodes = []forest.Node{}
	}
	return nodes, nil
}

// Forest returns the current node list as a forest.
func (s *Service) Forest(ctx context.Context) ([]*forest.TreeNode, error) {
	nodes, err := s.Nodes(ctx)
	if err != nil {
		return nil, err
	}
	return forest.BuildForest(nodes), nil
}

// Query returns the node list in the shape served by GET /nodes: the flat
// list when flat is true; otherwise the forest, with a single root
// returned on its own rather than wrapped in a slice.
func (s *Service) Query(ctx context.Context, flat bool) (any, error) {
	start := time.Now()
	nodes, err := s.Nodes(ctx)
	defer func() {
		observability.Forest().OnQuery(ctx, flat, len(nodes), time.Since(start), err)
	}()
	if err != nil {
		return nil, err
	}

	if flat {
		return nodes, nil
	}
	roots := forest.BuildForest(nodes)
	if len(roots) == 1 {
		return roots[0], nil
	}
	return roots, nil
}

// CanMove validates req against the current snapshot without changing
// anything. A nil error means Move would currently succeed.
func (s *Service) CanMove(ctx context.Context, req MoveRequest) error {
	nodes, err := s.Nodes(ctx)
	if err != nil {
		return err
	}
	err = forest.ValidateMove(nodes, req.NodeIDs, req.TargetParentID, s.validateOpts()...)
	observability.Moves().OnCheck(ctx, len(req.NodeIDs), err)
	return err
}

// Move validates and applies req atomically.
func (s *Service) Move(ctx context.Context, req MoveRequest) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	result, err := s.move(ctx, req)
	duration := time.Since(start)

	moved := 0
	if result != nil {
		moved = len(result.Moved)
		result.Duration = duration
	}
	observability.Moves().OnMove(ctx, len(req.NodeIDs), moved, duration, err)

	target := forest.FormatParent(req.TargetParentID)
	switch {
	case err == nil:
		s.logger.Info("moved nodes", "ids", result.Moved, "target", target, "duration", duration)
	case nferrors.IsValidation(err):
		s.logger.Warn("move rejected", "ids", req.NodeIDs, "target", target, "code", nferrors.GetCode(err), "reason", nferrors.UserMessage(err))
	default:
		s.logger.Error("move failed", "ids", req.NodeIDs, "target", target, "error", err)
	}
	return result, err
}

func (s *Service) move(ctx context.Context, req MoveRequest) (*MoveResult, error) {
	nodes, err := s.Nodes(ctx)
	if err != nil {
		return nil, err
	}
	if err := forest.ValidateMove(nodes, req.NodeIDs, req.TargetParentID, s.validateOpts()...); err != nil {
		return nil, err
	}

	updated, moved := forest.ApplyMove(nodes, req.NodeIDs, req.TargetParentID)
	if err := s.write(ctx, updated); err != nil {
		return nil, err
	}
	return &MoveResult{Moved: moved, Nodes: updated}, nil
}

// Check inspects the current snapshot for structural problems.
func (s *Service) Check(ctx context.Context) (forest.Report, error) {
	nodes, err := s.Nodes(ctx)
	if err != nil {
		return forest.Report{}, err
	}
	return forest.Inspect(nodes), nil
}

// Replace swaps the whole node list, as done by import. The list must have
// unique ids, no parent cycles and valid names; dangling parents are allowed.
func (s *Service) Replace(ctx context.Context, nodes []forest.Node) error {
	if err := forest.ValidateList(nodes); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write(ctx, nodes); err != nil {
		return err
	}
	s.logger.Info("replaced node list", "nodes", len(nodes))
	return nil
}

func (s *Service) write(ctx context.Context, nodes []forest.Node) error {
	start := time.Now()
	err := s.repo.Write(ctx, nodes)
	observability.Storage().OnWrite(ctx, s.opts.Backend, len(nodes), time.Since(start), err)
	if err != nil {
		return nferrors.Wrap(nferrors.ErrCodeStorage, err, "write nodes")
	}
	return nil
}

func (s *Service) validateOpts() []forest.ValidateOption {
	if s.opts.RejectNoop {
		return []forest.ValidateOption{forest.RejectNoop()}
	}
	return nil
}

