package forest

import (
	nferrors "github.com/matzehuels/nodeforest/pkg/errors"
)

// ValidateOption adjusts the move policy applied by ValidateMove.
type ValidateOption func(*validateConfig)

type validateConfig struct {
	rejectNoop bool
}

// RejectNoop makes ValidateMove fail with ALREADY_IN_PLACE when a node is
// already stored under the target. Without it such nodes are accepted and
// rewritten to the parent they already have.
func RejectNoop() ValidateOption {
	return func(c *validateConfig) { c.rejectNoop = true }
}

// ValidateMove checks whether ids may be reparented under target (nil = root
// level) in nodes. It returns nil when the move is allowed, or a
// *errors.Error whose code names the first violated rule:
//
//  1. EMPTY_BATCH: ids is empty
//  2. TARGET_NOT_FOUND: target is non-nil and does not exist
//  3. NODE_NOT_FOUND: some id does not exist (NodeID set)
//  4. SELF_PARENT: some id equals target (NodeID set)
//  5. DESCENDANT_CYCLE: target lies below some id (NodeID set)
//  6. ALREADY_IN_PLACE: with RejectNoop, some id is already under target
//
// Each rule is checked across the whole batch before the next one, so an
// unknown id is reported ahead of a cycle caused by another id. ValidateMove
// reads nodes only and is safe to call speculatively.
func ValidateMove(nodes []Node, ids []int64, target *int64, opts ...ValidateOption) error {
	var cfg validateConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(ids) == 0 {
		return nferrors.New(nferrors.ErrCodeEmptyBatch, "node_ids must be a non-empty array")
	}

	idx := newIndex(nodes)

	if target != nil {
		if _, ok := idx[*target]; !ok {
			return nferrors.New(nferrors.ErrCodeTargetNotFound, "target_parent_id does not exist").WithNode(*target)
		}
	}

	for _, id := range ids {
		if _, ok := idx[id]; !ok {
			return nferrors.New(nferrors.ErrCodeNodeNotFound, "node %d not found", id).WithNode(id)
		}
	}

	if target != nil {
		for _, id := range ids {
			if id == *target {
				return nferrors.New(nferrors.ErrCodeSelfParent, "Cannot move node under itself").WithNode(id)
			}
		}
	}

	for _, id := range ids {
		if idx.isDescendant(id, target) {
			return nferrors.New(nferrors.ErrCodeDescendantCycle, "Cannot move node under its own descendant").WithNode(id)
		}
	}

	if cfg.rejectNoop {
		for _, id := range ids {
			if SameParent(idx[id].ParentID, target) {
				return nferrors.New(nferrors.ErrCodeAlreadyInPlace, "node %d is already under the target parent", id).WithNode(id)
			}
		}
	}

	return nil
}
