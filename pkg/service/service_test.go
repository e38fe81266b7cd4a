package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nferrors "github.com/matzehuels/nodeforest/pkg/errors"
	"github.com/matzehuels/nodeforest/pkg/forest"
	"github.com/matzehuels/nodeforest/pkg/repository"
)

func sampleNodes() []forest.Node {
	return []forest.Node{
		{ID: 1, Name: "A"},
		{ID: 2, Name: "B", ParentID: forest.Ref(1)},
		{ID: 3, Name: "C", ParentID: forest.Ref(1)},
		{ID: 4, Name: "D", ParentID: forest.Ref(2)},
	}
}

func newTestService(nodes []forest.Node, opts Options) (*Service, *repository.MemoryRepository) {
	repo := repository.NewMemoryRepository(nodes)
	opts.Logger = log.New(io.Discard)
	return New(repo, opts), repo
}

// failingRepo fails reads or writes on demand.
type failingRepo struct {
	repository.Repository
	failRead, failWrite bool
}

var errDisk = errors.New("disk on fire")

func (f *failingRepo) Read(ctx context.Context) ([]forest.Node, error) {
	if f.failRead {
		return nil, errDisk
	}
	return f.Repository.Read(ctx)
}

func (f *failingRepo) Write(ctx context.Context, nodes []forest.Node) error {
	if f.failWrite {
		return errDisk
	}
	return f.Repository.Write(ctx, nodes)
}

func TestQuery(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(sampleNodes(), Options{})

	flat, err := svc.Query(ctx, true)
	require.NoError(t, err)
	assert.Len(t, flat.([]forest.Node), 4)

	tree, err := svc.Query(ctx, false)
	require.NoError(t, err)
	root, ok := tree.(*forest.TreeNode)
	require.True(t, ok, "a single root must be unwrapped, got %T", tree)
	assert.Equal(t, int64(1), root.ID)
	assert.Len(t, root.Children, 2)
}

func TestQuery_MultipleRoots(t *testing.T) {
	nodes := append(sampleNodes(), forest.Node{ID: 9, Name: "Z"})
	svc, _ := newTestService(nodes, Options{})

	tree, err := svc.Query(context.Background(), false)
	require.NoError(t, err)
	roots, ok := tree.([]*forest.TreeNode)
	require.True(t, ok, "several roots must stay a slice, got %T", tree)
	assert.Len(t, roots, 2)
}

func TestQuery_Empty(t *testing.T) {
	svc, _ := newTestService(nil, Options{})

	tree, err := svc.Query(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, []*forest.TreeNode{}, tree)

	flat, err := svc.Query(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, []forest.Node{}, flat)
}

func TestMove(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(sampleNodes(), Options{})

	res, err := svc.Move(ctx, MoveRequest{NodeIDs: []int64{3}, TargetParentID: forest.Ref(2)})
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, res.Moved)

	stored, err := repo.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), *forest.GetParentID(stored, 3))
	assert.True(t, repository.Equal(res.Nodes, stored))
}

func TestMove_RejectedLeavesRepositoryUntouched(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		req  MoveRequest
		code nferrors.Code
	}{
		{"descendant", MoveRequest{NodeIDs: []int64{2}, TargetParentID: forest.Ref(4)}, nferrors.ErrCodeDescendantCycle},
		{"self", MoveRequest{NodeIDs: []int64{1}, TargetParentID: forest.Ref(1)}, nferrors.ErrCodeSelfParent},
		{"empty", MoveRequest{}, nferrors.ErrCodeEmptyBatch},
		{"unknown target", MoveRequest{NodeIDs: []int64{2}, TargetParentID: forest.Ref(40)}, nferrors.ErrCodeTargetNotFound},
		{"partial batch", MoveRequest{NodeIDs: []int64{3, 40}, TargetParentID: forest.Ref(2)}, nferrors.ErrCodeNodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService(sampleNodes(), Options{})

			res, err := svc.Move(ctx, tt.req)
			assert.Nil(t, res)
			assert.True(t, nferrors.Is(err, tt.code), "got %v, want %s", err, tt.code)
			assert.True(t, nferrors.IsValidation(err))

			stored, _ := repo.Read(ctx)
			assert.True(t, repository.Equal(sampleNodes(), stored), "rejected move modified the repository")
		})
	}
}

func TestMove_NoopPolicy(t *testing.T) {
	ctx := context.Background()
	req := MoveRequest{NodeIDs: []int64{2}, TargetParentID: forest.Ref(1)}

	lenient, _ := newTestService(sampleNodes(), Options{})
	res, err := lenient.Move(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, res.Moved)

	strict, _ := newTestService(sampleNodes(), Options{RejectNoop: true})
	assert.True(t, strict.RejectsNoop())
	_, err = strict.Move(ctx, req)
	assert.True(t, nferrors.Is(err, nferrors.ErrCodeAlreadyInPlace), "got %v", err)
	assert.True(t, nferrors.Is(strict.CanMove(ctx, req), nferrors.ErrCodeAlreadyInPlace))
}

func TestMove_StorageFailure(t *testing.T) {
	ctx := context.Background()

	t.Run("read", func(t *testing.T) {
		repo := &failingRepo{Repository: repository.NewMemoryRepository(sampleNodes()), failRead: true}
		svc := New(repo, Options{Logger: log.New(io.Discard)})

		_, err := svc.Move(ctx, MoveRequest{NodeIDs: []int64{3}, TargetParentID: forest.Ref(2)})
		assert.True(t, nferrors.Is(err, nferrors.ErrCodeStorage))
		assert.ErrorIs(t, err, errDisk)
		assert.False(t, nferrors.IsValidation(err))
	})

	t.Run("write", func(t *testing.T) {
		mem := repository.NewMemoryRepository(sampleNodes())
		repo := &failingRepo{Repository: mem, failWrite: true}
		svc := New(repo, Options{Logger: log.New(io.Discard)})

		_, err := svc.Move(ctx, MoveRequest{NodeIDs: []int64{3}, TargetParentID: forest.Ref(2)})
		assert.True(t, nferrors.Is(err, nferrors.ErrCodeStorage))

		stored, _ := mem.Read(ctx)
		assert.True(t, repository.Equal(sampleNodes(), stored), "failed write must not change the list")
	})
}

func TestCanMove_DoesNotWrite(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(sampleNodes(), Options{})

	require.NoError(t, svc.CanMove(ctx, MoveRequest{NodeIDs: []int64{3}, TargetParentID: forest.Ref(2)}))

	stored, _ := repo.Read(ctx)
	assert.True(t, repository.Equal(sampleNodes(), stored))
}

func TestMove_ConcurrentMovesStayAcyclic(t *testing.T) {
	ctx := context.Background()
	nodes := []forest.Node{{ID: 0, Name: "root"}}
	for i := int64(1); i <= 20; i++ {
		nodes = append(nodes, forest.Node{ID: i, Name: "n", ParentID: forest.Ref(0)})
	}
	svc, repo := newTestService(nodes, Options{})

	// Pairs of opposing moves: each could create a cycle if both were
	// validated against the same stale snapshot.
	var wg sync.WaitGroup
	for i := int64(1); i < 20; i += 2 {
		a, b := i, i+1
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = svc.Move(ctx, MoveRequest{NodeIDs: []int64{a}, TargetParentID: forest.Ref(b)})
		}()
		go func() {
			defer wg.Done()
			_, _ = svc.Move(ctx, MoveRequest{NodeIDs: []int64{b}, TargetParentID: forest.Ref(a)})
		}()
	}
	wg.Wait()

	stored, err := repo.Read(ctx)
	require.NoError(t, err)
	r := forest.Inspect(stored)
	assert.True(t, r.OK(), "concurrent moves produced cycles: %v", r.Cyclic)
	assert.Len(t, stored, 21)
}

func TestReplace(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		nodes   []forest.Node
		wantErr bool
	}{
		{"valid", []forest.Node{{ID: 7, Name: "x"}, {ID: 8, Name: "y", ParentID: forest.Ref(7)}}, false},
		{"dangling allowed", []forest.Node{{ID: 7, Name: "x", ParentID: forest.Ref(70)}}, false},
		{"duplicate ids", []forest.Node{{ID: 7, Name: "x"}, {ID: 7, Name: "y"}}, true},
		{"cycle", []forest.Node{{ID: 7, Name: "x", ParentID: forest.Ref(8)}, {ID: 8, Name: "y", ParentID: forest.Ref(7)}}, true},
		{"blank name", []forest.Node{{ID: 7, Name: "  "}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService(sampleNodes(), Options{})
			err := svc.Replace(ctx, tt.nodes)

			stored, _ := repo.Read(ctx)
			if tt.wantErr {
				assert.True(t, nferrors.Is(err, nferrors.ErrCodeInvalidInput), "got %v", err)
				assert.True(t, repository.Equal(sampleNodes(), stored))
				return
			}
			require.NoError(t, err)
			assert.True(t, repository.Equal(tt.nodes, stored))
		})
	}
}

func TestCheck(t *testing.T) {
	svc, _ := newTestService(sampleNodes(), Options{})
	r, err := svc.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, r.OK())
	assert.Equal(t, 3, r.MaxDepth)
}
