package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodeforest/pkg/forest"
)

// Sentinel errors for repository operations.
var (
	// ErrClosed is returned by operations on a repository after Close.
	ErrClosed = errors.New("repository closed")

	// ErrUnknownBackend is returned by Open for an unrecognized backend name.
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// Repository is the source of truth for the flat node list.
type Repository interface {
	// Read returns the current node list in stored order.
	// An empty store returns an empty, non-nil slice.
	Read(ctx context.Context) ([]forest.Node, error)

	// Write replaces the stored list with nodes. Either the whole list is
	// stored or, on error, the previous list is left in place.
	Write(ctx context.Context, nodes []forest.Node) error

	// Close releases the backend's resources.
	Close() error
}

// Watcher is implemented by repositories whose content can change outside
// the process. Watch calls onChange after each external change until ctx is
// done.
type Watcher interface {
	Watch(ctx context.Context, onChange func()) error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Backends lists every supported backend name.
func Backends() []string {
	return []string{BackendMemory, BackendFile, BackendSQLite, BackendBadger, BackendRedis, BackendMongo}
}

// Config selects and configures a backend.
type Config struct {
	Backend string // one of Backends(); empty means memory
	Path    string // file path (file, sqlite) or directory (badger)

	Redis RedisConfig
	Mongo MongoConfig

	// Logger receives backend diagnostics. Nil discards them.
	Logger *log.Logger
}

// Open constructs the repository named by cfg.Backend.
// The memory backend starts with Seed().
func Open(ctx context.Context, cfg Config) (Repository, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemoryRepository(Seed()), nil
	case BackendFile:
		return NewFileRepository(cfg.Path, cfg.Logger)
	case BackendSQLite:
		return NewSQLiteRepository(ctx, cfg.Path)
	case BackendBadger:
		bc := DefaultBadgerConfig()
		bc.Path = cfg.Path
		bc.Logger = cfg.Logger
		return NewBadgerRepository(bc)
	case BackendRedis:
		return NewRedisRepository(ctx, cfg.Redis)
	case BackendMongo:
		return NewMongoRepository(ctx, cfg.Mongo)
	default:
		return nil, fmt.Errorf("%w: %q (want one of %v)", ErrUnknownBackend, cfg.Backend, Backends())
	}
}

// EnsureSeeded writes seed to repo when the repository is empty.
func EnsureSeeded(ctx context.Context, repo Repository, seed []forest.Node) error {
	nodes, err := repo.Read(ctx)
	if err != nil {
		return fmt.Errorf("read nodes: %w", err)
	}
	if len(nodes) > 0 {
		return nil
	}
	if err := repo.Write(ctx, seed); err != nil {
		return fmt.Errorf("seed nodes: %w", err)
	}
	return nil
}

// Seed returns the demo facility: one substation feeding five pumps.
func Seed() []forest.Node {
	return []forest.Node{
		{ID: 1, Name: "B2樓變電站_HT-01"},
		{ID: 2, Name: "B2_冰水泵1", ParentID: forest.Ref(1)},
		{ID: 3, Name: "B2_冰水泵2", ParentID: forest.Ref(1)},
		{ID: 4, Name: "RF_冷卻水泵1", ParentID: forest.Ref(1)},
		{ID: 5, Name: "RF_冷卻水泵2", ParentID: forest.Ref(2)},
		{ID: 6, Name: "RF_冷卻水泵4", ParentID: forest.Ref(3)},
	}
}

// nonNil returns nodes, or an empty slice when nodes is nil.
func nonNil(nodes []forest.Node) []forest.Node {
	if nodes == nil {
		return []forest.Node{}
	}
	return nodes
}

// Equal reports whether two node lists hold the same entries in the same
// order, comparing parent ids by value.
func Equal(a, b []forest.Node) bool {
	return slices.EqualFunc(a, b, func(x, y forest.Node) bool {
		return x.ID == y.ID && x.Name == y.Name && forest.SameParent(x.ParentID, y.ParentID)
	})
}
