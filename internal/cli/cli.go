package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodeforest/pkg/config"
	"github.com/matzehuels/nodeforest/pkg/repository"
	"github.com/matzehuels/nodeforest/pkg/service"
	"github.com/matzehuels/nodeforest/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "nodeforest"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// errCheckFailed makes check exit non-zero without printing a second report.
var errCheckFailed = errors.New("integrity check failed")

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Set by persistent flags.
	configPath string
	storage    string
	verbose    bool

	// cfg is loaded before any command runs.
	cfg config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Config returns the configuration in effect.
func (c *CLI) Config() config.Config { return c.cfg }

// =============================================================================
// App - Opened Resources
// =============================================================================

// app bundles the resources one command invocation works with.
type app struct {
	cfg  config.Config
	repo repository.Repository
	svc  *service.Service
}

// openApp opens the configured repository, seeds it when asked and wraps it
// in a service.
func (c *CLI) openApp(ctx context.Context) (*app, error) {
	rc, err := c.cfg.Repository(c.Logger)
	if err != nil {
		return nil, err
	}
	repo, err := repository.Open(ctx, rc)
	if err != nil {
		return nil, fmt.Errorf("open %s repository: %w", rc.Backend, err)
	}
	if c.cfg.Storage.Seed {
		if err := repository.EnsureSeeded(ctx, repo, repository.Seed()); err != nil {
			repo.Close()
			return nil, err
		}
	}

	c.Logger.Debug("opened repository", "backend", rc.Backend, "path", rc.Path)
	svc := service.New(repo, service.Options{
		RejectNoop: c.cfg.Moves.RejectNoop,
		Backend:    rc.Backend,
		Logger:     c.Logger,
	})
	return &app{cfg: c.cfg, repo: repo, svc: svc}, nil
}

// Close releases the repository.
func (a *app) Close() error {
	return a.repo.Close()
}

// openSessionStore opens the configured selection state store.
func (c *CLI) openSessionStore(ctx context.Context) (session.Store, error) {
	sc := c.cfg.Session
	switch sc.Backend {
	case config.SessionMemory:
		return session.NewMemoryStore(), nil
	case config.SessionRedis:
		r := c.cfg.Storage.Redis
		return session.NewRedisStore(ctx, r.Addr, r.Password, r.DB, sc.RedisKey)
	default:
		path := sc.Path
		if path == "" {
			p, err := session.DefaultStatePath()
			if err != nil {
				return nil, err
			}
			path = p
		}
		return session.NewFileStore(path)
	}
}

// openSelection loads the persisted selection. The returned close function
// releases the underlying store.
func (c *CLI) openSelection(ctx context.Context) (*session.Selection, func() error, error) {
	store, err := c.openSessionStore(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("open session store: %w", err)
	}
	sel, err := session.NewSelection(ctx, store, c.Logger)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("load session: %w", err)
	}
	return sel, store.Close, nil
}
