// Package observability provides hooks for metrics and event logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends to the engine. Consumers
// register hooks at startup to receive events about forest queries, moves,
// storage access and HTTP requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// [Prometheus] implements every hook interface on top of a private
// registry and exposes it through [Prometheus.Handler].
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    metrics := observability.NewPrometheus()
//	    observability.SetAll(metrics)
//	    // ... run application, serve metrics.Handler() on /metrics
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	// ... validate and apply ...
//	observability.Moves().OnMove(ctx, len(ids), len(moved), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Forest Hooks
// =============================================================================

// ForestHooks receives events from forest reads.
type ForestHooks interface {
	// OnQuery records one node list or forest query.
	OnQuery(ctx context.Context, flat bool, nodeCount int, duration time.Duration, err error)
}

// =============================================================================
// Move Hooks
// =============================================================================

// MoveHooks receives events from batch moves.
type MoveHooks interface {
	// OnMove records a move attempt. err is nil for a committed move; for a
	// rejected move it carries the validation error.
	OnMove(ctx context.Context, batchSize, moved int, duration time.Duration, err error)

	// OnCheck records a speculative validation (dry run).
	OnCheck(ctx context.Context, batchSize int, err error)
}

// =============================================================================
// Storage Hooks
// =============================================================================

// StorageHooks receives events from repository access.
type StorageHooks interface {
	// OnRead records a repository read.
	OnRead(ctx context.Context, backend string, duration time.Duration, err error)

	// OnWrite records a repository write.
	OnWrite(ctx context.Context, backend string, nodeCount int, duration time.Duration, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	// OnResponse records a served request. route is the matched pattern,
	// not the raw path.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopForestHooks is a no-op implementation of ForestHooks.
type NoopForestHooks struct{}

func (NoopForestHooks) OnQuery(context.Context, bool, int, time.Duration, error) {}

// NoopMoveHooks is a no-op implementation of MoveHooks.
type NoopMoveHooks struct{}

func (NoopMoveHooks) OnMove(context.Context, int, int, time.Duration, error) {}
func (NoopMoveHooks) OnCheck(context.Context, int, error)                    {}

// NoopStorageHooks is a no-op implementation of StorageHooks.
type NoopStorageHooks struct{}

func (NoopStorageHooks) OnRead(context.Context, string, time.Duration, error)       {}
func (NoopStorageHooks) OnWrite(context.Context, string, int, time.Duration, error) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	forestHooks  ForestHooks  = NoopForestHooks{}
	moveHooks    MoveHooks    = NoopMoveHooks{}
	storageHooks StorageHooks = NoopStorageHooks{}
	httpHooks    HTTPHooks    = NoopHTTPHooks{}
	hooksMu      sync.RWMutex
)

// SetForestHooks registers custom forest hooks.
// This should be called once at application startup.
func SetForestHooks(h ForestHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		forestHooks = h
	}
}

// SetMoveHooks registers custom move hooks.
// This should be called once at application startup.
func SetMoveHooks(h MoveHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		moveHooks = h
	}
}

// SetStorageHooks registers custom storage hooks.
// This should be called once at application startup.
func SetStorageHooks(h StorageHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storageHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// AllHooks is implemented by types that handle every event category.
type AllHooks interface {
	ForestHooks
	MoveHooks
	StorageHooks
	HTTPHooks
}

// SetAll registers h for every event category.
func SetAll(h AllHooks) {
	SetForestHooks(h)
	SetMoveHooks(h)
	SetStorageHooks(h)
	SetHTTPHooks(h)
}

// Forest returns the registered forest hooks.
func Forest() ForestHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return forestHooks
}

// Moves returns the registered move hooks.
func Moves() MoveHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return moveHooks
}

// Storage returns the registered storage hooks.
func Storage() StorageHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storageHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	forestHooks = NoopForestHooks{}
	moveHooks = NoopMoveHooks{}
	storageHooks = NoopStorageHooks{}
	httpHooks = NoopHTTPHooks{}
}
