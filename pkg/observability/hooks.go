// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about layout runs and graph rewrites.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, plain logs)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    // ... run application
//	}
//
// The layout engine calls hooks as it works:
//
//	observability.Layout().OnLayoutStart(nodeCount, edgeCount)
//	// ... compute layout ...
//	observability.Layout().OnLayoutComplete(duration, err)
package observability

import (
	"sync"
	"time"
)

// LayoutHooks receives events from layout runs.
type LayoutHooks interface {
	// OnLayoutStart records the beginning of a layout run.
	OnLayoutStart(nodes, edges int)

	// OnRewriteComplete records the acyclic rewrite: how many edges were
	// reversed and how many self-loops removed.
	OnRewriteComplete(reversed, removed int)

	// OnRankComplete records rank assignment with the number of layers used.
	OnRankComplete(layers int)

	// OnLayoutComplete records the end of a layout run; err is non-nil when
	// the run failed.
	OnLayoutComplete(duration time.Duration, err error)
}

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayoutStart(int, int)                {}
func (NoopLayoutHooks) OnRewriteComplete(int, int)            {}
func (NoopLayoutHooks) OnRankComplete(int)                    {}
func (NoopLayoutHooks) OnLayoutComplete(time.Duration, error) {}

var (
	layoutHooks LayoutHooks = NoopLayoutHooks{}
	hooksMu     sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup before any layout runs.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Reset restores the no-op default hooks.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
}
