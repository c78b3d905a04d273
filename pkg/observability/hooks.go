// Package observability provides hooks for metrics, tracing, and logging.
//
// The engine and the HTTP bridge report what they do through hook
// interfaces. Consumers register implementations at startup; until they do,
// every hook is a no-op, so libraries never depend on a particular metrics
// or tracing backend.
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
// Libraries call hooks to emit events:
//
//	observability.Layout().OnUpdateStart(ctx, len(nodes), len(links))
//	// ... diff, solve, route ...
//	observability.Layout().OnUpdateComplete(ctx, changed, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from the layout engine.
type LayoutHooks interface {
	// Update events
	OnUpdateStart(ctx context.Context, nodeCount, linkCount int)
	OnUpdateComplete(ctx context.Context, changed []string, duration time.Duration, err error)

	// Stage events
	OnSolve(ctx context.Context, nodeCount, iterations int, converged bool, duration time.Duration)
	OnRoute(ctx context.Context, routeCount int, duration time.Duration)
}

// =============================================================================
// Interaction Hooks
// =============================================================================

// InteractionHooks receives pointer-driven events.
type InteractionHooks interface {
	// OnDrag records a drag phase ("start", "move", "end") on a node.
	OnDrag(ctx context.Context, nodeID, phase string, err error)

	// OnSelect records a selection; nodeID is empty when cleared.
	OnSelect(ctx context.Context, nodeID string)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP bridge.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnUpdateStart(context.Context, int, int)                          {}
func (NoopLayoutHooks) OnUpdateComplete(context.Context, []string, time.Duration, error) {}
func (NoopLayoutHooks) OnSolve(context.Context, int, int, bool, time.Duration)           {}
func (NoopLayoutHooks) OnRoute(context.Context, int, time.Duration)                      {}

// NoopInteractionHooks is a no-op implementation of InteractionHooks.
type NoopInteractionHooks struct{}

func (NoopInteractionHooks) OnDrag(context.Context, string, string, error) {}
func (NoopInteractionHooks) OnSelect(context.Context, string)              {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                       {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks      LayoutHooks      = NoopLayoutHooks{}
	interactionHooks InteractionHooks = NoopInteractionHooks{}
	httpHooks        HTTPHooks        = NoopHTTPHooks{}
	hooksMu          sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup before any engine runs.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetInteractionHooks registers custom interaction hooks.
func SetInteractionHooks(h InteractionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		interactionHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Interaction returns the registered interaction hooks.
func Interaction() InteractionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return interactionHooks
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
	layoutHooks = NoopLayoutHooks{}
	interactionHooks = NoopInteractionHooks{}
	httpHooks = NoopHTTPHooks{}
}
