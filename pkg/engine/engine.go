// Package engine runs the orthonet layout pipeline for one diagram.
//
// An [Engine] owns the diagram state: the id → node map, the edge list, the
// drag controller and the current selection. All of it is touched only by a
// single worker goroutine that drains a FIFO task queue, so updates, drag
// events and selections are processed strictly one at a time and in the
// order they were submitted. None is skipped, even when a newer update is
// already queued behind it.
//
// Each update goes through the same steps:
//
//  1. Fill defaults from the configuration and check the graph contract.
//     A violation fails the update and leaves the published layout as is.
//  2. Diff the figure against the last accepted one. If nothing changed the
//     previous layout is returned unchanged.
//  3. Upsert and delete nodes, rebuild edges.
//  4. Solve when the data, padding or canvas size changed.
//  5. Route, and publish a new [graph.Layout].
//
// Drag events bypass the solver: ending the last active drag re-routes with
// the dropped positions.
package engine

import (
	"context"
	"io"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orthonet/pkg/config"
	"github.com/matzehuels/orthonet/pkg/diff"
	"github.com/matzehuels/orthonet/pkg/drag"
	"github.com/matzehuels/orthonet/pkg/geom"
	"github.com/matzehuels/orthonet/pkg/graph"
)

// SelectHandler receives selection changes. An empty id means the selection
// was cleared. It runs on the engine's worker goroutine, so it must not wait
// on engine calls. Calling Close from it is allowed and returns without
// waiting for the queue to drain.
type SelectHandler func(nodeID string)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithSelectHandler registers the selection callback.
func WithSelectHandler(h SelectHandler) Option {
	return func(e *Engine) { e.onSelect = h }
}

// Engine serialises layout work for one diagram.
type Engine struct {
	cfg      config.Config
	logger   *log.Logger
	onSelect SelectHandler
	queue    *queue
	once     sync.Once
	inSelect atomic.Bool

	// Worker-owned state.
	nodes    map[string]*Node
	order    []*Node
	edges    []Edge
	figure   graph.Figure
	snapshot diff.Snapshot
	drags    *drag.Controller
	selected string
	routes   []graph.RouteLayout
	stats    graph.Stats
	revision uint64

	mu     sync.RWMutex
	layout *graph.Layout
}

// New starts an engine with the given configuration.
func New(cfg config.Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:    cfg,
		logger: log.New(io.Discard),
		queue:  newQueue(),
		nodes:  map[string]*Node{},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.drags = drag.New(nodeSet{nodes: e.nodes, margin: func() float64 { return e.figure.Margin }})
	go e.queue.run()
	return e
}

// Config returns the engine configuration.
func (e *Engine) Config() config.Config { return e.cfg }

// Submit queues an update and returns immediately.
func (e *Engine) Submit(ctx context.Context, fig graph.Figure) *Pending {
	return e.enqueue(ctx, func(ctx context.Context) (*graph.Layout, error) {
		return e.apply(ctx, fig)
	})
}

// Update queues an update and waits for its layout.
func (e *Engine) Update(ctx context.Context, fig graph.Figure) (*graph.Layout, error) {
	return e.Submit(ctx, fig).Wait(ctx)
}

// DragStart begins dragging a node with the pointer at p.
func (e *Engine) DragStart(ctx context.Context, id string, p geom.Point) (*graph.Layout, error) {
	return e.enqueue(ctx, func(ctx context.Context) (*graph.Layout, error) {
		return e.dragStart(ctx, id, p)
	}).Wait(ctx)
}

// DragMove moves the drop preview of a dragged node.
func (e *Engine) DragMove(ctx context.Context, id string, p geom.Point) (*graph.Layout, error) {
	return e.enqueue(ctx, func(ctx context.Context) (*graph.Layout, error) {
		return e.dragMove(ctx, id, p)
	}).Wait(ctx)
}

// DragEnd drops a dragged node at the preview position.
func (e *Engine) DragEnd(ctx context.Context, id string, p geom.Point) (*graph.Layout, error) {
	return e.enqueue(ctx, func(ctx context.Context) (*graph.Layout, error) {
		return e.dragEnd(ctx, id, p)
	}).Wait(ctx)
}

// Select marks a node as selected; an empty id clears the selection.
func (e *Engine) Select(ctx context.Context, id string) (*graph.Layout, error) {
	return e.enqueue(ctx, func(ctx context.Context) (*graph.Layout, error) {
		return e.selectNode(ctx, id)
	}).Wait(ctx)
}

// Layout returns the last published layout, or nil before the first
// successful update. The value is shared and must not be modified.
func (e *Engine) Layout() *graph.Layout {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.layout
}

// Close stops accepting work and waits until the worker has run the queued
// tasks and exited. From inside a SelectHandler it does not wait.
func (e *Engine) Close() error {
	e.once.Do(e.queue.shutdown)
	if e.inSelect.Load() {
		return nil
	}
	<-e.queue.done
	return nil
}

func (e *Engine) enqueue(ctx context.Context, run func(context.Context) (*graph.Layout, error)) *Pending {
	p := newPending()
	e.queue.push(task{ctx: context.WithoutCancel(ctx), run: run, pending: p})
	return p
}

func (e *Engine) publish(l *graph.Layout) *graph.Layout {
	e.mu.Lock()
	e.layout = l
	e.mu.Unlock()
	return l
}
