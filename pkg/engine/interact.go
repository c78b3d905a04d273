package engine

import (
	"context"

	"github.com/matzehuels/orthonet/pkg/errors"
	"github.com/matzehuels/orthonet/pkg/geom"
	"github.com/matzehuels/orthonet/pkg/graph"
	"github.com/matzehuels/orthonet/pkg/observability"
)

// Drag phases reported to interaction hooks.
const (
	PhaseStart = "start"
	PhaseMove  = "move"
	PhaseEnd   = "end"
)

func (e *Engine) dragStart(ctx context.Context, id string, p geom.Point) (l *graph.Layout, err error) {
	defer func() { observability.Interaction().OnDrag(ctx, id, PhaseStart, err) }()
	if err := e.drags.Start(id, p); err != nil {
		return nil, err
	}
	e.logger.Debug("drag started", "node", id, "active", len(e.drags.Active()))
	return e.publish(e.snapshotLayout()), nil
}

func (e *Engine) dragMove(ctx context.Context, id string, p geom.Point) (l *graph.Layout, err error) {
	defer func() { observability.Interaction().OnDrag(ctx, id, PhaseMove, err) }()
	if _, err := e.drags.Move(id, p); err != nil {
		return nil, err
	}
	return e.publish(e.snapshotLayout()), nil
}

func (e *Engine) dragEnd(ctx context.Context, id string, p geom.Point) (l *graph.Layout, err error) {
	defer func() { observability.Interaction().OnDrag(ctx, id, PhaseEnd, err) }()
	reroute, err := e.drags.End(id, p)
	if err != nil {
		return nil, err
	}
	e.stats = graph.Stats{}
	if reroute {
		if err := e.route(ctx); err != nil {
			return nil, err
		}
	}
	e.logger.Debug("drag ended", "node", id, "rerouted", reroute)
	return e.publish(e.snapshotLayout()), nil
}

func (e *Engine) selectNode(ctx context.Context, id string) (*graph.Layout, error) {
	if id != "" {
		if _, ok := e.nodes[id]; !ok {
			return nil, errors.New(errors.ErrCodeUnknownNode, "unknown node %q", id)
		}
	}
	if id != e.selected {
		e.setSelected(e.selected, id)
	}
	observability.Interaction().OnSelect(ctx, id)
	if e.layout == nil {
		return nil, nil
	}
	return e.publish(e.snapshotLayout()), nil
}

func (e *Engine) setSelected(prev, id string) {
	e.selected = id
	e.logger.Debug("selection changed", "from", prev, "to", id)
	if e.onSelect != nil {
		e.inSelect.Store(true)
		defer e.inSelect.Store(false)
		e.onSelect(id)
	}
}
