package engine

import (
	"context"
	"slices"
	"time"

	"github.com/matzehuels/orthonet/pkg/diff"
	"github.com/matzehuels/orthonet/pkg/geom"
	"github.com/matzehuels/orthonet/pkg/graph"
	"github.com/matzehuels/orthonet/pkg/observability"
	"github.com/matzehuels/orthonet/pkg/router"
	"github.com/matzehuels/orthonet/pkg/solver"
)

// Keys whose change requires a new solve; any change at all re-routes.
var solveKeys = []string{graph.KeyData, graph.KeyPadding, graph.KeyWidth, graph.KeyHeight}

func (e *Engine) apply(ctx context.Context, fig graph.Figure) (l *graph.Layout, err error) {
	start := time.Now()
	hooks := observability.Layout()
	hooks.OnUpdateStart(ctx, len(fig.Nodes), len(fig.Links))
	var changed []string
	defer func() { hooks.OnUpdateComplete(ctx, changed, time.Since(start), err) }()

	fig = e.resolve(fig)
	if err := fig.Validate(); err != nil {
		e.logger.Warn("update rejected", "error", err)
		return nil, err
	}

	snap := fig.Snapshot()
	changes, ok := diff.Diff(e.snapshot, snap)
	if !ok && e.layout != nil {
		e.logger.Debug("update unchanged", "revision", e.revision)
		return e.Layout(), nil
	}
	changed = changes.Keys()
	e.snapshot, e.figure = snap, fig

	if changes.Has(graph.KeyData) {
		e.sync(fig)
	}
	e.stats = graph.Stats{Changed: changed}
	if changes.Has(solveKeys...) {
		e.solve(ctx, fig)
	}
	if err := e.route(ctx); err != nil {
		return nil, err
	}

	l = e.snapshotLayout()
	e.logger.Info("layout updated",
		"nodes", len(e.order),
		"links", len(e.edges),
		"changed", changed,
		"solved", e.stats.Solved,
		"duration", time.Since(start))
	return e.publish(l), nil
}

// resolve fills defaults and copies the caller's slices so later in-place
// edits cannot leak into the stored snapshot.
func (e *Engine) resolve(fig graph.Figure) graph.Figure {
	if fig.Width == 0 {
		fig.Width = e.cfg.Width
	}
	if fig.Height == 0 {
		fig.Height = e.cfg.Height
	}
	if fig.Margin == 0 {
		fig.Margin = e.cfg.Margin
	}
	if fig.Padding == 0 {
		fig.Padding = e.cfg.Padding
	}
	settings := graph.LinkSettings{Nudge: fig.Nudge(e.cfg.Links.Nudge)}
	fig.LinkSettings = &settings
	fig.Nodes = slices.Clone(fig.Nodes)
	fig.Links = slices.Clone(fig.Links)
	return fig
}

// sync applies the figure's node list to the node map and rebuilds edges.
func (e *Engine) sync(fig graph.Figure) {
	lc := e.cfg.Labels
	keep := make(map[string]bool, len(fig.Nodes))
	e.order = e.order[:0]
	for i, in := range fig.Nodes {
		keep[in.ID] = true
		w, h := in.Size(lc.FontSize, lc.PaddingX, lc.PaddingY)
		n, ok := e.nodes[in.ID]
		if !ok {
			n = &Node{ID: in.ID}
			if in.Position != nil {
				n.Position, n.Placed = *in.Position, true
			}
			e.nodes[in.ID] = n
		}
		n.Label, n.Width, n.Height, n.index = in.DisplayLabel(), w, h, i
		e.order = append(e.order, n)
	}
	for id := range e.nodes {
		if !keep[id] {
			e.drags.Cancel(id)
			delete(e.nodes, id)
		}
	}
	if e.selected != "" && !keep[e.selected] {
		e.setSelected(e.selected, "")
	}

	e.edges = e.edges[:0]
	for i, l := range fig.Links {
		e.edges = append(e.edges, Edge{Index: i, Source: e.nodes[l.Source], Target: e.nodes[l.Target]})
	}
}

func (e *Engine) canvas() geom.Rect {
	return geom.FromSize(0, 0, e.figure.Width, e.figure.Height)
}

func (e *Engine) solve(ctx context.Context, fig graph.Figure) {
	start := time.Now()
	bodies := make([]solver.Body, len(e.order))
	for i, n := range e.order {
		b := solver.Body{Width: n.Width, Height: n.Height}
		if n.Placed || n.DragOverride != nil {
			c := n.Center()
			b.Position = &c
		}
		b.Fixed = n.DragOverride != nil
		bodies[i] = b
	}
	links := make([]solver.Link, len(e.edges))
	for i, ed := range e.edges {
		links[i] = solver.Link{Source: ed.Source.index, Target: ed.Target.index}
	}

	res := solver.Solve(bodies, links, e.canvas(), e.cfg.SolverOptions(fig.Padding))
	for i, n := range e.order {
		if !bodies[i].Fixed {
			n.Position, n.Placed = res.Positions[i], true
		}
	}
	e.stats.Solved = true
	e.stats.Iterations = res.Iterations
	e.stats.Converged = res.Converged
	e.stats.Stress = res.Stress
	e.stats.Components = res.Components

	d := time.Since(start)
	observability.Layout().OnSolve(ctx, len(bodies), res.Iterations, res.Converged, d)
	e.logger.Debug("solved", "nodes", len(bodies), "iterations", res.Iterations, "converged", res.Converged, "duration", d)
}

func (e *Engine) route(ctx context.Context) error {
	start := time.Now()
	margin := e.figure.Margin
	boxes := make([]router.Box, len(e.order))
	layout := make([]geom.Rect, len(e.order))
	for i, n := range e.order {
		boxes[i] = router.Box{Name: n.ID, Bounds: n.Bounds()}
		layout[i] = boxes[i].Bounds
	}
	canvas := e.canvas()
	if len(layout) > 0 {
		canvas = canvas.Union(geom.Bounds(layout).Inflate(margin))
	}

	r := router.New(boxes, margin, router.WithCanvas(canvas))
	for i, n := range e.order {
		rn := r.Nodes[i]
		n.Routing = &rn
	}
	routes, err := router.RouteEdges(r, e.edges, e.figure.Nudge(e.cfg.Links.Nudge),
		func(ed Edge) int { return ed.Source.index },
		func(ed Edge) int { return ed.Target.index })
	if err != nil {
		return err
	}

	style := e.cfg.PathStyle()
	e.routes = make([]graph.RouteLayout, len(routes))
	for i, rt := range routes {
		p := style.Path(rt.Waypoints)
		ed := e.edges[rt.EdgeIndex]
		e.routes[i] = graph.RouteLayout{
			Index:     rt.EdgeIndex,
			Source:    ed.Source.ID,
			Target:    ed.Target.ID,
			Waypoints: rt.Waypoints,
			Path:      p.Line,
			Arrow:     p.Arrow,
			Outline:   p.Outline,
			Bends:     rt.Bends,
		}
	}
	e.stats.Routed = true

	d := time.Since(start)
	observability.Layout().OnRoute(ctx, len(routes), d)
	e.logger.Debug("routed", "links", len(routes), "duration", d)
	return nil
}

// snapshotLayout copies worker state into a new immutable layout.
func (e *Engine) snapshotLayout() *graph.Layout {
	e.revision++
	margin := e.figure.Margin
	l := &graph.Layout{
		Revision: e.revision,
		Width:    e.figure.Width,
		Height:   e.figure.Height,
		Margin:   margin,
		Nodes:    make([]graph.NodeLayout, len(e.order)),
		Routes:   slices.Clone(e.routes),
		Selected: e.selected,
		Stats:    e.stats,
	}
	for i, n := range e.order {
		b := n.Bounds()
		l.Nodes[i] = graph.NodeLayout{
			ID:      n.ID,
			Label:   n.Label,
			Center:  n.Center(),
			Bounds:  b,
			Visible: b.Inflate(-margin),
			Pinned:  n.DragOverride != nil,
		}
	}
	for _, g := range e.drags.Ghosts() {
		l.Ghosts = append(l.Ghosts, graph.GhostLayout{Node: g.NodeID, Kind: g.Kind.String(), Bounds: g.Bounds})
	}
	return l
}
