// Package drag tracks node drag gestures.
//
// Each node is either idle or being dragged. While a node is dragged it is
// pinned at the position it had when the gesture started and two ghost
// rectangles are shown: one at the origin and one previewing the drop
// position. Ending a gesture commits the previewed position. Several nodes
// may be dragged at once; End reports that routes need recomputing only when
// the last active gesture finishes.
//
// A Controller is not safe for concurrent use. The engine owns it from its
// worker goroutine.
package drag

import (
	"sort"

	"github.com/matzehuels/orthonet/pkg/errors"
	"github.com/matzehuels/orthonet/pkg/geom"
)

// Positioner gives the controller access to node positions.
type Positioner interface {
	// Bounds returns the visible rectangle of a node.
	Bounds(id string) (geom.Rect, bool)
	// Pin freezes a node at center until Commit or Unpin.
	Pin(id string, center geom.Point)
	// Unpin releases a pin without moving the node.
	Unpin(id string)
	// Commit moves a node to center and releases its pin.
	Commit(id string, center geom.Point)
}

// GhostKind distinguishes the two ghosts of a gesture.
type GhostKind int

const (
	GhostOrigin GhostKind = iota
	GhostPreview
)

func (k GhostKind) String() string {
	if k == GhostPreview {
		return "preview"
	}
	return "origin"
}

// Ghost is a transient preview rectangle.
type Ghost struct {
	NodeID string    `json:"node"`
	Kind   GhostKind `json:"kind"`
	Bounds geom.Rect `json:"bounds"`
}

type gesture struct {
	start   geom.Point
	origin  geom.Rect
	preview geom.Rect
}

// Controller runs the per-node drag state machine.
type Controller struct {
	nodes  Positioner
	active map[string]*gesture
}

// New returns an idle controller.
func New(nodes Positioner) *Controller {
	return &Controller{nodes: nodes, active: map[string]*gesture{}}
}

// Start begins dragging id with the pointer at pointer.
func (c *Controller) Start(id string, pointer geom.Point) error {
	if _, ok := c.active[id]; ok {
		return errors.New(errors.ErrCodeDragInProgress, "node %q is already being dragged", id)
	}
	b, ok := c.nodes.Bounds(id)
	if !ok {
		return errors.New(errors.ErrCodeUnknownNode, "unknown node %q", id)
	}
	c.active[id] = &gesture{start: pointer, origin: b, preview: b}
	c.nodes.Pin(id, b.Center())
	return nil
}

// Move updates the preview ghost of id and returns its bounds. Committed
// state is not touched.
func (c *Controller) Move(id string, pointer geom.Point) (geom.Rect, error) {
	g, ok := c.active[id]
	if !ok {
		return geom.Rect{}, errors.New(errors.ErrCodeNotDragging, "node %q is not being dragged", id)
	}
	d := pointer.Sub(g.start)
	g.preview = g.origin.Translate(d.X, d.Y)
	return g.preview, nil
}

// End finishes the gesture on id, commits the dropped position and reports
// whether no gesture remains active.
func (c *Controller) End(id string, pointer geom.Point) (bool, error) {
	if _, err := c.Move(id, pointer); err != nil {
		return false, err
	}
	g := c.active[id]
	delete(c.active, id)
	c.nodes.Commit(id, g.preview.Center())
	return len(c.active) == 0, nil
}

// Cancel abandons the gesture on id without moving the node, e.g. because
// an update removed it. It reports whether a gesture was active.
func (c *Controller) Cancel(id string) bool {
	if _, ok := c.active[id]; !ok {
		return false
	}
	delete(c.active, id)
	c.nodes.Unpin(id)
	return true
}

// Dragging reports whether id has an active gesture.
func (c *Controller) Dragging(id string) bool {
	_, ok := c.active[id]
	return ok
}

// Active returns the ids with an active gesture, sorted.
func (c *Controller) Active() []string {
	ids := make([]string, 0, len(c.active))
	for id := range c.active {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Ghosts returns the origin and preview ghost of every active gesture.
func (c *Controller) Ghosts() []Ghost {
	out := make([]Ghost, 0, 2*len(c.active))
	for _, id := range c.Active() {
		g := c.active[id]
		out = append(out,
			Ghost{NodeID: id, Kind: GhostOrigin, Bounds: g.origin},
			Ghost{NodeID: id, Kind: GhostPreview, Bounds: g.preview},
		)
	}
	return out
}
