package engine

import (
	"github.com/matzehuels/orthonet/pkg/geom"
	"github.com/matzehuels/orthonet/pkg/router"
)

// Node is the engine's record of a node. It survives updates for as long as
// its id stays in the figure, which keeps its position stable.
type Node struct {
	ID     string
	Label  string
	Width  float64
	Height float64

	// Position is the committed centre. Placed is false until the node has
	// been solved or given a position.
	Position geom.Point
	Placed   bool

	// DragOverride is set while a drag holds the node in place.
	DragOverride *geom.Point

	// Routing is the projection used by the last routing pass.
	Routing *router.Node

	index int
}

// Center returns the pinned position while dragged, else Position.
func (n *Node) Center() geom.Point {
	if n.DragOverride != nil {
		return *n.DragOverride
	}
	return n.Position
}

// Bounds returns the layout rectangle around Center.
func (n *Node) Bounds() geom.Rect {
	return geom.FromCenter(n.Center(), n.Width, n.Height)
}

// Edge links two nodes. Edges are rebuilt on every data change.
type Edge struct {
	Index  int
	Source *Node
	Target *Node
}

// nodeSet adapts the engine's node map to drag.Positioner.
type nodeSet struct {
	nodes  map[string]*Node
	margin func() float64
}

func (s nodeSet) Bounds(id string) (geom.Rect, bool) {
	n, ok := s.nodes[id]
	if !ok {
		return geom.Rect{}, false
	}
	return n.Bounds().Inflate(-s.margin()), true
}

func (s nodeSet) Pin(id string, center geom.Point) {
	if n, ok := s.nodes[id]; ok {
		c := center
		n.DragOverride = &c
	}
}

func (s nodeSet) Unpin(id string) {
	if n, ok := s.nodes[id]; ok {
		n.DragOverride = nil
	}
}

func (s nodeSet) Commit(id string, center geom.Point) {
	if n, ok := s.nodes[id]; ok {
		n.Position = center
		n.Placed = true
		n.DragOverride = nil
	}
}
