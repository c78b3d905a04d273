package graph

import (
	"github.com/matzehuels/orthonet/pkg/geom"
)

// =============================================================================
// Layout - Engine Output
// =============================================================================

// Layout is the published result of an update or drag.
type Layout struct {
	Revision uint64        `json:"revision" yaml:"revision"`
	Width    float64       `json:"width" yaml:"width"`
	Height   float64       `json:"height" yaml:"height"`
	Margin   float64       `json:"margin" yaml:"margin"`
	Nodes    []NodeLayout  `json:"nodes" yaml:"nodes"`
	Routes   []RouteLayout `json:"routes" yaml:"routes"`
	Ghosts   []GhostLayout `json:"ghosts,omitempty" yaml:"ghosts,omitempty"`
	Selected string        `json:"selected,omitempty" yaml:"selected,omitempty"`
	Stats    Stats         `json:"stats" yaml:"stats"`
}

// NodeLayout is a placed node. Bounds is the layout rectangle; Visible is
// the drawn box, Bounds shrunk by the margin.
type NodeLayout struct {
	ID      string     `json:"id" yaml:"id"`
	Label   string     `json:"label" yaml:"label"`
	Center  geom.Point `json:"center" yaml:"center"`
	Bounds  geom.Rect  `json:"bounds" yaml:"bounds"`
	Visible geom.Rect  `json:"visible" yaml:"visible"`
	Pinned  bool       `json:"pinned,omitempty" yaml:"pinned,omitempty"`
}

// RouteLayout is the routed form of one link.
type RouteLayout struct {
	Index     int          `json:"index" yaml:"index"`
	Source    string       `json:"source" yaml:"source"`
	Target    string       `json:"target" yaml:"target"`
	Waypoints []geom.Point `json:"waypoints" yaml:"waypoints"`
	Path      string       `json:"path" yaml:"path"`
	Arrow     string       `json:"arrow,omitempty" yaml:"arrow,omitempty"`
	Outline   string       `json:"outline" yaml:"outline"`
	Bends     int          `json:"bends" yaml:"bends"`
}

// GhostLayout is a drag preview rectangle.
type GhostLayout struct {
	Node   string    `json:"node" yaml:"node"`
	Kind   string    `json:"kind" yaml:"kind"`
	Bounds geom.Rect `json:"bounds" yaml:"bounds"`
}

// Stats describes the work behind a layout.
type Stats struct {
	Solved     bool     `json:"solved" yaml:"solved"`
	Routed     bool     `json:"routed" yaml:"routed"`
	Iterations int      `json:"iterations" yaml:"iterations"`
	Converged  bool     `json:"converged" yaml:"converged"`
	Stress     float64  `json:"stress" yaml:"stress"`
	Components int      `json:"components" yaml:"components"`
	Changed    []string `json:"changed,omitempty" yaml:"changed,omitempty"`
}

// Node returns the placement of id.
func (l *Layout) Node(id string) (NodeLayout, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeLayout{}, false
}

// NodeIDs returns the placed node ids in order.
func (l *Layout) NodeIDs() []string {
	ids := make([]string, len(l.Nodes))
	for i, n := range l.Nodes {
		ids[i] = n.ID
	}
	return ids
}
