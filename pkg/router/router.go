// Package router computes orthogonal edge routes between rectangular nodes.
//
// A [Router] is built once per layout from the node rectangles and a margin.
// Each rectangle is shrunk by the margin to obtain the visible node box; the
// space between the visible box and the layout rectangle is the band in which
// routes travel. The router lays a sparse rectilinear grid over the canvas:
// every box contributes its two centre lines and the two lines at margin
// distance outside each side, and the canvas contributes its boundary. Grid
// vertices inside a box and grid segments crossing a box are discarded.
//
// Routes leave the source box at the middle of one of its sides, travel along
// grid segments and enter the target box at the middle of one of its sides.
// Among all such paths the router picks the one with the fewest bends, then
// the shortest, then the one whose exit side comes first in the order right,
// left, down, up.
//
// After routing, [RouteEdges] separates overlapping collinear segments of
// different edges by the nudge distance (see nudge.go).
package router

import (
	"math"
	"sort"

	"github.com/matzehuels/orthonet/pkg/errors"
	"github.com/matzehuels/orthonet/pkg/geom"
)

// DefaultLoopSize is the extent of a self-loop when the margin is zero.
const DefaultLoopSize = 10

const eps = 1e-6

// Side identifies a side of a box, or equivalently a travel direction.
// The declaration order is the exit preference order.
type Side int

const (
	Right Side = iota
	Left
	Down
	Up
)

var sides = [...]Side{Right, Left, Down, Up}

func (s Side) String() string {
	switch s {
	case Right:
		return "right"
	case Left:
		return "left"
	case Down:
		return "down"
	case Up:
		return "up"
	}
	return "unknown"
}

// Opposite returns the reverse direction.
func (s Side) Opposite() Side {
	switch s {
	case Right:
		return Left
	case Left:
		return Right
	case Down:
		return Up
	}
	return Down
}

// Horizontal reports whether s is Right or Left.
func (s Side) Horizontal() bool { return s == Right || s == Left }

func (s Side) unit() geom.Point {
	switch s {
	case Right:
		return geom.Pt(1, 0)
	case Left:
		return geom.Pt(-1, 0)
	case Down:
		return geom.Pt(0, 1)
	}
	return geom.Pt(0, -1)
}

// Box is a layout rectangle handed to the router.
type Box struct {
	Name   string
	Bounds geom.Rect
}

// Node is the router's projection of a Box: a sequential id and the box
// shrunk by the margin.
type Node struct {
	ID     int       `json:"id"`
	Name   string    `json:"name"`
	Bounds geom.Rect `json:"bounds"`
}

// Route is the routed polyline of one edge.
type Route struct {
	EdgeIndex int          `json:"edgeIndex"`
	Source    int          `json:"source"`
	Target    int          `json:"target"`
	Waypoints []geom.Point `json:"waypoints"`
	Bends     int          `json:"bends"`
}

// Router holds the routing grid for one set of boxes.
type Router struct {
	Nodes []Node

	margin float64
	canvas geom.Rect
	grid   *grid
}

// Option configures a Router.
type Option func(*Router)

// WithCanvas sets the canvas whose boundary bounds the grid. By default the
// canvas is the union of all layout rectangles grown by the margin.
func WithCanvas(canvas geom.Rect) Option {
	return func(r *Router) { r.canvas = canvas }
}

// New builds a router over boxes. Node ids are the box indices.
func New(boxes []Box, margin float64, opts ...Option) *Router {
	r := &Router{
		Nodes:  make([]Node, len(boxes)),
		margin: margin,
	}
	layout := make([]geom.Rect, len(boxes))
	for i, b := range boxes {
		r.Nodes[i] = Node{ID: i, Name: b.Name, Bounds: b.Bounds.Inflate(-margin)}
		layout[i] = r.Nodes[i].Bounds.Inflate(margin)
	}
	r.canvas = geom.Bounds(layout).Inflate(math.Max(margin, 0))
	for _, opt := range opts {
		opt(r)
	}
	r.grid = newGrid(r.Nodes, margin, r.canvas)
	return r
}

// Margin returns the margin the router was built with.
func (r *Router) Margin() float64 { return r.margin }

// Canvas returns the grid boundary.
func (r *Router) Canvas() geom.Rect { return r.canvas }

// GridLines returns the sorted x and y coordinates of the grid lines.
func (r *Router) GridLines() (xs, ys []float64) {
	return append([]float64(nil), r.grid.xs...), append([]float64(nil), r.grid.ys...)
}

// Route computes the waypoints of a single edge from node source to node
// target, without nudging.
func (r *Router) Route(source, target int) ([]geom.Point, error) {
	if err := r.checkNode(source, "source"); err != nil {
		return nil, err
	}
	if err := r.checkNode(target, "target"); err != nil {
		return nil, err
	}
	return r.route(source, target), nil
}

// RouteEdges routes every edge and separates overlapping segments by nudge.
// Routes are returned in edge order. An edge whose source or target id does
// not name a router node fails the whole call.
func RouteEdges[E any](r *Router, edges []E, nudge float64, source, target func(E) int) ([]Route, error) {
	routes := make([]Route, len(edges))
	for i, e := range edges {
		s, t := source(e), target(e)
		if err := r.checkNode(s, "source"); err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "edge %d", i)
		}
		if err := r.checkNode(t, "target"); err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "edge %d", i)
		}
		routes[i] = Route{EdgeIndex: i, Source: s, Target: t, Waypoints: r.route(s, t)}
	}
	if nudge != 0 {
		nudgeRoutes(routes, nudge)
	}
	for i := range routes {
		routes[i].Bends = Bends(routes[i].Waypoints)
	}
	return routes, nil
}

func (r *Router) checkNode(id int, role string) error {
	if id < 0 || id >= len(r.Nodes) {
		return errors.New(errors.ErrCodeUnknownNode, "unknown %s node %d", role, id)
	}
	return nil
}

func (r *Router) route(s, t int) []geom.Point {
	if s == t {
		return r.selfLoop(r.Nodes[s].Bounds)
	}
	if pts := r.search(s, t); pts != nil {
		return simplify(pts)
	}
	return simplify(fallback(r.Nodes[s].Bounds, r.Nodes[t].Bounds))
}

// selfLoop leaves the right side and re-enters through the top.
func (r *Router) selfLoop(b geom.Rect) []geom.Point {
	d := r.margin
	if d <= 0 {
		d = DefaultLoopSize
	}
	return []geom.Point{
		{X: b.Right, Y: b.CY()},
		{X: b.Right + d, Y: b.CY()},
		{X: b.Right + d, Y: b.Top - d},
		{X: b.CX(), Y: b.Top - d},
		{X: b.CX(), Y: b.Top},
	}
}

// fallback is an unobstructed L route between the two boxes, used when the
// grid offers no connection.
func fallback(s, t geom.Rect) []geom.Point {
	start := geom.Pt(s.Right, s.CY())
	if t.CX() < s.CX() {
		start.X = s.Left
	}
	end := geom.Pt(t.CX(), t.Top)
	if t.CY() < s.CY() {
		end.Y = t.Bottom
	}
	if t.CX() >= s.Left && t.CX() <= s.Right {
		start = geom.Pt(t.CX(), s.Bottom)
		if t.CY() < s.CY() {
			start.Y = s.Top
		}
		return []geom.Point{start, end}
	}
	return []geom.Point{start, {X: end.X, Y: start.Y}, end}
}

// boundary returns the midpoint of side s of b.
func boundary(b geom.Rect, s Side) geom.Point {
	switch s {
	case Right:
		return geom.Pt(b.Right, b.CY())
	case Left:
		return geom.Pt(b.Left, b.CY())
	case Down:
		return geom.Pt(b.CX(), b.Bottom)
	}
	return geom.Pt(b.CX(), b.Top)
}

// port returns the grid point at margin distance outside side s of b.
func port(b geom.Rect, s Side, margin float64) geom.Point {
	u := s.unit()
	p := boundary(b, s)
	return geom.Pt(p.X+u.X*margin, p.Y+u.Y*margin)
}

// Bends counts direction changes along pts.
func Bends(pts []geom.Point) int {
	n := 0
	for i := 1; i+1 < len(pts); i++ {
		if !collinear(pts[i-1], pts[i], pts[i+1]) {
			n++
		}
	}
	return n
}

// simplify drops repeated points and interior points that do not turn.
func simplify(pts []geom.Point) []geom.Point {
	out := make([]geom.Point, 0, len(pts))
	for _, p := range pts {
		if len(out) > 0 && samePoint(out[len(out)-1], p) {
			continue
		}
		for len(out) >= 2 && collinear(out[len(out)-2], out[len(out)-1], p) {
			out = out[:len(out)-1]
		}
		out = append(out, p)
	}
	if len(out) == 1 && len(pts) > 1 {
		out = append(out, out[0])
	}
	return out
}

func samePoint(a, b geom.Point) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
}

// collinear reports whether a, b, c lie on one axis-parallel line with b
// between a and c.
func collinear(a, b, c geom.Point) bool {
	if math.Abs(a.X-b.X) < eps && math.Abs(b.X-c.X) < eps {
		return (b.Y-a.Y)*(c.Y-b.Y) >= 0
	}
	if math.Abs(a.Y-b.Y) < eps && math.Abs(b.Y-c.Y) < eps {
		return (b.X-a.X)*(c.X-b.X) >= 0
	}
	return false
}

// uniqueSorted sorts vs and merges values closer than eps.
func uniqueSorted(vs []float64) []float64 {
	sort.Float64s(vs)
	out := vs[:0]
	for _, v := range vs {
		if len(out) > 0 && v-out[len(out)-1] < eps {
			continue
		}
		out = append(out, v)
	}
	return out
}

// indexOf returns the index of v in the sorted lines, or -1.
func indexOf(lines []float64, v float64) int {
	i := sort.SearchFloat64s(lines, v-eps)
	if i < len(lines) && math.Abs(lines[i]-v) < eps {
		return i
	}
	return -1
}
