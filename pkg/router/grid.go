package router

import (
	"github.com/matzehuels/orthonet/pkg/geom"
)

// grid is the rectilinear routing graph. Vertex v = j*len(xs)+i sits at
// (xs[i], ys[j]).
type grid struct {
	xs, ys []float64
	boxes  []geom.Rect

	free  []bool // vertex lies outside every box interior
	right []bool // segment v -> v+1 is passable
	down  []bool // segment v -> v+len(xs) is passable
}

func newGrid(nodes []Node, margin float64, canvas geom.Rect) *grid {
	xs := []float64{canvas.Left, canvas.Right}
	ys := []float64{canvas.Top, canvas.Bottom}
	boxes := make([]geom.Rect, len(nodes))
	for i, n := range nodes {
		b := n.Bounds
		boxes[i] = b
		xs = append(xs, b.Left-margin, b.CX(), b.Right+margin)
		ys = append(ys, b.Top-margin, b.CY(), b.Bottom+margin)
	}
	g := &grid{
		xs:    uniqueSorted(xs),
		ys:    uniqueSorted(ys),
		boxes: boxes,
	}
	nx, ny := len(g.xs), len(g.ys)
	g.free = make([]bool, nx*ny)
	g.right = make([]bool, nx*ny)
	g.down = make([]bool, nx*ny)
	for j, y := range g.ys {
		for i, x := range g.xs {
			g.free[j*nx+i] = !g.insideAny(geom.Pt(x, y))
		}
	}
	for j, y := range g.ys {
		for i, x := range g.xs {
			v := j*nx + i
			if !g.free[v] {
				continue
			}
			if i+1 < nx && g.free[v+1] {
				g.right[v] = !g.crossesAny(geom.Pt(x, y), geom.Pt(g.xs[i+1], y))
			}
			if j+1 < ny && g.free[v+nx] {
				g.down[v] = !g.crossesAny(geom.Pt(x, y), geom.Pt(x, g.ys[j+1]))
			}
		}
	}
	return g
}

func (g *grid) size() int { return len(g.xs) * len(g.ys) }

func (g *grid) point(v int) geom.Point {
	nx := len(g.xs)
	return geom.Pt(g.xs[v%nx], g.ys[v/nx])
}

// vertex returns the vertex at p, or -1 if p is not a free grid vertex.
func (g *grid) vertex(p geom.Point) int {
	i, j := indexOf(g.xs, p.X), indexOf(g.ys, p.Y)
	if i < 0 || j < 0 {
		return -1
	}
	v := j*len(g.xs) + i
	if !g.free[v] {
		return -1
	}
	return v
}

// step moves from v to its neighbour in direction d.
func (g *grid) step(v int, d Side) (int, bool) {
	nx := len(g.xs)
	switch d {
	case Right:
		if v%nx+1 < nx && g.right[v] {
			return v + 1, true
		}
	case Left:
		if v%nx > 0 && g.right[v-1] {
			return v - 1, true
		}
	case Down:
		if v+nx < g.size() && g.down[v] {
			return v + nx, true
		}
	case Up:
		if v-nx >= 0 && g.down[v-nx] {
			return v - nx, true
		}
	}
	return 0, false
}

func (g *grid) insideAny(p geom.Point) bool {
	for _, b := range g.boxes {
		if b.ContainsStrict(p) {
			return true
		}
	}
	return false
}

func (g *grid) crossesAny(a, b geom.Point) bool {
	for _, box := range g.boxes {
		if crosses(box, a, b) {
			return true
		}
	}
	return false
}

// crosses reports whether the axis-parallel segment ab passes through the
// open interior of box.
func crosses(box geom.Rect, a, b geom.Point) bool {
	if box.Empty() {
		return false
	}
	if a.Y == b.Y {
		lo, hi := minmax(a.X, b.X)
		return a.Y > box.Top && a.Y < box.Bottom && lo < box.Right && hi > box.Left
	}
	lo, hi := minmax(a.Y, b.Y)
	return a.X > box.Left && a.X < box.Right && lo < box.Bottom && hi > box.Top
}

func minmax(a, b float64) (float64, float64) {
	if a < b {
		return a, b
	}
	return b, a
}
