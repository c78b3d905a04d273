package router

import (
	"fmt"
	"math"
	"testing"

	"github.com/matzehuels/orthonet/pkg/errors"
	"github.com/matzehuels/orthonet/pkg/geom"
)

type edge struct{ s, t int }

func src(e edge) int { return e.s }
func dst(e edge) int { return e.t }

func box(name string, cx, cy float64) Box {
	return Box{Name: name, Bounds: geom.FromCenter(geom.Pt(cx, cy), 70, 70)}
}

func routeAll(t *testing.T, r *Router, edges []edge, nudge float64) []Route {
	t.Helper()
	routes, err := RouteEdges(r, edges, nudge, src, dst)
	if err != nil {
		t.Fatalf("RouteEdges() error = %v", err)
	}
	if len(routes) != len(edges) {
		t.Fatalf("got %d routes, want %d", len(routes), len(edges))
	}
	return routes
}

func TestStraightRoute(t *testing.T) {
	r := New([]Box{box("A", 35, 35), box("B", 235, 35)}, 20, WithCanvas(geom.FromSize(0, 0, 600, 500)))
	routes := routeAll(t, r, []edge{{0, 1}}, 4)

	got := routes[0]
	if got.Bends != 0 {
		t.Errorf("Bends = %d, want 0 (waypoints %v)", got.Bends, got.Waypoints)
	}
	want := []geom.Point{{X: 50, Y: 35}, {X: 220, Y: 35}}
	if !equalPoints(got.Waypoints, want) {
		t.Errorf("Waypoints = %v, want %v", got.Waypoints, want)
	}
}

func TestRouterNodesShrinkByMargin(t *testing.T) {
	r := New([]Box{box("A", 35, 35)}, 20)
	if got, want := r.Nodes[0].Bounds, (geom.Rect{Left: 20, Top: 20, Right: 50, Bottom: 50}); got != want {
		t.Errorf("Bounds = %+v, want %+v", got, want)
	}
	if r.Nodes[0].ID != 0 || r.Nodes[0].Name != "A" {
		t.Errorf("Node = %+v", r.Nodes[0])
	}
}

func TestSharedSideIsNudged(t *testing.T) {
	r := New([]Box{box("A", 0, 0), box("B", 200, 0), box("C", 120, 150)}, 20)
	routes := routeAll(t, r, []edge{{0, 1}, {0, 2}}, 4)

	ab, ac := routes[0].Waypoints, routes[1].Waypoints
	if ab[0].X != 15 || ac[0].X != 15 {
		t.Fatalf("routes should leave A's right side: %v, %v", ab, ac)
	}
	if d := ac[0].Y - ab[0].Y; d != 4 {
		t.Errorf("offset between shared exits = %v, want 4", d)
	}
	if routes[0].Bends != 0 || routes[1].Bends != 1 {
		t.Errorf("Bends = %d, %d; want 0, 1", routes[0].Bends, routes[1].Bends)
	}
	if last := ac[len(ac)-1]; last.Y != 135 {
		t.Errorf("A->C should enter C from the top, ends at %v", last)
	}
}

func TestDuplicateEdgesAreSeparated(t *testing.T) {
	r := New([]Box{box("A", 0, 0), box("B", 200, 0)}, 20)
	routes := routeAll(t, r, []edge{{0, 1}, {0, 1}, {0, 1}}, 4)

	for k, want := range []float64{-4, 0, 4} {
		for _, p := range routes[k].Waypoints {
			if p.Y != want {
				t.Errorf("route %d: waypoint %v, want y = %v", k, p, want)
			}
		}
	}
}

func TestRoutesStayOnGrid(t *testing.T) {
	boxes := []Box{
		box("a", 0, 0), box("b", 200, 0), box("c", 100, 0),
		box("d", 0, 200), box("e", 200, 200), box("f", 100, 120),
	}
	edges := []edge{{0, 1}, {0, 4}, {3, 1}, {2, 3}, {5, 0}, {4, 2}, {1, 3}}
	r := New(boxes, 15)
	routes := routeAll(t, r, edges, 0)

	xs, ys := r.GridLines()
	for _, rt := range routes {
		pts := rt.Waypoints
		for i := 0; i+1 < len(pts); i++ {
			a, b := pts[i], pts[i+1]
			switch {
			case a.Y == b.Y:
				if indexOf(ys, a.Y) < 0 {
					t.Errorf("edge %d: horizontal segment y=%v is not a grid line", rt.EdgeIndex, a.Y)
				}
			case a.X == b.X:
				if indexOf(xs, a.X) < 0 {
					t.Errorf("edge %d: vertical segment x=%v is not a grid line", rt.EdgeIndex, a.X)
				}
			default:
				t.Fatalf("edge %d: diagonal segment %v-%v", rt.EdgeIndex, a, b)
			}
			for _, n := range r.Nodes {
				if crosses(n.Bounds, a, b) {
					t.Errorf("edge %d: segment %v-%v crosses node %s", rt.EdgeIndex, a, b, n.Name)
				}
			}
		}
	}
}

func TestRouteAvoidsObstacle(t *testing.T) {
	r := New([]Box{box("A", 0, 0), box("B", 300, 0), box("C", 150, 0)}, 20)
	routes := routeAll(t, r, []edge{{0, 1}}, 0)
	if routes[0].Bends == 0 {
		t.Fatalf("route through obstacle: %v", routes[0].Waypoints)
	}
}

func TestUnknownNode(t *testing.T) {
	r := New([]Box{box("A", 0, 0)}, 20)
	_, err := RouteEdges(r, []edge{{0, 3}}, 4, src, dst)
	if !errors.Is(err, errors.ErrCodeUnknownNode) {
		t.Fatalf("error = %v, want UNKNOWN_NODE", err)
	}
	if _, err := r.Route(-1, 0); !errors.Is(err, errors.ErrCodeUnknownNode) {
		t.Fatalf("Route(-1, 0) error = %v, want UNKNOWN_NODE", err)
	}
}

func TestSelfLoop(t *testing.T) {
	r := New([]Box{box("A", 35, 35)}, 20)
	routes := routeAll(t, r, []edge{{0, 0}}, 4)
	pts := routes[0].Waypoints
	if len(pts) != 5 || routes[0].Bends != 3 {
		t.Fatalf("self loop = %v (bends %d)", pts, routes[0].Bends)
	}
	if pts[0] != geom.Pt(50, 35) || pts[4] != geom.Pt(35, 20) {
		t.Errorf("self loop should leave right and enter top: %v", pts)
	}
}

func TestDegenerateBoxes(t *testing.T) {
	tests := []struct {
		name  string
		boxes []Box
	}{
		{"coincident", []Box{box("A", 50, 50), box("B", 50, 50)}},
		{"zero area", []Box{
			{Name: "A", Bounds: geom.FromCenter(geom.Pt(0, 0), 0, 0)},
			{Name: "B", Bounds: geom.FromCenter(geom.Pt(100, 40), 0, 0)},
		}},
		{"overlapping", []Box{box("A", 0, 0), box("B", 10, 5)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(tt.boxes, 20)
			routes := routeAll(t, r, []edge{{0, 1}, {1, 0}}, 4)
			for _, rt := range routes {
				if len(rt.Waypoints) < 2 {
					t.Errorf("edge %d: %d waypoints", rt.EdgeIndex, len(rt.Waypoints))
				}
				for _, p := range rt.Waypoints {
					if math.IsNaN(p.X) || math.IsNaN(p.Y) {
						t.Errorf("edge %d: NaN waypoint", rt.EdgeIndex)
					}
				}
			}
		})
	}
}

func TestBends(t *testing.T) {
	tests := []struct {
		pts  []geom.Point
		want int
	}{
		{[]geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}, 0},
		{[]geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}, 1},
		{[]geom.Point{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0}}, 0},
		{[]geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 20, Y: 10}}, 2},
	}
	for i, tt := range tests {
		if got := Bends(tt.pts); got != tt.want {
			t.Errorf("case %d: Bends() = %d, want %d", i, got, tt.want)
		}
	}
}

func equalPoints(a, b []geom.Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !samePoint(a[i], b[i]) {
			return false
		}
	}
	return true
}

func ExampleRouteEdges() {
	r := New([]Box{
		{Name: "A", Bounds: geom.FromSize(0, 0, 70, 70)},
		{Name: "B", Bounds: geom.FromSize(200, 0, 70, 70)},
	}, 20)
	routes, _ := RouteEdges(r, [][2]int{{0, 1}}, 4,
		func(e [2]int) int { return e[0] },
		func(e [2]int) int { return e[1] })
	fmt.Println(routes[0].Waypoints, routes[0].Bends)
	// Output: [{50 35} {220 35}] 0
}
