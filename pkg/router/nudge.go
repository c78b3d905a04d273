package router

import (
	"math"
	"sort"

	"github.com/matzehuels/orthonet/pkg/geom"
)

// segment is one axis-parallel piece of a route. fixed is the coordinate
// shared by both ends; lo and hi bound the other one.
type segment struct {
	route    int
	index    int
	vertical bool
	fixed    float64
	lo, hi   float64
}

type lineKey struct {
	vertical bool
	fixed    int64
}

func keyOf(s segment) lineKey {
	return lineKey{s.vertical, int64(math.Round(s.fixed / eps))}
}

// nudgeRoutes separates overlapping collinear segments of different routes.
//
// Segments on the same line whose extents overlap form a cluster. The n
// distinct routes in a cluster, taken in edge order, are shifted across the
// line by (k - (n-1)/2) * nudge, so neighbours end up exactly nudge apart and
// the bundle stays centred on the original line. Waypoints are then rebuilt
// from the shifted segments; route ends slide along the box side they touch.
func nudgeRoutes(routes []Route, nudge float64) {
	segs := make([][]segment, len(routes))
	lines := map[lineKey][]segment{}
	for ri, rt := range routes {
		segs[ri] = decompose(ri, rt.Waypoints)
		for _, s := range segs[ri] {
			lines[keyOf(s)] = append(lines[keyOf(s)], s)
		}
	}

	offsets := make([][]float64, len(routes))
	for ri := range routes {
		offsets[ri] = make([]float64, len(segs[ri]))
	}
	for _, line := range lines {
		for _, cluster := range clusters(line) {
			order := distinctRoutes(cluster)
			n := len(order)
			if n < 2 {
				continue
			}
			shift := make(map[int]float64, n)
			for k, ri := range order {
				shift[ri] = (float64(k) - float64(n-1)/2) * nudge
			}
			for _, s := range cluster {
				offsets[s.route][s.index] = shift[s.route]
			}
		}
	}

	for ri := range routes {
		if len(segs[ri]) == 0 {
			continue
		}
		moved := false
		for i := range segs[ri] {
			if offsets[ri][i] != 0 {
				segs[ri][i].fixed += offsets[ri][i]
				moved = true
			}
		}
		if moved {
			routes[ri].Waypoints = rebuild(routes[ri].Waypoints, segs[ri])
		}
	}
}

// decompose splits simplified waypoints into segments. Routes with
// zero-length pieces produce no segments and are left alone.
func decompose(route int, pts []geom.Point) []segment {
	out := make([]segment, 0, len(pts))
	for i := 0; i+1 < len(pts); i++ {
		a, b := pts[i], pts[i+1]
		switch {
		case samePoint(a, b):
			return nil
		case math.Abs(a.Y-b.Y) < eps:
			lo, hi := minmax(a.X, b.X)
			out = append(out, segment{route: route, index: len(out), fixed: a.Y, lo: lo, hi: hi})
		case math.Abs(a.X-b.X) < eps:
			lo, hi := minmax(a.Y, b.Y)
			out = append(out, segment{route: route, index: len(out), vertical: true, fixed: a.X, lo: lo, hi: hi})
		default:
			return nil
		}
		if n := len(out); n > 1 && out[n-1].vertical == out[n-2].vertical {
			return nil
		}
	}
	return out
}

// clusters groups segments of one line into runs of overlapping extents.
func clusters(line []segment) [][]segment {
	sort.Slice(line, func(i, j int) bool {
		if line[i].lo != line[j].lo {
			return line[i].lo < line[j].lo
		}
		if line[i].route != line[j].route {
			return line[i].route < line[j].route
		}
		return line[i].index < line[j].index
	})
	var out [][]segment
	var hi float64
	for _, s := range line {
		if len(out) > 0 && s.lo < hi-eps {
			out[len(out)-1] = append(out[len(out)-1], s)
			hi = math.Max(hi, s.hi)
			continue
		}
		out = append(out, []segment{s})
		hi = s.hi
	}
	return out
}

func distinctRoutes(cluster []segment) []int {
	seen := map[int]bool{}
	var out []int
	for _, s := range cluster {
		if !seen[s.route] {
			seen[s.route] = true
			out = append(out, s.route)
		}
	}
	sort.Ints(out)
	return out
}

// rebuild recomputes waypoints after segments moved across their lines.
func rebuild(pts []geom.Point, segs []segment) []geom.Point {
	out := make([]geom.Point, len(segs)+1)
	out[0] = withFixed(pts[0], segs[0])
	for i := 1; i < len(segs); i++ {
		a, b := segs[i-1], segs[i]
		if a.vertical {
			out[i] = geom.Pt(a.fixed, b.fixed)
		} else {
			out[i] = geom.Pt(b.fixed, a.fixed)
		}
	}
	out[len(segs)] = withFixed(pts[len(pts)-1], segs[len(segs)-1])
	return out
}

func withFixed(p geom.Point, s segment) geom.Point {
	if s.vertical {
		return geom.Pt(s.fixed, p.Y)
	}
	return geom.Pt(p.X, s.fixed)
}
