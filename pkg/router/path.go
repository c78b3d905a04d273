package router

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/orthonet/pkg/geom"
)

// Default path styling.
const (
	DefaultCornerRadius = 5
	DefaultArrowWidth   = 3
	DefaultArrowHeight  = 7
)

// PathStyle controls how waypoints are turned into SVG path data.
type PathStyle struct {
	CornerRadius float64 `json:"cornerRadius" toml:"corner_radius"`
	ArrowWidth   float64 `json:"arrowWidth" toml:"arrow_width"`
	ArrowHeight  float64 `json:"arrowHeight" toml:"arrow_height"`
}

// DefaultPathStyle returns rounded corners with a small arrowhead.
func DefaultPathStyle() PathStyle {
	return PathStyle{
		CornerRadius: DefaultCornerRadius,
		ArrowWidth:   DefaultArrowWidth,
		ArrowHeight:  DefaultArrowHeight,
	}
}

// RoutePath is the drawable form of a route. Outline is drawn underneath
// Line with a wider stroke and always equals it.
type RoutePath struct {
	Line    string `json:"path"`
	Arrow   string `json:"arrow,omitempty"`
	Outline string `json:"outline"`
}

// Path renders waypoints. The line stops ArrowHeight short of the last
// waypoint so the arrowhead sits in front of it; with ArrowHeight zero no
// arrow is produced.
func (s PathStyle) Path(pts []geom.Point) RoutePath {
	if len(pts) == 0 {
		return RoutePath{}
	}
	var b pathBuilder
	b.cmd("M", pts[0])
	if len(pts) == 1 {
		line := b.String()
		return RoutePath{Line: line, Outline: line}
	}

	for i := 1; i+1 < len(pts); i++ {
		prev, at, next := pts[i-1], pts[i], pts[i+1]
		in, lin := direction(prev, at)
		out, lout := direction(at, next)
		r := math.Min(s.CornerRadius, math.Min(lin, lout)/2)
		if r <= 0 || collinear(prev, at, next) {
			b.cmd("L", at)
			continue
		}
		b.cmd("L", geom.Pt(at.X-in.X*r, at.Y-in.Y*r))
		b.cmd("Q", at, geom.Pt(at.X+out.X*r, at.Y+out.Y*r))
	}

	last, end := pts[len(pts)-2], pts[len(pts)-1]
	u, l := direction(last, end)
	var arrow string
	if s.ArrowHeight > 0 && l > 0 {
		h := math.Min(s.ArrowHeight, l)
		base := geom.Pt(end.X-u.X*h, end.Y-u.Y*h)
		perp := geom.Pt(-u.Y, u.X)
		var a pathBuilder
		a.cmd("M", end)
		a.cmd("L", geom.Pt(base.X+perp.X*s.ArrowWidth, base.Y+perp.Y*s.ArrowWidth))
		a.cmd("L", geom.Pt(base.X-perp.X*s.ArrowWidth, base.Y-perp.Y*s.ArrowWidth))
		a.close()
		arrow = a.String()
		end = base
	}
	b.cmd("L", end)
	line := b.String()
	return RoutePath{Line: line, Arrow: arrow, Outline: line}
}

// direction returns the unit vector from a to b and the distance.
func direction(a, b geom.Point) (geom.Point, float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return geom.Point{}, 0
	}
	return geom.Pt(dx/l, dy/l), l
}

type pathBuilder struct {
	strings.Builder
}

func (b *pathBuilder) cmd(op string, pts ...geom.Point) {
	if b.Len() > 0 {
		b.WriteByte(' ')
	}
	b.WriteString(op)
	for _, p := range pts {
		b.WriteByte(' ')
		b.WriteString(FormatNumber(p.X))
		b.WriteByte(' ')
		b.WriteString(FormatNumber(p.Y))
	}
}

func (b *pathBuilder) close() { b.WriteString(" Z") }

// FormatNumber writes v with at most two decimals and no trailing zeros.
func FormatNumber(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
