// Package geom provides the axis-aligned rectangles and points shared by the
// solver, the router and the drag controller.
//
// Coordinates follow screen conventions: x grows to the right and y grows
// downward, so Top <= Bottom for every well-formed Rect.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a position in canvas coordinates.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Vec converts p to a gonum vector.
func (p Point) Vec() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

// FromVec converts a gonum vector to a Point.
func FromVec(v r2.Vec) Point { return Point{X: v.X, Y: v.Y} }

// Rect is an axis-aligned rectangle given by its min and max corners.
type Rect struct {
	Left   float64 `json:"left" yaml:"left"`
	Top    float64 `json:"top" yaml:"top"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
}

// FromCenter returns the w×h rectangle centred on c.
func FromCenter(c Point, w, h float64) Rect {
	return Rect{
		Left:   c.X - w/2,
		Top:    c.Y - h/2,
		Right:  c.X + w/2,
		Bottom: c.Y + h/2,
	}
}

// FromSize returns the w×h rectangle whose top-left corner is at (x, y).
func FromSize(x, y, w, h float64) Rect {
	return Rect{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

func (r Rect) Width() float64  { return r.Right - r.Left }
func (r Rect) Height() float64 { return r.Bottom - r.Top }
func (r Rect) CX() float64     { return (r.Left + r.Right) / 2 }
func (r Rect) CY() float64     { return (r.Top + r.Bottom) / 2 }

// Center returns the midpoint of r.
func (r Rect) Center() Point { return Point{r.CX(), r.CY()} }

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Width() <= 0 || r.Height() <= 0 }

// Inflate grows r by d on every side. A negative d shrinks it; once a
// dimension would become negative it collapses onto the centre line.
func (r Rect) Inflate(d float64) Rect {
	out := Rect{r.Left - d, r.Top - d, r.Right + d, r.Bottom + d}
	if out.Left > out.Right {
		cx := r.CX()
		out.Left, out.Right = cx, cx
	}
	if out.Top > out.Bottom {
		cy := r.CY()
		out.Top, out.Bottom = cy, cy
	}
	return out
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{r.Left + dx, r.Top + dy, r.Right + dx, r.Bottom + dy}
}

// MoveTo returns r re-centred on c, keeping its size.
func (r Rect) MoveTo(c Point) Rect {
	return FromCenter(c, r.Width(), r.Height())
}

// Union returns the smallest rectangle containing r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Left:   math.Min(r.Left, o.Left),
		Top:    math.Min(r.Top, o.Top),
		Right:  math.Max(r.Right, o.Right),
		Bottom: math.Max(r.Bottom, o.Bottom),
	}
}

// Overlaps reports whether r and o share a region of positive area.
func (r Rect) Overlaps(o Rect) bool {
	return r.Left < o.Right && o.Left < r.Right && r.Top < o.Bottom && o.Top < r.Bottom
}

// Contains reports whether p lies inside r or on its boundary.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// ContainsStrict reports whether p lies in the open interior of r.
func (r Rect) ContainsStrict(p Point) bool {
	return p.X > r.Left && p.X < r.Right && p.Y > r.Top && p.Y < r.Bottom
}

// Bounds returns the union of rects, or the zero Rect when rects is empty.
func Bounds(rects []Rect) Rect {
	if len(rects) == 0 {
		return Rect{}
	}
	out := rects[0]
	for _, r := range rects[1:] {
		out = out.Union(r)
	}
	return out
}
