package drag

import (
	"testing"

	"github.com/matzehuels/orthonet/pkg/errors"
	"github.com/matzehuels/orthonet/pkg/geom"
)

type board struct {
	centers map[string]geom.Point
	pins    map[string]geom.Point
}

func newBoard() *board {
	return &board{
		centers: map[string]geom.Point{"a": geom.Pt(50, 50), "b": geom.Pt(200, 50)},
		pins:    map[string]geom.Point{},
	}
}

func (b *board) Bounds(id string) (geom.Rect, bool) {
	c, ok := b.centers[id]
	return geom.FromCenter(c, 30, 30), ok
}
func (b *board) Pin(id string, c geom.Point)    { b.pins[id] = c }
func (b *board) Unpin(id string)                { delete(b.pins, id) }
func (b *board) Commit(id string, c geom.Point) { b.centers[id] = c; delete(b.pins, id) }

func TestRoundTrip(t *testing.T) {
	b := newBoard()
	c := New(b)

	if err := c.Start("a", geom.Pt(10, 10)); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if b.pins["a"] != geom.Pt(50, 50) {
		t.Errorf("pin = %v, want current centre", b.pins["a"])
	}
	if got := c.Ghosts(); len(got) != 2 || got[0].Bounds != got[1].Bounds {
		t.Fatalf("Ghosts() = %+v", got)
	}

	preview, err := c.Move("a", geom.Pt(25, 5))
	if err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if preview.Center() != geom.Pt(65, 45) {
		t.Errorf("preview centre = %v", preview.Center())
	}
	if b.centers["a"] != geom.Pt(50, 50) {
		t.Error("Move() changed committed position")
	}

	reroute, err := c.End("a", geom.Pt(40, 30))
	if err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if !reroute {
		t.Error("End() of the only gesture should request a re-route")
	}
	if got := b.centers["a"]; got != geom.Pt(80, 70) {
		t.Errorf("committed centre = %v, want (80, 70)", got)
	}
	if len(c.Ghosts()) != 0 || len(c.Active()) != 0 || len(b.pins) != 0 {
		t.Errorf("state left behind: ghosts %v active %v pins %v", c.Ghosts(), c.Active(), b.pins)
	}
}

func TestOverlappingGesturesDeferReroute(t *testing.T) {
	c := New(newBoard())
	_ = c.Start("a", geom.Pt(0, 0))
	_ = c.Start("b", geom.Pt(0, 0))
	if got := len(c.Ghosts()); got != 4 {
		t.Errorf("ghosts = %d, want 4", got)
	}

	reroute, _ := c.End("a", geom.Pt(5, 5))
	if reroute {
		t.Error("re-route requested while b is still dragged")
	}
	reroute, _ = c.End("b", geom.Pt(5, 5))
	if !reroute {
		t.Error("re-route not requested after the last gesture")
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		run  func(c *Controller) error
		code errors.Code
	}{
		{"unknown node", func(c *Controller) error { return c.Start("zz", geom.Point{}) }, errors.ErrCodeUnknownNode},
		{"double start", func(c *Controller) error {
			_ = c.Start("a", geom.Point{})
			return c.Start("a", geom.Point{})
		}, errors.ErrCodeDragInProgress},
		{"move without start", func(c *Controller) error {
			_, err := c.Move("a", geom.Point{})
			return err
		}, errors.ErrCodeNotDragging},
		{"end without start", func(c *Controller) error {
			_, err := c.End("b", geom.Point{})
			return err
		}, errors.ErrCodeNotDragging},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(New(newBoard())); !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestCancel(t *testing.T) {
	b := newBoard()
	c := New(b)
	_ = c.Start("a", geom.Pt(0, 0))
	if !c.Cancel("a") {
		t.Fatal("Cancel() = false")
	}
	if c.Dragging("a") || len(b.pins) != 0 || b.centers["a"] != geom.Pt(50, 50) {
		t.Error("Cancel() left state behind or moved the node")
	}
	if c.Cancel("a") {
		t.Error("second Cancel() = true")
	}
}
