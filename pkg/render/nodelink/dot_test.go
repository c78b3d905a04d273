package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/orthonet/pkg/geom"
	"github.com/matzehuels/orthonet/pkg/graph"
)

func sample() *graph.Layout {
	return &graph.Layout{
		Width:  300,
		Height: 100,
		Nodes: []graph.NodeLayout{
			{ID: "a", Label: "Alpha", Center: geom.Pt(36, 36), Visible: geom.FromCenter(geom.Pt(36, 36), 72, 36)},
			{ID: "b", Label: "Beta", Center: geom.Pt(236, 36), Visible: geom.FromCenter(geom.Pt(236, 36), 72, 36)},
		},
		Routes:   []graph.RouteLayout{{Source: "a", Target: "b"}},
		Selected: "b",
	}
}

func TestToDOT(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		want    []string
		notWant []string
	}{
		{
			name:    "free",
			want:    []string{`"a" [label="Alpha", width=1, height=0.5]`, `"a" -> "b";`, "penwidth=3"},
			notWant: []string{"pos=", "inputscale"},
		},
		{
			name: "pinned",
			opts: Options{Pinned: true},
			want: []string{"inputscale=72", `pos="36,64!"`, `pos="236,64!"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dot := ToDOT(sample(), tt.opts)
			for _, w := range tt.want {
				if !strings.Contains(dot, w) {
					t.Errorf("DOT missing %q:\n%s", w, dot)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(dot, w) {
					t.Errorf("DOT contains %q", w)
				}
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(ToDOT(sample(), Options{}), Options{})
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Errorf("output is not SVG")
	}
}
