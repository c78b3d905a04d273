package sink

import (
	"strings"
	"testing"

	"github.com/matzehuels/orthonet/pkg/geom"
	"github.com/matzehuels/orthonet/pkg/graph"
)

func sampleLayout() *graph.Layout {
	return &graph.Layout{
		Width:  300,
		Height: 120,
		Margin: 20,
		Nodes: []graph.NodeLayout{
			{ID: "a", Label: "A & co", Center: geom.Pt(35, 35), Bounds: geom.FromSize(0, 0, 70, 70), Visible: geom.FromSize(20, 20, 30, 30)},
			{ID: "b", Label: "B", Center: geom.Pt(235, 35), Bounds: geom.FromSize(200, 0, 70, 70), Visible: geom.FromSize(220, 20, 30, 30), Pinned: true},
		},
		Routes: []graph.RouteLayout{
			{Index: 0, Source: "a", Target: "b", Path: "M 50 35 L 213 35", Outline: "M 50 35 L 213 35", Arrow: "M 220 35 L 213 32 L 213 38 Z"},
		},
		Ghosts:   []graph.GhostLayout{{Node: "b", Kind: "preview", Bounds: geom.FromSize(240, 40, 30, 30)}},
		Selected: "a",
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(sampleLayout()))

	for _, want := range []string{
		`viewBox="0 0 300 120"`,
		`class="linkoutline" d="M 50 35 L 213 35"`,
		`class="link" d="M 50 35 L 213 35"`,
		`class="linkarrow" d="M 220 35 L 213 32 L 213 38 Z"`,
		`class="linkarrowoutline"`,
		`id="node-a" class="node selected" x="20" y="20" width="30" height="30"`,
		`class="node pinned"`,
		`>A &amp; co</text>`,
		`class="ghost preview" data-node="b"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("SVG not closed")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	svg := string(RenderSVG(sampleLayout(), WithoutGhosts(), WithFontSize(16), WithBackground("#fafafa")))
	if strings.Contains(svg, `class="ghosts"`) {
		t.Error("ghosts rendered despite WithoutGhosts")
	}
	if !strings.Contains(svg, `font-size="16"`) || !strings.Contains(svg, `fill="#fafafa"`) {
		t.Error("options not applied")
	}
}

func TestRenderSVGEmpty(t *testing.T) {
	svg := string(RenderSVG(&graph.Layout{Width: 10, Height: 10}))
	if strings.Contains(svg, "<rect") {
		t.Errorf("empty layout drew shapes: %s", svg)
	}
}
