package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/orthonet/pkg/graph"
	"github.com/matzehuels/orthonet/pkg/router"
)

// Options configures DOT export.
type Options struct {
	// Pinned fixes every node at its layout position so Graphviz only
	// draws the edges. When false Graphviz lays the graph out itself.
	Pinned bool
}

// ToDOT converts a layout to Graphviz DOT. Sizes and positions are in
// points; the y axis is flipped because Graphviz grows upwards.
func ToDOT(l *graph.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=ortho;\n")
	if opts.Pinned {
		buf.WriteString("  inputscale=72;\n")
	}
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fixedsize=true];\n")
	buf.WriteString("\n")

	for _, n := range l.Nodes {
		attrs := []string{
			fmt.Sprintf("label=%q", n.Label),
			fmt.Sprintf("width=%s", inches(n.Visible.Width())),
			fmt.Sprintf("height=%s", inches(n.Visible.Height())),
		}
		if opts.Pinned {
			attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"",
				router.FormatNumber(n.Center.X), router.FormatNumber(l.Height-n.Center.Y)))
		}
		if n.ID == l.Selected {
			attrs = append(attrs, "penwidth=3")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, r := range l.Routes {
		fmt.Fprintf(&buf, "  %q -> %q;\n", r.Source, r.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func inches(pt float64) string {
	return router.FormatNumber(pt / 72)
}

// RenderSVG renders DOT source with Graphviz. Pinned graphs go through
// neato so the given positions are honoured.
func RenderSVG(dot string, opts Options) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	if opts.Pinned {
		gv.SetLayout(graphviz.NEATO)
	}

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
