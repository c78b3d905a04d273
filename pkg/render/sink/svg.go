package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/orthonet/pkg/graph"
	"github.com/matzehuels/orthonet/pkg/router"
)

const diagramCSS = `
    .node { fill: #ffffff; stroke: #333333; stroke-width: 1.5; }
    .node.selected { stroke: #1f6feb; stroke-width: 3; }
    .node.pinned { stroke-dasharray: 4 2; }
    .label { font-family: sans-serif; fill: #222222; text-anchor: middle; dominant-baseline: central; }
    .linkoutline { fill: none; stroke: #ffffff; stroke-width: 5; }
    .link { fill: none; stroke: #555555; stroke-width: 1.5; }
    .linkarrowoutline { fill: none; stroke: #ffffff; stroke-width: 3; stroke-linejoin: round; }
    .linkarrow { fill: #555555; }
    .ghost { fill: none; stroke: #888888; stroke-dasharray: 3 3; }
    .ghost.preview { stroke: #1f6feb; }`

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	fontSize   float64
	ghosts     bool
	background string
}

func WithFontSize(size float64) SVGOption { return func(r *svgRenderer) { r.fontSize = size } }
func WithoutGhosts() SVGOption            { return func(r *svgRenderer) { r.ghosts = false } }
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// RenderSVG draws a layout: link outlines beneath links, then nodes with
// labels, then drag ghosts on top.
func RenderSVG(l *graph.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{fontSize: 12, ghosts: true}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%.0f" height="%.0f">`+"\n",
		router.FormatNumber(l.Width), router.FormatNumber(l.Height), l.Width, l.Height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", diagramCSS)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", EscapeXML(r.background))
	}

	buf.WriteString(`  <g class="links">` + "\n")
	for _, rt := range l.Routes {
		renderRoute(&buf, rt)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="nodes">` + "\n")
	for _, n := range l.Nodes {
		r.renderNode(&buf, n, n.ID == l.Selected)
	}
	buf.WriteString("  </g>\n")

	if r.ghosts && len(l.Ghosts) > 0 {
		buf.WriteString(`  <g class="ghosts">` + "\n")
		for _, g := range l.Ghosts {
			b := g.Bounds
			fmt.Fprintf(&buf, `    <rect class="ghost %s" data-node="%s" x="%s" y="%s" width="%s" height="%s"/>`+"\n",
				EscapeXML(g.Kind), EscapeXML(g.Node),
				router.FormatNumber(b.Left), router.FormatNumber(b.Top),
				router.FormatNumber(b.Width()), router.FormatNumber(b.Height()))
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderRoute(buf *bytes.Buffer, rt graph.RouteLayout) {
	fmt.Fprintf(buf, `    <g id="link-%d" data-source="%s" data-target="%s">`+"\n",
		rt.Index, EscapeXML(rt.Source), EscapeXML(rt.Target))
	fmt.Fprintf(buf, `      <path class="linkoutline" d="%s"/>`+"\n", rt.Outline)
	fmt.Fprintf(buf, `      <path class="link" d="%s"/>`+"\n", rt.Path)
	if rt.Arrow != "" {
		fmt.Fprintf(buf, `      <path class="linkarrowoutline" d="%s"/>`+"\n", rt.Arrow)
		fmt.Fprintf(buf, `      <path class="linkarrow" d="%s"/>`+"\n", rt.Arrow)
	}
	buf.WriteString("    </g>\n")
}

func (r *svgRenderer) renderNode(buf *bytes.Buffer, n graph.NodeLayout, selected bool) {
	class := "node"
	if selected {
		class += " selected"
	}
	if n.Pinned {
		class += " pinned"
	}
	b := n.Visible
	fmt.Fprintf(buf, `    <rect id="node-%s" class="%s" x="%s" y="%s" width="%s" height="%s" rx="4"/>`+"\n",
		EscapeXML(n.ID), class,
		router.FormatNumber(b.Left), router.FormatNumber(b.Top),
		router.FormatNumber(b.Width()), router.FormatNumber(b.Height()))
	fmt.Fprintf(buf, `    <text class="label" x="%s" y="%s" font-size="%s">%s</text>`+"\n",
		router.FormatNumber(n.Center.X), router.FormatNumber(n.Center.Y),
		router.FormatNumber(r.fontSize), EscapeXML(n.Label))
}

func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
