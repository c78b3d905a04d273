// Package render holds the output formats for orthonet layouts.
//
// The [sink] subpackage draws a layout directly as SVG using the routed
// paths. The [nodelink] subpackage exports the same layout to Graphviz
// DOT, either pinned to the computed positions or left for Graphviz to
// place.
//
// [sink]: github.com/matzehuels/orthonet/pkg/render/sink
// [nodelink]: github.com/matzehuels/orthonet/pkg/render/nodelink
package render
