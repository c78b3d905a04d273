// Package nodelink exports layouts to Graphviz.
//
// [ToDOT] writes DOT source that external Graphviz tools can process, and
// [RenderSVG] renders it in-process through [github.com/goccy/go-graphviz].
// With [Options.Pinned] the nodes keep the positions orthonet computed and
// Graphviz only draws the edges; without it Graphviz lays the graph out
// itself, which is handy for comparing the two.
package nodelink
