// Package graph defines the wire format of orthonet: the [Figure] a caller
// submits and the [Layout] the engine publishes.
//
// # Figure
//
// A figure is a graph snapshot plus canvas parameters:
//
//	{
//	  "nodes": [{"id": "core"}, {"id": "edge-1", "label": "Edge router"}],
//	  "links": [{"source": "core", "target": "edge-1"}],
//	  "width": 1200, "height": 700, "margin": 20, "padding": 10,
//	  "linkSettings": {"nudge": 4},
//	  "dataVersion": 3
//	}
//
// Zero canvas parameters take the engine defaults. Nodes without an explicit
// size are sized from their label. dataVersion is an optional token: when
// set, the engine compares it instead of the node and link lists to decide
// whether the graph changed.
//
// Figures are read from JSON or YAML ([ReadFigure], [ReadFigureFile]).
//
// # Layout
//
// A layout lists node placements in input order and one route per link in
// link order. Coordinates are canvas pixels with y growing downward; node
// positions are centres.
package graph
