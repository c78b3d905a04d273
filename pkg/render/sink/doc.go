// Package sink writes layouts as standalone SVG documents.
//
// Each route is drawn as four paths sharing the router's geometry: a wide
// white "linkoutline" under the "link" stroke so crossings stay readable,
// and an arrow head with its own outline. Nodes are drawn with their
// visible bounds, which leave the margin free for routes.
//
//	svg := sink.RenderSVG(layout, sink.WithFontSize(cfg.Labels.FontSize))
package sink
