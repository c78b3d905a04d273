// Package pkg holds the orthonet libraries.
//
// orthonet lays out network diagrams: nodes are placed without overlaps and
// every link is routed as horizontal and vertical segments that keep clear
// of the nodes it passes.
//
// # Layers
//
//  1. [geom] - points and rectangles
//  2. [solver] - stress-based placement with overlap removal
//  3. [router] - orthogonal routing on a sparse grid, nudging and SVG paths
//  4. [diff] - change detection between figure snapshots
//  5. [drag] - drag gestures with origin and preview ghosts
//  6. [engine] - the serialised update queue tying it all together
//  7. [graph] - figure input and layout output types
//
// Around them sit [config] (TOML settings), [errors] (coded errors),
// [observability] (hooks), [cache], [session], [server] and the render
// formats in [render].
//
// # Data flow
//
//	figure.json
//	     ↓
//	[engine] diff → sync nodes → [solver] → [router]
//	     ↓
//	[graph.Layout] → [render/sink] SVG, [render/nodelink] DOT
//
// # Quick start
//
//	e := engine.New(config.Default())
//	defer e.Close()
//	layout, err := e.Update(ctx, figure)
//	svg := sink.RenderSVG(layout)
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/orthonet/pkg/geom
// [solver]: https://pkg.go.dev/github.com/matzehuels/orthonet/pkg/solver
// [router]: https://pkg.go.dev/github.com/matzehuels/orthonet/pkg/router
// [diff]: https://pkg.go.dev/github.com/matzehuels/orthonet/pkg/diff
// [drag]: https://pkg.go.dev/github.com/matzehuels/orthonet/pkg/drag
// [engine]: https://pkg.go.dev/github.com/matzehuels/orthonet/pkg/engine
// [graph]: https://pkg.go.dev/github.com/matzehuels/orthonet/pkg/graph
// [graph.Layout]: https://pkg.go.dev/github.com/matzehuels/orthonet/pkg/graph#Layout
// [config]: https://pkg.go.dev/github.com/matzehuels/orthonet/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/orthonet/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/orthonet/pkg/observability
// [cache]: https://pkg.go.dev/github.com/matzehuels/orthonet/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/orthonet/pkg/session
// [server]: https://pkg.go.dev/github.com/matzehuels/orthonet/pkg/server
// [render]: https://pkg.go.dev/github.com/matzehuels/orthonet/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/orthonet/pkg/render/sink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/orthonet/pkg/render/nodelink
package pkg
