// Package solver places rectangular nodes so that linked nodes sit near
// their ideal distance and no two rectangles overlap.
//
// # Model
//
// Every pair of nodes has an ideal distance: the length of the shortest path
// between them in the link graph, where each link is weighted by
//
//	LinkDistance * (1 + SymmetricDiffWeight * sqrt(|N(u) ∪ N(v)| - |N(u) ∩ N(v)|))
//
// so that links between nodes with disjoint neighbourhoods are longer than
// links inside tightly knit groups. Pairs in different components are kept
// one LinkDistance further apart than the most distant connected pair.
//
// # Schedule
//
// [Solve] minimises stress by stochastic gradient descent over node pairs,
// visiting pairs in a shuffled order drawn from a seeded generator so that
// identical input always yields identical output. The run is split into
// phases:
//
//  1. Unconstrained: rectangles may overlap while global structure forms.
//  2. Constrained: after each sweep overlapping rectangles are pushed apart
//     until they are at least Padding apart.
//  3. Grid snap (optional): centres are snapped to a grid whose pitch is the
//     width of the first node plus Padding, followed by overlap removal.
//
// A phase ends early once the average node movement per sweep falls below
// ConvergenceThreshold * LinkDistance. Bodies marked Fixed are never moved.
//
// When every movable body comes with a prior Position the step size starts
// at the small end of its schedule, so an incremental update refines the
// previous layout instead of rebuilding it.
//
// Solve never fails. When the budget runs out before convergence the current
// positions are returned and Result.Converged is false. Result.Snapped tells
// whether grid snapping settled.
package solver
