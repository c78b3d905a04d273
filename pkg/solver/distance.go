package solver

import (
	"math"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

type distances struct {
	matrix     [][]float64
	components int
}

// LinkLengths returns the ideal length of every link, using the symmetric
// difference of the endpoint neighbourhoods. Self-loops and out-of-range
// links get the base distance.
func LinkLengths(n int, links []Link, base, weight float64) []float64 {
	neighbours := make([]map[int]bool, n)
	for i := range neighbours {
		neighbours[i] = map[int]bool{}
	}
	valid := func(l Link) bool {
		return l.Source >= 0 && l.Source < n && l.Target >= 0 && l.Target < n && l.Source != l.Target
	}
	for _, l := range links {
		if !valid(l) {
			continue
		}
		neighbours[l.Source][l.Target] = true
		neighbours[l.Target][l.Source] = true
	}

	out := make([]float64, len(links))
	for i, l := range links {
		if !valid(l) {
			out[i] = base
			continue
		}
		nu, nv := neighbours[l.Source], neighbours[l.Target]
		union, inter := len(nu), 0
		for k := range nv {
			if nu[k] {
				inter++
			} else {
				union++
			}
		}
		out[i] = base * (1 + weight*math.Sqrt(float64(union-inter)))
	}
	return out
}

// idealDistances computes all-pairs shortest path lengths over the link
// graph. Pairs in different components get one base distance more than the
// longest finite path.
func idealDistances(n int, links []Link, base, weight float64) distances {
	g := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for i := 0; i < n; i++ {
		g.AddNode(simple.Node(i))
	}
	lengths := LinkLengths(n, links, base, weight)
	for i, l := range links {
		if l.Source < 0 || l.Source >= n || l.Target < 0 || l.Target >= n || l.Source == l.Target {
			continue
		}
		u, v := int64(l.Source), int64(l.Target)
		if e := g.WeightedEdge(u, v); e != nil && e.Weight() <= lengths[i] {
			continue
		}
		g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(u), simple.Node(v), lengths[i]))
	}

	paths := path.DijkstraAllPaths(g)
	matrix := make([][]float64, n)
	longest := 0.0
	for i := range matrix {
		matrix[i] = make([]float64, n)
		for j := range matrix[i] {
			if i == j {
				continue
			}
			d := paths.Weight(int64(i), int64(j))
			matrix[i][j] = d
			if !math.IsInf(d, 0) {
				longest = math.Max(longest, d)
			}
		}
	}
	for i := range matrix {
		for j := range matrix[i] {
			if i != j && math.IsInf(matrix[i][j], 0) {
				matrix[i][j] = longest + base
			}
		}
	}
	return distances{matrix: matrix, components: len(topo.ConnectedComponents(g))}
}
