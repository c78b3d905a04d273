package router

import (
	"container/heap"
	"math"

	"github.com/matzehuels/orthonet/pkg/geom"
)

// cost orders partial routes: fewer bends first, then shorter, then by the
// preference rank of the side the route left its source through.
type cost struct {
	bends  int
	length float64
	rank   int
}

func (a cost) less(b cost) bool {
	if a.bends != b.bends {
		return a.bends < b.bends
	}
	if math.Abs(a.length-b.length) > eps {
		return a.length < b.length
	}
	return a.rank < b.rank
}

// state is a grid vertex together with the direction of arrival.
type state struct {
	v int
	d Side
}

func (s state) index() int { return s.v*len(sides) + int(s.d) }

type item struct {
	st   state
	c    cost
	seq  int
	goal bool
	in   Side // target side entered through, for goal items
}

type pqueue []*item

func (q pqueue) Len() int { return len(q) }
func (q pqueue) Less(i, j int) bool {
	if q[i].c.less(q[j].c) {
		return true
	}
	if q[j].c.less(q[i].c) {
		return false
	}
	return q[i].seq < q[j].seq
}
func (q pqueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *pqueue) Push(x any)   { *q = append(*q, x.(*item)) }
func (q *pqueue) Pop() any {
	old := *q
	it := old[len(old)-1]
	*q = old[:len(old)-1]
	return it
}

// search finds the best grid route from node s to node t. It returns nil
// when no port pair is connected.
func (r *Router) search(s, t int) []geom.Point {
	g := r.grid
	src, dst := r.Nodes[s].Bounds, r.Nodes[t].Bounds

	n := g.size() * len(sides)
	best := make([]cost, n)
	seen := make([]bool, n)
	done := make([]bool, n)
	prev := make([]int, n)

	// Target ports indexed by vertex.
	entries := map[int][]Side{}
	for _, side := range sides {
		if v, ok := r.portVertex(dst, side, t); ok {
			entries[v] = append(entries[v], side)
		}
	}
	if len(entries) == 0 {
		return nil
	}

	q := &pqueue{}
	seq := 0
	push := func(it *item) {
		it.seq = seq
		seq++
		heap.Push(q, it)
	}
	for rank, side := range sides {
		v, ok := r.portVertex(src, side, s)
		if !ok {
			continue
		}
		st := state{v, side}
		c := cost{rank: rank}
		best[st.index()], seen[st.index()], prev[st.index()] = c, true, -1
		push(&item{st: st, c: c})
	}

	for q.Len() > 0 {
		it := heap.Pop(q).(*item)
		if it.goal {
			return r.trace(it, prev, src, dst)
		}
		idx := it.st.index()
		if done[idx] || best[idx].less(it.c) {
			continue
		}
		done[idx] = true

		for _, side := range entries[it.st.v] {
			in := side.Opposite()
			if it.st.d == in.Opposite() {
				continue
			}
			c := it.c
			if it.st.d != in {
				c.bends++
			}
			push(&item{st: it.st, c: c, goal: true, in: side})
		}

		from := g.point(it.st.v)
		for _, d := range sides {
			if d == it.st.d.Opposite() {
				continue
			}
			nv, ok := g.step(it.st.v, d)
			if !ok {
				continue
			}
			next := state{nv, d}
			c := it.c
			if d != it.st.d {
				c.bends++
			}
			to := g.point(nv)
			c.length += math.Abs(to.X-from.X) + math.Abs(to.Y-from.Y)
			ni := next.index()
			if done[ni] || (seen[ni] && !c.less(best[ni])) {
				continue
			}
			best[ni], seen[ni], prev[ni] = c, true, idx
			push(&item{st: next, c: c})
		}
	}
	return nil
}

// portVertex returns the grid vertex at margin distance outside side of
// box b, provided the stub from the box boundary to it is unobstructed.
func (r *Router) portVertex(b geom.Rect, side Side, self int) (int, bool) {
	p := port(b, side, r.margin)
	v := r.grid.vertex(p)
	if v < 0 {
		return 0, false
	}
	from := boundary(b, side)
	for i, box := range r.grid.boxes {
		if i != self && crosses(box, from, p) {
			return 0, false
		}
	}
	return v, true
}

func (r *Router) trace(goal *item, prev []int, src, dst geom.Rect) []geom.Point {
	var rev []geom.Point
	idx := goal.st.index()
	var first state
	for idx >= 0 {
		st := state{v: idx / len(sides), d: Side(idx % len(sides))}
		rev = append(rev, r.grid.point(st.v))
		first = st
		idx = prev[idx]
	}
	pts := make([]geom.Point, 0, len(rev)+2)
	pts = append(pts, boundary(src, first.d))
	for i := len(rev) - 1; i >= 0; i-- {
		pts = append(pts, rev[i])
	}
	return append(pts, boundary(dst, goal.in))
}
