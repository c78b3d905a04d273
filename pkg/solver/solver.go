package solver

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/orthonet/pkg/geom"
)

// Default solver parameters.
const (
	DefaultLinkDistance            = 50
	DefaultSymmetricDiffWeight     = 1
	DefaultPadding                 = 10
	DefaultUnconstrainedIterations = 50
	DefaultConstrainedIterations   = 100
	DefaultGridSnapIterations      = 0
	DefaultConvergenceThreshold    = 1e-3
	DefaultSeed                    = 42

	// Overlap removal passes per constrained sweep.
	projectionPasses = 32

	// Initial placement spiral, as in d3-force.
	initialRadius = 10
)

var initialAngle = math.Pi * (3 - math.Sqrt(5))

// Body is a node to be placed. Position is the centre from a previous layout
// or nil for new nodes.
type Body struct {
	Width    float64
	Height   float64
	Position *geom.Point
	Fixed    bool
}

// Link connects two bodies by index.
type Link struct {
	Source int
	Target int
}

// Options configures Solve. Zero fields take their defaults, see
// [Options.SetDefaults].
type Options struct {
	LinkDistance            float64
	SymmetricDiffWeight     float64
	Padding                 float64
	UnconstrainedIterations int
	ConstrainedIterations   int
	GridSnapIterations      int
	ConvergenceThreshold    float64
	Seed                    uint64
}

// SetDefaults fills zero fields with the package defaults. Iteration counts
// are left alone when negative so a phase can be switched off with -1.
func (o *Options) SetDefaults() {
	if o.LinkDistance == 0 {
		o.LinkDistance = DefaultLinkDistance
	}
	if o.SymmetricDiffWeight == 0 {
		o.SymmetricDiffWeight = DefaultSymmetricDiffWeight
	}
	if o.UnconstrainedIterations == 0 {
		o.UnconstrainedIterations = DefaultUnconstrainedIterations
	}
	if o.ConstrainedIterations == 0 {
		o.ConstrainedIterations = DefaultConstrainedIterations
	}
	if o.ConvergenceThreshold == 0 {
		o.ConvergenceThreshold = DefaultConvergenceThreshold
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
}

// Result reports the placement and how the run went. Converged covers the
// stress phases; Snapped is set when grid snapping settled.
type Result struct {
	Positions  []geom.Point
	Iterations int
	Converged  bool
	Snapped    bool
	Stress     float64
	Components int
}

type solver struct {
	opts   Options
	canvas geom.Rect
	bodies []Body
	pos    []r2.Vec
	rng    *rand.Rand

	pairs  [][2]int
	ideal  [][]float64
	etaMax float64
	etaMin float64
}

// Solve places bodies inside canvas. Link endpoints outside the body range
// are ignored; validating them is the caller's job.
func Solve(bodies []Body, links []Link, canvas geom.Rect, opts Options) Result {
	opts.SetDefaults()
	n := len(bodies)
	if n == 0 {
		return Result{Converged: true}
	}

	s := &solver{
		opts:   opts,
		canvas: canvas,
		bodies: bodies,
		pos:    initialPositions(bodies, canvas),
		rng:    rand.New(rand.NewPCG(opts.Seed, opts.Seed^0xdeadbeef)),
	}
	dist := idealDistances(n, links, opts.LinkDistance, opts.SymmetricDiffWeight)
	s.ideal = dist.matrix
	s.prepare()

	res := Result{Components: dist.components}
	budget := max(opts.UnconstrainedIterations, 0) + max(opts.ConstrainedIterations, 0)
	step := 0
	if warmStart(bodies) {
		// Large early steps would throw placed nodes into another minimum.
		step = budget - 1
	}

	converged := true
	if k := opts.UnconstrainedIterations; k > 0 {
		used, ok := s.phase(k, &step, budget, false)
		res.Iterations += used
		converged = ok
	}
	if k := opts.ConstrainedIterations; k > 0 {
		used, ok := s.phase(k, &step, budget, true)
		res.Iterations += used
		converged = ok
	}
	s.removeOverlaps(projectionPasses * 4)

	if k := opts.GridSnapIterations; k > 0 {
		used, ok := s.snap(k)
		res.Iterations += used
		res.Snapped = ok
	}

	res.Converged = converged
	res.Stress = s.stress()
	res.Positions = make([]geom.Point, n)
	for i, p := range s.pos {
		res.Positions[i] = geom.FromVec(p)
	}
	return res
}

// prepare lists the node pairs and derives the step size schedule from the
// range of ideal distances.
func (s *solver) prepare() {
	n := len(s.bodies)
	dmin, dmax := math.Inf(1), 0.0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if s.bodies[i].Fixed && s.bodies[j].Fixed {
				continue
			}
			s.pairs = append(s.pairs, [2]int{i, j})
			d := s.ideal[i][j]
			dmin = math.Min(dmin, d)
			dmax = math.Max(dmax, d)
		}
	}
	if len(s.pairs) == 0 {
		return
	}
	// w = 1/d², so eta runs from 1/w_min down to a tenth of 1/w_max.
	s.etaMax = dmax * dmax
	s.etaMin = 0.1 * dmin * dmin
}

func (s *solver) eta(step, budget int) float64 {
	if budget <= 1 || step >= budget-1 {
		return s.etaMin
	}
	lambda := math.Log(s.etaMax/s.etaMin) / float64(budget-1)
	return s.etaMax * math.Exp(-lambda*float64(step))
}

// phase runs up to k sweeps and reports how many ran and whether movement
// dropped below the convergence threshold.
func (s *solver) phase(k int, step *int, budget int, constrained bool) (int, bool) {
	limit := s.opts.ConvergenceThreshold * s.opts.LinkDistance * float64(len(s.bodies))
	for it := 0; it < k; it++ {
		moved := s.sweep(s.eta(*step, budget))
		*step++
		if constrained {
			moved += s.removeOverlaps(projectionPasses)
		} else {
			moved += s.clampAll()
		}
		if moved < limit {
			return it + 1, true
		}
	}
	return k, false
}

// sweep performs one SGD pass over all pairs and returns the total movement.
func (s *solver) sweep(eta float64) float64 {
	if len(s.pairs) == 0 {
		return 0
	}
	s.rng.Shuffle(len(s.pairs), func(i, j int) { s.pairs[i], s.pairs[j] = s.pairs[j], s.pairs[i] })

	var moved float64
	for _, p := range s.pairs {
		i, j := p[0], p[1]
		d := s.ideal[i][j]
		w := 1 / (d * d)
		mu := math.Min(w*eta, 1)

		delta := r2.Sub(s.pos[i], s.pos[j])
		l := r2.Norm(delta)
		if l < 1e-9 {
			delta = r2.Vec{X: s.rng.Float64() - 0.5, Y: s.rng.Float64() - 0.5}
			l = r2.Norm(delta)
		}
		r := r2.Scale(mu*(l-d)/(2*l), delta)
		moved += s.shift(i, j, r)
	}
	return moved
}

// shift moves i by -r and j by +r, giving the whole displacement to one
// side when the other is fixed.
func (s *solver) shift(i, j int, r r2.Vec) float64 {
	fi, fj := s.bodies[i].Fixed, s.bodies[j].Fixed
	switch {
	case fi && fj:
		return 0
	case fi:
		s.pos[j] = r2.Add(s.pos[j], r2.Scale(2, r))
	case fj:
		s.pos[i] = r2.Sub(s.pos[i], r2.Scale(2, r))
	default:
		s.pos[i] = r2.Sub(s.pos[i], r)
		s.pos[j] = r2.Add(s.pos[j], r)
	}
	return 2 * r2.Norm(r)
}

// removeOverlaps pushes overlapping rectangles apart along the axis of
// least penetration until they are Padding apart or passes run out.
func (s *solver) removeOverlaps(passes int) float64 {
	n := len(s.bodies)
	var moved float64
	for pass := 0; pass < passes; pass++ {
		clean := true
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				m := s.separate(i, j)
				if m > 0 {
					clean = false
					moved += m
				}
			}
		}
		moved += s.clampAll()
		if clean {
			break
		}
	}
	return moved
}

func (s *solver) separate(i, j int) float64 {
	bi, bj := s.bodies[i], s.bodies[j]
	if bi.Fixed && bj.Fixed {
		return 0
	}
	pad := s.opts.Padding
	dx := s.pos[j].X - s.pos[i].X
	dy := s.pos[j].Y - s.pos[i].Y
	ox := (bi.Width+bj.Width)/2 + pad - math.Abs(dx)
	oy := (bi.Height+bj.Height)/2 + pad - math.Abs(dy)
	if ox <= 0 || oy <= 0 {
		return 0
	}
	var r r2.Vec
	if ox <= oy {
		r = r2.Vec{X: sign(dx, i, j) * ox / 2}
	} else {
		r = r2.Vec{Y: sign(dy, i, j) * oy / 2}
	}
	return s.shift(i, j, r)
}

// sign returns the direction j should move relative to i, breaking exact
// ties by index.
func sign(d float64, i, j int) float64 {
	if d > 0 || (d == 0 && i < j) {
		return 1
	}
	return -1
}

// clampAll keeps every movable body inside the canvas.
func (s *solver) clampAll() float64 {
	if s.canvas.Empty() {
		return 0
	}
	var moved float64
	for i, b := range s.bodies {
		if b.Fixed {
			continue
		}
		p := s.pos[i]
		p.X = clamp(p.X, s.canvas.Left+b.Width/2, s.canvas.Right-b.Width/2)
		p.Y = clamp(p.Y, s.canvas.Top+b.Height/2, s.canvas.Bottom-b.Height/2)
		moved += r2.Norm(r2.Sub(p, s.pos[i]))
		s.pos[i] = p
	}
	return moved
}

// clamp limits v to [lo, hi]; when the range is empty v is centred.
func clamp(v, lo, hi float64) float64 {
	if lo > hi {
		return (lo + hi) / 2
	}
	return math.Max(lo, math.Min(hi, v))
}

// snap aligns centres to the grid defined by the first body's width.
func (s *solver) snap(k int) (int, bool) {
	pitch := s.bodies[0].Width + s.opts.Padding
	if pitch <= 0 {
		return 0, true
	}
	for it := 0; it < k; it++ {
		var moved float64
		for i, b := range s.bodies {
			if b.Fixed {
				continue
			}
			p := s.pos[i]
			p.X = s.canvas.Left + pitch/2 + math.Round((p.X-s.canvas.Left-pitch/2)/pitch)*pitch
			p.Y = s.canvas.Top + pitch/2 + math.Round((p.Y-s.canvas.Top-pitch/2)/pitch)*pitch
			moved += r2.Norm(r2.Sub(p, s.pos[i]))
			s.pos[i] = p
		}
		moved += s.removeOverlaps(projectionPasses)
		if moved < 1e-9 {
			return it + 1, true
		}
	}
	return k, false
}

func (s *solver) stress() float64 {
	var total float64
	n := len(s.bodies)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := s.ideal[i][j]
			l := r2.Norm(r2.Sub(s.pos[i], s.pos[j]))
			total += (l - d) * (l - d) / (d * d)
		}
	}
	return total
}

// warmStart reports whether every movable body already has a position.
func warmStart(bodies []Body) bool {
	movable := false
	for _, b := range bodies {
		if b.Fixed {
			continue
		}
		if b.Position == nil {
			return false
		}
		movable = true
	}
	return movable
}

// initialPositions keeps prior centres and lays new nodes on a phyllotaxis
// spiral around the canvas centre.
func initialPositions(bodies []Body, canvas geom.Rect) []r2.Vec {
	pos := make([]r2.Vec, len(bodies))
	c := canvas.Center()
	k := 0
	for i, b := range bodies {
		if b.Position != nil {
			pos[i] = b.Position.Vec()
			continue
		}
		radius := initialRadius * math.Sqrt(0.5+float64(k))
		angle := float64(k) * initialAngle
		pos[i] = r2.Vec{X: c.X + radius*math.Cos(angle), Y: c.Y + radius*math.Sin(angle)}
		k++
	}
	return pos
}
