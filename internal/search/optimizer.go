package search

import (
	"math/rand"
	"time"

	"github.com/arnabc13/new-kolam/internal/automaton"
	"github.com/arnabc13/new-kolam/internal/grid"
)

const (
	DefaultFlipProbability = 0.5
	DefaultIterations      = 40
)

// Options configures the local-search optimizer.
type Options struct {
	FlipProbability float64 // Chance that an eligible gate is tried
	MaxIterations   int     // Upper bound on full sweeps
	RowLow          int     // First gate row visited, clamped to [1, Nx/2]
	RowHigh         int     // Row bound (exclusive), clamped to [RowLow, Nx/2]; 0 means Nx/2
	Target          int     // Cycle length that ends the search; 0 means StepBudget-DefaultSlack
}

// DefaultOptions returns the standard refinement settings.
func DefaultOptions() *Options {
	return &Options{
		FlipProbability: DefaultFlipProbability,
		MaxIterations:   DefaultIterations,
		RowLow:          1,
		RowHigh:         0,
		Target:          0,
	}
}

// Refinement reports the outcome of Improve.
type Refinement struct {
	Start         automaton.State // Start state every evaluation traced from
	InitialLength int             // Cycle length before the first flip
	CycleLength   int             // Cycle length of the returned matrix
	Sweeps        int             // Sweeps run
	Accepted      int             // Flips kept
	Reverted      int             // Flips undone
	OneStroke     bool            // CycleLength reached the target
}

// Optimizer improves a gate matrix by greedy hill climbing.
type Optimizer struct {
	options *Options
	rng     *rand.Rand
}

// NewOptimizer creates an optimizer. A nil rng is replaced by a time-seeded source.
func NewOptimizer(rng *rand.Rand, options *Options) *Optimizer {
	if options == nil {
		options = DefaultOptions()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Optimizer{
		options: options,
		rng:     rng,
	}
}

// Improve sweeps the eligible gate groups of g, flipping each with the
// configured probability and keeping the flip iff the cycle length does
// not drop. A flip clears the group's eligibility whether or not it is
// kept, so every gate is tried at most once until g is released again.
// Fitness is measured from one random diagonal start drawn per call.
func (o *Optimizer) Improve(g *grid.Grid) Refinement {
	budget := automaton.StepBudget(g.ND())
	target := o.target(budget)

	start := automaton.RandomStart(o.rng)
	length := automaton.CycleLength(g, start)
	ref := Refinement{
		Start:         start,
		InitialLength: length,
		CycleLength:   length,
	}

	if length < budget {
		low, high := o.rows(g.Size())
		for i := 0; i < o.options.MaxIterations; i++ {
			if ref.CycleLength >= target {
				break
			}
			ref.Sweeps++
			o.sweep(g, low, high, target, &ref)
		}
	}

	ref.OneStroke = IsOneStroke(ref.CycleLength, target, 0)
	return ref
}

// sweep visits the upper quadrant once, stopping when the target is met.
func (o *Optimizer) sweep(g *grid.Grid, low, high, target int, ref *Refinement) {
	n := g.Size()

	for i := low; i < high; i++ {
		for j := i; j < n-1-i; j++ {
			if !g.Eligible(i, j) || o.rng.Float64() >= o.options.FlipProbability {
				continue
			}
			prev, err := g.Toggle(i, j)
			if err != nil {
				continue
			}

			length := automaton.CycleLength(g, ref.Start)
			if length < ref.CycleLength {
				g.Restore(i, j, prev)
				ref.Reverted++
			} else {
				ref.CycleLength = length
				ref.Accepted++
			}

			if ref.CycleLength >= target {
				return
			}
		}
	}
}

// target resolves the stopping length for a step budget.
func (o *Optimizer) target(budget int) int {
	if o.options.Target > 0 {
		return o.options.Target
	}
	return budget - DefaultSlack
}

// rows clamps the configured row range to the upper quadrant.
func (o *Optimizer) rows(n int) (int, int) {
	half := n / 2
	high := o.options.RowHigh
	if high <= 0 {
		high = half
	}
	low := max(min(o.options.RowLow, half), 1)
	high = max(min(high, half), low)
	return low, high
}
