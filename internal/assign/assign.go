// Package assign fills a gate grid with a density-controlled random
// assignment that preserves four-fold symmetry.
package assign

import (
	"math/rand"
	"time"

	"github.com/arnabc13/new-kolam/internal/grid"
)

const (
	DefaultKp = 0.01
	DefaultKi = 0.0001

	// isolationLimit is the neighbourhood sum below which a gate is forced open.
	isolationLimit = 0.1
)

// Options configures the proportional-integral density controller.
type Options struct {
	TargetRatio float64 // Target fraction of closed gates, 1 - sigma
	Kp          float64 // Proportional gain
	Ki          float64 // Integral gain
}

// DefaultOptions returns controller options for the given closed-gate ratio.
func DefaultOptions(targetRatio float64) *Options {
	return &Options{
		TargetRatio: targetRatio,
		Kp:          DefaultKp,
		Ki:          DefaultKi,
	}
}

// Stats summarizes one assignment pass.
type Stats struct {
	Opened     int     // Open cells written, counting all four symmetric images
	Considered int     // Cells written, starting from 1
	LastRatio  float64 // Effective ratio of the last controller step
}

// OpenFraction returns the fraction of written cells that are open.
func (s Stats) OpenFraction() float64 {
	if s.Considered <= 1 {
		return 0
	}
	return float64(s.Opened) / float64(s.Considered-1)
}

// Assigner draws symmetric gate assignments.
type Assigner struct {
	options *Options
	rng     *rand.Rand
}

// New creates an assigner. A nil rng is replaced by a time-seeded source.
func New(rng *rand.Rand, options *Options) *Assigner {
	if options == nil {
		options = DefaultOptions(0.35)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Assigner{
		options: options,
		rng:     rng,
	}
}

// Options returns the controller options.
func (a *Assigner) Options() Options {
	return *a.options
}

// Assign resets g and assigns every free gate. Cells are visited over one
// quadrant (rows 1..Nx/2-1, columns from the row index to Nx-1-row) in
// row-major order; each step resolves the cell and its right-hand partner
// together and writes both symmetric groups.
func (a *Assigner) Assign(g *grid.Grid) Stats {
	g.Reset()

	n := g.Size()
	half := n / 2
	c := controller{ref: a.options.TargetRatio, kp: a.options.Kp, ki: a.options.Ki, considered: 1}

	for i := 1; i < half; i++ {
		for j := i; j < n-i; j++ {
			bias := c.next()
			a.assignPair(g, i, j, bias, &c)
		}
	}

	return Stats{
		Opened:     c.opened,
		Considered: c.considered,
		LastRatio:  c.ratio,
	}
}

// assignPair resolves the lead cell (i, j) and its partner (i, j+1).
// Only eligible cells are written; whichever of the two is already set
// takes part in the other's isolation check.
func (a *Assigner) assignPair(g *grid.Grid, i, j int, bias float64, c *controller) {
	leadFree := g.Eligible(i, j)
	partnerFree := g.Eligible(i, j+1)
	if !leadFree && !partnerFree {
		return
	}

	above := g.Gate(i-1, j).Weight() + g.Gate(i-1, j+1).Weight()
	lead, partner := g.Gate(i, j), g.Gate(i, j+1)

	switch {
	case leadFree && partnerFree:
		lead = a.toss(bias)
		partner = a.resolve(above+lead.Weight(), bias)
		// The lead is redrawn against its now-assigned partner.
		lead = a.resolve(above+partner.Weight(), bias)
	case partnerFree:
		partner = a.resolve(above+lead.Weight(), bias)
	default:
		lead = a.resolve(above+partner.Weight(), bias)
	}

	if leadFree {
		g.SetGroupForce(i, j, lead)
		c.record(lead)
	}
	if partnerFree {
		g.SetGroupForce(i, j+1, partner)
		c.record(partner)
	}
}

// resolve applies the anti-isolation rule before tossing.
func (a *Assigner) resolve(neighbours, bias float64) grid.Gate {
	if neighbours < isolationLimit {
		return grid.Open
	}
	return a.toss(bias)
}

// toss returns Open with probability about 1 - bias.
func (a *Assigner) toss(bias float64) grid.Gate {
	x := float64(a.rng.Intn(1000)) / 1000
	if x > bias {
		return grid.Open
	}
	return grid.Closed
}

// controller is the proportional-integral correction of the closed ratio.
type controller struct {
	ref, kp, ki float64

	opened     int
	considered int
	errSum     float64
	ratio      float64
}

// next returns the corrected ratio for the upcoming draw.
func (c *controller) next() float64 {
	err := c.ref - float64(c.opened)/float64(c.considered)
	c.errSum += err
	c.ratio = c.ref + c.kp*err + c.ki*c.errSum
	return c.ratio
}

// record counts one written group of four cells.
func (c *controller) record(v grid.Gate) {
	c.considered += 4
	if v == grid.Open {
		c.opened += 4
	}
}
