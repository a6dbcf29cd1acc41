// Package automaton converts a gate matrix into a drawable path.
//
// The tracer moves across the (2ND+1)-wide lattice in steps of two. Its
// state is a position and a direction code that packs two booleans, alpha
// (code parity) and beta (sign, negative for codes 2 and 3). At every step
// the gate under the tracer decides between going straight (open) and
// turning around the dot (closed).
package automaton

import (
	"math/rand"

	"github.com/arnabc13/new-kolam/internal/grid"
)

// Pos is a lattice position in centred coordinates, -ND..ND.
type Pos struct {
	I, J int
}

// State is where the tracer is and which of four phases it is in.
type State struct {
	Pos
	Code int
}

// Point is a real-valued draw point.
type Point struct {
	X, Y float64
}

var (
	// CanonicalStart is the start state used to score candidate matrices.
	CanonicalStart = State{Pos: Pos{1, 1}, Code: 0}

	// DrawStart is the start state of the final, rendered trace.
	DrawStart = State{Pos: Pos{1, 1}, Code: 1}
)

// StepBudget returns Ns = (2·ND² + 1)·5, the hard cap on traced steps.
func StepBudget(nd int) int {
	return (2*nd*nd + 1) * 5
}

// CoverLength returns 2·ND² + 2, the cycle length of a stroke that passes
// every crossing of the lattice once.
func CoverLength(nd int) int {
	return 2*nd*nd + 2
}

// RandomStart picks one of the four diagonal-corner starts (±1, ±1) with code 0.
func RandomStart(rng *rand.Rand) State {
	i := 2*rng.Intn(2) - 1
	j := 2*rng.Intn(2) - 1
	return State{Pos: Pos{i, j}, Code: 0}
}

// Step applies one transition. It is a pure function of g and s.
func Step(g *grid.Grid, s State) (State, Point) {
	nd := g.ND()
	ix := s.I + nd
	jx := s.J + nd

	alpha := s.Code % 2
	beta := 1
	if s.Code > 1 {
		beta = -1
	}
	gamma := 1
	if (ix+jx)%4 == 0 {
		gamma = -1
	}
	open := 0
	if g.Gate(floorHalf(ix), floorHalf(jx)).IsOpen() {
		open = 1
	}
	closed := 1 - open
	notAlpha := 1 - alpha

	nextAlpha := open*alpha + closed*notAlpha
	nextBeta := (open + closed*gamma) * beta
	dh := (notAlpha*gamma*closed + alpha*open) * beta
	dv := (alpha*gamma*closed + notAlpha*open) * beta

	next := State{
		Pos:  Pos{s.I + 2*dh, s.J + 2*dv},
		Code: encode(nextAlpha, nextBeta),
	}
	draw := Point{
		X: float64(s.I) + float64(closed*(notAlpha*gamma-alpha)*beta)*0.5,
		Y: float64(s.J) + float64(closed*(alpha*gamma-notAlpha)*beta)*0.5,
	}
	return next, draw
}

// encode packs (alpha, beta) into a direction code.
func encode(alpha, beta int) int {
	switch {
	case alpha == 0 && beta == 1:
		return 0
	case alpha == 0:
		return 2
	case beta == 1:
		return 1
	}
	return 3
}

// floorHalf is floor(v/2) for any sign of v.
func floorHalf(v int) int {
	if v < 0 {
		return -((-v + 1) / 2)
	}
	return v / 2
}

// Path is a traced sequence of states with one draw point per transition.
type Path struct {
	States []State
	Points []Point
}

// Len returns the number of recorded states.
func (p Path) Len() int {
	return len(p.States)
}

// Rotated returns the draw points in the renderer frame,
// x = (i+j)/2, y = (i-j)/2.
func (p Path) Rotated() []Point {
	out := make([]Point, len(p.Points))
	for k, pt := range p.Points {
		out[k] = Point{X: (pt.X + pt.Y) / 2, Y: (pt.X - pt.Y) / 2}
	}
	return out
}

// Trace records maxSteps states starting at start, and the maxSteps-1 draw
// points between them.
func Trace(g *grid.Grid, start State, maxSteps int) Path {
	if maxSteps <= 0 {
		return Path{}
	}
	path := Path{
		States: make([]State, maxSteps),
		Points: make([]Point, maxSteps-1),
	}
	path.States[0] = start
	for k := 1; k < maxSteps; k++ {
		path.States[k], path.Points[k-1] = Step(g, path.States[k-1])
	}
	return path
}

// CycleLength returns the number of steps after which the tracer first
// returns to start, or 0 when it does not within StepBudget(ND)-2 steps.
func CycleLength(g *grid.Grid, start State) int {
	limit := StepBudget(g.ND()) - 2
	s := start
	for k := 1; k <= limit; k++ {
		s, _ = Step(g, s)
		if s == start {
			return k
		}
	}
	return 0
}
