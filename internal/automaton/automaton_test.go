package automaton_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/arnabc13/new-kolam/internal/assign"
	"github.com/arnabc13/new-kolam/internal/automaton"
	"github.com/arnabc13/new-kolam/internal/boundary"
	"github.com/arnabc13/new-kolam/internal/grid"
)

// AutomatonSuite traces small hand-built 5-dot matrices.
type AutomatonSuite struct {
	suite.Suite
	g *grid.Grid
}

func (s *AutomatonSuite) SetupTest() {
	g, err := grid.New(5, boundary.Full)
	s.Require().NoError(err)
	s.g = g
}

func (s *AutomatonSuite) fill(g12, g13 grid.Gate) {
	s.Require().NoError(s.g.SetGroup(1, 2, g12))
	s.Require().NoError(s.g.SetGroup(1, 3, g13))
}

func (s *AutomatonSuite) TestFirstSteps() {
	s.fill(grid.Open, grid.Closed)

	want := []struct {
		next automaton.State
		draw automaton.Point
	}{
		{automaton.State{Pos: automaton.Pos{I: 1, J: 3}, Code: 0}, automaton.Point{X: 1, Y: 1}},
		{automaton.State{Pos: automaton.Pos{I: 1, J: 5}, Code: 0}, automaton.Point{X: 1, Y: 3}},
		{automaton.State{Pos: automaton.Pos{I: -1, J: 5}, Code: 3}, automaton.Point{X: 0.5, Y: 4.5}},
		{automaton.State{Pos: automaton.Pos{I: -1, J: 3}, Code: 2}, automaton.Point{X: -0.5, Y: 4.5}},
		{automaton.State{Pos: automaton.Pos{I: 1, J: 3}, Code: 1}, automaton.Point{X: -0.5, Y: 3.5}},
		{automaton.State{Pos: automaton.Pos{I: 3, J: 3}, Code: 1}, automaton.Point{X: 1, Y: 3}},
	}

	st := automaton.CanonicalStart
	for k, w := range want {
		next, draw := automaton.Step(s.g, st)
		s.Equal(w.next, next, "step %d", k)
		s.Equal(w.draw, draw, "step %d", k)
		st = next
	}
}

func (s *AutomatonSuite) TestCycleLengths() {
	cases := []struct {
		name     string
		g12, g13 grid.Gate
		want     int
	}{
		{"OpenClosed", grid.Open, grid.Closed, 52},
		{"ClosedClosed", grid.Closed, grid.Closed, 36},
		{"OpenOpen", grid.Open, grid.Open, 12},
		{"ClosedOpen", grid.Closed, grid.Open, 52},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.SetupTest()
			s.fill(tc.g12, tc.g13)
			for _, i := range []int{-1, 1} {
				for _, j := range []int{-1, 1} {
					start := automaton.State{Pos: automaton.Pos{I: i, J: j}}
					s.Equal(tc.want, automaton.CycleLength(s.g, start))
				}
			}
			s.Equal(tc.want, automaton.CycleLength(s.g, automaton.DrawStart))
		})
	}
}

func (s *AutomatonSuite) TestTraceMatchesSteps() {
	s.fill(grid.Open, grid.Closed)
	path := automaton.Trace(s.g, automaton.CanonicalStart, 60)
	s.Equal(60, path.Len())
	s.Len(path.Points, 59)

	// The cycle closes after 52 steps.
	s.Equal(automaton.CanonicalStart, path.States[52])
	s.Equal(path.States[1], path.States[53])
	s.Equal(path.Points[0], path.Points[52])

	for k := 1; k < path.Len(); k++ {
		next, draw := automaton.Step(s.g, path.States[k-1])
		s.Equal(next, path.States[k])
		s.Equal(draw, path.Points[k-1])
	}
}

func TestAutomatonSuite(t *testing.T) {
	suite.Run(t, new(AutomatonSuite))
}

func TestStepIsDeterministic(t *testing.T) {
	g, err := grid.New(11, boundary.Full)
	require.NoError(t, err)
	assign.New(rand.New(rand.NewSource(5)), nil).Assign(g)

	st := automaton.CanonicalStart
	for i := 0; i < 200; i++ {
		n1, p1 := automaton.Step(g, st)
		n2, p2 := automaton.Step(g, st)
		require.Equal(t, n1, n2)
		require.Equal(t, p1, p2)
		require.Contains(t, []int{0, 1, 2, 3}, n1.Code)
		st = n1
	}
}

func TestCycleLengthWithinBudget(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for _, nd := range []int{5, 7, 9, 13} {
		for _, p := range boundary.Profiles() {
			g, err := grid.New(nd, p)
			require.NoError(t, err)
			assign.New(rng, nil).Assign(g)

			n := automaton.CycleLength(g, automaton.RandomStart(rng))
			assert.GreaterOrEqual(t, n, 0)
			assert.LessOrEqual(t, n, automaton.StepBudget(nd))
		}
	}
}

func TestRandomStart(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	seen := map[automaton.Pos]bool{}
	for i := 0; i < 200; i++ {
		st := automaton.RandomStart(rng)
		require.Zero(t, st.Code)
		require.Contains(t, []int{-1, 1}, st.I)
		require.Contains(t, []int{-1, 1}, st.J)
		seen[st.Pos] = true
	}
	assert.Len(t, seen, 4)
}

func TestStepBudget(t *testing.T) {
	assert.Equal(t, 255, automaton.StepBudget(5))
	assert.Equal(t, (2*19*19+1)*5, automaton.StepBudget(19))
	assert.Equal(t, 52, automaton.CoverLength(5))
	assert.Equal(t, 100, automaton.CoverLength(7))
}

func TestTraceEmptyBudget(t *testing.T) {
	g, err := grid.New(5, boundary.Full)
	require.NoError(t, err)
	assert.Zero(t, automaton.Trace(g, automaton.CanonicalStart, 0).Len())
}

func TestRotated(t *testing.T) {
	p := automaton.Path{Points: []automaton.Point{{X: 1, Y: 3}, {X: -0.5, Y: 4.5}}}
	assert.Equal(t, []automaton.Point{{X: 2, Y: -1}, {X: 2, Y: -2.5}}, p.Rotated())
}
