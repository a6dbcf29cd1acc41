package search_test

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
	"github.com/arnabc13/new-kolam/internal/search"
)

// SearchSuite runs the selector and optimizer on seeded 11-dot grids.
type SearchSuite struct {
	suite.Suite
	rng *rand.Rand
	g   *grid.Grid
}

func (s *SearchSuite) SetupTest() {
	s.rng = rand.New(rand.NewSource(42))
	g, err := grid.New(11, boundary.Full)
	s.Require().NoError(err)
	s.g = g
}

func (s *SearchSuite) selected() search.Selection {
	a := assign.New(s.rng, assign.DefaultOptions(0.35))
	return search.Select(s.g, a, search.DefaultTrials)
}

func (s *SearchSuite) TestSelectKeepsBest() {
	sel := s.selected()

	s.GreaterOrEqual(sel.Trials, 1)
	s.LessOrEqual(sel.Trials, search.DefaultTrials)
	if sel.Trial >= 0 {
		s.Equal(sel.CycleLength, automaton.CycleLength(s.g, automaton.CanonicalStart))
	}
	if sel.Converged {
		s.Greater(sel.CycleLength, automaton.StepBudget(11)/2-2)
		s.Equal(sel.Trial, sel.Trials-1)
	}
	s.True(s.g.IsSymmetric())
}

func (s *SearchSuite) TestSelectReleasesFreeGates() {
	s.selected()
	for i := 0; i < s.g.Size(); i++ {
		for j := 0; j < s.g.Size(); j++ {
			s.Equal(!s.g.Fixed(i, j), s.g.Eligible(i, j), "(%d,%d)", i, j)
		}
	}
}

func (s *SearchSuite) TestImproveIsMonotonic() {
	s.selected()
	ref := s.g.Clone()

	opt := search.NewOptimizer(s.rng, search.DefaultOptions())
	res := opt.Improve(s.g)

	s.GreaterOrEqual(res.CycleLength, res.InitialLength)
	s.Equal(res.InitialLength, automaton.CycleLength(ref, res.Start))
	s.Equal(res.CycleLength, automaton.CycleLength(s.g, res.Start))
	s.True(s.g.IsSymmetric())

	for i := 0; i < s.g.Size(); i++ {
		for j := 0; j < s.g.Size(); j++ {
			if ref.Fixed(i, j) {
				s.Equal(ref.Gate(i, j), s.g.Gate(i, j), "structural (%d,%d)", i, j)
			}
		}
	}
}

func (s *SearchSuite) TestImproveZeroIterations() {
	s.selected()
	ref := s.g.Clone()

	opts := search.DefaultOptions()
	opts.MaxIterations = 0
	res := search.NewOptimizer(s.rng, opts).Improve(s.g)

	s.True(ref.Equal(s.g))
	s.Equal(res.InitialLength, res.CycleLength)
	s.Equal(automaton.CycleLength(ref, res.Start), res.CycleLength)
	s.Zero(res.Sweeps)
	s.Zero(res.Accepted + res.Reverted)
}

func (s *SearchSuite) TestEachGateTriedOnce() {
	s.selected()

	opts := search.DefaultOptions()
	opts.FlipProbability = 1
	opts.MaxIterations = 3
	res := search.NewOptimizer(s.rng, opts).Improve(s.g)

	// Every quadrant group is flipped in the first sweep, none afterwards.
	n := s.g.Size()
	groups := 0
	for i := 1; i < n/2; i++ {
		for j := i; j < n-1-i; j++ {
			if !s.g.Fixed(i, j) {
				groups++
				s.False(s.g.Eligible(i, j))
			}
		}
	}
	s.False(res.OneStroke)
	s.Equal(groups, res.Accepted+res.Reverted)
}

func TestSearchSuite(t *testing.T) {
	suite.Run(t, new(SearchSuite))
}

func TestImproveRowRange(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	g, err := grid.New(13, boundary.Full)
	require.NoError(t, err)
	search.Select(g, assign.New(rng, nil), 3)
	ref := g.Clone()

	opts := search.DefaultOptions()
	opts.FlipProbability = 1
	opts.RowLow, opts.RowHigh = 2, 3
	search.NewOptimizer(rng, opts).Improve(g)

	// Only row 2 of the quadrant (and its images) was visited.
	for j := 3; j < g.Size()-3; j++ {
		assert.False(t, g.Eligible(2, j), "(2,%d)", j)
	}
	for j := 4; j < g.Size()-4; j++ {
		assert.True(t, g.Eligible(3, j), "(3,%d)", j)
		assert.Equal(t, ref.Gate(3, j), g.Gate(3, j))
	}
}

func TestIsOneStroke(t *testing.T) {
	assert.True(t, search.IsOneStroke(250, 255, 5))
	assert.False(t, search.IsOneStroke(249, 255, 5))
	assert.False(t, search.IsOneStroke(0, 0, 5))
}

func TestSelectDefaultThreshold(t *testing.T) {
	// Half the step budget is beyond any 5-dot cycle, so every trial runs.
	rng := rand.New(rand.NewSource(3))
	g, err := grid.New(5, boundary.Full)
	require.NoError(t, err)

	sel := search.Select(g, assign.New(rng, nil), 12)
	assert.False(t, sel.Converged)
	assert.Equal(t, 12, sel.Trials)
	assert.LessOrEqual(t, sel.CycleLength, automaton.CoverLength(5))
}

func TestSelectUntilEarlyExit(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 20; i++ {
		g, err := grid.New(5, boundary.Full)
		require.NoError(t, err)
		sel := search.SelectUntil(g, assign.New(rng, nil), 50, 40)
		if sel.Converged {
			assert.Equal(t, automaton.CoverLength(5), sel.CycleLength)
			assert.Equal(t, sel.Trial+1, sel.Trials)
		} else {
			assert.Equal(t, 50, sel.Trials)
		}
	}
}

func TestImproveStopsAtTarget(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	g, err := grid.New(7, boundary.Full)
	require.NoError(t, err)
	search.Select(g, assign.New(rng, nil), 1)
	ref := g.Clone()

	opts := search.DefaultOptions()
	opts.Target = 1
	res := search.NewOptimizer(rng, opts).Improve(g)
	if res.InitialLength > 0 {
		assert.True(t, res.OneStroke)
		assert.Zero(t, res.Sweeps)
		assert.True(t, ref.Equal(g))
	}
}
