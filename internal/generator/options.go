package generator

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/arnabc13/new-kolam/internal/assign"
	"github.com/arnabc13/new-kolam/internal/boundary"
	"github.com/arnabc13/new-kolam/internal/grid"
	"github.com/arnabc13/new-kolam/internal/search"
)

const (
	DefaultDots  = 19
	DefaultSigma = 0.65

	oneStrokeIterations = 80
	oneStrokeAttempts   = 200
)

// Options configures kolam generation behavior.
type Options struct {
	Dots      int              // Lattice dimension ND, odd and >= 5
	Sigma     float64          // Target fraction of open gates, 0..1
	Profile   boundary.Profile // Shape of the active region
	OneStroke bool             // Spend a larger budget hunting for a single stroke
	Seed      int64            // Seed for reproducible patterns (0 = random)
	Timeout   time.Duration    // Stops further refinement attempts (0 = none)

	Trials          int     // Random assignments tried by the selector
	Iterations      int     // Optimizer sweeps per attempt (0 = 40, or 80 in one-stroke mode)
	RefineAttempts  int     // Optimizer runs (0 = 1, or 200 in one-stroke mode)
	FlipProbability float64 // Chance an eligible gate is tried per sweep
	Kp, Ki          float64 // Density controller gains

	// StrictBudget scores strokes against the step budget Ns instead of the
	// full-coverage length: a stroke then counts as complete at Ns-Slack.
	StrictBudget bool
	Slack        int

	Logger *slog.Logger
}

// DefaultOptions returns standard generator options for nd dots.
func DefaultOptions(nd int) *Options {
	return &Options{
		Dots:            nd,
		Sigma:           DefaultSigma,
		Profile:         boundary.Full,
		Trials:          search.DefaultTrials,
		FlipProbability: search.DefaultFlipProbability,
		Kp:              assign.DefaultKp,
		Ki:              assign.DefaultKi,
		Slack:           search.DefaultSlack,
	}
}

// Validate checks the request parameters.
func (o *Options) Validate() error {
	if err := grid.ValidateDimension(o.Dots); err != nil {
		return err
	}
	if o.Sigma < 0 || o.Sigma > 1 {
		return fmt.Errorf("%w: got %g", ErrInvalidSigma, o.Sigma)
	}
	if o.Profile != "" && !o.Profile.Valid() {
		return fmt.Errorf("%w: %q", boundary.ErrUnknownProfile, o.Profile)
	}
	if o.Trials < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidTrials, o.Trials)
	}
	if o.FlipProbability < 0 || o.FlipProbability > 1 {
		return fmt.Errorf("%w: got %g", ErrInvalidFlipProbability, o.FlipProbability)
	}
	return nil
}

// iterations resolves the sweep budget for the mode.
func (o *Options) iterations() int {
	switch {
	case o.Iterations > 0:
		return o.Iterations
	case o.OneStroke:
		return oneStrokeIterations
	}
	return search.DefaultIterations
}

// attempts resolves the number of optimizer runs for the mode.
func (o *Options) attempts() int {
	switch {
	case o.RefineAttempts > 0:
		return o.RefineAttempts
	case o.OneStroke:
		return oneStrokeAttempts
	}
	return 1
}

// thresholds returns the selector early-exit length and the one-stroke target.
func (o *Options) thresholds(budget, cover int) (early, target int) {
	if o.StrictBudget {
		return budget/2 - 2, budget - o.Slack
	}
	return cover/2 - 2, cover
}
