package generator

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/arnabc13/new-kolam/internal/assign"
	"github.com/arnabc13/new-kolam/internal/automaton"
	"github.com/arnabc13/new-kolam/internal/boundary"
	"github.com/arnabc13/new-kolam/internal/grid"
	"github.com/arnabc13/new-kolam/internal/search"
)

var (
	ErrInvalidSigma           = errors.New("sigma must be between 0 and 1")
	ErrInvalidTrials          = errors.New("trials must be at least 1")
	ErrInvalidFlipProbability = errors.New("flip probability must be between 0 and 1")
)

var tracer = otel.Tracer("kolam.generator")

// Result is one generated kolam.
type Result struct {
	ID          string           // Run identifier, also attached to log records
	Grid        *grid.Grid       // Final gate matrix
	CycleLength int              // Cycle length of the final matrix, 0 if none closed
	OneStroke   bool             // CycleLength reached Target
	Target      int              // Length counted as a complete stroke
	Budget      int              // Step budget Ns, also the traced length
	Selection   search.Selection // Multi-trial outcome
	Attempts    int              // Optimizer runs performed
	TimedOut    bool             // Refinement stopped on the timeout
	Path        automaton.Path   // Full trace from automaton.DrawStart
}

// Points returns the draw points in the renderer frame.
func (r *Result) Points() []automaton.Point {
	return r.Path.Rotated()
}

// Generator creates kolam patterns. A Generator owns its random stream and
// must not be shared between goroutines; concurrent requests use one
// Generator each.
type Generator struct {
	options *Options
	rng     *rand.Rand
	logger  *slog.Logger
}

// New creates a kolam generator with the given options.
func New(options *Options) *Generator {
	if options == nil {
		options = DefaultOptions(DefaultDots)
	}

	seed := options.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Generator{
		options: options,
		rng:     rand.New(rand.NewSource(seed)),
		logger:  logger.With(slog.String("component", "kolam_generator")),
	}
}

// Generate runs selection, refinement and the final trace.
// Returns an error only for invalid options; a pattern that is not a single
// stroke is a normal result with OneStroke unset.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	opts := g.options
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	profile := opts.Profile
	if profile == "" {
		profile = boundary.Full
	}

	id := uuid.NewString()
	logger := g.logger.With(slog.String("run_id", id))

	ctx, span := tracer.Start(ctx, "kolam.Generate", trace.WithAttributes(
		attribute.String("kolam.run_id", id),
		attribute.Int("kolam.dots", opts.Dots),
		attribute.Float64("kolam.sigma", opts.Sigma),
		attribute.String("kolam.profile", string(profile)),
		attribute.Bool("kolam.one_stroke", opts.OneStroke),
	))
	defer span.End()

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	gates, err := grid.New(opts.Dots, profile)
	if err != nil {
		return nil, err
	}

	budget := automaton.StepBudget(opts.Dots)
	early, target := opts.thresholds(budget, automaton.CoverLength(opts.Dots))
	result := &Result{
		ID:     id,
		Grid:   gates,
		Target: target,
		Budget: budget,
	}

	result.Selection = g.selectGates(ctx, gates, early)
	logger.Debug("gates selected",
		slog.Int("trials", result.Selection.Trials),
		slog.Int("cycle_length", result.Selection.CycleLength),
		slog.Bool("converged", result.Selection.Converged),
	)

	result.CycleLength = g.refine(ctx, gates, target, result)

	_, traceSpan := tracer.Start(ctx, "kolam.Trace")
	result.Path = automaton.Trace(gates, automaton.DrawStart, budget)
	traceSpan.End()

	result.OneStroke = search.IsOneStroke(result.CycleLength, target, 0)
	span.SetAttributes(
		attribute.Int("kolam.cycle_length", result.CycleLength),
		attribute.Bool("kolam.single_stroke", result.OneStroke),
	)
	logger.Info("kolam generated",
		slog.Int("dots", opts.Dots),
		slog.String("profile", string(profile)),
		slog.Int("cycle_length", result.CycleLength),
		slog.Int("target", target),
		slog.Bool("one_stroke", result.OneStroke),
		slog.Int("attempts", result.Attempts),
		slog.Bool("timed_out", result.TimedOut),
	)
	return result, nil
}

// selectGates runs the multi-trial selector under its own span.
func (g *Generator) selectGates(ctx context.Context, gates *grid.Grid, early int) search.Selection {
	_, span := tracer.Start(ctx, "kolam.Select")
	defer span.End()

	a := assign.New(g.rng, &assign.Options{
		TargetRatio: 1 - g.options.Sigma,
		Kp:          g.options.Kp,
		Ki:          g.options.Ki,
	})
	sel := search.SelectUntil(gates, a, g.options.Trials, early)

	span.SetAttributes(
		attribute.Int("kolam.trials", sel.Trials),
		attribute.Int("kolam.cycle_length", sel.CycleLength),
		attribute.Bool("kolam.converged", sel.Converged),
	)
	return sel
}

// refine runs the optimizer until the stroke is complete, the attempt
// budget is spent or ctx is done, and returns the final cycle length.
func (g *Generator) refine(ctx context.Context, gates *grid.Grid, target int, result *Result) int {
	ctx, span := tracer.Start(ctx, "kolam.Refine")
	defer span.End()

	opt := search.NewOptimizer(g.rng, &search.Options{
		FlipProbability: g.options.FlipProbability,
		MaxIterations:   g.options.iterations(),
		RowLow:          1,
		RowHigh:         (g.options.Dots + 1) / 2,
		Target:          target,
	})

	for attempt := 0; attempt < g.options.attempts(); attempt++ {
		if ctx.Err() != nil {
			result.TimedOut = true
			break
		}
		if attempt > 0 {
			gates.Release()
		}

		ref := opt.Improve(gates)
		result.Attempts++

		g.logger.Debug("refinement attempt",
			slog.String("run_id", result.ID),
			slog.Int("attempt", attempt),
			slog.Int("initial_length", ref.InitialLength),
			slog.Int("cycle_length", ref.CycleLength),
			slog.Int("accepted", ref.Accepted),
			slog.Int("reverted", ref.Reverted),
		)
		if ref.OneStroke {
			break
		}
	}

	// Measured from the canonical start so it describes the drawn stroke.
	length := automaton.CycleLength(gates, automaton.CanonicalStart)
	span.SetAttributes(
		attribute.Int("kolam.attempts", result.Attempts),
		attribute.Int("kolam.cycle_length", length),
	)
	return length
}

// GenerateWithDots is a convenience function to generate a kolam of nd dots
// at the given open-gate density.
func GenerateWithDots(nd int, sigma float64) (*Result, error) {
	opts := DefaultOptions(nd)
	opts.Sigma = sigma
	return New(opts).Generate(context.Background())
}
