// Package search hunts for gate matrices that trace a single long stroke.
// Select keeps the best of several random assignments; Optimizer refines a
// matrix by greedy single-gate flips.
package search

import (
	"github.com/arnabc13/new-kolam/internal/assign"
	"github.com/arnabc13/new-kolam/internal/automaton"
	"github.com/arnabc13/new-kolam/internal/grid"
)

const (
	DefaultTrials = 10

	// DefaultSlack is how far below the step budget a cycle may stop and
	// still count as one stroke.
	DefaultSlack = 5
)

// Selection reports the outcome of a multi-trial search.
type Selection struct {
	CycleLength int  // Longest cycle found from the canonical start
	Trial       int  // Index of the trial that produced it, -1 if none closed
	Trials      int  // Trials actually run
	Converged   bool // A trial passed the early-exit threshold
}

// Select runs trials fresh assignments on g, scoring each by its cycle length
// from automaton.CanonicalStart, and leaves the best matrix in g with every
// free gate released for refinement. The search stops early once a cycle
// exceeds half the step budget.
func Select(g *grid.Grid, a *assign.Assigner, trials int) Selection {
	return SelectUntil(g, a, trials, automaton.StepBudget(g.ND())/2-2)
}

// SelectUntil is Select with an explicit early-exit threshold: the search
// stops at the first trial whose cycle is longer than threshold.
func SelectUntil(g *grid.Grid, a *assign.Assigner, trials, threshold int) Selection {
	sel := Selection{Trial: -1}

	var best *grid.Grid
	for t := 0; t < trials; t++ {
		a.Assign(g)
		sel.Trials++

		n := automaton.CycleLength(g, automaton.CanonicalStart)
		if n > sel.CycleLength {
			sel.CycleLength = n
			sel.Trial = t
			best = g.Clone()
		}
		if n > threshold {
			sel.Converged = true
			break
		}
	}

	if best != nil {
		// Same size by construction.
		_ = g.CopyFrom(best)
	}
	g.Release()
	return sel
}

// IsOneStroke reports whether a cycle of the given length is within slack
// of target.
func IsOneStroke(length, target, slack int) bool {
	return length > 0 && length >= target-slack
}
