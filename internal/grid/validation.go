package grid

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDimension = errors.New("dimension must be odd and at least 5")
	ErrInvalidPosition  = errors.New("position out of bounds")
	ErrFixedCell        = errors.New("cell is structurally fixed")
	ErrInvalidGate      = errors.New("gate must be open or closed")
	ErrUnassigned       = errors.New("gate is unassigned")
	ErrSizeMismatch     = errors.New("grids differ in size")
)

// ValidateDimension checks that nd is an odd number of dots, at least MinDimension.
func ValidateDimension(nd int) error {
	if nd < MinDimension {
		return fmt.Errorf("%w: got %d", ErrInvalidDimension, nd)
	}
	if nd%2 == 0 {
		return fmt.Errorf("%w: got even %d", ErrInvalidDimension, nd)
	}
	return nil
}

// validateCell checks that (i, j) is an in-range, non-structural cell.
func (g *Grid) validateCell(i, j int) error {
	if !g.InBounds(i, j) {
		return fmt.Errorf("%w: (%d,%d) must be in range [0, %d)", ErrInvalidPosition, i, j, g.nx)
	}
	if g.fixed[g.index(i, j)] {
		return fmt.Errorf("%w: (%d,%d)", ErrFixedCell, i, j)
	}
	return nil
}

// validateGate rejects writes of Unassigned.
func (g *Grid) validateGate(v Gate) error {
	if v != Open && v != Closed {
		return fmt.Errorf("%w: got %s", ErrInvalidGate, v)
	}
	return nil
}
