package grid

import (
	"strings"

	"github.com/arnabc13/new-kolam/internal/boundary"
)

// MinDimension is the smallest supported lattice dimension.
const MinDimension = 5

// Pos addresses one cell of the gate matrix.
type Pos struct {
	I, J int
}

// Grid holds the gate matrix of an (ND+1)×(ND+1) lattice together with the
// assignment flags. Every write goes through a four-fold symmetric group so
// A[i,j] == A[j,i] == A[n-1-i,n-1-j] == A[n-1-j,n-1-i] at all times.
type Grid struct {
	nd      int
	nx      int
	profile boundary.Profile

	gates []Gate

	// eligible marks cells still open for (re)assignment.
	eligible []bool

	// fixed marks structural cells: border, diagonals and masked cells.
	// It is set by Reset and never mutated afterwards.
	fixed []bool
}

// New allocates a grid for nd dots and initializes it for the given profile.
// Returns an error if nd is even or smaller than MinDimension.
func New(nd int, profile boundary.Profile) (*Grid, error) {
	if err := ValidateDimension(nd); err != nil {
		return nil, err
	}
	if profile == "" {
		profile = boundary.Full
	}
	nx := nd + 1
	g := &Grid{
		nd:       nd,
		nx:       nx,
		profile:  profile,
		gates:    make([]Gate, nx*nx),
		eligible: make([]bool, nx*nx),
		fixed:    make([]bool, nx*nx),
	}
	g.Reset()
	return g, nil
}

// Reset restores the structural initialization: border closed, diagonals
// open, cells outside the active boundary closed. All other cells become
// unassigned and eligible.
func (g *Grid) Reset() {
	n := g.nx
	for k := range g.gates {
		g.gates[k] = Unassigned
		g.eligible[k] = true
		g.fixed[k] = false
	}

	for k := 0; k < n; k++ {
		g.pin(0, k, Closed)
		g.pin(k, 0, Closed)
		g.pin(n-1, k, Closed)
		g.pin(k, n-1, Closed)
	}

	for k := 1; k < n-1; k++ {
		g.pin(k, k, Open)
		g.pin(k, n-1-k, Open)
	}

	if g.profile == boundary.Full {
		return
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if g.profile.Active(g.nd, i, j) {
				continue
			}
			// Close the whole group so an asymmetric mask cannot break symmetry.
			for _, p := range g.Group(i, j) {
				g.pin(p.I, p.J, Closed)
			}
		}
	}
}

// pin writes a structural value to a single cell.
func (g *Grid) pin(i, j int, v Gate) {
	k := g.index(i, j)
	g.gates[k] = v
	g.eligible[k] = false
	g.fixed[k] = true
}

// ND returns the lattice dimension in dots.
func (g *Grid) ND() int {
	return g.nd
}

// Size returns the side length of the gate matrix (ND+1).
func (g *Grid) Size() int {
	return g.nx
}

// Profile returns the boundary profile the grid was initialized with.
func (g *Grid) Profile() boundary.Profile {
	return g.profile
}

// InBounds reports whether (i, j) addresses a cell of the gate matrix.
func (g *Grid) InBounds(i, j int) bool {
	return i >= 0 && i < g.nx && j >= 0 && j < g.nx
}

// Gate returns the gate at (i, j). Out-of-range cells read as Closed.
func (g *Grid) Gate(i, j int) Gate {
	if !g.InBounds(i, j) {
		return Closed
	}
	return g.gates[g.index(i, j)]
}

// Eligible reports whether (i, j) may still be assigned or flipped.
func (g *Grid) Eligible(i, j int) bool {
	if !g.InBounds(i, j) {
		return false
	}
	return g.eligible[g.index(i, j)]
}

// Fixed reports whether (i, j) is a structural cell.
func (g *Grid) Fixed(i, j int) bool {
	if !g.InBounds(i, j) {
		return true
	}
	return g.fixed[g.index(i, j)]
}

// Group returns the four symmetric images of (i, j). Positions may repeat
// on the diagonals.
func (g *Grid) Group(i, j int) [4]Pos {
	m := g.nx - 1
	return [4]Pos{{i, j}, {j, i}, {m - i, m - j}, {m - j, m - i}}
}

// SetGroup writes v to the four symmetric images of (i, j) and clears their
// eligibility flags. Returns an error for out-of-range or structural cells.
func (g *Grid) SetGroup(i, j int, v Gate) error {
	if err := g.validateCell(i, j); err != nil {
		return err
	}
	if err := g.validateGate(v); err != nil {
		return err
	}
	g.writeGroup(i, j, v)
	return nil
}

// SetGroupForce writes v to the group without validation.
// Use only when (i, j) is known to be a non-structural cell.
func (g *Grid) SetGroupForce(i, j int, v Gate) {
	g.writeGroup(i, j, v)
}

func (g *Grid) writeGroup(i, j int, v Gate) {
	for _, p := range g.Group(i, j) {
		k := g.index(p.I, p.J)
		g.gates[k] = v
		g.eligible[k] = false
	}
}

// Toggle flips the group at (i, j) between Open and Closed and clears its
// eligibility. Returns the value before the flip.
func (g *Grid) Toggle(i, j int) (Gate, error) {
	if err := g.validateCell(i, j); err != nil {
		return Unassigned, err
	}
	prev := g.gates[g.index(i, j)]
	if prev == Unassigned {
		return prev, ErrUnassigned
	}
	g.writeGroup(i, j, prev.Flip())
	return prev, nil
}

// Restore writes v back to the group at (i, j) leaving eligibility untouched.
func (g *Grid) Restore(i, j int, v Gate) {
	for _, p := range g.Group(i, j) {
		g.gates[g.index(p.I, p.J)] = v
	}
}

// Release marks every non-structural cell eligible again, so each assigned
// gate can be considered once more by a refinement pass.
func (g *Grid) Release() {
	for k := range g.eligible {
		g.eligible[k] = !g.fixed[k]
	}
}

// FreeCount returns the number of non-structural cells.
func (g *Grid) FreeCount() int {
	count := 0
	for _, f := range g.fixed {
		if !f {
			count++
		}
	}
	return count
}

// OpenCount returns the number of open non-structural cells.
func (g *Grid) OpenCount() int {
	count := 0
	for k, v := range g.gates {
		if !g.fixed[k] && v == Open {
			count++
		}
	}
	return count
}

// IsSymmetric reports whether every cell agrees with its symmetric images.
func (g *Grid) IsSymmetric() bool {
	for i := 0; i < g.nx; i++ {
		for j := 0; j < g.nx; j++ {
			v := g.gates[g.index(i, j)]
			for _, p := range g.Group(i, j) {
				if g.gates[g.index(p.I, p.J)] != v {
					return false
				}
			}
		}
	}
	return true
}

// Clone creates an independent copy of the Grid.
func (g *Grid) Clone() *Grid {
	if g == nil {
		return nil
	}
	clone := *g
	clone.gates = append([]Gate(nil), g.gates...)
	clone.eligible = append([]bool(nil), g.eligible...)
	clone.fixed = append([]bool(nil), g.fixed...)
	return &clone
}

// CopyFrom overwrites gates and flags with those of src.
// Returns an error if the two grids differ in size.
func (g *Grid) CopyFrom(src *Grid) error {
	if src == nil || src.nx != g.nx {
		return ErrSizeMismatch
	}
	copy(g.gates, src.gates)
	copy(g.eligible, src.eligible)
	copy(g.fixed, src.fixed)
	g.profile = src.profile
	return nil
}

// Equal reports whether both grids hold the same gate values.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || other.nx != g.nx {
		return false
	}
	for k, v := range g.gates {
		if other.gates[k] != v {
			return false
		}
	}
	return true
}

// Rows returns a copy of the gate matrix as rows.
func (g *Grid) Rows() [][]Gate {
	rows := make([][]Gate, g.nx)
	for i := 0; i < g.nx; i++ {
		rows[i] = append([]Gate(nil), g.gates[i*g.nx:(i+1)*g.nx]...)
	}
	return rows
}

// Bits returns the gate matrix as 0/1 rows, unassigned cells as 1.
func (g *Grid) Bits() [][]int {
	bits := make([][]int, g.nx)
	for i := 0; i < g.nx; i++ {
		bits[i] = make([]int, g.nx)
		for j := 0; j < g.nx; j++ {
			if g.gates[g.index(i, j)].IsOpen() {
				bits[i][j] = 1
			}
		}
	}
	return bits
}

// String returns the gate matrix as rows of '1', '0' and '.' separated by '/'.
func (g *Grid) String() string {
	var sb strings.Builder
	sb.Grow(g.nx * (g.nx + 1))

	for i := 0; i < g.nx; i++ {
		if i > 0 {
			sb.WriteByte('/')
		}
		for j := 0; j < g.nx; j++ {
			sb.WriteByte(g.gates[g.index(i, j)].glyph())
		}
	}

	return sb.String()
}

// Format returns a human-readable matrix with a frame.
func (g *Grid) Format() string {
	var sb strings.Builder
	line := "+" + strings.Repeat("-", 2*g.nx+1) + "+\n"
	sb.WriteString(line)

	for i := 0; i < g.nx; i++ {
		sb.WriteString("| ")
		for j := 0; j < g.nx; j++ {
			switch g.gates[g.index(i, j)] {
			case Open:
				sb.WriteByte('o')
			case Closed:
				sb.WriteByte('x')
			default:
				sb.WriteByte('.')
			}
			sb.WriteByte(' ')
		}
		sb.WriteString("|\n")
	}
	sb.WriteString(line)

	return sb.String()
}

// index maps (i, j) to a row-major offset.
func (g *Grid) index(i, j int) int {
	return i*g.nx + j
}
