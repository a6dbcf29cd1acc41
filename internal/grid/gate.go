package grid

// Gate is the state of one lattice crossing.
type Gate uint8

const (
	Unassigned Gate = iota
	Closed
	Open
)

// IsOpen reports whether a path crossing this gate goes straight.
// Unassigned gates read as open.
func (g Gate) IsOpen() bool {
	return g != Closed
}

// Flip returns the opposite of an assigned gate. Unassigned is returned unchanged.
func (g Gate) Flip() Gate {
	switch g {
	case Open:
		return Closed
	case Closed:
		return Open
	}
	return g
}

// Weight is the numeric contribution of a gate to neighbourhood sums.
func (g Gate) Weight() float64 {
	switch g {
	case Open:
		return 1
	case Closed:
		return 0
	}
	return 99
}

func (g Gate) String() string {
	switch g {
	case Open:
		return "open"
	case Closed:
		return "closed"
	}
	return "unassigned"
}

// glyph is the single-character form used by Grid.String.
func (g Gate) glyph() byte {
	switch g {
	case Open:
		return '1'
	case Closed:
		return '0'
	}
	return '.'
}
