// Package boundary classifies gate-matrix positions as active or inactive
// for a chosen shape profile. Inactive cells are forced closed by the grid.
package boundary

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrUnknownProfile = errors.New("unknown boundary profile")

// Profile selects the shape of the active region.
type Profile string

const (
	Full    Profile = "diamond"
	Corners Profile = "corners"
	Rings   Profile = "fish"
	Waves   Profile = "waves"
	Fractal Profile = "fractal"
	Organic Profile = "organic"
)

// aliases maps the descriptive shape names onto profiles.
var aliases = map[string]Profile{
	"full":               Full,
	"rings":              Rings,
	"interference-waves": Waves,
	"bitwise-fractal":    Fractal,
	"wobbled-disc":       Organic,
}

// Profiles returns every profile in canonical order.
func Profiles() []Profile {
	return []Profile{Full, Corners, Rings, Waves, Fractal, Organic}
}

// Parse resolves a profile name, accepting both the short and the
// descriptive spelling. Matching is case-insensitive.
func Parse(s string) (Profile, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, p := range Profiles() {
		if string(p) == name {
			return p, nil
		}
	}
	if p, ok := aliases[name]; ok {
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProfile, s)
}

// Valid reports whether p is one of the known profiles.
func (p Profile) Valid() bool {
	for _, known := range Profiles() {
		if p == known {
			return true
		}
	}
	return false
}

// Active reports whether position (i, j) lies inside the profile's region
// for a lattice of nd dots. Coordinates are re-centred as x = i-nd, y = j-nd.
// Unknown profiles are treated as Full.
func (p Profile) Active(nd, i, j int) bool {
	n := float64(nd)
	x := float64(i - nd)
	y := float64(j - nd)

	switch p {
	case Corners:
		threshold := 0.3 * n
		return math.Abs(x) >= threshold && math.Abs(y) >= threshold

	case Rings:
		ring := int(math.Hypot(x, y) / (0.35 * n))
		return ring%2 == 0

	case Waves:
		freq := 2 * math.Pi / (0.6 * n)
		return math.Sin(x*freq)+math.Sin(y*freq) > 0

	case Fractal:
		xi := int(math.Abs(x) + n)
		yi := int(math.Abs(y) + n)
		return (xi&yi)%4 < 2

	case Organic:
		wobble := 0.2 * n * math.Sin(3*math.Atan2(y, x))
		return math.Hypot(x, y) < 0.8*n+wobble
	}

	return true
}
