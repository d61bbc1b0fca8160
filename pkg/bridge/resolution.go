package bridge

import "math"

// MinFragments is the floor for curved-surface segment counts.
const MinFragments = 3

// Resolution is the immutable fragment-resolution context inherited by
// every node during conversion, mirroring the source language's
// $fn/$fa/$fs globals. Fn is a fixed fragment count (0 = unset); Fa is
// the maximum angle per fragment in degrees; Fs is the maximum fragment
// size in model units.
type Resolution struct {
	Fn float64
	Fa float64
	Fs float64
}

// DefaultResolution matches the source language defaults.
var DefaultResolution = Resolution{Fa: 12, Fs: 2}

// Fragments resolves the segment count for a curved surface of the
// given radius. A fixed global count wins; otherwise the angle- and
// size-derived counts are computed and the larger (finer) of the two is
// used, floored at MinFragments.
func (r Resolution) Fragments(radius float64) int {
	if r.Fn > 0 {
		return maxInt(int(r.Fn), MinFragments)
	}
	if radius <= 0 {
		return MinFragments
	}

	fragments := MinFragments
	if r.Fa > 0 {
		fromAngle := int(math.Ceil(360 / r.Fa))
		fragments = maxInt(fragments, fromAngle)
	}
	if r.Fs > 0 {
		fromSize := int(math.Ceil(radius * 2 * math.Pi / r.Fs))
		fragments = maxInt(fragments, fromSize)
	}
	return fragments
}

// FragmentsWith resolves the segment count with an optional local
// override, which always wins over the global resolution.
func (r Resolution) FragmentsWith(local *float64, radius float64) int {
	if local != nil && *local > 0 {
		return maxInt(int(*local), MinFragments)
	}
	return r.Fragments(radius)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
