// Package numrange provides the validated numeric interval used by axes.
//
// A [Range] is a plain value: copying it is cheap and methods with value
// receivers never mutate. Every constructor normalizes, so Lower <= Upper
// holds for ranges built with [New].
//
// Ranges are bounded in both magnitude and extent. A range whose size is at
// most [MinRange] or at least [MaxRange], or whose bounds exceed MaxRange in
// magnitude, is invalid; axes reject such ranges outright.
package numrange

import (
	"fmt"
	"math"
)

const (
	// MinRange is the smallest representable range size.
	MinRange = 1e-280
	// MaxRange bounds both the size and the magnitude of a range.
	MaxRange = 1e250

	// logRangeFactor is the fraction of the non-zero bound used to replace
	// a zero bound when sanitizing for logarithmic scales.
	logRangeFactor = 1e-3
)

// Range is a closed numeric interval [Lower, Upper].
type Range struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// New returns the normalized range spanning lower and upper.
func New(lower, upper float64) Range {
	r := Range{Lower: lower, Upper: upper}
	r.Normalize()
	return r
}

// Size returns Upper - Lower.
func (r Range) Size() float64 { return r.Upper - r.Lower }

// Center returns the midpoint of the range.
func (r Range) Center() float64 { return (r.Upper + r.Lower) * 0.5 }

// Contains reports whether v lies in the closed interval.
func (r Range) Contains(v float64) bool { return v >= r.Lower && v <= r.Upper }

// Normalize swaps the bounds if Lower > Upper.
func (r *Range) Normalize() {
	if r.Lower > r.Upper {
		r.Lower, r.Upper = r.Upper, r.Lower
	}
}

// Normalized returns a copy with Lower <= Upper.
func (r Range) Normalized() Range {
	r.Normalize()
	return r
}

// Expand grows r so that it also covers other.
func (r *Range) Expand(other Range) {
	if r.Lower > other.Lower {
		r.Lower = other.Lower
	}
	if r.Upper < other.Upper {
		r.Upper = other.Upper
	}
}

// Expanded returns the union hull of r and other.
func (r Range) Expanded(other Range) Range {
	r.Expand(other)
	return r
}

// Valid reports whether r satisfies the magnitude and extent bounds.
func (r Range) Valid() bool { return Valid(r.Lower, r.Upper) }

// Valid reports whether the interval between lower and upper is usable as an
// axis range.
func Valid(lower, upper float64) bool {
	if math.IsNaN(lower) || math.IsNaN(upper) {
		return false
	}
	size := math.Abs(upper - lower)
	return math.Abs(lower) < MaxRange && math.Abs(upper) < MaxRange &&
		size > MinRange && size < MaxRange
}

// SanitizedForLinScale returns the normalized range. Linear scales accept
// any valid interval.
func (r Range) SanitizedForLinScale() Range {
	return r.Normalized()
}

// SanitizedForLogScale returns a range that does not touch or span zero.
//
// A zero bound is replaced by a small fraction of the other bound. If the
// range spans zero, the sign domain with the larger extent is kept.
func (r Range) SanitizedForLogScale() Range {
	s := r.Normalized()
	switch {
	case s.Lower == 0 && s.Upper != 0:
		s.Lower = positiveLowerFor(s.Upper)
	case s.Lower != 0 && s.Upper == 0:
		s.Upper = negativeUpperFor(s.Lower)
	case s.Lower < 0 && s.Upper > 0:
		if -s.Lower > s.Upper {
			s.Upper = negativeUpperFor(s.Lower)
		} else {
			s.Lower = positiveLowerFor(s.Upper)
		}
	}
	return s
}

func positiveLowerFor(upper float64) float64 {
	if logRangeFactor < upper*logRangeFactor {
		return logRangeFactor
	}
	return upper * logRangeFactor
}

func negativeUpperFor(lower float64) float64 {
	if -logRangeFactor > lower*logRangeFactor {
		return -logRangeFactor
	}
	return lower * logRangeFactor
}

// String formats the range as "[lower, upper]".
func (r Range) String() string {
	return fmt.Sprintf("[%g, %g]", r.Lower, r.Upper)
}
