package domain

import (
	"fmt"
	"sort"
)

// BreakPoint is one (x, si) anchor of a piecewise-linear suitability curve.
type BreakPoint struct {
	X  float64
	SI float64
}

// SuitabilityCurve maps a hydraulic variable (depth or velocity) to a
// suitability index through ascending break points. Built once per run from
// the curve file and immutable afterwards.
type SuitabilityCurve struct {
	points []BreakPoint
}

// NewSuitabilityCurve builds a curve from break points, sorting them by x
// ascending. Incomplete pairs are dropped by the curve source before they
// get here; fewer than two remaining points is ErrInvalidCurve.
//
// Duplicate x values are kept as-is: the sort is stable and Eval scans
// segments left to right, so the first break point at a tied x wins.
func NewSuitabilityCurve(points []BreakPoint) (SuitabilityCurve, error) {
	if len(points) < 2 {
		return SuitabilityCurve{}, fmt.Errorf("%w, got %d", ErrInvalidCurve, len(points))
	}
	sorted := make([]BreakPoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })
	return SuitabilityCurve{points: sorted}, nil
}

// XPoints returns the break point x-values in ascending order.
func (c SuitabilityCurve) XPoints() []float64 {
	xs := make([]float64, len(c.points))
	for i, p := range c.points {
		xs[i] = p.X
	}
	return xs
}

// YPoints returns the break point si-values, parallel to XPoints.
func (c SuitabilityCurve) YPoints() []float64 {
	ys := make([]float64, len(c.points))
	for i, p := range c.points {
		ys[i] = p.SI
	}
	return ys
}

// Len returns the number of break points.
func (c SuitabilityCurve) Len() int { return len(c.points) }

// Eval returns the suitability index for v.
//
// Inside the curve domain it interpolates linearly between the bracketing
// break points, returning break point y-values exactly. Outside the domain it
// extrapolates along the slope of the first or last segment. No clamping is
// applied; extrapolated indices may fall outside [0, 1].
func (c SuitabilityCurve) Eval(v float64) float64 {
	pts := c.points
	n := len(pts)
	first, last := pts[0], pts[n-1]

	if v < first.X {
		slope := (pts[1].SI - pts[0].SI) / (pts[1].X - pts[0].X)
		return first.SI + slope*(v-first.X)
	}
	if v > last.X {
		slope := (pts[n-1].SI - pts[n-2].SI) / (pts[n-1].X - pts[n-2].X)
		return last.SI + slope*(v-last.X)
	}

	for i := 0; i < n-1; i++ {
		lo, hi := pts[i], pts[i+1]
		if v == lo.X {
			return lo.SI
		}
		if v == hi.X {
			// Anchor at the stored value: lo.SI + 1.0*(hi.SI-lo.SI) is
			// not exactly hi.SI in float arithmetic.
			return hi.SI
		}
		if v > hi.X {
			continue
		}
		if lo.X == hi.X {
			// Zero-width segment from a duplicate x; the next
			// segment brackets v.
			continue
		}
		t := (v - lo.X) / (hi.X - lo.X)
		return lo.SI + t*(hi.SI-lo.SI)
	}
	return last.SI
}
