package domain

import "errors"

var (
	// ErrInvalidCurve indicates a suitability curve with fewer than two
	// usable break points after incomplete pairs were dropped.
	ErrInvalidCurve = errors.New("suitability curve needs at least 2 break points")

	// ErrGridMismatch indicates two rasters that do not overlap in
	// coordinate space and therefore cannot be aligned.
	ErrGridMismatch = errors.New("rasters do not overlap in coordinate space")
)
