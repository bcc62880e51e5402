package domain

import (
	"fmt"
	"math"
)

// Align co-registers other onto ref's grid.
//
// When both rasters already share shape and transform, other is returned
// unchanged. Otherwise other is resampled bilinearly onto ref's grid through
// the two affine transforms, assuming a shared coordinate reference system
// (resolution/extent matching only, no reprojection). Reference cells whose
// centers fall outside other's extent, and cells whose bilinear neighborhood
// touches a missing input cell, come out missing.
//
// Rasters with no geographic overlap at all fail with ErrGridMismatch.
func Align(ref, other *Raster) (*Raster, error) {
	if ref.SameGrid(other) {
		return other, nil
	}
	if !overlaps(ref, other) {
		refMinX, refMinY, refMaxX, refMaxY := ref.bounds()
		return nil, fmt.Errorf("%w: reference covers [%g %g %g %g]",
			ErrGridMismatch, refMinX, refMinY, refMaxX, refMaxY)
	}
	return resampleBilinear(ref, other)
}

// overlaps reports whether the axis-aligned bounds of the two grids intersect.
func overlaps(a, b *Raster) bool {
	aMinX, aMinY, aMaxX, aMaxY := a.bounds()
	bMinX, bMinY, bMaxX, bMaxY := b.bounds()
	return aMinX < bMaxX && bMinX < aMaxX && aMinY < bMaxY && bMinY < aMaxY
}

// resampleBilinear samples other at every ref pixel center. Sample
// coordinates are expressed relative to other's pixel centers; the four
// surrounding cells blend by distance, with edge samples clamped onto the
// outermost centers.
func resampleBilinear(ref, other *Raster) (*Raster, error) {
	out := NewRaster(ref.Width, ref.Height, ref.Transform, ref.NoData)
	out.Projection = ref.Projection

	for row := 0; row < ref.Height; row++ {
		for col := 0; col < ref.Width; col++ {
			x, y := ref.Transform.Apply(float64(col)+0.5, float64(row)+0.5)
			colF, rowF, ok := other.Transform.Invert(x, y)
			if !ok {
				return nil, fmt.Errorf("%w: degenerate transform on resample input", ErrGridMismatch)
			}
			if colF < 0 || colF > float64(other.Width) || rowF < 0 || rowF > float64(other.Height) {
				continue // center outside the other grid: missing
			}

			v, valid := sampleBilinear(other, colF-0.5, rowF-0.5)
			if !valid {
				continue
			}
			i := out.Index(col, row)
			out.Data[i] = v
			out.Valid[i] = true
		}
	}
	return out, nil
}

// sampleBilinear interpolates other at fractional center coordinates
// (fx, fy). Returns valid=false when any of the four contributing cells is
// missing, so input masks propagate through resampling.
func sampleBilinear(r *Raster, fx, fy float64) (float64, bool) {
	fx = clampF(fx, 0, float64(r.Width-1))
	fy = clampF(fy, 0, float64(r.Height-1))

	c0 := int(math.Floor(fx))
	r0 := int(math.Floor(fy))
	c1 := minInt(c0+1, r.Width-1)
	r1 := minInt(r0+1, r.Height-1)
	wx := fx - float64(c0)
	wy := fy - float64(r0)

	i00 := r.Index(c0, r0)
	i10 := r.Index(c1, r0)
	i01 := r.Index(c0, r1)
	i11 := r.Index(c1, r1)
	if !r.Valid[i00] || !r.Valid[i10] || !r.Valid[i01] || !r.Valid[i11] {
		return 0, false
	}

	top := r.Data[i00]*(1-wx) + r.Data[i10]*wx
	bottom := r.Data[i01]*(1-wx) + r.Data[i11]*wx
	return top*(1-wy) + bottom*wy, true
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
