package domain

import (
	"fmt"
	"math"
	"time"
)

// HabitatSummary aggregates usable habitat above a cHSI threshold.
// Derived per run, not persisted.
type HabitatSummary struct {
	Threshold        float64   `json:"threshold"`
	UsablePixelCount int       `json:"usable_pixel_count"`
	PixelAreaM2      float64   `json:"pixel_area_m2"`
	TotalAreaM2      float64   `json:"total_area_m2"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// Composite combines two suitability rasters into a composite HSI raster,
// cell-wise sqrt(siH * siV). The result shares siH's grid (the depth raster
// is the primary grid by convention).
//
// A cell is missing when either input is missing. A negative product, which
// extrapolated SI values can produce, has no real square root; the cell is
// emitted missing and counted in negativeCells rather than failing the run.
func Composite(siH, siV *Raster) (chsi *Raster, negativeCells int, err error) {
	if !siH.SameGrid(siV) {
		return nil, 0, fmt.Errorf("composite: SI rasters are not co-registered (%dx%d vs %dx%d)",
			siH.Width, siH.Height, siV.Width, siV.Height)
	}

	out := NewRaster(siH.Width, siH.Height, siH.Transform, siH.NoData)
	out.Projection = siH.Projection
	for i := range siH.Data {
		if !siH.Valid[i] || !siV.Valid[i] {
			continue
		}
		product := siH.Data[i] * siV.Data[i]
		if product < 0 {
			negativeCells++
			continue
		}
		out.Data[i] = math.Sqrt(product)
		out.Valid[i] = true
	}
	return out, negativeCells, nil
}

// Summarize counts usable habitat in a composite HSI raster. A cell is usable
// when it is valid and strictly exceeds the threshold; missing cells never
// count. Pixel area comes from the pixel extents (transform units are assumed
// to be meters).
func Summarize(chsi *Raster, threshold, pixelWidth, pixelHeight float64) HabitatSummary {
	usable := 0
	for i, v := range chsi.Data {
		if chsi.Valid[i] && v > threshold {
			usable++
		}
	}
	pixelArea := math.Abs(pixelWidth * pixelHeight)
	return HabitatSummary{
		Threshold:        threshold,
		UsablePixelCount: usable,
		PixelAreaM2:      pixelArea,
		TotalAreaM2:      float64(usable) * pixelArea,
		GeneratedAt:      clock.Now().UTC(),
	}
}
