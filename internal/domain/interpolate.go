package domain

// Interpolate maps every valid cell of r through the curve, producing a
// suitability-index raster with the same shape, transform, and nodata marker.
// Missing cells stay missing. Pure: neither input is modified.
func Interpolate(r *Raster, curve SuitabilityCurve) *Raster {
	out := NewRaster(r.Width, r.Height, r.Transform, r.NoData)
	out.Projection = r.Projection
	for i, v := range r.Data {
		if !r.Valid[i] {
			continue
		}
		out.Data[i] = curve.Eval(v)
		out.Valid[i] = true
	}
	return out
}
