package domain

// Shared raster fixtures. northUp builds the usual GDAL-style transform for
// an axis-aligned grid: origin at the top-left corner, negative pixel height.
func northUp(originX, originY, pixelSize float64) Affine {
	return Affine{originX, pixelSize, 0, originY, 0, -pixelSize}
}

// rasterFrom builds a fully-valid raster from row-major values.
func rasterFrom(width, height int, transform Affine, values []float64) *Raster {
	r := NewRaster(width, height, transform, -9999)
	copy(r.Data, values)
	for i := range r.Valid {
		r.Valid[i] = true
	}
	return r
}
