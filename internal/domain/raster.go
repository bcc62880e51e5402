package domain

// Affine is a 6-coefficient transform from pixel indices to geographic
// coordinates, in GDAL geotransform order:
//
//	x = c[0] + col*c[1] + row*c[2]
//	y = c[3] + col*c[4] + row*c[5]
//
// c[0], c[3] locate the outer corner of the top-left pixel; c[1] is the pixel
// width and c[5] the pixel height (negative for north-up grids); c[2] and
// c[4] are rotation terms, zero for axis-aligned grids.
type Affine [6]float64

// Apply maps fractional pixel coordinates to geographic coordinates.
// Pixel centers sit at col+0.5, row+0.5.
func (a Affine) Apply(col, row float64) (x, y float64) {
	x = a[0] + col*a[1] + row*a[2]
	y = a[3] + col*a[4] + row*a[5]
	return x, y
}

// Invert maps geographic coordinates back to fractional pixel coordinates.
// ok is false when the transform is degenerate (zero determinant).
func (a Affine) Invert(x, y float64) (col, row float64, ok bool) {
	det := a[1]*a[5] - a[2]*a[4]
	if det == 0 {
		return 0, 0, false
	}
	dx, dy := x-a[0], y-a[3]
	col = (dx*a[5] - dy*a[2]) / det
	row = (dy*a[1] - dx*a[4]) / det
	return col, row, true
}

// PixelWidth returns the x extent of one pixel in transform units.
func (a Affine) PixelWidth() float64 { return a[1] }

// PixelHeight returns the y extent of one pixel in transform units.
// Negative for north-up grids.
func (a Affine) PixelHeight() float64 { return a[5] }

// Raster is a single-band grid of float samples with an explicit validity
// mask. Data is row-major, top row first; Valid runs parallel to Data and a
// false entry marks a missing cell. Rasters are built once and never mutated
// afterwards; operations return fresh rasters.
type Raster struct {
	Width     int
	Height    int
	Transform Affine
	// Projection is the spatial reference in WKT, empty when the source
	// carries none. Metadata only: grid math never consults it, and
	// SameGrid ignores it like NoData.
	Projection string
	NoData     float64
	Data       []float64
	Valid      []bool
}

// NewRaster allocates an all-missing raster of the given shape.
func NewRaster(width, height int, transform Affine, nodata float64) *Raster {
	return &Raster{
		Width:     width,
		Height:    height,
		Transform: transform,
		NoData:    nodata,
		Data:      make([]float64, width*height),
		Valid:     make([]bool, width*height),
	}
}

// Index returns the flat offset of a cell.
func (r *Raster) Index(col, row int) int { return row*r.Width + col }

// SameGrid reports whether two rasters share shape and transform exactly.
func (r *Raster) SameGrid(other *Raster) bool {
	return r.Width == other.Width &&
		r.Height == other.Height &&
		r.Transform == other.Transform
}

// bounds returns the axis-aligned geographic bounding box of the grid,
// covering all four corners so rotated transforms are handled too.
func (r *Raster) bounds() (minX, minY, maxX, maxY float64) {
	w, h := float64(r.Width), float64(r.Height)
	corners := [4][2]float64{{0, 0}, {w, 0}, {0, h}, {w, h}}
	for i, c := range corners {
		x, y := r.Transform.Apply(c[0], c[1])
		if i == 0 || x < minX {
			minX = x
		}
		if i == 0 || x > maxX {
			maxX = x
		}
		if i == 0 || y < minY {
			minY = y
		}
		if i == 0 || y > maxY {
			maxY = y
		}
	}
	return minX, minY, maxX, maxY
}
