// Package domain implements the habitat suitability model for a river reach.
//
// # Inputs
//
// Two co-registered single-band rasters describe the hydraulic state of the
// reach: water depth in meters and depth-averaged flow velocity in m/s. These
// typically come from a 2-D hydrodynamic model export (GeoTIFF). A suitability
// curve file supplies two piecewise-linear preference curves for the target
// species and life stage, one over depth and one over velocity. Curve y-values
// (suitability indices, SI) are nominally in [0, 1] by convention; this is
// documented, not enforced.
//
// # Model
//
// Each raster is mapped through its curve to a per-pixel suitability index.
// Values inside the curve domain interpolate linearly between break points;
// values outside extrapolate along the first or last segment's slope, so an
// SI can fall outside [0, 1]. That is intentional: the curve shape, not a
// clamp, decides the index.
//
// The two SI rasters combine into a composite HSI as their geometric mean,
// sqrt(SI_h * SI_v). A negative product (possible only through extrapolation)
// has no real square root; such cells become missing and are counted so the
// caller can surface a warning. Usable habitat is the set of cells whose cHSI
// strictly exceeds a chosen threshold; its area follows from the pixel size
// encoded in the affine transform.
//
// # Missing values
//
// Missing cells are tracked with an explicit validity mask rather than NaN
// sentinels, and propagate through every operation: a missing input cell is
// missing in every derived raster and never counts as usable habitat.
//
// # Grids
//
// The two input grids are assumed to share a coordinate reference system.
// When their shape or transform differs, Align resamples the velocity grid
// onto the depth grid bilinearly; there is no CRS reprojection. Grids that do
// not overlap at all cannot be aligned and fail with ErrGridMismatch.
package domain
