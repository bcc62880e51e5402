// Package geotiff reads and writes single-band georeferenced rasters through
// GDAL (github.com/airbusgeo/godal). It implements the pipeline's
// RasterSource and RasterSink boundaries.
package geotiff

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/airbusgeo/godal"

	"github.com/Ecohydraulics/calculate-habitat-area/internal/domain"
)

// outputNoData is the declared nodata value substituted for missing cells in
// every written raster.
const outputNoData = -9999.0

var registerDrivers sync.Once

// Store reads and writes GeoTIFF rasters.
type Store struct {
	logger *slog.Logger
}

// NewStore creates a GeoTIFF store, registering GDAL drivers on first use.
func NewStore(logger *slog.Logger) *Store {
	registerDrivers.Do(func() { godal.RegisterAll() })
	return &Store{logger: logger}
}

// ReadRaster loads band 1 of the raster at path. Cells equal to the file's
// declared nodata value, and NaN cells, are marked missing.
func (s *Store) ReadRaster(_ context.Context, path string) (*domain.Raster, error) {
	ds, err := godal.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open raster %s: %w", path, err)
	}
	defer ds.Close()

	structure := ds.Structure()
	width, height := structure.SizeX, structure.SizeY
	bands := ds.Bands()
	if len(bands) == 0 {
		return nil, fmt.Errorf("raster %s has no bands", path)
	}

	gt, err := ds.GeoTransform()
	if err != nil {
		return nil, fmt.Errorf("read transform of %s: %w", path, err)
	}

	band := bands[0]
	data := make([]float64, width*height)
	if err := band.Read(0, 0, data, width, height); err != nil {
		return nil, fmt.Errorf("read band 1 of %s: %w", path, err)
	}

	nodata, hasNoData := band.NoData()
	if !hasNoData {
		nodata = outputNoData
	}

	r := &domain.Raster{
		Width:      width,
		Height:     height,
		Transform:  domain.Affine(gt),
		Projection: ds.Projection(),
		NoData:     nodata,
		Data:       data,
		Valid:      make([]bool, len(data)),
	}
	missing := 0
	for i, v := range data {
		if math.IsNaN(v) || (hasNoData && v == nodata) {
			missing++
			continue
		}
		r.Valid[i] = true
	}

	s.logger.Debug("raster read",
		"path", path,
		"width", width,
		"height", height,
		"missing_cells", missing,
	)
	return r, nil
}

// WriteRaster stores r at path as a single-band float32 GeoTIFF with LZW
// compression, substituting the nodata value for missing cells. The write is
// all-or-nothing: data goes to a temporary file in the target directory and
// is renamed into place only after a clean close, so a failure never leaves a
// final output file behind.
func (s *Store) WriteRaster(_ context.Context, path string, r *domain.Raster) error {
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")

	if err := s.writeTo(tmp, r); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("finalize raster %s: %w", path, err)
	}

	s.logger.Debug("raster written", "path", path, "width", r.Width, "height", r.Height)
	return nil
}

func (s *Store) writeTo(path string, r *domain.Raster) error {
	ds, err := godal.Create(godal.GTiff, path, 1, godal.Float32, r.Width, r.Height,
		godal.CreationOption("COMPRESS=LZW"))
	if err != nil {
		return fmt.Errorf("create raster %s: %w", path, err)
	}

	if err := ds.SetGeoTransform([6]float64(r.Transform)); err != nil {
		ds.Close()
		return fmt.Errorf("set transform on %s: %w", path, err)
	}
	if r.Projection != "" {
		if err := ds.SetProjection(r.Projection); err != nil {
			ds.Close()
			return fmt.Errorf("set projection on %s: %w", path, err)
		}
	}

	band := ds.Bands()[0]
	if err := band.SetNoData(outputNoData); err != nil {
		ds.Close()
		return fmt.Errorf("set nodata on %s: %w", path, err)
	}

	buf := make([]float32, len(r.Data))
	for i, v := range r.Data {
		if !r.Valid[i] || math.IsNaN(v) {
			buf[i] = outputNoData
			continue
		}
		buf[i] = float32(v)
	}
	if err := band.Write(0, 0, buf, r.Width, r.Height); err != nil {
		ds.Close()
		return fmt.Errorf("write band of %s: %w", path, err)
	}

	if err := ds.Close(); err != nil {
		return fmt.Errorf("close raster %s: %w", path, err)
	}
	return nil
}
