// Package pipeline orchestrates one habitat calculation run: load curves,
// read and co-register the input rasters, interpolate suitability, composite,
// write outputs, and summarize usable area.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/Ecohydraulics/calculate-habitat-area/internal/domain"
	"github.com/Ecohydraulics/calculate-habitat-area/internal/observability"
)

// Output raster filenames inside the run's output directory.
const (
	SIDepthFile    = "SI_depth.tif"
	SIVelocityFile = "SI_velocity.tif"
	CHSIFile       = "cHSI.tif"
)

// CurveSource loads the depth and velocity suitability curves for a species.
type CurveSource interface {
	LoadCurves(ctx context.Context, path string) (depth, velocity domain.SuitabilityCurve, err error)
}

// RasterSource reads a single-band georeferenced raster.
type RasterSource interface {
	ReadRaster(ctx context.Context, path string) (*domain.Raster, error)
}

// RasterSink writes a raster to a target path, all-or-nothing.
type RasterSink interface {
	WriteRaster(ctx context.Context, path string, r *domain.Raster) error
}

// SummaryPublisher surfaces a run summary to an external system.
type SummaryPublisher interface {
	PublishSummary(ctx context.Context, s domain.HabitatSummary) error
}

// Params carries the per-run inputs from the command line.
type Params struct {
	DepthPath    string
	VelocityPath string
	CurvePath    string
	Threshold    float64
	OutputDir    string
}

// Runner executes habitat calculation runs.
type Runner struct {
	curves    CurveSource
	rasters   RasterSource
	sink      RasterSink
	publisher SummaryPublisher // nil disables publishing
	logger    *slog.Logger
	metrics   *observability.Metrics
	completed atomic.Bool
	last      atomic.Pointer[domain.HabitatSummary]
}

// New creates a Runner. publisher may be nil.
func New(curves CurveSource, rasters RasterSource, sink RasterSink, publisher SummaryPublisher,
	logger *slog.Logger, metrics *observability.Metrics) *Runner {
	return &Runner{
		curves:    curves,
		rasters:   rasters,
		sink:      sink,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness reports whether at least one run has completed, for the
// optional health endpoint.
func (r *Runner) CheckReadiness(_ context.Context) error {
	if !r.completed.Load() {
		return errors.New("no habitat run has completed yet")
	}
	return nil
}

// Run executes one calculation. Every stage failure is fatal to the run and
// wrapped with the stage name; no retries, no partial-output recovery.
func (r *Runner) Run(ctx context.Context, p Params) (domain.HabitatSummary, error) {
	start := time.Now()
	summary, err := r.run(ctx, p)
	r.metrics.RunDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		r.metrics.RunsTotal.WithLabelValues("error").Inc()
		return domain.HabitatSummary{}, err
	}
	r.metrics.RunsTotal.WithLabelValues("success").Inc()
	r.completed.Store(true)
	r.last.Store(&summary)
	return summary, nil
}

// LastSummary returns the most recent successful run's summary, if any.
func (r *Runner) LastSummary() (domain.HabitatSummary, bool) {
	s := r.last.Load()
	if s == nil {
		return domain.HabitatSummary{}, false
	}
	return *s, true
}

func (r *Runner) run(ctx context.Context, p Params) (domain.HabitatSummary, error) {
	depthCurve, velocityCurve, err := r.curves.LoadCurves(ctx, p.CurvePath)
	if err != nil {
		return domain.HabitatSummary{}, fmt.Errorf("load suitability curves: %w", err)
	}
	r.logger.Info("suitability curves loaded",
		"path", p.CurvePath,
		"depth_points", depthCurve.Len(),
		"velocity_points", velocityCurve.Len(),
	)

	depth, err := r.rasters.ReadRaster(ctx, p.DepthPath)
	if err != nil {
		return domain.HabitatSummary{}, fmt.Errorf("read depth raster: %w", err)
	}
	r.metrics.RastersRead.Inc()

	velocity, err := r.rasters.ReadRaster(ctx, p.VelocityPath)
	if err != nil {
		return domain.HabitatSummary{}, fmt.Errorf("read velocity raster: %w", err)
	}
	r.metrics.RastersRead.Inc()

	resampled := !depth.SameGrid(velocity)
	velocity, err = domain.Align(depth, velocity)
	if err != nil {
		return domain.HabitatSummary{}, fmt.Errorf("align grids: %w", err)
	}
	if resampled {
		r.metrics.CellsResampled.Add(float64(len(velocity.Data)))
		r.logger.Info("velocity raster resampled onto depth grid",
			"width", depth.Width, "height", depth.Height)
	}

	siDepth := domain.Interpolate(depth, depthCurve)
	siVelocity := domain.Interpolate(velocity, velocityCurve)
	r.metrics.CellsInterpolated.Add(float64(len(siDepth.Data) + len(siVelocity.Data)))

	chsi, negativeCells, err := domain.Composite(siDepth, siVelocity)
	if err != nil {
		return domain.HabitatSummary{}, fmt.Errorf("composite suitability: %w", err)
	}
	if negativeCells > 0 {
		// Extrapolated SI values below zero; masked, never fatal.
		r.metrics.NegativeProductCells.Add(float64(negativeCells))
		r.logger.Warn("negative SI products masked as missing", "cells", negativeCells)
	}

	if err := os.MkdirAll(p.OutputDir, 0o755); err != nil {
		return domain.HabitatSummary{}, fmt.Errorf("create output directory: %w", err)
	}

	outputs := []struct {
		name   string
		raster *domain.Raster
	}{
		{SIDepthFile, siDepth},
		{SIVelocityFile, siVelocity},
		{CHSIFile, chsi},
	}
	for _, out := range outputs {
		path := filepath.Join(p.OutputDir, out.name)
		if err := r.sink.WriteRaster(ctx, path, out.raster); err != nil {
			return domain.HabitatSummary{}, fmt.Errorf("write %s: %w", out.name, err)
		}
		r.metrics.RastersWritten.Inc()
		r.logger.Info("raster written", "path", path)
	}

	summary := domain.Summarize(chsi, p.Threshold,
		depth.Transform.PixelWidth(), depth.Transform.PixelHeight())
	r.metrics.UsablePixels.Set(float64(summary.UsablePixelCount))
	r.metrics.UsableAreaM2.Set(summary.TotalAreaM2)
	r.logger.Info("run summarized",
		"threshold", summary.Threshold,
		"usable_pixels", summary.UsablePixelCount,
		"total_area_m2", summary.TotalAreaM2,
	)

	if r.publisher != nil {
		if err := r.publisher.PublishSummary(ctx, summary); err != nil {
			return domain.HabitatSummary{}, fmt.Errorf("publish summary: %w", err)
		}
	}

	return summary, nil
}
