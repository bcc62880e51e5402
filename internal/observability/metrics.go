package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for a
// habitat calculation run.
type Metrics struct {
	RastersRead    prometheus.Counter
	RastersWritten prometheus.Counter

	CellsInterpolated    prometheus.Counter
	CellsResampled       prometheus.Counter
	NegativeProductCells prometheus.Counter

	UsablePixels prometheus.Gauge
	UsableAreaM2 prometheus.Gauge

	RunDuration prometheus.Histogram
	RunsTotal   *prometheus.CounterVec // label: outcome={success,error}
}

// NewMetrics creates and registers all run metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RastersRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "habitat",
			Name:      "rasters_read_total",
			Help:      "Total source rasters read.",
		}),
		RastersWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "habitat",
			Name:      "rasters_written_total",
			Help:      "Total output rasters written.",
		}),
		CellsInterpolated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "habitat",
			Name:      "cells_interpolated_total",
			Help:      "Total raster cells mapped through a suitability curve.",
		}),
		CellsResampled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "habitat",
			Name:      "cells_resampled_total",
			Help:      "Total reference cells produced by grid resampling.",
		}),
		NegativeProductCells: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "habitat",
			Name:      "negative_product_cells_total",
			Help:      "Cells masked because the SI product was negative under the square root.",
		}),
		UsablePixels: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "habitat",
			Name:      "usable_pixels",
			Help:      "Usable pixel count from the latest run.",
		}),
		UsableAreaM2: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "habitat",
			Name:      "usable_area_m2",
			Help:      "Usable habitat area in square meters from the latest run.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "habitat",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete calculation run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "habitat",
			Name:      "runs_total",
			Help:      "Completed runs by outcome.",
		}, []string{"outcome"}),
	}

	prometheus.MustRegister(
		m.RastersRead,
		m.RastersWritten,
		m.CellsInterpolated,
		m.CellsResampled,
		m.NegativeProductCells,
		m.UsablePixels,
		m.UsableAreaM2,
		m.RunDuration,
		m.RunsTotal,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RastersRead:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "habitat", Name: "rasters_read_total"}),
		RastersWritten:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "habitat", Name: "rasters_written_total"}),
		CellsInterpolated:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "habitat", Name: "cells_interpolated_total"}),
		CellsResampled:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "habitat", Name: "cells_resampled_total"}),
		NegativeProductCells: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "habitat", Name: "negative_product_cells_total"}),
		UsablePixels:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "habitat", Name: "usable_pixels"}),
		UsableAreaM2:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "habitat", Name: "usable_area_m2"}),
		RunDuration:          prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "habitat", Name: "run_duration_seconds"}),
		RunsTotal:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "habitat", Name: "runs_total"}, []string{"outcome"}),
	}
}
