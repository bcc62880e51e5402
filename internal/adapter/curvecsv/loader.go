// Package curvecsv loads species suitability curves from the four-column CSV
// layout used by habitat curve files:
//
//	Water depth (m), SI-h, Flow velocity (m/s), SI-v
//	0.05,0.0,0.0,1.0
//	0.20,0.6,0.3,0.9
//	...
//
// The first row is a header and is skipped. The depth and velocity curves may
// have different lengths, so rows can leave either pair blank; a blank or
// unparseable half-row is dropped for that variable only.
package curvecsv

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/Ecohydraulics/calculate-habitat-area/internal/domain"
)

// Loader reads suitability curve CSV files. It implements pipeline.CurveSource.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a curve file loader.
func NewLoader(logger *slog.Logger) *Loader {
	return &Loader{logger: logger}
}

// LoadCurves parses the curve file at path into the depth and velocity curves.
func (l *Loader) LoadCurves(_ context.Context, path string) (domain.SuitabilityCurve, domain.SuitabilityCurve, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.SuitabilityCurve{}, domain.SuitabilityCurve{}, fmt.Errorf("open curve file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // rows may be ragged
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return domain.SuitabilityCurve{}, domain.SuitabilityCurve{}, fmt.Errorf("read curve file %s: %w", path, err)
	}
	if len(rows) > 0 {
		rows = rows[1:] // header
	}

	var depthPoints, velocityPoints []domain.BreakPoint
	for _, row := range rows {
		if p, ok := parsePair(row, 0); ok {
			depthPoints = append(depthPoints, p)
		}
		if p, ok := parsePair(row, 2); ok {
			velocityPoints = append(velocityPoints, p)
		}
	}

	depth, err := domain.NewSuitabilityCurve(depthPoints)
	if err != nil {
		return domain.SuitabilityCurve{}, domain.SuitabilityCurve{}, fmt.Errorf("depth curve in %s: %w", path, err)
	}
	velocity, err := domain.NewSuitabilityCurve(velocityPoints)
	if err != nil {
		return domain.SuitabilityCurve{}, domain.SuitabilityCurve{}, fmt.Errorf("velocity curve in %s: %w", path, err)
	}

	l.logger.Debug("curve file parsed",
		"path", path,
		"depth_points", depth.Len(),
		"velocity_points", velocity.Len(),
	)
	return depth, velocity, nil
}

// parsePair reads the (x, si) columns starting at col. Returns ok=false when
// either column is absent, blank, or not numeric; such half-rows are simply
// not part of that variable's curve.
func parsePair(row []string, col int) (domain.BreakPoint, bool) {
	if len(row) <= col+1 {
		return domain.BreakPoint{}, false
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
	si, errSI := strconv.ParseFloat(strings.TrimSpace(row[col+1]), 64)
	if errX != nil || errSI != nil {
		return domain.BreakPoint{}, false
	}
	return domain.BreakPoint{X: x, SI: si}, true
}
