package pipeline

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/Ecohydraulics/calculate-habitat-area/internal/domain"
)

// RenderSummary formats a run summary for human consumption: the usable
// pixel count and the comma-grouped habitat area in square meters.
func RenderSummary(s domain.HabitatSummary) string {
	return fmt.Sprintf(
		"Usable pixels (cHSI > %.2f): %d\nTotal usable habitat area          : %s m²\n",
		s.Threshold,
		s.UsablePixelCount,
		humanize.FormatFloat("#,###.##", s.TotalAreaM2),
	)
}
