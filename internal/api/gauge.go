package api

import (
	"fmt"

	"github.com/abelzeko/aquahealth/internal/entities"
)

// gaugeTemplate draws the risk score as a circular progress ring.
// The ring path has a circumference of 100 so the dash length is the score itself.
const gaugeTemplate = `<svg xmlns="http://www.w3.org/2000/svg" width="140" height="140" viewBox="0 0 36 36">
  <path stroke="#eee" d="M18 2.0845 a 15.9155 15.9155 0 0 1 0 31.831 a 15.9155 15.9155 0 0 1 0 -31.831" fill="none" stroke-width="3.5"/>
  <path stroke="%[1]s" stroke-dasharray="%[2]d, 100" d="M18 2.0845 a 15.9155 15.9155 0 0 1 0 31.831 a 15.9155 15.9155 0 0 1 0 -31.831" fill="none" stroke-width="3.5"/>
  <text x="18" y="20.35" fill="%[1]s" font-size="6" text-anchor="middle" alignment-baseline="middle">%[2]d%%</text>
</svg>
`

// RenderGauge returns the SVG gauge for an assessment
func RenderGauge(a entities.RiskAssessment) string {
	color := string(a.ColorTier)
	if color == "" {
		color = "gray"
	}
	return fmt.Sprintf(gaugeTemplate, color, a.Percent())
}
