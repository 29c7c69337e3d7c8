package scoring

import (
	"math"

	"github.com/abelzeko/aquahealth/internal/entities"
)

// NeutralRiskScore is reported when the calibration range is empty
const NeutralRiskScore = 50.0

// Calibration bounds the decision values the model produces in practice
type Calibration struct {
	ScoreMin float64
	ScoreMax float64
}

// DefaultCalibration is the range the shipped model was calibrated on
var DefaultCalibration = Calibration{ScoreMin: -0.1, ScoreMax: 0.1}

// RiskScore maps a decision value onto 0-100, where lower decision values
// mean higher risk. The result is rounded to two decimals and clamped.
// A NaN decision value is reported as the highest risk.
func (c Calibration) RiskScore(decision float64) float64 {
	span := c.ScoreMax - c.ScoreMin
	if span == 0 {
		return NeutralRiskScore
	}
	risk := 100 * (1 - (decision-c.ScoreMin)/span)
	if math.IsNaN(risk) {
		return 100
	}
	risk = math.Round(risk*100) / 100
	return math.Max(0, math.Min(100, risk))
}

// TierFor returns the color band of a risk score
func TierFor(risk float64) entities.ColorTier {
	switch {
	case risk <= 40:
		return entities.TierGreen
	case risk <= 70:
		return entities.TierOrange
	default:
		return entities.TierRed
	}
}
