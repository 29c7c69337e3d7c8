package entities

// Prediction is the anomaly model's verdict
type Prediction string

const (
	PredictionNormal    Prediction = "Normal"
	PredictionAnomalous Prediction = "Anomalous"
)

// ColorTier is the display color band of a risk score
type ColorTier string

const (
	TierGreen  ColorTier = "green"
	TierOrange ColorTier = "orange"
	TierRed    ColorTier = "red"
)

// RiskAssessment is the scored result for one observation. It is derived
// deterministically from the readings and discarded after display.
type RiskAssessment struct {
	Prediction Prediction `json:"prediction"`
	RawScore   float64    `json:"raw_score"`  // model decision value
	RiskScore  float64    `json:"risk_score"` // 0-100, two decimals
	ColorTier  ColorTier  `json:"color_tier"`
	Reason     string     `json:"reason"`
	Suggestion string     `json:"suggestion"`
}

// IsAnomalous reports whether the model flagged the observation
func (a RiskAssessment) IsAnomalous() bool {
	return a.Prediction == PredictionAnomalous
}

// Percent is the score as shown on the gauge
func (a RiskAssessment) Percent() int {
	return int(a.RiskScore)
}
