// Package scoring turns pond readings into a risk assessment: feature scaling,
// anomaly model evaluation, risk normalization and rule-based advice.
package scoring

import "github.com/abelzeko/aquahealth/internal/entities"

// FeatureNames is the order in which readings are fed to the scaler and model.
// It must match the column order the artifacts were fitted on.
var FeatureNames = []string{"temperature", "salinity", "oxygen"}

// Features returns the raw feature vector for the readings
func Features(r entities.Readings) []float64 {
	return []float64{r.Temperature, r.Salinity, r.Oxygen}
}

// Scaler maps raw features into the space the model was trained in
type Scaler interface {
	NumFeatures() int
	Transform(x []float64) []float64
}

// StandardScaler centers each feature on its training mean and divides by its scale
type StandardScaler struct {
	Mean  []float64
	Scale []float64
}

// NumFeatures returns the number of features the scaler was fitted on
func (s *StandardScaler) NumFeatures() int { return len(s.Mean) }

// Transform scales x; x must have NumFeatures elements
func (s *StandardScaler) Transform(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v - s.Mean[i]) / s.Scale[i]
	}
	return out
}

// MinMaxScaler maps each feature linearly as x*Scale + Min
type MinMaxScaler struct {
	Min   []float64
	Scale []float64
}

// NumFeatures returns the number of features the scaler was fitted on
func (s *MinMaxScaler) NumFeatures() int { return len(s.Min) }

// Transform scales x; x must have NumFeatures elements
func (s *MinMaxScaler) Transform(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = v*s.Scale[i] + s.Min[i]
	}
	return out
}
