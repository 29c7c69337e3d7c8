package scoring

import (
	"errors"
	"fmt"

	"github.com/abelzeko/aquahealth/internal/entities"
	"go.uber.org/zap"
)

// ErrFeatureMismatch is returned when the scaler, the model and the readings disagree on features
var ErrFeatureMismatch = errors.New("feature mismatch")

// Assessor owns the loaded scaler and model. It is immutable after construction
// and safe to share between requests.
type Assessor struct {
	scaler      Scaler
	model       Model
	calibration Calibration
}

// NewAssessor wires a scaler and a model together
func NewAssessor(scaler Scaler, model Model, calibration Calibration) (*Assessor, error) {
	if scaler == nil || model == nil {
		return nil, errors.New("scaler and model are required")
	}
	if scaler.NumFeatures() != len(FeatureNames) {
		return nil, fmt.Errorf("%w: scaler expects %d features, readings have %d", ErrFeatureMismatch, scaler.NumFeatures(), len(FeatureNames))
	}
	if model.NumFeatures() != scaler.NumFeatures() {
		return nil, fmt.Errorf("%w: model expects %d features, scaler produces %d", ErrFeatureMismatch, model.NumFeatures(), scaler.NumFeatures())
	}
	return &Assessor{scaler: scaler, model: model, calibration: calibration}, nil
}

// LoadAssessor reads both artifacts from disk. Any error here should stop the process.
func LoadAssessor(scalerPath, modelPath string, calibration Calibration) (*Assessor, error) {
	scaler, err := LoadScaler(scalerPath)
	if err != nil {
		return nil, err
	}
	model, err := LoadModel(modelPath)
	if err != nil {
		return nil, err
	}
	a, err := NewAssessor(scaler, model, calibration)
	if err != nil {
		return nil, err
	}
	zap.S().Infof("Anomaly model ready (%T, calibration [%g, %g])", model, calibration.ScoreMin, calibration.ScoreMax)
	return a, nil
}

// Calibration returns the decision value range used for risk scores
func (a *Assessor) Calibration() Calibration {
	return a.calibration
}

// Assess scores validated readings and attaches the rule-based advice
func (a *Assessor) Assess(r entities.Readings) (entities.RiskAssessment, error) {
	if err := r.Validate(); err != nil {
		return entities.RiskAssessment{}, err
	}

	scaled := a.scaler.Transform(Features(r))
	label := a.model.Predict(scaled)
	decision := a.model.DecisionFunction(scaled)

	prediction := entities.PredictionNormal
	if label == LabelAnomalous {
		prediction = entities.PredictionAnomalous
	}

	risk := a.calibration.RiskScore(decision)
	reason, suggestion := Explain(r)

	zap.S().Debugf("Assessed readings %+v: decision=%.4f risk=%.2f prediction=%s", r, decision, risk, prediction)
	return entities.RiskAssessment{
		Prediction: prediction,
		RawScore:   decision,
		RiskScore:  risk,
		ColorTier:  TierFor(risk),
		Reason:     reason,
		Suggestion: suggestion,
	}, nil
}
