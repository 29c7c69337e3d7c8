// Package usecases contains the application's business logic
package usecases

import (
	"errors"
	"fmt"

	"github.com/abelzeko/aquahealth/internal/entities"
	"github.com/abelzeko/aquahealth/internal/metrics"
	"go.uber.org/zap"
)

// Scorer turns raw readings into a risk assessment
type Scorer interface {
	Assess(r entities.Readings) (entities.RiskAssessment, error)
}

// AssessmentUseCase scores logbook observations
type AssessmentUseCase struct {
	scorer Scorer
}

// NewAssessmentUseCase creates a new assessment use case
func NewAssessmentUseCase(scorer Scorer) *AssessmentUseCase {
	return &AssessmentUseCase{scorer: scorer}
}

// AssessObservation validates the whole logbook form and scores its readings.
// The observation itself is not stored.
func (uc *AssessmentUseCase) AssessObservation(obs entities.Observation) (entities.RiskAssessment, error) {
	if err := obs.Validate(); err != nil {
		metrics.RejectedObservationsTotal.Inc()
		zap.S().Infof("Rejected observation: %v", err)
		return entities.RiskAssessment{}, err
	}
	return uc.assess(obs.Readings)
}

// AssessReadings scores the four readings the model and the rules look at
func (uc *AssessmentUseCase) AssessReadings(r entities.Readings) (entities.RiskAssessment, error) {
	if err := r.Validate(); err != nil {
		metrics.RejectedObservationsTotal.Inc()
		zap.S().Infof("Rejected readings: %v", err)
		return entities.RiskAssessment{}, err
	}
	return uc.assess(r)
}

func (uc *AssessmentUseCase) assess(r entities.Readings) (entities.RiskAssessment, error) {
	a, err := uc.scorer.Assess(r)
	if err != nil {
		if errors.Is(err, entities.ErrInvalidObservation) {
			return entities.RiskAssessment{}, err
		}
		return entities.RiskAssessment{}, fmt.Errorf("failed to assess readings: %w", err)
	}

	metrics.AssessmentsTotal.WithLabelValues(string(a.Prediction), string(a.ColorTier)).Inc()
	metrics.RiskScore.Observe(a.RiskScore)
	zap.S().Infof("Observation assessed: %s, risk %.2f (%s)", a.Prediction, a.RiskScore, a.ColorTier)
	return a, nil
}
