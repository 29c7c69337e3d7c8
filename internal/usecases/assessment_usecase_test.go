package usecases

import (
	"errors"
	"testing"

	"github.com/abelzeko/aquahealth/internal/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubScorer struct {
	calls  int
	result entities.RiskAssessment
	err    error
}

func (s *stubScorer) Assess(r entities.Readings) (entities.RiskAssessment, error) {
	s.calls++
	return s.result, s.err
}

func TestAssessObservation(t *testing.T) {
	scorer := &stubScorer{result: entities.RiskAssessment{
		Prediction: entities.PredictionAnomalous,
		RiskScore:  82.5,
		ColorTier:  entities.TierRed,
	}}
	uc := NewAssessmentUseCase(scorer)

	obs := entities.NewObservation(entities.Readings{Temperature: 29, Oxygen: 3, Salinity: 26, Foam: entities.FoamHeavy})
	a, err := uc.AssessObservation(obs)
	require.NoError(t, err)
	assert.Equal(t, 1, scorer.calls)
	assert.Equal(t, entities.TierRed, a.ColorTier)
}

func TestAssessObservationRejectsInvalidForm(t *testing.T) {
	scorer := &stubScorer{}
	uc := NewAssessmentUseCase(scorer)

	obs := entities.NewObservation(entities.Readings{Temperature: 22, Oxygen: 6, Salinity: 30})
	obs.DeadFishCount = -2

	_, err := uc.AssessObservation(obs)
	assert.ErrorIs(t, err, entities.ErrInvalidObservation)
	assert.Zero(t, scorer.calls, "invalid forms never reach the model")
}

func TestAssessReadings(t *testing.T) {
	scorer := &stubScorer{err: errors.New("model exploded")}
	uc := NewAssessmentUseCase(scorer)

	_, err := uc.AssessReadings(entities.Readings{Temperature: 41, Oxygen: 6, Salinity: 30, Foam: entities.FoamNone})
	assert.ErrorIs(t, err, entities.ErrInvalidObservation)
	assert.Zero(t, scorer.calls)

	_, err = uc.AssessReadings(entities.Readings{Temperature: 20, Oxygen: 6, Salinity: 30, Foam: entities.FoamNone})
	require.Error(t, err)
	assert.NotErrorIs(t, err, entities.ErrInvalidObservation)
	assert.Contains(t, err.Error(), "model exploded")
}
