package api

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/abelzeko/aquahealth/internal/entities"
	"github.com/abelzeko/aquahealth/internal/repository"
	"github.com/abelzeko/aquahealth/internal/scoring"
	"github.com/abelzeko/aquahealth/internal/usecases"
	"github.com/stretchr/testify/require"
)

type fixedSource []entities.LogbookEntry

func (s fixedSource) ReadEntries() ([]entities.LogbookEntry, error) { return s, nil }

// testAssessor treats readings near (24 °C, 30 PSU, 6 ml/L) as normal
func testAssessor(t *testing.T) *scoring.Assessor {
	t.Helper()
	a, err := scoring.NewAssessor(
		&scoring.StandardScaler{Mean: []float64{24, 30, 6}, Scale: []float64{1, 1, 1}},
		&scoring.OneClassSVM{
			Gamma:          0.1,
			SupportVectors: [][]float64{{0, 0, 0}},
			DualCoef:       []float64{0.2},
			Intercept:      -0.1,
		},
		scoring.DefaultCalibration,
	)
	require.NoError(t, err)
	return a
}

type testEnv struct {
	services Services
	insights *repository.CSVInsightRepository
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()

	posts := repository.NewCSVPostRepository(filepath.Join(dir, "feed.csv"))
	images, err := repository.NewImageStore(filepath.Join(dir, "images"))
	require.NoError(t, err)

	logbook, err := repository.NewSQLiteLogbookRepository(filepath.Join(dir, "logbook.db"))
	require.NoError(t, err)
	t.Cleanup(func() { logbook.Close() })

	day := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	dashboard := usecases.NewDashboardUseCase(logbook, fixedSource{
		{Timestamp: day.Add(6 * time.Hour), Temperature: 21, Salinity: 31, Oxygen: 6.5, RiskScore: 12, AlertStatus: entities.AlertNormal},
		{Timestamp: day.Add(12 * time.Hour), Temperature: 26, Salinity: 29, Oxygen: 4.5, RiskScore: 58, AlertStatus: entities.AlertEarlyWarning},
		{Timestamp: day.Add(18 * time.Hour), Temperature: 30, Salinity: 25, Oxygen: 3, RiskScore: 94, AlertStatus: entities.AlertCritical},
	})
	_, err = dashboard.RefreshIndex()
	require.NoError(t, err)

	insightRepo := repository.NewCSVInsightRepository(filepath.Join(dir, "insights.csv"))
	require.NoError(t, insightRepo.Save([]entities.Insight{
		{User: "ana", Timestamp: "2025-05-01 09:00", Location: "Split", Tag: "#JellyfishBloom", Message: "Jellies at the dock", Insight: "Warm calm water concentrates moon jellies."},
		{User: "ben", Timestamp: "2025-05-02 10:30", Location: "Piran", Tag: "#FoamSlick", Message: "Foam after the storm", Insight: "Waves whip organic matter into foam."},
		{User: "cleo", Timestamp: "2025-05-03 11:00", Location: "Koper", Tag: "#OilSheen", Message: "Rainbow film"},
	}))

	return testEnv{
		services: Services{
			Assessments: usecases.NewAssessmentUseCase(testAssessor(t)),
			Feed:        usecases.NewFeedUseCase(posts, images),
			Dashboard:   dashboard,
			Insights:    usecases.NewInsightUseCase(insightRepo, posts, nil),
		},
		insights: insightRepo,
	}
}
