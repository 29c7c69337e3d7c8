// Package app wires configuration, logging and the use cases for the binaries
package app

import (
	"fmt"
	"time"

	"github.com/abelzeko/aquahealth/internal/api"
	"github.com/abelzeko/aquahealth/internal/config"
	"github.com/abelzeko/aquahealth/internal/logging"
	"github.com/abelzeko/aquahealth/internal/repository"
	"github.com/abelzeko/aquahealth/internal/scoring"
	"github.com/abelzeko/aquahealth/internal/usecases"
	"go.uber.org/zap"
)

// Init loads and validates the configuration and installs the global logger.
// The returned function flushes the logger.
func Init(configPath string) (*config.Config, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	cleanup, err := logging.Setup(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	return cfg, cleanup, nil
}

// Calibration returns the configured decision value range
func Calibration(cfg *config.Config) scoring.Calibration {
	return scoring.Calibration{ScoreMin: cfg.Model.ScoreMin, ScoreMax: cfg.Model.ScoreMax}
}

// RouterOptions returns the HTTP settings
func RouterOptions(cfg *config.Config) api.RouterOptions {
	return api.RouterOptions{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Timeout:        time.Duration(cfg.HTTP.TimeoutSec) * time.Second,
	}
}

// Services loads the model artifacts and opens every store the front ends use.
// Artifact errors are returned as is; callers treat them as fatal.
func Services(cfg *config.Config) (api.Services, func(), error) {
	assessor, err := scoring.LoadAssessor(cfg.Model.ScalerPath, cfg.Model.Path, Calibration(cfg))
	if err != nil {
		return api.Services{}, nil, fmt.Errorf("failed to load anomaly model: %w", err)
	}

	images, err := repository.NewImageStore(cfg.Feed.ImageDir)
	if err != nil {
		return api.Services{}, nil, err
	}
	posts := repository.NewCSVPostRepository(cfg.Feed.Path)
	zap.S().Infof("Community feed at %s, images in %s", posts.Path(), cfg.Feed.ImageDir)

	logbook, err := repository.NewSQLiteLogbookRepository(cfg.Logbook.DBPath)
	if err != nil {
		return api.Services{}, nil, fmt.Errorf("failed to open logbook index: %w", err)
	}
	dashboard := usecases.NewDashboardUseCase(logbook, repository.NewCSVLogbookSource(cfg.Logbook.CSVPath))

	// The dashboard is empty until the indexer has run once; seed it here.
	if last, err := logbook.GetLastUpdateTime(); err == nil && last.IsZero() {
		if _, err := dashboard.RefreshIndex(); err != nil {
			zap.S().Warnf("Initial logbook import failed: %v", err)
		}
	}

	services := api.Services{
		Assessments: usecases.NewAssessmentUseCase(assessor),
		Feed:        usecases.NewFeedUseCase(posts, images),
		Dashboard:   dashboard,
		Insights:    usecases.NewInsightUseCase(repository.NewCSVInsightRepository(cfg.Insights.Path), posts, nil),
	}
	return services, func() { logbook.Close() }, nil
}
