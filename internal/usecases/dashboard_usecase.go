package usecases

import (
	"fmt"

	"github.com/abelzeko/aquahealth/internal/entities"
	"github.com/abelzeko/aquahealth/internal/metrics"
	"github.com/abelzeko/aquahealth/internal/repository"
	"go.uber.org/zap"
)

// DashboardUseCase serves the logbook dashboard from its SQLite index
type DashboardUseCase struct {
	repo   repository.LogbookRepository
	source repository.LogbookSource
}

// NewDashboardUseCase creates a new dashboard use case. source may be nil for read-only use.
func NewDashboardUseCase(repo repository.LogbookRepository, source repository.LogbookSource) *DashboardUseCase {
	return &DashboardUseCase{
		repo:   repo,
		source: source,
	}
}

// RefreshIndex re-imports the logbook history into the index
func (uc *DashboardUseCase) RefreshIndex() (int, error) {
	if uc.source == nil {
		return 0, fmt.Errorf("no logbook source configured")
	}
	zap.S().Info("Starting logbook index refresh...")

	entries, err := uc.source.ReadEntries()
	if err != nil {
		return 0, fmt.Errorf("failed to read logbook history: %w", err)
	}
	zap.S().Infof("Read %d logbook entries", len(entries))

	if err := uc.repo.ReplaceEntries(entries); err != nil {
		return 0, fmt.Errorf("failed to save logbook index: %w", err)
	}
	metrics.LogbookEntriesIndexed.Set(float64(len(entries)))
	return len(entries), nil
}

// Summary returns the headline metrics
func (uc *DashboardUseCase) Summary() (entities.DashboardSummary, error) {
	return uc.repo.Summary()
}

// Entries lists logbook rows with the given alert status; "All" or "" lists everything
func (uc *DashboardUseCase) Entries(status string) ([]entities.LogbookEntry, error) {
	zap.S().Debugf("Listing logbook entries with status %q", status)
	return uc.repo.ListEntries(status)
}

// StatusOptions returns the filter choices, "All" first
func (uc *DashboardUseCase) StatusOptions() ([]string, error) {
	statuses, err := uc.repo.Statuses()
	if err != nil {
		return nil, err
	}
	return append([]string{entities.StatusAll}, statuses...), nil
}

// Trend returns one parameter over time
func (uc *DashboardUseCase) Trend(parameter string) ([]entities.SeriesPoint, error) {
	if !entities.IsTrendParameter(parameter) {
		return nil, fmt.Errorf("%w: %q", repository.ErrUnknownParameter, parameter)
	}
	return uc.repo.Series(parameter)
}
