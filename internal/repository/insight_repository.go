package repository

import (
	"fmt"

	"github.com/abelzeko/aquahealth/internal/entities"
	"go.uber.org/zap"
)

// InsightRepository defines persistence for Harbor Helper insights
type InsightRepository interface {
	Load() ([]entities.Insight, error)
	Save(insights []entities.Insight) error
}

// CSVInsightRepository stores insights as the feed columns plus an insight column
type CSVInsightRepository struct {
	path string
}

// NewCSVInsightRepository creates an insight repository backed by the CSV file at path
func NewCSVInsightRepository(path string) *CSVInsightRepository {
	return &CSVInsightRepository{path: path}
}

// Load reads every insight row, including rows still waiting for an explanation
func (r *CSVInsightRepository) Load() ([]entities.Insight, error) {
	insights := []entities.Insight{}
	if err := readCSVFile(r.path, &insights); err != nil {
		return nil, fmt.Errorf("failed to load insights: %w", err)
	}
	return insights, nil
}

// Save replaces the insight file
func (r *CSVInsightRepository) Save(insights []entities.Insight) error {
	if err := writeCSVFile(r.path, &insights); err != nil {
		return fmt.Errorf("failed to save insights: %w", err)
	}
	zap.S().Infof("Saved %d insight rows to %s", len(insights), r.path)
	return nil
}
