package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/abelzeko/aquahealth/internal/entities"
	"go.uber.org/zap"
)

// timestampLayouts are tried in order when reading logbook and database timestamps
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseTimestamp accepts the timestamp formats found in exported logbooks.
// Values without a zone are read as UTC.
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("failed to parse timestamp '%s': %v", s, lastErr)
}

// LogbookSource provides the historical logbook export
type LogbookSource interface {
	ReadEntries() ([]entities.LogbookEntry, error)
}

// CSVLogbookSource reads the logbook export CSV
type CSVLogbookSource struct {
	path string
}

// NewCSVLogbookSource creates a source for the CSV file at path
func NewCSVLogbookSource(path string) *CSVLogbookSource {
	return &CSVLogbookSource{path: path}
}

// ReadEntries decodes the export; rows with an unreadable timestamp are skipped
func (s *CSVLogbookSource) ReadEntries() ([]entities.LogbookEntry, error) {
	zap.S().Infof("Reading logbook export %s", s.path)
	var rows []entities.LogbookEntry
	if err := readCSVFile(s.path, &rows); err != nil {
		return nil, fmt.Errorf("failed to read logbook export: %w", err)
	}

	entries := make([]entities.LogbookEntry, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		ts, err := parseTimestamp(row.RawTime)
		if err != nil {
			zap.S().Warnf("Skipping logbook row: %v", err)
			skipped++
			continue
		}
		row.Timestamp = ts
		entries = append(entries, row)
	}

	zap.S().Infof("Read %d logbook entries, skipped %d", len(entries), skipped)
	return entries, nil
}
