package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/abelzeko/aquahealth/internal/entities"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// LogbookRepository defines the interface for the dashboard's logbook index
type LogbookRepository interface {
	ReplaceEntries(entries []entities.LogbookEntry) error
	Summary() (entities.DashboardSummary, error)
	ListEntries(status string) ([]entities.LogbookEntry, error)
	Statuses() ([]string, error)
	Series(parameter string) ([]entities.SeriesPoint, error)
	GetLastUpdateTime() (time.Time, error)
	Close() error
}

// ErrUnknownParameter is returned for trend parameters that are not logbook columns
var ErrUnknownParameter = errors.New("unknown trend parameter")

// seriesColumns whitelists the columns that can be plotted
var seriesColumns = map[string]string{
	entities.ParamTemperature: "temperature",
	entities.ParamSalinity:    "salinity",
	entities.ParamOxygen:      "oxygen",
	entities.ParamRiskScore:   "risk_score",
}

// SQLiteLogbookRepository implements LogbookRepository using SQLite
type SQLiteLogbookRepository struct {
	db     *sql.DB
	DBPath string
}

// NewSQLiteLogbookRepository creates and initializes a new SQLite repository
func NewSQLiteLogbookRepository(dbPath string) (*SQLiteLogbookRepository, error) {
	if dbPath == "" {
		dbPath = filepath.Join("data", "logbook.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	zap.S().Infof("Opening database at %s", dbPath)
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS logbook_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		temperature REAL NOT NULL,
		salinity REAL NOT NULL,
		oxygen REAL NOT NULL,
		risk_score REAL NOT NULL,
		alert_status TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_logbook_timestamp ON logbook_entries(timestamp);
	CREATE INDEX IF NOT EXISTS idx_logbook_status ON logbook_entries(alert_status);`

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &SQLiteLogbookRepository{
		db:     db,
		DBPath: dbPath,
	}, nil
}

// Close closes the database connection
func (r *SQLiteLogbookRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ReplaceEntries swaps the indexed logbook for entries in one transaction
func (r *SQLiteLogbookRepository) ReplaceEntries(entries []entities.LogbookEntry) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM logbook_entries`); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to clear logbook index: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO logbook_entries(timestamp, temperature, salinity, oxygen, risk_score, alert_status)
		VALUES(?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		_, err := stmt.Exec(
			e.Timestamp.UTC(),
			e.Temperature,
			e.Salinity,
			e.Oxygen,
			e.RiskScore,
			e.AlertStatus,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert logbook entry at %s: %w", e.Timestamp.Format(time.RFC3339), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	zap.S().Infof("Successfully indexed %d logbook entries", len(entries))
	return nil
}

// Summary computes the dashboard headline metrics
func (r *SQLiteLogbookRepository) Summary() (entities.DashboardSummary, error) {
	var s entities.DashboardSummary
	err := r.db.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN alert_status != ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN alert_status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(risk_score), 0)
		FROM logbook_entries`,
		entities.AlertNormal, entities.AlertCritical,
	).Scan(&s.TotalEntries, &s.TotalAlerts, &s.CriticalAlerts, &s.AvgRiskScore)
	if err != nil {
		return s, fmt.Errorf("failed to compute dashboard summary: %w", err)
	}
	s.AvgRiskScore = math.Round(s.AvgRiskScore*100) / 100

	if s.LastUpdate, err = r.GetLastUpdateTime(); err != nil {
		return s, err
	}
	return s, nil
}

// ListEntries returns logbook entries in time order, optionally filtered by alert status
func (r *SQLiteLogbookRepository) ListEntries(status string) ([]entities.LogbookEntry, error) {
	query := `
		SELECT id, timestamp, temperature, salinity, oxygen, risk_score, alert_status
		FROM logbook_entries`
	var args []interface{}
	if status != "" && status != entities.StatusAll {
		query += ` WHERE alert_status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY timestamp, id`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query logbook entries: %w", err)
	}
	defer rows.Close()

	var result []entities.LogbookEntry
	for rows.Next() {
		var e entities.LogbookEntry
		if err := rows.Scan(
			&e.ID,
			&e.Timestamp,
			&e.Temperature,
			&e.Salinity,
			&e.Oxygen,
			&e.RiskScore,
			&e.AlertStatus,
		); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}

	return result, nil
}

// Statuses returns the distinct alert statuses in order of first appearance
func (r *SQLiteLogbookRepository) Statuses() ([]string, error) {
	rows, err := r.db.Query(`
		SELECT alert_status
		FROM logbook_entries
		GROUP BY alert_status
		ORDER BY MIN(id)`)
	if err != nil {
		return nil, fmt.Errorf("failed to query alert statuses: %w", err)
	}
	defer rows.Close()

	var statuses []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		statuses = append(statuses, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}

	return statuses, nil
}

// Series returns one parameter over time
func (r *SQLiteLogbookRepository) Series(parameter string) ([]entities.SeriesPoint, error) {
	column, ok := seriesColumns[parameter]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParameter, parameter)
	}

	rows, err := r.db.Query(`SELECT timestamp, ` + column + ` FROM logbook_entries ORDER BY timestamp, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s series: %w", parameter, err)
	}
	defer rows.Close()

	var points []entities.SeriesPoint
	for rows.Next() {
		var p entities.SeriesPoint
		if err := rows.Scan(&p.Timestamp, &p.Value); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}

	return points, nil
}

// GetLastUpdateTime returns the most recent logbook timestamp
func (r *SQLiteLogbookRepository) GetLastUpdateTime() (time.Time, error) {
	var timestampStr sql.NullString
	err := r.db.QueryRow("SELECT MAX(timestamp) FROM logbook_entries").Scan(&timestampStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("failed to get last update time: %w", err)
	}

	if !timestampStr.Valid || timestampStr.String == "" {
		return time.Time{}, nil
	}

	return parseTimestamp(timestampStr.String)
}
