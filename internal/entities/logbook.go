package entities

import "time"

// Alert statuses recorded in the logbook history
const (
	AlertNormal          = "Normal"
	AlertEarlyWarning    = "Early Warning"
	AlertAnomalyDetected = "Anomaly Detected"
	AlertCritical        = "Critical Alert"
)

// StatusAll disables status filtering
const StatusAll = "All"

// LogbookEntry is a historical, already-scored logbook row shown on the dashboard
type LogbookEntry struct {
	ID          int64     `csv:"-" json:"id"`
	Timestamp   time.Time `csv:"-" json:"timestamp"`
	RawTime     string    `csv:"timestamp" json:"-"`
	Temperature float64   `csv:"temperature" json:"temperature"`
	Salinity    float64   `csv:"salinity" json:"salinity"`
	Oxygen      float64   `csv:"oxygen" json:"oxygen"`
	RiskScore   float64   `csv:"risk_score" json:"risk_score"`
	AlertStatus string    `csv:"alert_status" json:"alert_status"`
}

// DashboardSummary holds the headline metrics of the logbook dashboard
type DashboardSummary struct {
	TotalEntries   int       `json:"total_entries"`
	TotalAlerts    int       `json:"total_alerts"`
	CriticalAlerts int       `json:"critical_alerts"`
	AvgRiskScore   float64   `json:"avg_risk_score"`
	LastUpdate     time.Time `json:"last_update"`
}

// SeriesPoint is one value of a parameter trend
type SeriesPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// Dashboard parameters that can be plotted over time
const (
	ParamTemperature = "temperature"
	ParamSalinity    = "salinity"
	ParamOxygen      = "oxygen"
	ParamRiskScore   = "risk_score"
)

// IsTrendParameter reports whether name can be used as a trend series
func IsTrendParameter(name string) bool {
	switch name {
	case ParamTemperature, ParamSalinity, ParamOxygen, ParamRiskScore:
		return true
	}
	return false
}
