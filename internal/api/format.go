package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/abelzeko/aquahealth/internal/entities"
	"github.com/abelzeko/aquahealth/internal/usecases"
)

var tierEmoji = map[entities.ColorTier]string{
	entities.TierGreen:  "🟢",
	entities.TierOrange: "🟠",
	entities.TierRed:    "🔴",
}

// FormatAssessment renders an assessment the way the logbook shows it
func FormatAssessment(a entities.RiskAssessment) string {
	if !a.IsAnomalous() {
		return "✅ Normal\n\nSuggested Action: " + a.Suggestion
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("⚠️ Risk Score: %.2f\n", a.RiskScore))
	b.WriteString(fmt.Sprintf("%s %s %d%%\n\n", tierEmoji[a.ColorTier], gaugeBar(a.Percent()), a.Percent()))
	b.WriteString(fmt.Sprintf("Reason: %s\n\n", a.Reason))
	b.WriteString(fmt.Sprintf("Suggested Action: %s", a.Suggestion))
	return b.String()
}

// gaugeBar is a ten-cell text version of the circular gauge
func gaugeBar(percent int) string {
	filled := percent / 10
	if filled < 0 {
		filled = 0
	}
	if filled > 10 {
		filled = 10
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}

// FormatPost renders one feed post
func FormatPost(item usecases.FeedItem) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("@%s · %s\n", item.User, item.Timestamp))
	b.WriteString(fmt.Sprintf("%s %s\n", item.Message, item.Tag))
	b.WriteString(fmt.Sprintf("📍 %s (%.4f, %.4f)", item.Location, item.Lat, item.Lon))
	if item.ShowImage {
		b.WriteString("\n🖼️ photo attached")
	}
	return b.String()
}

// FormatSummary renders the dashboard headline metrics
func FormatSummary(s entities.DashboardSummary) string {
	var b strings.Builder
	b.WriteString("🌊 AquaHealth Logbook Dashboard\n\n")
	b.WriteString(fmt.Sprintf("📄 Total Entries: %d\n", s.TotalEntries))
	b.WriteString(fmt.Sprintf("🚨 Alerts: %d\n", s.TotalAlerts))
	b.WriteString(fmt.Sprintf("🔥 Critical Alerts: %d\n", s.CriticalAlerts))
	b.WriteString(fmt.Sprintf("⚠️ Avg. Risk Score: %.2f", s.AvgRiskScore))
	if !s.LastUpdate.IsZero() {
		b.WriteString(fmt.Sprintf("\n\n🕒 Last entry: %s", s.LastUpdate.Format("2006-01-02 15:04")))
	}
	return b.String()
}

// FormatEntry renders one logbook row
func FormatEntry(e entities.LogbookEntry) string {
	return fmt.Sprintf("%s · %s · T %.1f°C · S %.1f PSU · DO %.1f ml/L · risk %.2f",
		e.Timestamp.Format("2006-01-02 15:04"), e.AlertStatus, e.Temperature, e.Salinity, e.Oxygen, e.RiskScore)
}

// FormatTrend summarizes a parameter series
func FormatTrend(parameter string, points []entities.SeriesPoint) string {
	if len(points) == 0 {
		return fmt.Sprintf("No %s data in the logbook yet.", parameter)
	}
	lo, hi := points[0], points[0]
	sum := 0.0
	for _, p := range points {
		if p.Value < lo.Value {
			lo = p
		}
		if p.Value > hi.Value {
			hi = p
		}
		sum += p.Value
	}
	last := points[len(points)-1]

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📈 %s over time (%d points)\n", parameterLabel(parameter), len(points)))
	b.WriteString(fmt.Sprintf("Latest: %.2f (%s)\n", last.Value, formatDay(last.Timestamp)))
	b.WriteString(fmt.Sprintf("Min: %.2f (%s)\n", lo.Value, formatDay(lo.Timestamp)))
	b.WriteString(fmt.Sprintf("Max: %.2f (%s)\n", hi.Value, formatDay(hi.Timestamp)))
	b.WriteString(fmt.Sprintf("Mean: %.2f", sum/float64(len(points))))
	return b.String()
}

// parameterLabel turns "risk_score" into "Risk score"
func parameterLabel(parameter string) string {
	label := strings.ReplaceAll(parameter, "_", " ")
	if label == "" {
		return label
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

func formatDay(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatInsight renders one Harbor Helper card
func FormatInsight(in entities.Insight) string {
	return fmt.Sprintf("%s · 📍 %s\n%s", in.Tag, in.Location, in.Insight)
}
