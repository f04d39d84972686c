// Package logger provides slate-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
	"github.com/yourusername/sports-oracle/internal/models"
)

// SlateLogger provides dedicated logging for slate assembly.
type SlateLogger struct {
	*logrus.Entry
}

// NewSlateLogger creates a new slate logger.
func NewSlateLogger(baseLogger *logrus.Logger) *SlateLogger {
	return &SlateLogger{
		Entry: baseLogger.WithField("component", "slate"),
	}
}

// LogSlateAssembled logs a completed sport block.
func (sl *SlateLogger) LogSlateAssembled(runID string, sport models.Sport, fetched, today int, durationMs float64) {
	sl.WithFields(logrus.Fields{
		"run_id":      runID,
		"sport":       sport.String(),
		"fetched":     fetched,
		"today":       today,
		"duration_ms": durationMs,
	}).Info("Slate assembled")
}

// LogPrediction logs the inputs and output of one event prediction.
func (sl *SlateLogger) LogPrediction(runID string, p models.Prediction, f models.Features) {
	fields := logrus.Fields{
		"run_id":           runID,
		"sport":            p.Event.Sport.String(),
		"event_id":         p.Event.ID,
		"home":             p.Event.Home,
		"away":             p.Event.Away,
		"home_rating":      p.HomeRating,
		"away_rating":      p.AwayRating,
		"home_delta":       p.HomeDelta,
		"home_probability": p.HomeProbability,
		"pick":             p.Pick,
		"venue":            f.Venue,
		"park_factor":      f.ParkFactor,
		"outdoor":          f.Outdoor,
		"rest_home":        f.RestDaysHome,
		"rest_away":        f.RestDaysAway,
	}
	if f.TemperatureC != nil {
		fields["temperature_c"] = *f.TemperatureC
	}
	if f.WindKmh != nil {
		fields["wind_kmh"] = *f.WindKmh
	}
	if f.PrecipitationPct != nil {
		fields["precipitation_pct"] = *f.PrecipitationPct
	}
	sl.WithFields(fields).Debug("Event predicted")
}

// LogEventSkipped logs an event dropped from the slate.
func (sl *SlateLogger) LogEventSkipped(sport models.Sport, eventID, reason string) {
	sl.WithFields(logrus.Fields{
		"sport":    sport.String(),
		"event_id": eventID,
		"reason":   reason,
	}).Debug("Event skipped")
}
