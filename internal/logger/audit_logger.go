// Package logger provides audit logging.
package logger

import (
	"github.com/sirupsen/logrus"
	"github.com/yourusername/sports-oracle/internal/models"
)

// AuditLogger provides dedicated audit trail logging for rating mutations.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogSettlement logs an applied rating update.
func (al *AuditLogger) LogSettlement(change *models.RatingChange) {
	al.WithFields(logrus.Fields{
		"event_type": "settlement",
		"sport":      change.Sport.String(),
		"item_key":   change.ItemKey,
		"a_key":      change.AKey,
		"b_key":      change.BKey,
		"a_before":   change.Before.A,
		"b_before":   change.Before.B,
		"a_after":    change.After.A,
		"b_after":    change.After.B,
		"expected_a": change.ExpectedA,
		"actual_a":   change.ActualA,
		"k_factor":   change.K,
	}).Info("Result settled")
}

// LogDuplicateSettlement logs an ignored repeat settlement.
func (al *AuditLogger) LogDuplicateSettlement(sport models.Sport, itemKey string) {
	al.WithFields(logrus.Fields{
		"event_type": "duplicate_settlement",
		"sport":      sport.String(),
		"item_key":   itemKey,
	}).Info("Result already settled, ignoring")
}

// LogManualRatingChange logs a direct overwrite of a rating.
func (al *AuditLogger) LogManualRatingChange(key string, oldValue, newValue float64, changedBy string) {
	al.WithFields(logrus.Fields{
		"event_type": "rating_override",
		"key":        key,
		"old_value":  oldValue,
		"new_value":  newValue,
		"changed_by": changedBy,
	}).Warn("Rating overwritten")
}
