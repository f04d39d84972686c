// Package logger provides logging for upstream data sources.
package logger

import (
	"github.com/sirupsen/logrus"
)

// SourceLogger provides dedicated logging for schedule and weather fetches.
type SourceLogger struct {
	*logrus.Entry
}

// NewSourceLogger creates a new source logger.
func NewSourceLogger(baseLogger *logrus.Logger, source string) *SourceLogger {
	return &SourceLogger{
		Entry: baseLogger.WithFields(logrus.Fields{
			"component": "datasource",
			"source":    source,
		}),
	}
}

// LogFetch logs a completed upstream request.
func (sl *SourceLogger) LogFetch(resource string, items int, cacheHit bool, latencyMs float64) {
	sl.WithFields(logrus.Fields{
		"resource":   resource,
		"items":      items,
		"cache_hit":  cacheHit,
		"latency_ms": latencyMs,
	}).Debug("Upstream fetch completed")
}

// LogFetchFailure logs a failed upstream request that was degraded.
func (sl *SourceLogger) LogFetchFailure(resource string, err error) {
	sl.WithError(err).WithField("resource", resource).Warn("Upstream fetch failed, degrading")
}
