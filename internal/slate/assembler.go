package slate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/sports-oracle/internal/adjust"
	"github.com/yourusername/sports-oracle/internal/datasource"
	"github.com/yourusername/sports-oracle/internal/logger"
	"github.com/yourusername/sports-oracle/internal/metrics"
	"github.com/yourusername/sports-oracle/internal/models"
	"github.com/yourusername/sports-oracle/internal/prediction"
)

// FeatureSource derives contextual features for an event
type FeatureSource interface {
	Build(ctx context.Context, event models.Event) models.Features
}

// RatingReader reads ratings, initializing unseen competitors
type RatingReader interface {
	Get(ctx context.Context, key string) (float64, error)
}

// Assembler produces per-sport blocks for the current day
type Assembler struct {
	schedule datasource.ScheduleSource
	features FeatureSource
	ratings  RatingReader
	logger   *logrus.Logger
	slateLog *logger.SlateLogger
}

// NewAssembler creates a slate assembler
func NewAssembler(schedule datasource.ScheduleSource, features FeatureSource, ratings RatingReader, log *logrus.Logger) *Assembler {
	return &Assembler{
		schedule: schedule,
		features: features,
		ratings:  ratings,
		logger:   log,
		slateLog: logger.NewSlateLogger(log),
	}
}

// Block renders today's block for one sport. Schedule problems are rendered
// as placeholders; only rating storage failures are returned as errors.
func (a *Assembler) Block(ctx context.Context, sport models.Sport, now time.Time, loc *time.Location) (string, error) {
	runID := uuid.NewString()
	started := time.Now()

	if !a.schedule.Configured() {
		return UnavailableText, nil
	}

	items, err := a.schedule.Events(ctx, sport)
	if err != nil {
		a.logger.WithError(err).WithFields(logrus.Fields{
			"run_id": runID,
			"sport":  sport.String(),
		}).Error("Schedule fetch failed")
		return FailureText(sport), nil
	}

	events := filterToday(items, now, loc, func(item models.ScheduledEvent, reason string) {
		a.slateLog.LogEventSkipped(sport, item.ID, reason)
	})
	metrics.UpdateSlateEvents(sport.String(), len(events))

	adjuster := adjust.For(sport)
	lines := make([]string, 0, len(events))
	for _, event := range events {
		p, f, err := a.predict(ctx, adjuster, event)
		if err != nil {
			return "", err
		}
		a.slateLog.LogPrediction(runID, p, f)
		metrics.RecordPrediction(sport.String())
		lines = append(lines, RenderLine(p, f.Venue, loc))
	}

	a.slateLog.LogSlateAssembled(runID, sport, len(items), len(events), float64(time.Since(started).Milliseconds()))
	return RenderBlock(sport, lines), nil
}

// Predictions returns today's predictions for one sport without rendering
func (a *Assembler) Predictions(ctx context.Context, sport models.Sport, now time.Time, loc *time.Location) ([]models.Prediction, error) {
	items, err := a.schedule.Events(ctx, sport)
	if err != nil {
		return nil, err
	}

	adjuster := adjust.For(sport)
	events := FilterToday(items, now, loc)
	out := make([]models.Prediction, 0, len(events))
	for _, event := range events {
		p, _, err := a.predict(ctx, adjuster, event)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (a *Assembler) predict(ctx context.Context, adjuster adjust.Adjuster, event models.Event) (models.Prediction, models.Features, error) {
	f := a.features.Build(ctx, event)
	delta := adjuster.Adjust(event, f)

	home, err := a.ratings.Get(ctx, event.HomeKey())
	if err != nil {
		return models.Prediction{}, f, fmt.Errorf("failed to read rating for %s: %w", event.Home, err)
	}
	away, err := a.ratings.Get(ctx, event.AwayKey())
	if err != nil {
		return models.Prediction{}, f, fmt.Errorf("failed to read rating for %s: %w", event.Away, err)
	}

	return prediction.Predict(event, home, away, delta), f, nil
}
