// Package service exposes the calling surface used by the CLI and the
// scheduler: today's slates, result settlement and rating lookups.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/sports-oracle/internal/datasource"
	"github.com/yourusername/sports-oracle/internal/metrics"
	"github.com/yourusername/sports-oracle/internal/models"
	"github.com/yourusername/sports-oracle/internal/rating"
	"github.com/yourusername/sports-oracle/internal/slate"
)

// Oracle ties the slate assembler and the rating engine together
type Oracle struct {
	assembler *slate.Assembler
	engine    *rating.Engine
	schedule  datasource.ScheduleSource
	logger    *logrus.Logger
	clock     func() time.Time
}

// Option configures an Oracle
type Option func(*Oracle)

// WithClock overrides the time source
func WithClock(clock func() time.Time) Option {
	return func(o *Oracle) {
		o.clock = clock
	}
}

// NewOracle creates the service
func NewOracle(assembler *slate.Assembler, engine *rating.Engine, schedule datasource.ScheduleSource, logger *logrus.Logger, opts ...Option) *Oracle {
	o := &Oracle{
		assembler: assembler,
		engine:    engine,
		schedule:  schedule,
		logger:    logger,
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// TodayPredictions renders today's block for one sport
func (o *Oracle) TodayPredictions(ctx context.Context, sport models.Sport, loc *time.Location) (string, error) {
	if !sport.Valid() {
		return "", fmt.Errorf("%w: %q", models.ErrUnknownSport, sport)
	}
	return o.assembler.Block(ctx, sport, o.clock(), loc)
}

// TodayAll renders one block per sport. Without schedule credentials a
// single unavailable placeholder is returned.
func (o *Oracle) TodayAll(ctx context.Context, loc *time.Location) ([]string, error) {
	return o.todayAll(ctx, o.clock(), loc)
}

func (o *Oracle) todayAll(ctx context.Context, now time.Time, loc *time.Location) ([]string, error) {
	if !o.schedule.Configured() {
		return []string{slate.UnavailableText}, nil
	}

	blocks := make([]string, 0, len(models.AllSports))
	for _, sport := range models.AllSports {
		block, err := o.assembler.Block(ctx, sport, now, loc)
		if err != nil {
			return nil, fmt.Errorf("failed to assemble %s slate: %w", sport, err)
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

// TodayPredictionList returns today's raw predictions for one sport
func (o *Oracle) TodayPredictionList(ctx context.Context, sport models.Sport, loc *time.Location) ([]models.Prediction, error) {
	if !sport.Valid() {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownSport, sport)
	}
	return o.assembler.Predictions(ctx, sport, o.clock(), loc)
}

// DailyPost returns the messages of the scheduled post: a dated header
// followed by one block per sport
func (o *Oracle) DailyPost(ctx context.Context, loc *time.Location) ([]string, error) {
	if !o.schedule.Configured() {
		return []string{slate.UnavailableText}, nil
	}

	now := o.clock()
	blocks, err := o.todayAll(ctx, now, loc)
	if err != nil {
		return nil, err
	}
	header := fmt.Sprintf("📅 Today's slate (%s)", now.In(loc).Format("Jan 02"))
	return append([]string{header}, blocks...), nil
}

// SettleResult applies a final score. The home side is competitor A.
func (o *Oracle) SettleResult(ctx context.Context, sport models.Sport, itemKey, home, away string, homeScore, awayScore float64) (*models.RatingChange, error) {
	return o.settle(ctx, models.Result{
		Sport:   sport,
		ItemKey: itemKey,
		A:       home,
		B:       away,
		ScoreA:  homeScore,
		ScoreB:  awayScore,
	})
}

func (o *Oracle) settle(ctx context.Context, result models.Result) (*models.RatingChange, error) {
	change, err := o.engine.ApplyResult(ctx, result)
	if err != nil {
		metrics.RecordSettlement(result.Sport.String(), metrics.SettlementFailed)
		return nil, err
	}

	outcome := metrics.SettlementApplied
	if !change.Applied {
		outcome = metrics.SettlementDuplicate
	}
	metrics.RecordSettlement(result.Sport.String(), outcome)
	return change, nil
}

// AutoSettle settles every completed event reported in the last daysFrom
// days. A failed fetch for one sport is logged and the others continue;
// storage failures abort the pass.
func (o *Oracle) AutoSettle(ctx context.Context, daysFrom int) (SettleStats, error) {
	stats := SettleStats{StartTime: time.Now()}

	if !o.schedule.Configured() {
		stats.finish()
		return stats, nil
	}

	for _, sport := range models.AllSports {
		completed, err := o.schedule.Scores(ctx, sport, daysFrom)
		if err != nil {
			stats.Errors++
			o.logger.WithError(err).WithField("sport", sport.String()).Warn("Failed to fetch scores")
			continue
		}

		stats.Completed += len(completed)
		for _, ev := range completed {
			change, err := o.settle(ctx, models.Result{
				Sport:      sport,
				ItemKey:    ev.ID,
				A:          ev.Home,
				B:          ev.Away,
				ScoreA:     ev.HomeScore,
				ScoreB:     ev.AwayScore,
				EventStart: ev.Start,
			})
			if errors.Is(err, models.ErrInvalidResult) || errors.Is(err, models.ErrMissingCompetitor) {
				stats.Errors++
				o.logger.WithError(err).WithField("item_key", ev.ID).Warn("Skipping malformed result")
				continue
			}
			if err != nil {
				stats.Errors++
				stats.finish()
				return stats, err
			}
			if change.Applied {
				stats.Applied++
			} else {
				stats.Duplicates++
			}
		}
	}

	stats.finish()
	o.logger.WithField("stats", stats.String()).Info("Auto-settle pass completed")
	return stats, nil
}

// Rating returns a competitor's current rating
func (o *Oracle) Rating(ctx context.Context, sport models.Sport, name string) (float64, error) {
	return o.engine.Rating(ctx, sport, name)
}
