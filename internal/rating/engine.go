package rating

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/sports-oracle/internal/logger"
	"github.com/yourusername/sports-oracle/internal/models"
	"github.com/yourusername/sports-oracle/internal/repository"
)

// Engine applies settled results to stored ratings
type Engine struct {
	repo    repository.RatingRepository
	kFactor float64
	logger  *logrus.Logger
	audit   *logger.AuditLogger
}

// NewEngine creates a rating engine. A non-positive or non-finite kFactor
// falls back to the default.
func NewEngine(repo repository.RatingRepository, kFactor float64, log *logrus.Logger) *Engine {
	if kFactor <= 0 || !models.IsFinite(kFactor) {
		kFactor = models.DefaultKFactor
	}
	return &Engine{
		repo:    repo,
		kFactor: kFactor,
		logger:  log,
		audit:   logger.NewAuditLogger(log),
	}
}

// KFactor returns the default K used when a result carries none
func (e *Engine) KFactor() float64 {
	return e.kFactor
}

// ApplyResult performs the paired update for a final outcome. A result whose
// (sport, item key) was already settled leaves ratings untouched and returns
// a change with Applied set to false.
func (e *Engine) ApplyResult(ctx context.Context, r models.Result) (*models.RatingChange, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	k := r.K
	if k == 0 {
		k = e.kFactor
	}

	change := &models.RatingChange{
		Sport:   r.Sport,
		ItemKey: r.ItemKey,
		AKey:    r.Sport.CompetitorKey(r.A),
		BKey:    r.Sport.CompetitorKey(r.B),
		ActualA: ActualScore(r.ScoreA, r.ScoreB),
		K:       k,
	}

	settlement := models.Settlement{
		Sport:      r.Sport,
		ItemKey:    r.ItemKey,
		HomeKey:    change.AKey,
		AwayKey:    change.BKey,
		EventStart: r.EventStart,
		SettledAt:  time.Now().UTC(),
	}

	before, after, applied, err := e.repo.ApplySettlement(ctx, settlement, func(ra, rb float64) (float64, float64) {
		change.ExpectedA = ExpectedScore(ra, rb)
		delta := Delta(k, ra, rb, change.ActualA)
		return ra + delta, rb - delta
	})
	if err != nil {
		return nil, fmt.Errorf("failed to settle %s %s: %w", r.Sport, r.ItemKey, err)
	}

	if !applied {
		e.audit.LogDuplicateSettlement(r.Sport, r.ItemKey)
		return e.currentRatings(ctx, change)
	}

	change.Applied = true
	change.Before = before
	change.After = after
	e.audit.LogSettlement(change)
	return change, nil
}

// currentRatings fills a duplicate change with the stored ratings
func (e *Engine) currentRatings(ctx context.Context, change *models.RatingChange) (*models.RatingChange, error) {
	a, err := e.repo.Get(ctx, change.AKey)
	if err != nil {
		return nil, err
	}
	b, err := e.repo.Get(ctx, change.BKey)
	if err != nil {
		return nil, err
	}
	change.Before = models.RatingPair{A: a, B: b}
	change.After = change.Before
	change.ExpectedA = ExpectedScore(a, b)
	return change, nil
}

// Rating returns a competitor's rating, initializing it when unseen
func (e *Engine) Rating(ctx context.Context, sport models.Sport, name string) (float64, error) {
	if !sport.Valid() {
		return 0, fmt.Errorf("%w: %q", models.ErrUnknownSport, sport)
	}
	if name == "" {
		return 0, models.ErrMissingCompetitor
	}
	r, err := e.repo.Get(ctx, sport.CompetitorKey(name))
	if err != nil {
		return 0, fmt.Errorf("failed to read rating: %w", err)
	}
	return r, nil
}

// SetRating overwrites a rating and records who changed it
func (e *Engine) SetRating(ctx context.Context, sport models.Sport, name string, value float64, changedBy string) error {
	if value <= 0 || !models.IsFinite(value) {
		return fmt.Errorf("%w: %v", models.ErrInvalidRating, value)
	}
	old, err := e.Rating(ctx, sport, name)
	if err != nil {
		return err
	}
	key := sport.CompetitorKey(name)
	if err := e.repo.Set(ctx, key, value); err != nil {
		return fmt.Errorf("failed to write rating: %w", err)
	}
	e.audit.LogManualRatingChange(key, old, value, changedBy)
	return nil
}
