package repository

import (
	"context"
	"sync"
	"time"

	"github.com/yourusername/sports-oracle/internal/models"
)

type settledKey struct {
	sport   models.Sport
	itemKey string
}

// MemoryRatingRepository implements RatingRepository in process memory. It
// is the development backend and the fake used by service tests.
type MemoryRatingRepository struct {
	mu         sync.Mutex
	ratings    map[string]float64
	settled    map[settledKey]models.Settlement
	baseRating float64
}

// NewMemoryRatingRepository creates an empty in-memory store
func NewMemoryRatingRepository(opts ...Option) *MemoryRatingRepository {
	o := applyOptions(opts)
	return &MemoryRatingRepository{
		ratings:    make(map[string]float64),
		settled:    make(map[settledKey]models.Settlement),
		baseRating: o.baseRating,
	}
}

// Get returns the rating, initializing unseen keys
func (r *MemoryRatingRepository) Get(ctx context.Context, key string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getLocked(key), nil
}

func (r *MemoryRatingRepository) getLocked(key string) float64 {
	if rating, ok := r.ratings[key]; ok {
		return rating
	}
	r.ratings[key] = r.baseRating
	return r.baseRating
}

// Set overwrites a rating
func (r *MemoryRatingRepository) Set(ctx context.Context, key string, rating float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ratings[key] = rating
	return nil
}

// IsSettled reports whether the pair has been applied
func (r *MemoryRatingRepository) IsSettled(ctx context.Context, sport models.Sport, itemKey string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.settled[settledKey{sport, itemKey}]
	return ok, nil
}

// ApplySettlement applies fn under the store lock
func (r *MemoryRatingRepository) ApplySettlement(ctx context.Context, s models.Settlement, fn PairedUpdate) (models.RatingPair, models.RatingPair, bool, error) {
	if err := ctx.Err(); err != nil {
		return models.RatingPair{}, models.RatingPair{}, false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	k := settledKey{s.Sport, s.ItemKey}
	if _, ok := r.settled[k]; ok {
		return models.RatingPair{}, models.RatingPair{}, false, nil
	}

	before := models.RatingPair{A: r.getLocked(s.HomeKey), B: r.getLocked(s.AwayKey)}
	a, b := fn(before.A, before.B)
	r.ratings[s.HomeKey] = a
	r.ratings[s.AwayKey] = b

	if s.SettledAt.IsZero() {
		s.SettledAt = time.Now().UTC()
	}
	r.settled[k] = s

	return before, models.RatingPair{A: a, B: b}, true, nil
}

// LastPlayed scans settled results for the competitor
func (r *MemoryRatingRepository) LastPlayed(ctx context.Context, competitorKey string, before time.Time) (time.Time, bool, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var last time.Time
	found := false
	for _, s := range r.settled {
		if s.HomeKey != competitorKey && s.AwayKey != competitorKey {
			continue
		}
		if s.EventStart.IsZero() || !s.EventStart.Before(before) {
			continue
		}
		if !found || s.EventStart.After(last) {
			last = s.EventStart
			found = true
		}
	}
	return last, found, nil
}
