package repository

import (
	"context"
	"time"

	"github.com/yourusername/sports-oracle/internal/models"
)

// PairedUpdate computes new ratings for the two competitors of a settlement
// from their current ratings. It runs inside the store's atomic unit and
// must not block or perform I/O.
type PairedUpdate func(ra, rb float64) (float64, float64)

// RatingRepository defines durable rating storage.
type RatingRepository interface {
	// Get returns the rating for key, inserting the base rating first when
	// the key has never been seen. Insert-if-absent is a single atomic step.
	Get(ctx context.Context, key string) (float64, error)

	// Set overwrites the rating for key, creating the row if needed.
	Set(ctx context.Context, key string, rating float64) error

	// IsSettled reports whether (sport, itemKey) has already been applied.
	IsSettled(ctx context.Context, sport models.Sport, itemKey string) (bool, error)

	// ApplySettlement marks the settlement and applies fn to the ratings of
	// HomeKey and AwayKey as one atomic unit. When the pair is already
	// settled nothing is written and applied is false. The returned pairs
	// are the ratings before and after the update.
	ApplySettlement(ctx context.Context, s models.Settlement, fn PairedUpdate) (before, after models.RatingPair, applied bool, err error)

	// LastPlayed returns the start of the competitor's most recent settled
	// event strictly before the given time.
	LastPlayed(ctx context.Context, competitorKey string, before time.Time) (time.Time, bool, error)
}
