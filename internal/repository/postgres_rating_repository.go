package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/sports-oracle/internal/database"
	"github.com/yourusername/sports-oracle/internal/models"
)

// errAlreadySettled aborts the settlement transaction without surfacing an error
var errAlreadySettled = errors.New("already settled")

// PostgresRatingRepository implements RatingRepository for PostgreSQL
type PostgresRatingRepository struct {
	db         *database.DB
	baseRating float64
}

// NewPostgresRatingRepository creates a new rating repository
func NewPostgresRatingRepository(db *database.DB, opts ...Option) RatingRepository {
	o := applyOptions(opts)
	return &PostgresRatingRepository{db: db, baseRating: o.baseRating}
}

// Get retrieves a rating, inserting the base rating for unseen keys. The
// no-op DO UPDATE makes RETURNING yield the existing value on conflict.
func (r *PostgresRatingRepository) Get(ctx context.Context, key string) (float64, error) {
	query := `
		INSERT INTO ratings (key, rating) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET rating = ratings.rating
		RETURNING rating
	`

	var rating float64
	if err := r.db.GetPool().QueryRow(ctx, query, key, r.baseRating).Scan(&rating); err != nil {
		return 0, fmt.Errorf("failed to get rating for %s: %w", key, err)
	}
	return rating, nil
}

// Set overwrites a rating
func (r *PostgresRatingRepository) Set(ctx context.Context, key string, rating float64) error {
	query := `
		INSERT INTO ratings (key, rating, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET rating = EXCLUDED.rating, updated_at = NOW()
	`

	if _, err := r.db.GetPool().Exec(ctx, query, key, rating); err != nil {
		return fmt.Errorf("failed to set rating for %s: %w", key, err)
	}
	return nil
}

// IsSettled checks the settled_results table
func (r *PostgresRatingRepository) IsSettled(ctx context.Context, sport models.Sport, itemKey string) (bool, error) {
	query := "SELECT EXISTS (SELECT 1 FROM settled_results WHERE sport = $1 AND item_key = $2)"

	var exists bool
	if err := r.db.GetPool().QueryRow(ctx, query, string(sport), itemKey).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check settlement: %w", err)
	}
	return exists, nil
}

// ApplySettlement claims the settlement row first so that a concurrent
// duplicate blocks on the unique index and then inserts nothing. Rating rows
// are locked in key order to avoid deadlocks between overlapping pairs.
func (r *PostgresRatingRepository) ApplySettlement(ctx context.Context, s models.Settlement, fn PairedUpdate) (models.RatingPair, models.RatingPair, bool, error) {
	var before, after models.RatingPair

	err := r.db.WithTransaction(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		claim := `
			INSERT INTO settled_results (sport, item_key, home_key, away_key, event_start, settled_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (sport, item_key) DO NOTHING
		`
		settledAt := s.SettledAt
		if settledAt.IsZero() {
			settledAt = time.Now().UTC()
		}
		tag, err := tx.Exec(ctx, claim, string(s.Sport), s.ItemKey, s.HomeKey, s.AwayKey, nullableTime(s.EventStart), settledAt)
		if err != nil {
			return fmt.Errorf("failed to mark settlement: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return errAlreadySettled
		}

		seed := `
			INSERT INTO ratings (key, rating) VALUES ($1, $3), ($2, $3)
			ON CONFLICT (key) DO NOTHING
		`
		if _, err := tx.Exec(ctx, seed, s.HomeKey, s.AwayKey, r.baseRating); err != nil {
			return fmt.Errorf("failed to initialize ratings: %w", err)
		}

		rows, err := tx.Query(ctx,
			"SELECT key, rating FROM ratings WHERE key = ANY($1) ORDER BY key FOR UPDATE",
			[]string{s.HomeKey, s.AwayKey},
		)
		if err != nil {
			return fmt.Errorf("failed to lock ratings: %w", err)
		}
		current := make(map[string]float64, 2)
		for rows.Next() {
			var key string
			var rating float64
			if err := rows.Scan(&key, &rating); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan rating: %w", err)
			}
			current[key] = rating
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to read ratings: %w", err)
		}

		before = models.RatingPair{A: current[s.HomeKey], B: current[s.AwayKey]}
		after.A, after.B = fn(before.A, before.B)

		update := "UPDATE ratings SET rating = $2, updated_at = NOW() WHERE key = $1"
		if _, err := tx.Exec(ctx, update, s.HomeKey, after.A); err != nil {
			return fmt.Errorf("failed to update rating for %s: %w", s.HomeKey, err)
		}
		if _, err := tx.Exec(ctx, update, s.AwayKey, after.B); err != nil {
			return fmt.Errorf("failed to update rating for %s: %w", s.AwayKey, err)
		}
		return nil
	})

	if errors.Is(err, errAlreadySettled) {
		return models.RatingPair{}, models.RatingPair{}, false, nil
	}
	if err != nil {
		return models.RatingPair{}, models.RatingPair{}, false, err
	}
	return before, after, true, nil
}

// LastPlayed returns the latest settled event start before the given time
func (r *PostgresRatingRepository) LastPlayed(ctx context.Context, competitorKey string, before time.Time) (time.Time, bool, error) {
	query := `
		SELECT MAX(event_start) FROM settled_results
		WHERE (home_key = $1 OR away_key = $1) AND event_start < $2
	`

	var last *time.Time
	if err := r.db.GetPool().QueryRow(ctx, query, competitorKey, before).Scan(&last); err != nil {
		return time.Time{}, false, fmt.Errorf("failed to query last result for %s: %w", competitorKey, err)
	}
	if last == nil {
		return time.Time{}, false, nil
	}
	return last.UTC(), true, nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
