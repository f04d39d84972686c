package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/yourusername/sports-oracle/internal/database"
	"github.com/yourusername/sports-oracle/internal/models"
)

// SQLiteRatingRepository implements RatingRepository on a local SQLite file
type SQLiteRatingRepository struct {
	db         *database.SQLiteDB
	baseRating float64
}

// NewSQLiteRatingRepository creates a new rating repository
func NewSQLiteRatingRepository(db *database.SQLiteDB, opts ...Option) RatingRepository {
	o := applyOptions(opts)
	return &SQLiteRatingRepository{db: db, baseRating: o.baseRating}
}

// Get retrieves a rating, inserting the base rating for unseen keys
func (r *SQLiteRatingRepository) Get(ctx context.Context, key string) (float64, error) {
	query := `
		INSERT INTO ratings (key, rating) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET rating = ratings.rating
		RETURNING rating
	`

	var rating float64
	if err := r.db.Conn().QueryRowContext(ctx, query, key, r.baseRating).Scan(&rating); err != nil {
		return 0, fmt.Errorf("failed to get rating for %s: %w", key, err)
	}
	return rating, nil
}

// Set overwrites a rating
func (r *SQLiteRatingRepository) Set(ctx context.Context, key string, rating float64) error {
	query := `
		INSERT INTO ratings (key, rating, updated_at) VALUES (?, ?, strftime('%s','now'))
		ON CONFLICT (key) DO UPDATE SET rating = excluded.rating, updated_at = excluded.updated_at
	`

	if _, err := r.db.Conn().ExecContext(ctx, query, key, rating); err != nil {
		return fmt.Errorf("failed to set rating for %s: %w", key, err)
	}
	return nil
}

// IsSettled checks the settled_results table
func (r *SQLiteRatingRepository) IsSettled(ctx context.Context, sport models.Sport, itemKey string) (bool, error) {
	query := "SELECT EXISTS (SELECT 1 FROM settled_results WHERE sport = ? AND item_key = ?)"

	var exists bool
	if err := r.db.Conn().QueryRowContext(ctx, query, string(sport), itemKey).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check settlement: %w", err)
	}
	return exists, nil
}

// ApplySettlement runs the claim and both updates in one transaction. The
// handle has a single connection, so transactions never interleave.
func (r *SQLiteRatingRepository) ApplySettlement(ctx context.Context, s models.Settlement, fn PairedUpdate) (models.RatingPair, models.RatingPair, bool, error) {
	var before, after models.RatingPair

	err := r.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		settledAt := s.SettledAt
		if settledAt.IsZero() {
			settledAt = time.Now().UTC()
		}
		res, err := tx.ExecContext(ctx, `
			INSERT INTO settled_results (sport, item_key, home_key, away_key, event_start, settled_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (sport, item_key) DO NOTHING
		`, string(s.Sport), s.ItemKey, s.HomeKey, s.AwayKey, unixMilliOrNull(s.EventStart), settledAt.Unix())
		if err != nil {
			return fmt.Errorf("failed to mark settlement: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to mark settlement: %w", err)
		}
		if affected == 0 {
			return errAlreadySettled
		}

		if before.A, err = getTx(ctx, tx, s.HomeKey, r.baseRating); err != nil {
			return err
		}
		if before.B, err = getTx(ctx, tx, s.AwayKey, r.baseRating); err != nil {
			return err
		}

		after.A, after.B = fn(before.A, before.B)

		update := "UPDATE ratings SET rating = ?, updated_at = strftime('%s','now') WHERE key = ?"
		if _, err := tx.ExecContext(ctx, update, after.A, s.HomeKey); err != nil {
			return fmt.Errorf("failed to update rating for %s: %w", s.HomeKey, err)
		}
		if _, err := tx.ExecContext(ctx, update, after.B, s.AwayKey); err != nil {
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

func getTx(ctx context.Context, tx *sql.Tx, key string, base float64) (float64, error) {
	var rating float64
	err := tx.QueryRowContext(ctx, `
		INSERT INTO ratings (key, rating) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET rating = ratings.rating
		RETURNING rating
	`, key, base).Scan(&rating)
	if err != nil {
		return 0, fmt.Errorf("failed to get rating for %s: %w", key, err)
	}
	return rating, nil
}

// LastPlayed returns the latest settled event start before the given time
func (r *SQLiteRatingRepository) LastPlayed(ctx context.Context, competitorKey string, before time.Time) (time.Time, bool, error) {
	query := `
		SELECT MAX(event_start) FROM settled_results
		WHERE (home_key = ? OR away_key = ?) AND event_start IS NOT NULL AND event_start < ?
	`

	var last sql.NullInt64
	if err := r.db.Conn().QueryRowContext(ctx, query, competitorKey, competitorKey, before.UnixMilli()).Scan(&last); err != nil {
		return time.Time{}, false, fmt.Errorf("failed to query last result for %s: %w", competitorKey, err)
	}
	if !last.Valid {
		return time.Time{}, false, nil
	}
	return time.UnixMilli(last.Int64).UTC(), true, nil
}

// event_start is stored in Unix milliseconds
func unixMilliOrNull(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.UnixMilli()
}
