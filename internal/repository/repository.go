package repository

import (
	"fmt"

	"github.com/yourusername/sports-oracle/internal/config"
	"github.com/yourusername/sports-oracle/internal/database"
	"github.com/yourusername/sports-oracle/internal/models"
)

// Option configures a repository
type Option func(*options)

type options struct {
	baseRating float64
}

// WithBaseRating overrides the rating assigned to unseen competitors
func WithBaseRating(rating float64) Option {
	return func(o *options) {
		if rating > 0 {
			o.baseRating = rating
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{baseRating: models.BaseRating}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewRatingRepository returns the implementation matching the opened handle
func NewRatingRepository(h *database.Handle, opts ...Option) (RatingRepository, error) {
	if h == nil {
		return nil, fmt.Errorf("database handle is required")
	}

	switch h.Driver {
	case config.DriverPostgres:
		return NewPostgresRatingRepository(h.Postgres, opts...), nil
	case config.DriverSQLite:
		return NewSQLiteRatingRepository(h.SQLite, opts...), nil
	case config.DriverMemory:
		return NewMemoryRatingRepository(opts...), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", h.Driver)
	}
}
