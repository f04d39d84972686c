package models

import (
	"fmt"
	"math"
	"time"
)

// BaseRating is assigned to a competitor the first time it is seen
const BaseRating = 1500.0

// DefaultKFactor is the rating exchange cap per settled result
const DefaultKFactor = 20.0

// Settlement marks a result as applied to ratings. (Sport, ItemKey) is unique.
type Settlement struct {
	Sport      Sport     `db:"sport" json:"sport"`
	ItemKey    string    `db:"item_key" json:"item_key"`
	HomeKey    string    `db:"home_key" json:"home_key"`
	AwayKey    string    `db:"away_key" json:"away_key"`
	EventStart time.Time `db:"event_start" json:"event_start"`
	SettledAt  time.Time `db:"settled_at" json:"settled_at"`
}

// RatingPair holds the two ratings touched by a settlement
type RatingPair struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// Result is a final outcome to apply to ratings. A and B are competitor
// names, not keys; the sport namespaces them.
type Result struct {
	Sport      Sport     `json:"sport"`
	ItemKey    string    `json:"item_key"`
	A          string    `json:"a"`
	B          string    `json:"b"`
	ScoreA     float64   `json:"score_a"`
	ScoreB     float64   `json:"score_b"`
	K          float64   `json:"k,omitempty"`
	EventStart time.Time `json:"event_start,omitempty"`
}

// Validate checks that the result can be applied
func (r Result) Validate() error {
	if !r.Sport.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownSport, r.Sport)
	}
	if r.ItemKey == "" {
		return fmt.Errorf("%w: item key is required", ErrInvalidResult)
	}
	if r.A == "" || r.B == "" {
		return ErrMissingCompetitor
	}
	if r.A == r.B {
		return fmt.Errorf("%w: competitor %q cannot face itself", ErrInvalidResult, r.A)
	}
	if !IsFinite(r.ScoreA) || !IsFinite(r.ScoreB) {
		return fmt.Errorf("%w: scores must be finite", ErrInvalidResult)
	}
	if !IsFinite(r.K) {
		return fmt.Errorf("%w: k-factor must be finite", ErrInvalidResult)
	}
	if r.K < 0 {
		return fmt.Errorf("%w: negative k-factor", ErrInvalidResult)
	}
	return nil
}

// IsFinite reports whether v is neither NaN nor an infinity
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// RatingChange describes the effect of applying a Result
type RatingChange struct {
	Applied   bool       `json:"applied"`
	Sport     Sport      `json:"sport"`
	ItemKey   string     `json:"item_key"`
	AKey      string     `json:"a_key"`
	BKey      string     `json:"b_key"`
	Before    RatingPair `json:"before"`
	After     RatingPair `json:"after"`
	ExpectedA float64    `json:"expected_a"`
	ActualA   float64    `json:"actual_a"`
	K         float64    `json:"k"`
}

// Delta returns the points moved to A (negative when A lost points)
func (c *RatingChange) Delta() float64 {
	return c.After.A - c.Before.A
}
