// Package prediction turns adjusted rating differentials into win
// probabilities.
package prediction

import (
	"math"

	"github.com/yourusername/sports-oracle/internal/models"
)

const (
	minProbability = 1e-12
	maxProbability = 1 - 1e-12
)

// WinProbability returns the probability that a competitor rated ra beats
// one rated rb. The result is strictly inside (0, 1) for finite inputs and
// exactly 0.5 for equal ratings.
func WinProbability(ra, rb float64) float64 {
	d := ra - rb
	if d == 0 {
		return 0.5
	}
	p := 1.0 / (1.0 + math.Pow(10, -d/400.0))
	switch {
	case math.IsNaN(p):
		return 0.5
	case p < minProbability:
		return minProbability
	case p > maxProbability:
		return maxProbability
	}
	return p
}

// Predict builds the prediction for an event from stored ratings and the
// contextual home delta
func Predict(event models.Event, homeRating, awayRating, homeDelta float64) models.Prediction {
	p := WinProbability(homeRating+homeDelta, awayRating)

	pick := event.Away
	if p >= 0.5 {
		pick = event.Home
	}

	return models.Prediction{
		Event:           event,
		HomeProbability: p,
		AwayProbability: 1 - p,
		Pick:            pick,
		HomeRating:      homeRating,
		AwayRating:      awayRating,
		HomeDelta:       homeDelta,
	}
}
