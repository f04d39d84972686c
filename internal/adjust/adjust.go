// Package adjust computes the per-sport contextual rating delta applied to
// the home side before prediction. Adjusters are pure functions of the event
// and its features.
package adjust

import "github.com/yourusername/sports-oracle/internal/models"

// Adjuster returns the rating delta credited to the home side
type Adjuster interface {
	Sport() models.Sport
	Adjust(event models.Event, f models.Features) float64
}

// For returns the adjuster of a sport. Unknown sports get no adjustment.
func For(sport models.Sport) Adjuster {
	switch sport {
	case models.SportMLB:
		return Baseball{}
	case models.SportNFL:
		return Football{}
	default:
		return Combat{}
	}
}

// Baseball credits home field, park factor and weather
type Baseball struct{}

const (
	baseballHomeField       = 30.0
	baseballParkWeight      = 0.2
	baseballNeutralTempC    = 20.0
	baseballTempWeight      = 0.5
	baseballWindThresholdKm = 30.0
	baseballWindBonus       = 3.0
)

// Sport implements Adjuster
func (Baseball) Sport() models.Sport { return models.SportMLB }

// Adjust implements Adjuster
func (Baseball) Adjust(_ models.Event, f models.Features) float64 {
	delta := baseballHomeField
	delta += float64(f.ParkFactor-models.DefaultParkFactor) * baseballParkWeight

	if f.TemperatureC != nil {
		delta += (*f.TemperatureC - baseballNeutralTempC) * baseballTempWeight
	}
	if f.WindKmh != nil && *f.WindKmh > baseballWindThresholdKm {
		delta += baseballWindBonus
	}
	return delta
}

// Football credits home field and rest, plus weather at open-air stadia
type Football struct{}

const (
	footballHomeField         = 55.0
	footballRestWeight        = 1.5
	footballWindThresholdKm   = 32.0
	footballWindBonus         = 5.0
	footballColdThresholdC    = 5.0
	footballColdBonus         = 3.0
	footballPrecipThresholdPc = 60.0
	footballPrecipBonus       = 2.0
)

// Sport implements Adjuster
func (Football) Sport() models.Sport { return models.SportNFL }

// Adjust implements Adjuster
func (Football) Adjust(_ models.Event, f models.Features) float64 {
	delta := footballHomeField
	delta += float64(f.RestDaysHome-f.RestDaysAway) * footballRestWeight

	if !f.Outdoor {
		return delta
	}
	if f.WindKmh != nil && *f.WindKmh >= footballWindThresholdKm {
		delta += footballWindBonus
	}
	if f.TemperatureC != nil && *f.TemperatureC <= footballColdThresholdC {
		delta += footballColdBonus
	}
	if f.PrecipitationPct != nil && *f.PrecipitationPct >= footballPrecipThresholdPc {
		delta += footballPrecipBonus
	}
	return delta
}

// Combat has no home side and no context
type Combat struct{}

// Sport implements Adjuster
func (Combat) Sport() models.Sport { return models.SportUFC }

// Adjust implements Adjuster
func (Combat) Adjust(models.Event, models.Features) float64 { return 0 }
