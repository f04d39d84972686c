package models

// DefaultParkFactor is the neutral park factor
const DefaultParkFactor = 100

// DefaultRestDays is the rest assumed when no prior result is known
const DefaultRestDays = 7

// Weather holds forecast values near an event's start. Each value is nil
// when the provider could not supply it.
type Weather struct {
	TemperatureC     *float64 `json:"temperature_c,omitempty"`
	WindKmh          *float64 `json:"wind_kmh,omitempty"`
	PrecipitationPct *float64 `json:"precipitation_pct,omitempty"`
}

// Known reports whether any weather value is present
func (w Weather) Known() bool {
	return w.TemperatureC != nil || w.WindKmh != nil || w.PrecipitationPct != nil
}

// Features is the contextual bundle derived for one event
type Features struct {
	Weather
	Venue        string `json:"venue,omitempty"`
	ParkFactor   int    `json:"park_factor"`
	Outdoor      bool   `json:"outdoor"`
	RestDaysHome int    `json:"rest_days_home"`
	RestDaysAway int    `json:"rest_days_away"`
}

// NewFeatures returns a bundle with neutral defaults
func NewFeatures() Features {
	return Features{
		ParkFactor:   DefaultParkFactor,
		RestDaysHome: DefaultRestDays,
		RestDaysAway: DefaultRestDays,
	}
}
