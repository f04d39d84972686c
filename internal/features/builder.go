// Package features assembles the contextual inputs for an event: venue
// data, weather near the start time and rest days from settled history.
package features

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/sports-oracle/internal/datasource"
	"github.com/yourusername/sports-oracle/internal/models"
	"github.com/yourusername/sports-oracle/internal/venues"
)

// MaxRestDays caps rest so that an off-season gap does not dominate
const MaxRestDays = 14

// History reports when a competitor last played
type History interface {
	LastPlayed(ctx context.Context, competitorKey string, before time.Time) (time.Time, bool, error)
}

// Builder derives Features for events
type Builder struct {
	catalog *venues.Catalog
	weather datasource.WeatherSource
	history History
	logger  *logrus.Logger
}

// NewBuilder creates a feature builder. weather and history may be nil, in
// which case those features keep their defaults.
func NewBuilder(catalog *venues.Catalog, weather datasource.WeatherSource, history History, logger *logrus.Logger) *Builder {
	return &Builder{
		catalog: catalog,
		weather: weather,
		history: history,
		logger:  logger,
	}
}

// Build returns the features for an event. It never fails: missing data
// leaves the neutral default in place.
func (b *Builder) Build(ctx context.Context, event models.Event) models.Features {
	f := models.NewFeatures()

	switch event.Sport {
	case models.SportMLB:
		b.venueFeatures(event, &f)
		// Ballpark weather is used whenever the park location is known.
		if f.Venue != "" {
			b.weatherFeatures(ctx, event, &f)
		}
	case models.SportNFL:
		b.venueFeatures(event, &f)
		if f.Outdoor {
			b.weatherFeatures(ctx, event, &f)
		}
		f.RestDaysHome = b.restDays(ctx, event.HomeKey(), event.Start)
		f.RestDaysAway = b.restDays(ctx, event.AwayKey(), event.Start)
	}

	return f
}

func (b *Builder) venueFeatures(event models.Event, f *models.Features) {
	venue := event.Venue
	if venue == "" {
		venue, _ = b.catalog.VenueFor(event.Sport, event.Home)
	}
	if venue == "" {
		return
	}
	f.Venue = venue
	f.ParkFactor = b.catalog.ParkFactor(venue)
	f.Outdoor = b.catalog.IsOutdoor(venue)
}

func (b *Builder) weatherFeatures(ctx context.Context, event models.Event, f *models.Features) {
	if b.weather == nil {
		return
	}
	lat, lon, ok := b.catalog.Coordinates(f.Venue)
	if !ok {
		return
	}
	f.Weather = b.weather.Forecast(ctx, lat, lon, event.Start)
}

// restDays returns whole days since the competitor's last settled event
func (b *Builder) restDays(ctx context.Context, key string, start time.Time) int {
	if b.history == nil || start.IsZero() {
		return models.DefaultRestDays
	}

	last, ok, err := b.history.LastPlayed(ctx, key, start)
	if err != nil {
		b.logger.WithError(err).WithField("competitor", key).Warn("Rest lookup failed, using default")
		return models.DefaultRestDays
	}
	if !ok {
		return models.DefaultRestDays
	}

	days := int(start.Sub(last) / (24 * time.Hour))
	if days > MaxRestDays {
		return MaxRestDays
	}
	return days
}
