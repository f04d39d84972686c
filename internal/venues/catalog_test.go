package venues

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/sports-oracle/internal/models"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	venue, ok := c.VenueFor(models.SportMLB, "Colorado Rockies")
	require.True(t, ok)
	assert.Equal(t, "Coors Field", venue)
	assert.Equal(t, 118, c.ParkFactor(venue))

	lat, lon, ok := c.Coordinates(venue)
	require.True(t, ok)
	assert.InDelta(t, 39.7559, lat, 1e-9)
	assert.InDelta(t, -104.9942, lon, 1e-9)

	venue, ok = c.VenueFor(models.SportNFL, "San Francisco 49ers")
	require.True(t, ok)
	assert.Equal(t, "Levi's Stadium", venue)
	assert.True(t, c.IsOutdoor(venue))

	venue, ok = c.VenueFor(models.SportNFL, "Minnesota Vikings")
	require.True(t, ok)
	assert.False(t, c.IsOutdoor(venue))
}

func TestUnknownEntriesDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	_, ok := c.VenueFor(models.SportMLB, "Springfield Isotopes")
	assert.False(t, ok)
	_, ok = c.VenueFor(models.SportUFC, "Anyone")
	assert.False(t, ok)

	assert.Equal(t, 100, c.ParkFactor("Nowhere Park"))
	assert.False(t, c.IsOutdoor("Nowhere Park"))
	_, _, ok = c.Coordinates("Nowhere Park")
	assert.False(t, ok)

	// known venue, no coordinates on file
	_, _, ok = c.Coordinates("Busch Stadium")
	assert.False(t, ok)
	assert.Equal(t, 98, c.ParkFactor("Busch Stadium"))
}

func TestEveryTeamVenueExists(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	for sport, teams := range c.teams {
		for team, venue := range teams {
			_, ok := c.venues[venue]
			assert.True(t, ok, "%s %s -> %s", sport, team, venue)
		}
	}
}

func TestParseRejectsBadData(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed", "venues: [\n"},
		{"unknown sport", "teams:\n  NHL:\n    Bruins: TD Garden\n"},
		{"dangling team", "venues:\n  - {name: A}\nteams:\n  MLB:\n    X: B\n"},
		{"duplicate venue", "venues:\n  - {name: A}\n  - {name: A}\n"},
		{"partial coordinates", "venues:\n  - {name: A, lat: 1.0}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestParseDefaultsParkFactor(t *testing.T) {
	c, err := Parse([]byte("venues:\n  - {name: Dome, outdoor: false}\n"))
	require.NoError(t, err)
	assert.Equal(t, models.DefaultParkFactor, c.ParkFactor("Dome"))
}
