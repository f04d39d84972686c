// Package venues holds the static venue tables used for contextual
// adjustment: park factors, roof status, coordinates and home venues.
package venues

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/yourusername/sports-oracle/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed venues.yaml
var defaultData []byte

// Venue describes one stadium or arena
type Venue struct {
	Name       string   `yaml:"name"`
	ParkFactor int      `yaml:"park_factor"`
	Outdoor    bool     `yaml:"outdoor"`
	Lat        *float64 `yaml:"lat"`
	Lon        *float64 `yaml:"lon"`
}

type document struct {
	Venues []Venue                       `yaml:"venues"`
	Teams  map[string]map[string]string `yaml:"teams"`
}

// Catalog answers venue lookups. Unknown names resolve to neutral defaults.
type Catalog struct {
	venues map[string]Venue
	teams  map[models.Sport]map[string]string
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the catalog built from the embedded tables
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(defaultData)
	})
	return defaultCatalog, defaultErr
}

// Parse builds a catalog from YAML
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse venue data: %w", err)
	}

	c := &Catalog{
		venues: make(map[string]Venue, len(doc.Venues)),
		teams:  make(map[models.Sport]map[string]string, len(doc.Teams)),
	}

	for _, v := range doc.Venues {
		if v.Name == "" {
			return nil, fmt.Errorf("venue without name")
		}
		if _, dup := c.venues[v.Name]; dup {
			return nil, fmt.Errorf("duplicate venue %q", v.Name)
		}
		if (v.Lat == nil) != (v.Lon == nil) {
			return nil, fmt.Errorf("venue %q has partial coordinates", v.Name)
		}
		if v.ParkFactor == 0 {
			v.ParkFactor = models.DefaultParkFactor
		}
		c.venues[v.Name] = v
	}

	for label, teams := range doc.Teams {
		sport, err := models.ParseSport(label)
		if err != nil {
			return nil, fmt.Errorf("venue data: %w", err)
		}
		for team, venue := range teams {
			if _, ok := c.venues[venue]; !ok {
				return nil, fmt.Errorf("team %q references unknown venue %q", team, venue)
			}
		}
		c.teams[sport] = teams
	}

	return c, nil
}

// VenueFor returns the home venue of a team
func (c *Catalog) VenueFor(sport models.Sport, team string) (string, bool) {
	venue, ok := c.teams[sport][team]
	return venue, ok
}

// ParkFactor returns the park factor, 100 when unknown
func (c *Catalog) ParkFactor(venue string) int {
	if v, ok := c.venues[venue]; ok {
		return v.ParkFactor
	}
	return models.DefaultParkFactor
}

// IsOutdoor reports whether weather reaches the field. Unknown venues are
// treated as indoor.
func (c *Catalog) IsOutdoor(venue string) bool {
	return c.venues[venue].Outdoor
}

// Coordinates returns the venue location when known
func (c *Catalog) Coordinates(venue string) (lat, lon float64, ok bool) {
	v, found := c.venues[venue]
	if !found || v.Lat == nil || v.Lon == nil {
		return 0, 0, false
	}
	return *v.Lat, *v.Lon, true
}
