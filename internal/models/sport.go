package models

import (
	"fmt"
	"strings"
)

// Sport identifies one of the rated sports. The set is closed: use the
// exported constants, never construct a Sport from arbitrary input without
// going through ParseSport.
type Sport string

const (
	// SportMLB is professional baseball
	SportMLB Sport = "MLB"
	// SportNFL is professional gridiron football
	SportNFL Sport = "NFL"
	// SportUFC is mixed martial arts
	SportUFC Sport = "UFC"
)

// AllSports lists the sports in slate order
var AllSports = []Sport{SportMLB, SportNFL, SportUFC}

// ParseSport resolves a user-supplied sport name
func ParseSport(name string) (Sport, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mlb", "baseball":
		return SportMLB, nil
	case "nfl", "football":
		return SportNFL, nil
	case "ufc", "mma":
		return SportUFC, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSport, name)
	}
}

// Valid reports whether s is one of the known sports
func (s Sport) Valid() bool {
	switch s {
	case SportMLB, SportNFL, SportUFC:
		return true
	}
	return false
}

// String returns the display label
func (s Sport) String() string {
	return string(s)
}

// ScheduleKey returns the upstream schedule provider key for the sport
func (s Sport) ScheduleKey() string {
	switch s {
	case SportMLB:
		return "baseball_mlb"
	case SportNFL:
		return "americanfootball_nfl"
	case SportUFC:
		return "mma_mixed_martial_arts"
	default:
		return ""
	}
}

// CompetitorKey namespaces a competitor name by sport, e.g. "MLB:Boston Red Sox"
func (s Sport) CompetitorKey(name string) string {
	return string(s) + ":" + name
}

// NoEventsText is the placeholder rendered when the slate is empty
func (s Sport) NoEventsText() string {
	if s == SportUFC {
		return "No UFC fights today."
	}
	return fmt.Sprintf("No %s games today.", s)
}
