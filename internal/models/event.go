package models

import "time"

// ScheduledEvent is an upcoming event as delivered by the schedule provider.
// CommenceTime is kept as the raw ISO-8601 string; parsing happens when the
// slate is assembled so that malformed items can be dropped individually.
type ScheduledEvent struct {
	ID           string `json:"id"`
	Sport        Sport  `json:"sport"`
	Home         string `json:"home"`
	Away         string `json:"away"`
	CommenceTime string `json:"commence_time"`
	Venue        string `json:"venue,omitempty"`
}

// Event is a scheduled event with a parsed start time
type Event struct {
	ID    string    `json:"id"`
	Sport Sport     `json:"sport"`
	Home  string    `json:"home"`
	Away  string    `json:"away"`
	Start time.Time `json:"start"`
	Venue string    `json:"venue,omitempty"`
}

// HomeKey returns the rating key of the home side (first-named fighter for UFC)
func (e Event) HomeKey() string {
	return e.Sport.CompetitorKey(e.Home)
}

// AwayKey returns the rating key of the away side
func (e Event) AwayKey() string {
	return e.Sport.CompetitorKey(e.Away)
}

// CompletedEvent is a finished event with final scores
type CompletedEvent struct {
	ID        string    `json:"id"`
	Sport     Sport     `json:"sport"`
	Home      string    `json:"home"`
	Away      string    `json:"away"`
	Start     time.Time `json:"start"`
	HomeScore float64   `json:"home_score"`
	AwayScore float64   `json:"away_score"`
}
