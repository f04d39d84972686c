package slate

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yourusername/sports-oracle/internal/models"
)

// UnavailableText is shown when the schedule source has no credentials
const UnavailableText = "Set ODDS_API_KEY to fetch schedules."

const startLayout = "Jan 02 • 15:04"

// Header returns the block title of a sport
func Header(sport models.Sport) string {
	return fmt.Sprintf("*%s Today*", sport)
}

// FailureText is shown when the schedule could not be fetched
func FailureText(sport models.Sport) string {
	return fmt.Sprintf("%s schedule unavailable right now.", sport)
}

// FormatPercent renders a probability as a percentage with one decimal,
// rounding half away from zero
func FormatPercent(p float64) string {
	return decimal.NewFromFloat(p).Shift(2).StringFixed(1) + "%"
}

// RenderLine formats one prediction, e.g.
//
//	• Oct 16 • 19:05 — Away @ Home (Venue)  →  Home 55.3% | Away 44.7%  → **Pick: Home**
//
// Combat events read "A vs B" and only football shows the venue.
func RenderLine(p models.Prediction, venue string, loc *time.Location) string {
	e := p.Event

	matchup := fmt.Sprintf("%s @ %s", e.Away, e.Home)
	if e.Sport == models.SportUFC {
		matchup = fmt.Sprintf("%s vs %s", e.Home, e.Away)
	}
	if e.Sport == models.SportNFL && venue != "" {
		matchup += fmt.Sprintf(" (%s)", venue)
	}

	return fmt.Sprintf("• %s — %s  →  %s %s | %s %s  → **Pick: %s**",
		e.Start.In(loc).Format(startLayout),
		matchup,
		e.Home, FormatPercent(p.HomeProbability),
		e.Away, FormatPercent(p.AwayProbability),
		p.Pick,
	)
}

// RenderBlock joins the header and lines, or returns the empty placeholder
func RenderBlock(sport models.Sport, lines []string) string {
	if len(lines) == 0 {
		return sport.NoEventsText()
	}
	return Header(sport) + "\n" + strings.Join(lines, "\n")
}
