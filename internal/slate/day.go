// Package slate builds the per-sport "today" blocks: it filters the
// schedule to the local calendar day, predicts each event and renders the
// lines.
package slate

import (
	"sort"
	"time"

	"github.com/yourusername/sports-oracle/internal/models"
)

// DayBounds returns [local midnight, next local midnight) for the day that
// contains now in loc. The end is computed with AddDate so days that gain or
// lose an hour keep their true length.
func DayBounds(now time.Time, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// ParseEvent converts a scheduled item into an event. The commence time must
// be RFC 3339 with a Z or numeric offset.
func ParseEvent(item models.ScheduledEvent) (models.Event, error) {
	start, err := time.Parse(time.RFC3339, item.CommenceTime)
	if err != nil {
		return models.Event{}, err
	}
	return models.Event{
		ID:    item.ID,
		Sport: item.Sport,
		Home:  item.Home,
		Away:  item.Away,
		Start: start,
		Venue: item.Venue,
	}, nil
}

// FilterToday keeps the items starting within today's local bounds, sorted
// by start. Items with a missing or unparseable time are dropped. Items with
// equal start times keep their input order.
func FilterToday(items []models.ScheduledEvent, now time.Time, loc *time.Location) []models.Event {
	return filterToday(items, now, loc, nil)
}

func filterToday(items []models.ScheduledEvent, now time.Time, loc *time.Location, onSkip func(models.ScheduledEvent, string)) []models.Event {
	start, end := DayBounds(now, loc)

	events := make([]models.Event, 0, len(items))
	for _, item := range items {
		event, err := ParseEvent(item)
		if err != nil {
			if onSkip != nil {
				onSkip(item, "unparseable start time")
			}
			continue
		}
		if event.Start.Before(start) || !event.Start.Before(end) {
			continue
		}
		events = append(events, event)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
	return events
}
