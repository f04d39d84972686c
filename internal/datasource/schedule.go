package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/yourusername/sports-oracle/internal/logger"
	"github.com/yourusername/sports-oracle/internal/metrics"
	"github.com/yourusername/sports-oracle/internal/models"
)

const scheduleSourceName = "odds_api"

// OddsAPIClient implements ScheduleSource against The Odds API v4. Only the
// event structure is read; prices are ignored.
type OddsAPIClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	regions    string
	logger     *logger.SourceLogger
}

// oddsAPIEvent is an item of the odds and scores endpoints
type oddsAPIEvent struct {
	ID           string         `json:"id"`
	SportKey     string         `json:"sport_key"`
	CommenceTime string         `json:"commence_time"`
	HomeTeam     string         `json:"home_team"`
	AwayTeam     string         `json:"away_team"`
	Teams        []string       `json:"teams"`
	Completed    bool           `json:"completed"`
	Scores       []oddsAPIScore `json:"scores"`
}

type oddsAPIScore struct {
	Name  string `json:"name"`
	Score string `json:"score"`
}

// NewOddsAPIClient creates a schedule client. An empty apiKey yields an
// unconfigured client that returns no events.
func NewOddsAPIClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey, regions string, log *logger.SourceLogger) *OddsAPIClient {
	if regions == "" {
		regions = "us"
	}
	return &OddsAPIClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		regions:    regions,
		logger:     log,
	}
}

// Configured reports whether an API key is present
func (c *OddsAPIClient) Configured() bool {
	return c.apiKey != ""
}

// Events retrieves upcoming events for a sport
func (c *OddsAPIClient) Events(ctx context.Context, sport models.Sport) ([]models.ScheduledEvent, error) {
	if !c.Configured() {
		return []models.ScheduledEvent{}, nil
	}

	params := url.Values{}
	params.Set("regions", c.regions)
	params.Set("markets", "h2h")
	params.Set("oddsFormat", "decimal")

	start := time.Now()
	raw, err := c.fetch(ctx, sport, "odds", params)
	metrics.RecordScheduleFetch(sport.String(), time.Since(start), err)
	if err != nil {
		c.logger.LogFetchFailure("events:"+sport.String(), err)
		return nil, err
	}

	events := make([]models.ScheduledEvent, 0, len(raw))
	for _, item := range raw {
		home, away := item.competitors()
		if home == "" || away == "" {
			continue
		}
		events = append(events, models.ScheduledEvent{
			ID:           item.ID,
			Sport:        sport,
			Home:         home,
			Away:         away,
			CommenceTime: item.CommenceTime,
		})
	}

	c.logger.LogFetch("events:"+sport.String(), len(events), false, float64(time.Since(start).Milliseconds()))
	return events, nil
}

// Scores retrieves events completed in the last daysFrom days. Events that
// are unfinished or lack a score for either side are omitted.
func (c *OddsAPIClient) Scores(ctx context.Context, sport models.Sport, daysFrom int) ([]models.CompletedEvent, error) {
	if !c.Configured() {
		return []models.CompletedEvent{}, nil
	}
	if daysFrom < 1 {
		daysFrom = 1
	}

	params := url.Values{}
	params.Set("daysFrom", strconv.Itoa(daysFrom))

	start := time.Now()
	raw, err := c.fetch(ctx, sport, "scores", params)
	metrics.RecordScheduleFetch(sport.String(), time.Since(start), err)
	if err != nil {
		c.logger.LogFetchFailure("scores:"+sport.String(), err)
		return nil, err
	}

	completed := make([]models.CompletedEvent, 0, len(raw))
	for _, item := range raw {
		if !item.Completed {
			continue
		}
		home, away := item.competitors()
		homeScore, okHome := item.scoreFor(home)
		awayScore, okAway := item.scoreFor(away)
		if home == "" || away == "" || !okHome || !okAway {
			continue
		}
		startTime, err := time.Parse(time.RFC3339, item.CommenceTime)
		if err != nil {
			startTime = time.Time{}
		}
		completed = append(completed, models.CompletedEvent{
			ID:        item.ID,
			Sport:     sport,
			Home:      home,
			Away:      away,
			Start:     startTime,
			HomeScore: homeScore,
			AwayScore: awayScore,
		})
	}

	c.logger.LogFetch("scores:"+sport.String(), len(completed), false, float64(time.Since(start).Milliseconds()))
	return completed, nil
}

func (c *OddsAPIClient) fetch(ctx context.Context, sport models.Sport, endpoint string, params url.Values) ([]oddsAPIEvent, error) {
	params.Set("apiKey", c.apiKey)
	endpointURL := fmt.Sprintf("%s/sports/%s/%s?%s", c.baseURL, sport.ScheduleKey(), endpoint, params.Encode())

	resp, err := c.httpClient.Get(ctx, endpointURL)
	if err != nil {
		// url.Error carries the full URL, API key included
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, NewDataSourceError(scheduleSourceName, ErrCodeNetworkError, "failed to fetch "+endpoint, err)
	}
	defer resp.Body.Close()

	// Handle authentication errors
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, NewDataSourceError(scheduleSourceName, ErrCodeAuthenticationFailed, "invalid API key", ErrAuthenticationFailed)
	}

	// Handle rate limiting
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, NewDataSourceError(scheduleSourceName, ErrCodeRateLimitExceeded, "quota exhausted", ErrRateLimitExceeded)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, NewDataSourceError(scheduleSourceName, ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), ErrServerError)
	}

	var items []oddsAPIEvent
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, NewDataSourceError(scheduleSourceName, ErrCodeInvalidData, "failed to parse response", ErrInvalidData)
	}
	return items, nil
}

// competitors returns the home and away names. Combat events may only list
// the two fighters under teams.
func (e oddsAPIEvent) competitors() (string, string) {
	home, away := e.HomeTeam, e.AwayTeam
	if home == "" && len(e.Teams) > 0 {
		home = e.Teams[0]
	}
	if away == "" && len(e.Teams) > 1 {
		away = e.Teams[1]
	}
	return home, away
}

func (e oddsAPIEvent) scoreFor(name string) (float64, bool) {
	for _, s := range e.Scores {
		if s.Name != name {
			continue
		}
		v, err := strconv.ParseFloat(s.Score, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	return 0, false
}

// Close releases idle connections
func (c *OddsAPIClient) Close() error {
	return c.httpClient.Close()
}
