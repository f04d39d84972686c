package datasource

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/sports-oracle/internal/logger"
	"github.com/yourusername/sports-oracle/internal/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testHTTPClient(name string) *RateLimitedHTTPClient {
	cfg := DefaultHTTPClientConfig(name)
	cfg.Timeout = 2 * time.Second
	cfg.MaxRetries = 2
	cfg.RetryWaitMin = time.Millisecond
	cfg.RetryWaitMax = 5 * time.Millisecond
	cfg.RateLimit = 1000
	cfg.CircuitBreakerMax = 3
	return NewRateLimitedHTTPClient(cfg, testLogger())
}

func newTestOddsClient(baseURL, apiKey string) *OddsAPIClient {
	return NewOddsAPIClient(testHTTPClient("odds_api_test"), baseURL, apiKey, "us",
		logger.NewSourceLogger(testLogger(), "odds_api"))
}

const oddsPayload = `[
  {"id":"e1","sport_key":"baseball_mlb","commence_time":"2025-10-16T23:05:00Z","home_team":"New York Yankees","away_team":"Boston Red Sox","bookmakers":[]},
  {"id":"e2","sport_key":"baseball_mlb","commence_time":"2025-10-17T02:10:00Z","home_team":"Los Angeles Dodgers","away_team":"San Francisco Giants"},
  {"id":"e3","sport_key":"baseball_mlb","commence_time":"2025-10-17T02:10:00Z","home_team":"","away_team":"Nobody"}
]`

func TestOddsAPIEvents(t *testing.T) {
	var gotPath, gotKey, gotMarkets string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("apiKey")
		gotMarkets = r.URL.Query().Get("markets")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, oddsPayload)
	}))
	defer srv.Close()

	client := newTestOddsClient(srv.URL, "secret")
	events, err := client.Events(context.Background(), models.SportMLB)
	require.NoError(t, err)

	assert.Equal(t, "/sports/baseball_mlb/odds", gotPath)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "h2h", gotMarkets)

	require.Len(t, events, 2)
	assert.Equal(t, models.ScheduledEvent{
		ID: "e1", Sport: models.SportMLB, Home: "New York Yankees", Away: "Boston Red Sox",
		CommenceTime: "2025-10-16T23:05:00Z",
	}, events[0])
}

func TestOddsAPIEventsFightersFromTeams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sports/mma_mixed_martial_arts/odds", r.URL.Path)
		_, _ = io.WriteString(w, `[{"id":"f1","commence_time":"2025-10-16T03:00:00Z","teams":["Fighter One","Fighter Two"]}]`)
	}))
	defer srv.Close()

	events, err := newTestOddsClient(srv.URL, "k").Events(context.Background(), models.SportUFC)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Fighter One", events[0].Home)
	assert.Equal(t, "Fighter Two", events[0].Away)
}

func TestOddsAPIUnconfigured(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	client := newTestOddsClient(srv.URL, "")
	assert.False(t, client.Configured())

	events, err := client.Events(context.Background(), models.SportNFL)
	require.NoError(t, err)
	assert.Empty(t, events)

	scores, err := client.Scores(context.Background(), models.SportNFL, 3)
	require.NoError(t, err)
	assert.Empty(t, scores)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestOddsAPIAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestOddsClient(srv.URL, "bad").Events(context.Background(), models.SportMLB)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	var dsErr DataSourceError
	require.ErrorAs(t, err, &dsErr)
	assert.Equal(t, ErrCodeAuthenticationFailed, dsErr.Code)
}

func TestOddsAPIRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = io.WriteString(w, "[]")
	}))
	defer srv.Close()

	events, err := newTestOddsClient(srv.URL, "k").Events(context.Background(), models.SportMLB)
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestOddsAPIMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "{not json")
	}))
	defer srv.Close()

	_, err := newTestOddsClient(srv.URL, "k").Events(context.Background(), models.SportMLB)
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestOddsAPIScores(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sports/americanfootball_nfl/scores", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("daysFrom"))
		_, _ = io.WriteString(w, `[
		  {"id":"s1","commence_time":"2025-10-12T17:00:00Z","completed":true,"home_team":"Buffalo Bills","away_team":"New York Jets",
		   "scores":[{"name":"Buffalo Bills","score":"27"},{"name":"New York Jets","score":"13"}]},
		  {"id":"s2","commence_time":"2025-10-12T20:25:00Z","completed":false,"home_team":"A","away_team":"B",
		   "scores":[{"name":"A","score":"3"},{"name":"B","score":"0"}]},
		  {"id":"s3","commence_time":"2025-10-12T20:25:00Z","completed":true,"home_team":"C","away_team":"D","scores":null}
		]`)
	}))
	defer srv.Close()

	scores, err := newTestOddsClient(srv.URL, "k").Scores(context.Background(), models.SportNFL, 2)
	require.NoError(t, err)
	require.Len(t, scores, 1)

	s := scores[0]
	assert.Equal(t, "s1", s.ID)
	assert.Equal(t, 27.0, s.HomeScore)
	assert.Equal(t, 13.0, s.AwayScore)
	assert.True(t, s.Start.Equal(time.Date(2025, 10, 12, 17, 0, 0, 0, time.UTC)))
}

func newTestWeatherClient(baseURL string, ttl time.Duration) *OpenMeteoClient {
	return NewOpenMeteoClient(testHTTPClient("open_meteo_test"), baseURL, ttl,
		logger.NewSourceLogger(testLogger(), "open_meteo"))
}

func TestOpenMeteoForecast(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		q := r.URL.Query()
		assert.Equal(t, "/forecast", r.URL.Path)
		assert.Equal(t, "39.7559", q.Get("latitude"))
		assert.Equal(t, "2025-10-16T23:00", q.Get("start_hour"))
		assert.Equal(t, "2025-10-17T00:00", q.Get("end_hour"))
		_, _ = io.WriteString(w, `{"hourly":{"time":["2025-10-16T23:00","2025-10-17T00:00"],
			"temperature_2m":[18.5,17.9],"wind_speed_10m":[12.0,10.1],"precipitation_probability":[null,5]}}`)
	}))
	defer srv.Close()

	client := newTestWeatherClient(srv.URL, time.Minute)
	at := time.Date(2025, 10, 16, 23, 40, 0, 0, time.UTC)

	w := client.Forecast(context.Background(), 39.7559, -104.9942, at)
	require.NotNil(t, w.TemperatureC)
	require.NotNil(t, w.WindKmh)
	assert.Equal(t, 18.5, *w.TemperatureC)
	// km/h as delivered, no unit conversion
	assert.Equal(t, 12.0, *w.WindKmh)
	assert.Nil(t, w.PrecipitationPct)

	again := client.Forecast(context.Background(), 39.7559, -104.9942, at.Add(-10*time.Minute))
	assert.Equal(t, w, again)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestOpenMeteoFailureDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	w := newTestWeatherClient(srv.URL, 0).Forecast(context.Background(), 1, 2, time.Now())
	assert.False(t, w.Known())
}

func TestOpenMeteoTimeoutDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	w := newTestWeatherClient(srv.URL, 0).Forecast(ctx, 1, 2, time.Now())
	assert.False(t, w.Known())
}

func TestCircuitBreakerOpensAfterFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := DefaultHTTPClientConfig("breaker_test")
	cfg.MaxRetries = 0
	cfg.RateLimit = 1000
	cfg.CircuitBreakerMax = 2
	client := NewRateLimitedHTTPClient(cfg, testLogger())

	for i := 0; i < 2; i++ {
		resp, err := client.Get(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		resp.Body.Close()
	}

	_, err := client.Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker open")
	assert.Equal(t, "open", client.BreakerState())
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestDefaultHTTPClientConfigIsOneShot(t *testing.T) {
	assert.Equal(t, 0, DefaultHTTPClientConfig("schedule").MaxRetries)
}

func TestTimeoutBoundsRetries(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		select {
		case <-r.Context().Done():
		case <-time.After(400 * time.Millisecond):
		}
	}))
	defer srv.Close()

	cfg := DefaultHTTPClientConfig("deadline_test")
	cfg.Timeout = 300 * time.Millisecond
	cfg.MaxRetries = 3
	cfg.RetryWaitMin = 10 * time.Millisecond
	cfg.RetryWaitMax = 20 * time.Millisecond
	cfg.RateLimit = 1000
	cfg.CircuitBreakerMax = 10
	client := NewRateLimitedHTTPClient(cfg, testLogger())

	started := time.Now()
	resp, err := client.Get(context.Background(), srv.URL)
	elapsed := time.Since(started)

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Less(t, elapsed, 700*time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestDeadlineOutlivesReturnUntilBodyClosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	resp, err := testHTTPClient("body_test").Get(context.Background(), srv.URL)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.NoError(t, resp.Body.Close())
}
