package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/yourusername/sports-oracle/internal/logger"
	"github.com/yourusername/sports-oracle/internal/metrics"
	"github.com/yourusername/sports-oracle/internal/models"
)

const (
	weatherSourceName = "open_meteo"
	weatherHourLayout = "2006-01-02T15:04"
)

// OpenMeteoClient implements WeatherSource against the Open-Meteo forecast
// API. Wind speed is requested in km/h, the API default.
type OpenMeteoClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	cache      *cache.Cache
	ttl        time.Duration
	logger     *logger.SourceLogger
}

type openMeteoResponse struct {
	Hourly struct {
		Time                     []string   `json:"time"`
		Temperature2m            []*float64 `json:"temperature_2m"`
		WindSpeed10m             []*float64 `json:"wind_speed_10m"`
		PrecipitationProbability []*float64 `json:"precipitation_probability"`
	} `json:"hourly"`
}

// NewOpenMeteoClient creates a weather client. A zero ttl disables caching.
func NewOpenMeteoClient(httpClient *RateLimitedHTTPClient, baseURL string, ttl time.Duration, log *logger.SourceLogger) *OpenMeteoClient {
	var c *cache.Cache
	if ttl > 0 {
		c = cache.New(ttl, ttl*2)
	}
	return &OpenMeteoClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		cache:      c,
		ttl:        ttl,
		logger:     log,
	}
}

// Forecast returns the values for the UTC hour containing at. Any failure
// yields an all-absent Weather.
func (c *OpenMeteoClient) Forecast(ctx context.Context, lat, lon float64, at time.Time) models.Weather {
	hour := at.UTC().Truncate(time.Hour)
	key := fmt.Sprintf("%.4f,%.4f,%s", lat, lon, hour.Format(weatherHourLayout))

	if c.cache != nil {
		if cached, found := c.cache.Get(key); found {
			if w, ok := cached.(models.Weather); ok {
				metrics.RecordWeatherFetch(metrics.WeatherHit)
				c.logger.LogFetch("forecast", 1, true, 0)
				return w
			}
		}
	}

	start := time.Now()
	w, err := c.fetch(ctx, lat, lon, hour)
	if err != nil {
		metrics.RecordWeatherFetch(metrics.WeatherError)
		c.logger.LogFetchFailure("forecast", err)
		return models.Weather{}
	}

	metrics.RecordWeatherFetch(metrics.WeatherMiss)
	c.logger.LogFetch("forecast", 1, false, float64(time.Since(start).Milliseconds()))
	if c.cache != nil {
		c.cache.Set(key, w, c.ttl)
	}
	return w
}

func (c *OpenMeteoClient) fetch(ctx context.Context, lat, lon float64, hour time.Time) (models.Weather, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
	params.Set("hourly", "temperature_2m,wind_speed_10m,precipitation_probability")
	params.Set("timezone", "UTC")
	params.Set("start_hour", hour.Format(weatherHourLayout))
	params.Set("end_hour", hour.Add(time.Hour).Format(weatherHourLayout))

	resp, err := c.httpClient.Get(ctx, c.baseURL+"/forecast?"+params.Encode())
	if err != nil {
		return models.Weather{}, NewDataSourceError(weatherSourceName, ErrCodeNetworkError, "failed to fetch forecast", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Weather{}, NewDataSourceError(weatherSourceName, ErrCodeServerError, fmt.Sprintf("unexpected status %d", resp.StatusCode), ErrServerError)
	}

	var body openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return models.Weather{}, NewDataSourceError(weatherSourceName, ErrCodeInvalidData, "failed to parse response", ErrInvalidData)
	}

	return models.Weather{
		TemperatureC:     first(body.Hourly.Temperature2m),
		WindKmh:          first(body.Hourly.WindSpeed10m),
		PrecipitationPct: first(body.Hourly.PrecipitationProbability),
	}, nil
}

func first(values []*float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	return values[0]
}

// Close releases idle connections and drops cached forecasts
func (c *OpenMeteoClient) Close() error {
	if c.cache != nil {
		c.cache.Flush()
	}
	return c.httpClient.Close()
}
