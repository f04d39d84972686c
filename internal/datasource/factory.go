package datasource

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/sports-oracle/internal/config"
	"github.com/yourusername/sports-oracle/internal/logger"
)

// Factory creates the upstream clients from configuration
type Factory struct {
	logger *logrus.Logger
	config *config.Config
}

// NewFactory creates a new data source factory
func NewFactory(cfg *config.Config, logger *logrus.Logger) *Factory {
	return &Factory{
		logger: logger,
		config: cfg,
	}
}

// NewScheduleSource creates the schedule client
func (f *Factory) NewScheduleSource() *OddsAPIClient {
	sc := f.config.Schedule

	httpCfg := DefaultHTTPClientConfig(scheduleSourceName)
	httpCfg.Timeout = f.config.ScheduleTimeout()
	httpCfg.MaxRetries = sc.MaxRetries
	httpCfg.RateLimit = sc.RateLimit

	if sc.APIKey == "" {
		f.logger.Warn("No schedule API key configured, slates will show the unavailable placeholder")
	}

	return NewOddsAPIClient(
		NewRateLimitedHTTPClient(httpCfg, f.logger),
		sc.BaseURL,
		sc.APIKey,
		sc.Regions,
		logger.NewSourceLogger(f.logger, scheduleSourceName),
	)
}

// NewWeatherSource creates the weather client
func (f *Factory) NewWeatherSource() *OpenMeteoClient {
	wc := f.config.Weather

	httpCfg := DefaultHTTPClientConfig(weatherSourceName)
	httpCfg.Timeout = f.config.WeatherTimeout()
	httpCfg.MaxRetries = 0
	httpCfg.RateLimit = wc.RateLimit

	return NewOpenMeteoClient(
		NewRateLimitedHTTPClient(httpCfg, f.logger),
		wc.BaseURL,
		time.Duration(wc.CacheTTLSeconds)*time.Second,
		logger.NewSourceLogger(f.logger, weatherSourceName),
	)
}
