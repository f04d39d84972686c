package datasource

import (
	"context"
	"errors"
	"time"

	"github.com/yourusername/sports-oracle/internal/models"
)

// ScheduleSource lists upcoming and completed events for a sport
type ScheduleSource interface {
	// Events returns upcoming events. Without credentials it returns an
	// empty slice and no error.
	Events(ctx context.Context, sport models.Sport) ([]models.ScheduledEvent, error)

	// Scores returns events completed within the last daysFrom days
	Scores(ctx context.Context, sport models.Sport, daysFrom int) ([]models.CompletedEvent, error)

	// Configured reports whether the source has the credentials it needs
	Configured() bool
}

// WeatherSource returns forecast values near a time and place. Failures
// degrade to absent values rather than errors.
type WeatherSource interface {
	Forecast(ctx context.Context, lat, lon float64, at time.Time) models.Weather
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

// Unwrap exposes the underlying error
func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

// Error constructors
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrInvalidData          = errors.New("invalid data format")
	ErrServerError          = errors.New("server error")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
