// Package config provides configuration management for the Sports Oracle application.
package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"
)

// Storage drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Rating   RatingConfig   `mapstructure:"rating" validate:"required"`
	Slate    SlateConfig    `mapstructure:"slate" validate:"required"`
	Schedule ScheduleConfig `mapstructure:"schedule" validate:"required"`
	Weather  WeatherConfig  `mapstructure:"weather" validate:"required"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Health   HealthConfig   `mapstructure:"health"`
	Features FeaturesConfig `mapstructure:"features"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents rating storage configuration. Only the fields of
// the selected driver are used.
type DatabaseConfig struct {
	Driver         string `mapstructure:"driver" validate:"required,storage"`
	Host           string `mapstructure:"host" validate:"required_if=Driver postgres"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required_if=Driver postgres"`
	User           string `mapstructure:"user" validate:"required_if=Driver postgres"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
	Path           string `mapstructure:"path" validate:"required_if=Driver sqlite"`
}

// RatingConfig holds Elo parameters
type RatingConfig struct {
	KFactor    float64 `mapstructure:"k_factor" validate:"required,gt=0,lte=100"`
	BaseRating float64 `mapstructure:"base_rating" validate:"required,gt=0"`
}

// SlateConfig holds the local calendar used for "today" and the daily post
type SlateConfig struct {
	Timezone string `mapstructure:"timezone" validate:"required,tzname"`
	PostTime string `mapstructure:"post_time" validate:"required,clock"`
}

// ScheduleConfig configures the schedule/scores provider
type ScheduleConfig struct {
	BaseURL        string  `mapstructure:"base_url" validate:"required,url"`
	APIKey         string  `mapstructure:"api_key"`
	Regions        string  `mapstructure:"regions" validate:"required"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"required,gt=0,lte=60"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"gte=0,lte=5"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
}

// WeatherConfig configures the forecast provider
type WeatherConfig struct {
	BaseURL         string  `mapstructure:"base_url" validate:"required,url"`
	TimeoutSeconds  int     `mapstructure:"timeout_seconds" validate:"required,gt=0,lte=60"`
	CacheTTLSeconds int     `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
	RateLimit       float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

// HealthConfig configures the health/metrics HTTP server
type HealthConfig struct {
	Port string `mapstructure:"port"`
}

// FeaturesConfig represents feature flags
type FeaturesConfig struct {
	AutoSettle bool   `mapstructure:"auto_settle"`
	SettleCron string `mapstructure:"settle_cron" validate:"required_if=AutoSettle true"`
	DaysFrom   int    `mapstructure:"days_from" validate:"omitempty,min=1,max=3"`
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// DSN returns the PostgreSQL connection URL. Credentials are escaped so
// passwords may contain reserved characters.
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   "/" + d.Name,
	}
	if d.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {d.SSLMode}}.Encode()
	}
	return u.String()
}

// Location resolves the configured slate timezone
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Slate.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid slate timezone %q: %w", c.Slate.Timezone, err)
	}
	return loc, nil
}

// PostClock returns the daily post hour and minute
func (c *Config) PostClock() (hour, minute int, err error) {
	t, err := time.Parse("15:04", c.Slate.PostTime)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid post_time %q: %w", c.Slate.PostTime, err)
	}
	return t.Hour(), t.Minute(), nil
}

// ScheduleTimeout returns the schedule request timeout
func (c *Config) ScheduleTimeout() time.Duration {
	return time.Duration(c.Schedule.TimeoutSeconds) * time.Second
}

// WeatherTimeout returns the weather request timeout
func (c *Config) WeatherTimeout() time.Duration {
	return time.Duration(c.Weather.TimeoutSeconds) * time.Second
}
