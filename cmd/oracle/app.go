package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sports-oracle/internal/config"
	"github.com/yourusername/sports-oracle/internal/database"
	"github.com/yourusername/sports-oracle/internal/datasource"
	"github.com/yourusername/sports-oracle/internal/features"
	"github.com/yourusername/sports-oracle/internal/logger"
	"github.com/yourusername/sports-oracle/internal/metrics"
	"github.com/yourusername/sports-oracle/internal/rating"
	"github.com/yourusername/sports-oracle/internal/repository"
	"github.com/yourusername/sports-oracle/internal/service"
	"github.com/yourusername/sports-oracle/internal/slate"
	"github.com/yourusername/sports-oracle/internal/venues"
)

// app holds the wired components shared by every subcommand
type app struct {
	cfg      *config.Config
	log      *logrus.Logger
	location *time.Location
	storage  *database.Handle
	schedule *datasource.OddsAPIClient
	weather  *datasource.OpenMeteoClient
	engine   *rating.Engine
	oracle   *service.Oracle
}

// loadConfig reads the file, overlays AWS secrets when requested and validates
func loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return nil, err
	}

	if awsSecretsEnabled {
		if awsRegion == "" || awsSecretName == "" {
			return nil, fmt.Errorf("--aws-region and --aws-secret-name must be set when AWS secrets are enabled")
		}
		if err := config.LoadSecretsFromAWS(ctx, cfg, awsRegion, awsSecretName); err != nil {
			return nil, fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newApp wires storage, upstream clients, the rating engine and the slate
// pipeline. Logs go to logOut so that command output on stdout stays clean.
func newApp(ctx context.Context, logOut io.Writer) (*app, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.NewLoggerWithOutput(cfg.App.LogLevel, cfg.App.Environment, logOut)

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	storage, err := database.Initialize(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open rating storage: %w", err)
	}

	repo, err := repository.NewRatingRepository(storage, repository.WithBaseRating(cfg.Rating.BaseRating))
	if err != nil {
		_ = storage.Close()
		return nil, err
	}

	catalog, err := venues.Default()
	if err != nil {
		_ = storage.Close()
		return nil, fmt.Errorf("failed to load venue catalog: %w", err)
	}

	factory := datasource.NewFactory(cfg, log)
	schedule := factory.NewScheduleSource()
	weather := factory.NewWeatherSource()

	builder := features.NewBuilder(catalog, weather, repo, log)
	assembler := slate.NewAssembler(schedule, builder, repo, log)
	engine := rating.NewEngine(repo, cfg.Rating.KFactor, log)

	log.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"storage":     cfg.Database.Driver,
		"timezone":    loc.String(),
		"k_factor":    engine.KFactor(),
		"schedule":    schedule.Configured(),
	}).Debug("Sports oracle initialized")

	return &app{
		cfg:      cfg,
		log:      log,
		location: loc,
		storage:  storage,
		schedule: schedule,
		weather:  weather,
		engine:   engine,
		oracle:   service.NewOracle(assembler, engine, schedule, log),
	}, nil
}

// Close releases upstream clients and storage
func (a *app) Close() {
	_ = a.schedule.Close()
	_ = a.weather.Close()
	if err := a.storage.Close(); err != nil {
		a.log.WithError(err).Error("Failed to close rating storage")
	}
}

func stderrOrDiscard(quiet bool) io.Writer {
	if quiet {
		return io.Discard
	}
	return os.Stderr
}
