// Package main provides the sports-oracle command line: today's slates,
// result settlement, rating lookups and the scheduled daily post.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/sports-oracle/internal/health"
	"github.com/yourusername/sports-oracle/internal/metrics"
	"github.com/yourusername/sports-oracle/internal/models"
	"github.com/yourusername/sports-oracle/internal/scheduler"

	_ "time/tzdata"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile        string
	verbose           bool
	awsSecretsEnabled bool
	awsRegion         string
	awsSecretName     string
)

var rootCmd = &cobra.Command{
	Use:           "sports-oracle",
	Short:         "Elo ratings and daily win predictions for MLB, NFL and UFC",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Write logs to stderr")
	rootCmd.PersistentFlags().BoolVar(&awsSecretsEnabled, "aws-secrets", os.Getenv("AWS_SECRETS_ENABLED") == "true", "Overlay secrets from AWS Secrets Manager")
	rootCmd.PersistentFlags().StringVar(&awsRegion, "aws-region", os.Getenv("AWS_REGION"), "AWS region of the secret")
	rootCmd.PersistentFlags().StringVar(&awsSecretName, "aws-secret-name", os.Getenv("AWS_SECRET_NAME"), "Name of the secret")

	todayCmd.Flags().Bool("json", false, "Print raw predictions as JSON")

	settleCmd.Flags().String("sport", "", "Sport of the event (mlb, nfl, ufc)")
	settleCmd.Flags().String("item", "", "Unique key of the event")
	settleCmd.Flags().String("home", "", "Home side, or first-named fighter")
	settleCmd.Flags().String("away", "", "Away side, or second-named fighter")
	settleCmd.Flags().Float64("home-score", 0, "Final score of the home side")
	settleCmd.Flags().Float64("away-score", 0, "Final score of the away side")
	for _, name := range []string{"sport", "item", "home", "away", "home-score", "away-score"} {
		_ = settleCmd.MarkFlagRequired(name)
	}

	ratingSetCmd.Flags().String("by", "cli", "Who made the change, for the audit log")
	ratingCmd.AddCommand(ratingSetCmd)

	serveCmd.Flags().Bool("post-now", false, "Publish the daily post once at startup")
	serveCmd.Flags().String("publisher", "stdout", "Where the daily post goes: stdout or log")

	rootCmd.AddCommand(todayCmd, settleCmd, ratingCmd, serveCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

var todayCmd = &cobra.Command{
	Use:       "today [all|mlb|nfl|ufc]",
	Short:     "Show today's predictions",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"all", "mlb", "nfl", "ufc"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, stderrOrDiscard(!verbose))
		if err != nil {
			return err
		}
		defer a.Close()

		target := "all"
		if len(args) == 1 {
			target = strings.ToLower(args[0])
		}
		asJSON, _ := cmd.Flags().GetBool("json")
		out := cmd.OutOrStdout()

		if target == "all" {
			if asJSON {
				all := make(map[string][]models.Prediction, len(models.AllSports))
				for _, sport := range models.AllSports {
					preds, err := a.oracle.TodayPredictionList(ctx, sport, a.location)
					if err != nil {
						return err
					}
					all[sport.String()] = preds
				}
				return writeJSON(out, all)
			}
			blocks, err := a.oracle.TodayAll(ctx, a.location)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, strings.Join(blocks, "\n\n"))
			return nil
		}

		sport, err := models.ParseSport(target)
		if err != nil {
			return err
		}
		if asJSON {
			preds, err := a.oracle.TodayPredictionList(ctx, sport, a.location)
			if err != nil {
				return err
			}
			return writeJSON(out, preds)
		}
		block, err := a.oracle.TodayPredictions(ctx, sport, a.location)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, block)
		return nil
	},
}

var settleCmd = &cobra.Command{
	Use:   "settle",
	Short: "Apply a final result to the ratings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		flags := cmd.Flags()
		sportName, _ := flags.GetString("sport")
		item, _ := flags.GetString("item")
		home, _ := flags.GetString("home")
		away, _ := flags.GetString("away")
		homeScore, _ := flags.GetFloat64("home-score")
		awayScore, _ := flags.GetFloat64("away-score")

		sport, err := models.ParseSport(sportName)
		if err != nil {
			return err
		}

		a, err := newApp(ctx, stderrOrDiscard(!verbose))
		if err != nil {
			return err
		}
		defer a.Close()

		change, err := a.oracle.SettleResult(ctx, sport, item, home, away, homeScore, awayScore)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !change.Applied {
			fmt.Fprintf(out, "%s %s already settled; ratings unchanged (%s %.1f, %s %.1f)\n",
				sport, item, home, change.After.A, away, change.After.B)
			return nil
		}
		fmt.Fprintf(out, "%s %.1f -> %.1f, %s %.1f -> %.1f\n",
			home, change.Before.A, change.After.A, away, change.Before.B, change.After.B)
		return nil
	},
}

var ratingCmd = &cobra.Command{
	Use:   "rating <sport> <name>",
	Short: "Show a competitor's rating",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sport, err := models.ParseSport(args[0])
		if err != nil {
			return err
		}

		a, err := newApp(ctx, stderrOrDiscard(!verbose))
		if err != nil {
			return err
		}
		defer a.Close()

		r, err := a.oracle.Rating(ctx, sport, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %.1f\n", sport, args[1], r)
		return nil
	},
}

var ratingSetCmd = &cobra.Command{
	Use:   "set <sport> <name> <rating>",
	Short: "Overwrite a competitor's rating",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sport, err := models.ParseSport(args[0])
		if err != nil {
			return err
		}
		value, err := strconv.ParseFloat(args[2], 64)
		if err != nil || value <= 0 || !models.IsFinite(value) {
			return fmt.Errorf("%w: %q", models.ErrInvalidRating, args[2])
		}
		by, _ := cmd.Flags().GetString("by")

		a, err := newApp(ctx, stderrOrDiscard(!verbose))
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.engine.SetRating(ctx, sport, args[1], value, by); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %.1f\n", sport, args[1], value)
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Publish the daily slate on schedule and serve health and metrics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		a, err := newApp(ctx, os.Stderr)
		if err != nil {
			return err
		}
		defer a.Close()

		return serve(ctx, cmd, a)
	},
}

func serve(ctx context.Context, cmd *cobra.Command, a *app) error {
	var publisher scheduler.Publisher
	switch target, _ := cmd.Flags().GetString("publisher"); target {
	case "stdout":
		publisher = scheduler.NewWriterPublisher(cmd.OutOrStdout())
	case "log":
		publisher = scheduler.NewLogPublisher(a.log)
	default:
		return fmt.Errorf("unknown publisher %q", target)
	}

	hcfg := health.Config{
		ServiceName: a.cfg.App.Name,
		Version:     Version,
		Port:        a.cfg.Health.Port,
		Logger:      a.log,
		Storage:     a.storage,
	}
	if a.cfg.Metrics.Enabled {
		hcfg.MetricsPath = a.cfg.Metrics.Path
		hcfg.MetricsHandler = metrics.Handler()
	}
	hs := health.NewServer(hcfg)
	if err := hs.Start(ctx); err != nil {
		return err
	}

	sched := scheduler.NewScheduler(a.oracle, publisher, a.location, a.log)

	hour, minute, err := a.cfg.PostClock()
	if err != nil {
		return err
	}
	if err := sched.ScheduleDailyPost(hour, minute); err != nil {
		return err
	}
	if a.cfg.Features.AutoSettle {
		if err := sched.ScheduleAutoSettle(a.cfg.Features.SettleCron, a.cfg.Features.DaysFrom); err != nil {
			return err
		}
	}

	if postNow, _ := cmd.Flags().GetBool("post-now"); postNow {
		if err := sched.RunDailyPost(ctx); err != nil {
			a.log.WithError(err).Error("Startup post failed")
		}
	}

	if err := sched.Start(); err != nil {
		return err
	}
	hs.SetReady(true)

	a.log.WithFields(logrus.Fields{
		"version":     Version,
		"commit":      GitCommit,
		"next_post":   sched.GetNextRun().Format(time.RFC3339),
		"auto_settle": a.cfg.Features.AutoSettle,
	}).Info("Sports oracle running")

	<-ctx.Done()
	a.log.Info("Shutdown signal received")
	hs.SetReady(false)

	if err := sched.Stop(); err != nil {
		a.log.WithError(err).Error("Error during scheduler shutdown")
	}
	return hs.Shutdown()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "sports-oracle %s (%s)\n", Version, GitCommit)
	},
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
