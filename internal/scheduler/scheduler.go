package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/sports-oracle/internal/metrics"
	"github.com/yourusername/sports-oracle/internal/service"
)

// SlateService is the part of the oracle the scheduled jobs drive
type SlateService interface {
	DailyPost(ctx context.Context, loc *time.Location) ([]string, error)
	AutoSettle(ctx context.Context, daysFrom int) (service.SettleStats, error)
}

// Scheduler manages the daily post and settlement jobs
type Scheduler struct {
	cron            *cron.Cron
	svc             SlateService
	publisher       Publisher
	location        *time.Location
	logger          *logrus.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	jobTimeout      time.Duration
	gracefulTimeout time.Duration
}

// NewScheduler creates a scheduler whose cron expressions are evaluated in loc
func NewScheduler(svc SlateService, publisher Publisher, loc *time.Location, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(loc)),
		svc:             svc,
		publisher:       publisher,
		location:        loc,
		logger:          logger,
		jobIDs:          make([]cron.EntryID, 0),
		jobTimeout:      5 * time.Minute,
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleDailyPost publishes today's slate every day at hour:minute local time
func (s *Scheduler) ScheduleDailyPost(hour, minute int) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return fmt.Errorf("invalid post time %02d:%02d", hour, minute)
	}
	return s.addJob(fmt.Sprintf("%d %d * * *", minute, hour), "daily_post", func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()
		if err := s.RunDailyPost(ctx); err != nil {
			s.logger.WithError(err).Error("Daily post failed")
		}
	})
}

// ScheduleAutoSettle settles completed results on the given cron expression
func (s *Scheduler) ScheduleAutoSettle(cronExpression string, daysFrom int) error {
	return s.addJob(cronExpression, "auto_settle", func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()
		if _, err := s.svc.AutoSettle(ctx, daysFrom); err != nil {
			s.logger.WithError(err).Error("Scheduled settlement failed")
		}
	})
}

func (s *Scheduler) addJob(spec, name string, job func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(spec, job)
	if err != nil {
		return fmt.Errorf("failed to add %s job: %w", name, err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"job":      name,
		"schedule": spec,
		"timezone": s.location.String(),
	}).Info("Scheduled job")

	return nil
}

// RunDailyPost assembles and publishes the post immediately
func (s *Scheduler) RunDailyPost(ctx context.Context) error {
	messages, err := s.svc.DailyPost(ctx, s.location)
	if err == nil {
		err = s.publisher.Publish(ctx, messages)
	}
	metrics.RecordSlatePublish(err)
	return err
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop stops the scheduler, waiting for running jobs up to the graceful timeout
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.gracefulTimeout)
	defer cancel()

	s.isRunning = false
	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("timed out waiting for running jobs")
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			nextTime := entry.Next
			if nextRun.IsZero() || nextTime.Before(nextRun) {
				nextRun = nextTime
			}
		}
	}

	return nextRun
}
