package store

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/harun/termvault/internal/observability"
)

const (
	// DefaultRetentionAge is how long a record survives without mutation
	DefaultRetentionAge = 24 * time.Hour

	// DefaultRetentionSchedule is how often the sweeper runs
	DefaultRetentionSchedule = "@every 1h"
)

// Sweeper periodically removes session records older than a retention age.
// It is the external scheduler the physical store expects: the session
// store itself never triggers cleanup.
//
// Upserts reset a record's creation time, so the age measures idle time
// since the last successful mutation; an actively used session is never
// reaped.
type Sweeper struct {
	phys     PhysicalStore
	maxAge   time.Duration
	schedule string
	logger   zerolog.Logger

	cron *cron.Cron
}

// NewSweeper creates a retention sweeper. Zero values select the defaults.
func NewSweeper(phys PhysicalStore, maxAge time.Duration, schedule string, logger zerolog.Logger) *Sweeper {
	if maxAge <= 0 {
		maxAge = DefaultRetentionAge
	}
	if schedule == "" {
		schedule = DefaultRetentionSchedule
	}

	return &Sweeper{
		phys:     phys,
		maxAge:   maxAge,
		schedule: schedule,
		logger:   logger,
	}
}

// Start begins the periodic sweep
func (s *Sweeper) Start() error {
	if s.cron != nil {
		return fmt.Errorf("sweeper is already running")
	}

	c := cron.New()
	if _, err := c.AddFunc(s.schedule, func() {
		if _, err := s.RunOnce(context.Background()); err != nil {
			s.logger.Error().Err(err).Msg("Retention sweep failed")
		}
	}); err != nil {
		return fmt.Errorf("invalid retention schedule %q: %w", s.schedule, err)
	}

	c.Start()
	s.cron = c

	s.logger.Info().
		Dur("max_age", s.maxAge).
		Str("schedule", s.schedule).
		Msg("Retention sweeper started")
	return nil
}

// Stop halts the periodic sweep. A sweep already in flight finishes.
func (s *Sweeper) Stop() error {
	if s.cron == nil {
		return fmt.Errorf("sweeper is not running")
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.cron = nil

	s.logger.Info().Msg("Retention sweeper stopped")
	return nil
}

// IsRunning reports whether the periodic sweep is active
func (s *Sweeper) IsRunning() bool {
	return s.cron != nil
}

// RunOnce performs a single sweep with the configured retention age
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	return s.RunOnceWithAge(ctx, s.maxAge)
}

// RunOnceWithAge performs a single sweep with an explicit age threshold.
// An age of zero removes every record.
func (s *Sweeper) RunOnceWithAge(ctx context.Context, age time.Duration) (int, error) {
	start := time.Now()

	deleted, err := s.phys.DeleteOlderThan(ctx, age)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep sessions: %w", err)
	}

	observability.RecordRetentionSweep(deleted, time.Since(start))
	observability.RecordRetentionAudit(ctx, deleted)

	if remaining, err := s.phys.Count(ctx); err == nil {
		observability.SetStoredSessions(remaining)
	}

	s.logger.Info().
		Int("deleted", deleted).
		Dur("age", age).
		Dur("duration", time.Since(start)).
		Msg("Retention sweep completed")

	return deleted, nil
}
