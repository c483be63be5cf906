// Package maintenance runs the cron-driven background jobs: scheduled invitation dispatch and
// the invitation expiry sweep.
package maintenance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/charlesng35/reviewerdesk/internal/services"
	"github.com/charlesng35/reviewerdesk/pkg/logger"
)

const (
	defaultDispatchSpec = "@every 1m"
	defaultExpirySpec   = "@every 15m"
	defaultJobTimeout   = 5 * time.Minute
)

// InvitationJobs is the slice of the invitation service driven by the scheduler.
type InvitationJobs interface {
	DispatchDue(ctx context.Context) (services.DispatchReport, error)
	ExpireOverdue(ctx context.Context) (int, error)
}

// Option customises the Scheduler.
type Option func(*Scheduler)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.cron = c
		}
	}
}

// WithDispatchSchedule overrides the cron specification for scheduled dispatches.
func WithDispatchSchedule(spec string) Option {
	return func(s *Scheduler) {
		if spec != "" {
			s.dispatchSchedule = spec
		}
	}
}

// WithExpirySchedule overrides the cron specification for the expiry sweep.
func WithExpirySchedule(spec string) Option {
	return func(s *Scheduler) {
		if spec != "" {
			s.expirySchedule = spec
		}
	}
}

// WithJobTimeout bounds a single job run.
func WithJobTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// Scheduler coordinates the invitation background jobs.
type Scheduler struct {
	jobs    InvitationJobs
	cron    *cron.Cron
	timeout time.Duration
	log     *zap.Logger

	dispatchSchedule string
	expirySchedule   string
}

// NewScheduler constructs a Scheduler. A nil jobs value disables every job.
func NewScheduler(jobs InvitationJobs, opts ...Option) *Scheduler {
	scheduler := &Scheduler{
		jobs:             jobs,
		timeout:          defaultJobTimeout,
		dispatchSchedule: defaultDispatchSpec,
		expirySchedule:   defaultExpirySpec,
		log:              logger.WithModule("maintenance"),
	}
	for _, opt := range opts {
		opt(scheduler)
	}

	if scheduler.cron == nil {
		scheduler.cron = cron.New(
			cron.WithLogger(cron.DiscardLogger),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		)
	}
	return scheduler
}

// Start registers the jobs with the cron scheduler and launches it.
func (s *Scheduler) Start() error {
	if s.jobs == nil {
		return nil
	}

	if _, err := s.cron.AddFunc(s.dispatchSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.dispatch(ctx); err != nil {
			s.log.Warn("scheduled dispatch failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("maintenance: dispatch schedule %q: %w", s.dispatchSchedule, err)
	}

	if _, err := s.cron.AddFunc(s.expirySchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.expire(ctx); err != nil {
			s.log.Warn("invitation expiry failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("maintenance: expiry schedule %q: %w", s.expirySchedule, err)
	}

	s.cron.Start()
	s.log.Info("maintenance scheduler started",
		zap.String("dispatch_schedule", s.dispatchSchedule),
		zap.String("expiry_schedule", s.expirySchedule))
	return nil
}

// Stop halts the underlying scheduler; the returned context is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	if s.cron == nil {
		return context.Background()
	}
	return s.cron.Stop()
}

// RunOnce executes both jobs sequentially. Used during graceful shutdown and in tests.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	if s.jobs == nil {
		return errors.New("maintenance: no invitation jobs configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var errs error
	if err := s.dispatch(ctx); err != nil {
		errs = multierr.Append(errs, err)
	}
	if err := s.expire(ctx); err != nil {
		errs = multierr.Append(errs, err)
	}
	return errs
}

func (s *Scheduler) dispatch(ctx context.Context) error {
	report, err := s.jobs.DispatchDue(ctx)
	if report.Claimed > 0 {
		s.log.Debug("dispatch run",
			zap.Int("claimed", report.Claimed),
			zap.Int("failed", report.Failed))
	}
	if err != nil {
		return fmt.Errorf("dispatch due: %w", err)
	}
	return nil
}

func (s *Scheduler) expire(ctx context.Context) error {
	expired, err := s.jobs.ExpireOverdue(ctx)
	if expired > 0 {
		s.log.Info("invitations expired", zap.Int("count", expired))
	}
	if err != nil {
		return fmt.Errorf("expire overdue: %w", err)
	}
	return nil
}
