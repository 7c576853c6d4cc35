// Package cron runs the application's scheduled background jobs.
package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/KrithikaHS/The-Student-360/internal/app/repositories"
	"github.com/KrithikaHS/The-Student-360/internal/app/services"
)

// tokenCleanupSchedule purges expired refresh tokens daily
const tokenCleanupSchedule = "0 3 * * *"

// jobTimeout bounds a single scheduled run
const jobTimeout = 10 * time.Minute

// Scheduler owns the cron runner and its jobs
type Scheduler struct {
	cron      *cron.Cron
	allocator services.AllocatorService
	tokenRepo *repositories.TokenRepository
	schedule  string
	logger    zerolog.Logger
}

// NewScheduler creates a Scheduler. An empty schedule disables the
// allocation job; token cleanup always runs.
func NewScheduler(
	allocator services.AllocatorService,
	tokenRepo *repositories.TokenRepository,
	schedule string,
	logger zerolog.Logger,
) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		allocator: allocator,
		tokenRepo: tokenRepo,
		schedule:  schedule,
		logger:    logger,
	}
}

// Start registers the jobs and starts the runner
func (s *Scheduler) Start() error {
	if s.schedule != "" {
		if _, err := s.cron.AddFunc(s.schedule, s.runAutoAssign); err != nil {
			return err
		}
		s.logger.Info().Str("schedule", s.schedule).Msg("Scheduled mentor auto-assignment")
	} else {
		s.logger.Info().Msg("Mentor auto-assignment schedule disabled")
	}

	if _, err := s.cron.AddFunc(tokenCleanupSchedule, s.runTokenCleanup); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop stops the runner and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runAutoAssign() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	assigned, err := s.allocator.AutoAssign(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Scheduled auto-assignment failed")
		return
	}
	s.logger.Info().Int("assigned", assigned).Msg("Scheduled auto-assignment finished")
}

func (s *Scheduler) runTokenCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	deleted, err := s.tokenRepo.CleanupExpiredTokens(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Scheduled token cleanup failed")
		return
	}
	s.logger.Info().Int64("deleted", deleted).Msg("Scheduled token cleanup finished")
}
