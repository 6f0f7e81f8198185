// Package scheduler triggers the monthly rollover without external cron
// infrastructure.
//
// An hourly check is enough: on the first day of a month the first check
// rolls every user over, every later check is a no-op because of the
// per-month guard.
package scheduler

import (
	"context"
	"time"

	"github.com/bucketly/backend/internal/budget"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const defaultInterval = time.Hour

type Scheduler struct {
	db       *gorm.DB
	interval time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

func New(db *gorm.DB) *Scheduler {
	return &Scheduler{
		db:       db,
		interval: defaultInterval,
	}
}

// NewWithInterval is used by tests to run the loop with a short interval.
func NewWithInterval(db *gorm.DB, interval time.Duration) *Scheduler {
	return &Scheduler{
		db:       db,
		interval: interval,
	}
}

// Start runs the rollover check loop until Stop is called or the context
// is cancelled. The first check runs immediately so that a backend that
// was down over a month boundary catches up on startup.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.run(ctx, time.Now())

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.run(ctx, now)
			}
		}
	}()

	log.Info().Dur("interval", s.interval).Msg("rollover scheduler started")
}

// Stop cancels the loop and waits for a running check to finish.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}

	s.cancel()
	<-s.done

	log.Info().Msg("rollover scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context, now time.Time) {
	result, err := budget.BatchRollover(ctx, s.db, now)
	if err != nil {
		log.Error().Err(err).Msg("scheduled rollover failed")
		return
	}

	if result.UsersProcessed > 0 || result.Failed > 0 {
		log.Info().
			Int("processed", result.UsersProcessed).
			Int("failed", result.Failed).
			Msg("scheduled rollover complete")
	}
}
