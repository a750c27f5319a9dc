package service

import (
	"context"
	"time"

	"vishwas-ledger/internal/core/ports"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Scheduler drives periodic reconciliation and the daily aggregation.
type Scheduler struct {
	reconciler ports.Reconciler
	aggregator ports.Aggregator
	interval   time.Duration
	cutover    time.Duration
	loc        *time.Location
	now        func() time.Time
	log        zerolog.Logger
}

// NewScheduler creates a scheduler.
func NewScheduler(
	reconciler ports.Reconciler,
	aggregator ports.Aggregator,
	interval time.Duration,
	cutover time.Duration,
	loc *time.Location,
	log zerolog.Logger,
) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		reconciler: reconciler,
		aggregator: aggregator,
		interval:   interval,
		cutover:    cutover,
		loc:        loc,
		now:        time.Now,
		log:        log,
	}
}

// NextCutover returns the first cutover instant strictly after now.
func NextCutover(now time.Time, cutover time.Duration, loc *time.Location) time.Time {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).Add(cutover)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc).Add(cutover)
	}
	return next
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	if s.interval > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(s.interval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					if _, err := s.reconciler.RunOnce(gctx); err != nil {
						s.log.Warn().Err(err).Msg("scheduled reconciliation skipped")
					}
				}
			}
		})
	}

	g.Go(func() error {
		for {
			at := NextCutover(s.now(), s.cutover, s.loc)
			timer := time.NewTimer(time.Until(at))
			select {
			case <-gctx.Done():
				timer.Stop()
				return nil
			case <-timer.C:
				if _, err := s.aggregator.RunForDate(gctx, at); err != nil {
					s.log.Error().Err(err).Time("cutover", at).Msg("daily aggregation failed")
				}
			}
		}
	})

	return g.Wait()
}
