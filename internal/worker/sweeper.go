// Package worker runs periodic maintenance next to the HTTP server.
package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Checkout sessions expire on the provider side after a day, so older
// transactions can no longer become paid.
const DefaultLookback = 24 * time.Hour

type Reconciler interface {
	Sweep(ctx context.Context, since time.Time) (int, error)
}

type SessionPurger interface {
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// Sweeper catches payments whose webhook never arrived and drops expired sessions.
type Sweeper struct {
	reconciler Reconciler
	sessions   SessionPurger
	interval   time.Duration
	lookback   time.Duration
	log        *zap.Logger
	now        func() time.Time
}

func NewSweeper(reconciler Reconciler, sessions SessionPurger, interval time.Duration, log *zap.Logger) *Sweeper {
	return &Sweeper{
		reconciler: reconciler,
		sessions:   sessions,
		interval:   interval,
		lookback:   DefaultLookback,
		log:        log,
		now:        time.Now,
	}
}

// Run sweeps immediately and then every interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	if s.interval <= 0 {
		s.log.Info("sweeper disabled")
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("sweeper started", zap.Duration("interval", s.interval))
	for {
		s.RunOnce(ctx)
		select {
		case <-ctx.Done():
			s.log.Info("sweeper stopped")
			return
		case <-ticker.C:
		}
	}
}

// RunOnce performs a single reconciliation and purge pass.
func (s *Sweeper) RunOnce(ctx context.Context) {
	now := s.now()

	activated, err := s.reconciler.Sweep(ctx, now.Add(-s.lookback))
	if err != nil {
		s.log.Error("payment sweep failed", zap.Error(err))
	} else if activated > 0 {
		s.log.Info("payment sweep activated subscriptions", zap.Int("count", activated))
	}

	purged, err := s.sessions.DeleteExpiredSessions(ctx, now)
	if err != nil {
		s.log.Error("session purge failed", zap.Error(err))
		return
	}
	if purged > 0 {
		s.log.Debug("expired sessions purged", zap.Int64("count", purged))
	}
}
