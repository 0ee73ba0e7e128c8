package scheduler

import (
	"context"
	"time"
)

// Run ticks at every minute boundary until ctx is done. The tick runs inline,
// so a slow tick delays the next one instead of overlapping it.
func (s *Scheduler) Run(ctx context.Context) error {
	s.l.Infof(ctx, "scheduler.Run: started, lookback=%s location=%s", s.cfg.Lookback, s.cfg.Location)

	for {
		now := s.now()
		next := now.Truncate(time.Minute).Add(time.Minute)
		timer := time.NewTimer(next.Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.l.Info(ctx, "scheduler.Run: stopped")
			return ctx.Err()
		case <-timer.C:
		}

		s.Tick(ctx)
	}
}
