package assessor

import (
	"context"
	"time"
)

func (s *Service) retentionLoop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.cfg.SweepInterval())
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep removes assessments older than the retention window and drops
// expired analyzer results from the cache.
func (s *Service) sweep(ctx context.Context) {
	cutoff := s.now().Add(-s.cfg.RetentionMaxAge())
	n, err := s.store.DeleteAssessmentsBefore(ctx, cutoff)
	if err != nil {
		s.logger.Error("retention sweep failed", "error", err)
		return
	}
	s.metrics.RetentionSwept(n)
	purged := s.results.Purge()
	if n > 0 || purged > 0 {
		s.logger.Info("retention sweep", "deleted", n, "cutoff", cutoff, "cache_purged", purged)
	}
}
