package server

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// startScheduler reloads the dataset every RefreshInterval. A non-positive
// interval leaves the scheduler empty, so only manual refreshes happen.
func (s *Server) startScheduler(ctx context.Context) (*cron.Cron, error) {
	c := cron.New()
	if s.cfg.RefreshInterval > 0 {
		spec := fmt.Sprintf("@every %s", s.cfg.RefreshInterval)
		if _, err := c.AddFunc(spec, func() {
			if _, err := s.Refresh(ctx); err != nil {
				zap.L().Warn("scheduled refresh failed", zap.Error(err))
			}
		}); err != nil {
			return nil, fmt.Errorf("failed to schedule refresh: %w", err)
		}
	}
	c.Start()
	return c, nil
}
