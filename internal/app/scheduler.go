package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bobmcallan/arkrank/internal/common"
	"github.com/bobmcallan/arkrank/internal/interfaces"
)

// scheduler re-runs the deterministic recommendation on a cron schedule so
// the persisted "latest" report tracks freshly ingested snapshots.
type scheduler struct {
	cron   *cron.Cron
	logger *common.Logger
}

func newScheduler(spec string, service interfaces.RecommendService, logger *common.Logger) (*scheduler, error) {
	c := cron.New()

	_, err := c.AddFunc(spec, func() {
		start := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		report, err := service.Recommend(ctx, interfaces.RankOptions{})
		if err != nil {
			logger.Warn().Err(err).Msg("Scheduled ranking failed")
			return
		}

		logger.Info().
			Int("rows", len(report.Rows)).
			Dur("elapsed", time.Since(start)).
			Msg("Scheduled ranking complete")
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	logger.Info().Str("cron", spec).Msg("Ranking scheduler started")

	return &scheduler{cron: c, logger: logger}, nil
}

func (s *scheduler) stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info().Msg("Ranking scheduler stopped")
}
