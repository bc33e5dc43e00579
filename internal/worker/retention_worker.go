package worker

import (
	"context"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/tournament-service/internal/config"
	"github.com/spec-kit/tournament-service/internal/service"
)

// StartRetentionWorker schedules the daily audit purge. Returns the scheduler
// so the caller can shut it down; nil when retention is disabled.
func StartRetentionWorker(audit *service.AuditService, cfg config.AuditConfig, logger *zap.Logger) (gocron.Scheduler, error) {
	if cfg.RetentionDisabled {
		logger.Info("audit retention sweep disabled")
		return nil, nil
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	hour := cfg.CleanupHourUTC
	if hour < 0 || hour > 23 {
		hour = 3
	}
	_, err = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(uint(hour), 0, 0))),
		gocron.NewTask(func() {
			removed, err := audit.Cleanup(context.Background(), cfg.RetentionDays)
			if err != nil {
				logger.Warn("audit retention sweep failed", zap.Error(err))
				return
			}
			logger.Info("audit retention sweep completed",
				zap.Int64("removed", removed),
				zap.Int("retention_days", cfg.RetentionDays))
		}),
	)
	if err != nil {
		return nil, err
	}

	sched.Start()
	return sched, nil
}
