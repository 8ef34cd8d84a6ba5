package scheduler

import (
	"replenish-app/config"
	"replenish-app/engine"
	"replenish-app/services"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Start wires the daily planning chain: consumption profiles first, then
// the replenishment queue, then the DBM buffer review. Each job logs its
// batch outcome and never panics the process.
func Start(db *gorm.DB) *cron.Cron {
	c := cron.New()
	logger := config.GetLogger()

	c.AddFunc(config.CronProfileRecalc, func() {
		calc := engine.NewProfileCalculator(db)
		result := calc.RecalculateAll(time.Now())
		logger.WithFields(logrus.Fields{
			"module":    "scheduler",
			"job":       "profile_recalc",
			"processed": result.Processed,
			"failed":    result.Failed,
			"skipped":   result.Skipped,
		}).Info("profile recalculation run finished")
	})

	c.AddFunc(config.CronDailyQueue, func() {
		generator := engine.NewQueueGenerator(db)
		runID := uuid.New().String()
		result, err := generator.GenerateDailyQueue(runID, time.Now())
		if err != nil {
			config.LogError(logger, "scheduler", "daily_queue", runID, nil, err)
			return
		}
		logger.WithFields(logrus.Fields{
			"module":    "scheduler",
			"job":       "daily_queue",
			"run_id":    runID,
			"processed": result.Processed,
			"failed":    result.Failed,
		}).Info("daily queue generation finished")
	})

	c.AddFunc(config.CronDbmReview, func() {
		reviewer := engine.NewDBMReviewEngine(db)
		result, pendingCount, err := reviewer.CalculateRecommendations(time.Now())
		if err != nil {
			config.LogError(logger, "scheduler", "dbm_review", "review", nil, err)
			return
		}
		logger.WithFields(logrus.Fields{
			"module":    "scheduler",
			"job":       "dbm_review",
			"processed": result.Processed,
			"failed":    result.Failed,
			"pending":   pendingCount,
		}).Info("dbm review run finished")

		if pendingCount > 0 {
			if err := services.NotifyPendingApprovals(db); err != nil {
				config.LogError(logger, "scheduler", "dbm_review", "notify", nil, err)
			}
		}
	})

	c.Start()
	logger.WithField("module", "scheduler").Info("planning schedulers started")
	return c
}
