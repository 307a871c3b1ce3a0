package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DispatchScheduler sweeps pending notifications whose scheduled_for has
// passed and hands them to the dispatcher. Runs once a minute.
type DispatchScheduler struct {
	store    *NotificationStore
	training *TrainingService
	logger   *zap.SugaredLogger
	cron     *cron.Cron
}

func NewDispatchScheduler(store *NotificationStore, training *TrainingService, logger *zap.SugaredLogger) *DispatchScheduler {
	return &DispatchScheduler{
		store:    store,
		training: training,
		logger:   logger,
		cron:     cron.New(),
	}
}

func (d *DispatchScheduler) Start() error {
	if _, err := d.cron.AddFunc("* * * * *", d.sweep); err != nil {
		return err
	}
	d.cron.Start()
	d.logger.Info("dispatch scheduler started")
	return nil
}

func (d *DispatchScheduler) Stop() {
	ctx := d.cron.Stop()
	<-ctx.Done()
}

func (d *DispatchScheduler) sweep() {
	due, err := d.store.DuePending(time.Now())
	if err != nil {
		d.logger.Errorw("scheduled dispatch sweep failed", "error", err)
		return
	}
	if len(due) == 0 {
		return
	}

	ctx := context.Background()
	for i := range due {
		n := due[i]
		res, err := d.training.DispatchForEvent(ctx, &n)
		if err != nil {
			d.logger.Warnw("scheduled dispatch failed",
				"notification_id", n.ID, "failed", res.Failed, "error", err)
			continue
		}
		d.logger.Infow("scheduled dispatch done", "notification_id", n.ID, "sent", res.Sent)
	}
}
