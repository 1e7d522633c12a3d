// Package retention periodically purges stale fast-path cache records.
// Promoted records are denormalized copies, so deleting an old one only
// sends the next query back through the canonical record; truth records
// and usage counters are never purged.
package retention

import (
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"

	"answerdb/pkg/config"
	"answerdb/pkg/logger"
	"answerdb/pkg/store"
)

const defaultCron = "0 2 * * *"

// Start starts the retention scheduler if enabled. Returns a cancel func.
func Start(ctx context.Context, eff config.EffectiveConfigResult) (context.CancelFunc, error) {
	ret := eff.Config.Retention

	if !ret.Enabled {
		logger.Info("retention_disabled")
		return func() {}, nil
	}

	period, err := time.ParseDuration(ret.Period)
	if err != nil || period <= 0 {
		return nil, fmt.Errorf("invalid retention period %q", ret.Period)
	}

	cronExpr := ret.Cron
	if cronExpr == "" {
		cronExpr = defaultCron
	}
	if !gronx.IsValid(cronExpr) {
		logger.Error("retention_invalid_cron", "cron", ret.Cron)
		return nil, fmt.Errorf("invalid retention cron expression: %s", ret.Cron)
	}

	logger.Info("retention_enabled", "cron", cronExpr, "period", ret.Period)
	ctx2, cancel := context.WithCancel(ctx)
	go runScheduler(ctx2, cronExpr, period)
	return cancel, nil
}

// runScheduler computes the next tick for the configured cron expression
// and sleeps until that time.
func runScheduler(ctx context.Context, cronExpr string, period time.Duration) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("retention_scheduler_stopping")
			return
		default:
		}

		now := time.Now().UTC()
		next, err := gronx.NextTickAfter(cronExpr, now, false)
		if err != nil {
			logger.Error("retention_nexttick_failed", "cron", cronExpr, "error", err)
			select {
			case <-time.After(30 * time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}

		select {
		case <-time.After(time.Until(next)):
		case <-ctx.Done():
			logger.Info("retention_scheduler_stopping")
			return
		}

		if err := RunOnce(period); err != nil {
			logger.Error("retention_run_error", "error", err)
		}
	}
}

// RunOnce deletes every promoted record older than the period. Exported so
// admin triggers and tests can run a purge on demand.
func RunOnce(period time.Duration) error {
	cutoff := time.Now().UTC().Add(-period).UnixNano()
	cached, err := store.ListCachedAnswers()
	if err != nil {
		return err
	}
	purged := 0
	for q, rec := range cached {
		if rec.TS >= cutoff {
			continue
		}
		if err := store.DeleteCachedAnswer(q); err != nil {
			return err
		}
		purged++
	}
	logger.Info("retention_run_complete", "inspected", len(cached), "purged", purged)
	return nil
}
