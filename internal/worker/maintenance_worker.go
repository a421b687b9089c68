package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/config"
	"github.com/spec-kit/ticket-dashboard/internal/persistence"
	"github.com/spec-kit/ticket-dashboard/internal/service"
)

const maintenanceLockKey = "ticket-dashboard:maintenance"

// Sweeper runs one maintenance pass over the ticket store.
type Sweeper interface {
	RunMaintenance(ctx context.Context) (service.MaintenanceReport, error)
}

// Locker hands out a cross-instance lock.
type Locker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error)
}

// MaintenanceWorker runs the sweep on a cron schedule.
type MaintenanceWorker struct {
	sweeper  Sweeper
	locker   Locker
	lockTTL  time.Duration
	schedule string
	logger   *zap.Logger
}

// NewMaintenanceWorker validates the schedule and builds the worker.
// locker may be nil, in which case only the store's own guard applies.
func NewMaintenanceWorker(cfg config.MaintenanceConfig, sweeper Sweeper, locker Locker, logger *zap.Logger) (*MaintenanceWorker, error) {
	if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		return nil, fmt.Errorf("invalid MAINTENANCE_SCHEDULE %q: %w", cfg.Schedule, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := cfg.LockTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &MaintenanceWorker{
		sweeper:  sweeper,
		locker:   locker,
		lockTTL:  ttl,
		schedule: cfg.Schedule,
		logger:   logger.Named("maintenance"),
	}, nil
}

// RunOnce performs a single sweep, holding the distributed lock if one is
// configured. A lock held elsewhere yields a Skipped report.
func (w *MaintenanceWorker) RunOnce(ctx context.Context) (service.MaintenanceReport, error) {
	if w.locker != nil {
		release, err := w.locker.AcquireLock(ctx, maintenanceLockKey, w.lockTTL)
		switch {
		case errors.Is(err, persistence.ErrLockHeld):
			w.logger.Info("sweep skipped; another instance holds the lock")
			return service.MaintenanceReport{Skipped: true, RanAt: time.Now()}, nil
		case err != nil:
			w.logger.Warn("maintenance lock unavailable; sweeping locally", zap.Error(err))
		default:
			defer func() {
				if err := release(context.WithoutCancel(ctx)); err != nil {
					w.logger.Warn("release maintenance lock", zap.Error(err))
				}
			}()
		}
	}
	return w.sweeper.RunMaintenance(ctx)
}

// Start runs the schedule until ctx is cancelled, then waits for a
// running sweep to finish.
func (w *MaintenanceWorker) Start(ctx context.Context) error {
	c := cron.New(cron.WithChain(
		cron.Recover(cronLogger{w.logger}),
		cron.SkipIfStillRunning(cronLogger{w.logger}),
	))
	if _, err := c.AddFunc(w.schedule, func() {
		report, err := w.RunOnce(ctx)
		if err != nil {
			w.logger.Error("maintenance sweep failed", zap.Error(err))
			return
		}
		w.logger.Debug("maintenance tick",
			zap.Bool("skipped", report.Skipped),
			zap.Int("breached", len(report.Breached)),
			zap.Int("auto_closed", len(report.AutoClosed)))
	}); err != nil {
		return err
	}

	w.logger.Info("maintenance scheduled", zap.String("schedule", w.schedule))
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
