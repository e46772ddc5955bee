package worker

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron"
	"go.uber.org/zap"

	"github.com/spec-kit/shipment-service/internal/config"
	"github.com/spec-kit/shipment-service/internal/observability"
	"github.com/spec-kit/shipment-service/internal/persistence"
	"github.com/spec-kit/shipment-service/internal/service"
)

const (
	statusUpdaterJob     = "status-updater"
	statusUpdaterLockKey = "shipment-service:locks:status-updater"
)

// ErrUpdaterBusy is returned when another replica or request holds the run lock.
var ErrUpdaterBusy = errors.New("status updater already running")

// StatusRunner advances stale shipments.
type StatusRunner interface {
	AutoUpdateStatuses(ctx context.Context) (service.AutoUpdateReport, error)
}

// Locker hands out the cross-replica run lock.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (*persistence.Lock, bool, error)
}

// StatusUpdater runs the automatic shipment transitions on a cron schedule.
type StatusUpdater struct {
	runner      StatusRunner
	locks       Locker
	metrics     *observability.Metrics
	logger      *zap.Logger
	spec        string
	lockTTL     time.Duration
	requireLock bool
	cron        *cron.Cron
}

// NewStatusUpdater builds the job. A nil locker runs without cross-replica exclusion.
func NewStatusUpdater(cfg config.SchedulerConfig, runner StatusRunner, locks Locker, metrics *observability.Metrics, logger *zap.Logger) *StatusUpdater {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatusUpdater{
		runner:      runner,
		locks:       locks,
		metrics:     metrics,
		logger:      logger,
		spec:        cfg.Spec,
		lockTTL:     cfg.LockTTL(),
		requireLock: cfg.RequireLock,
	}
}

// Start schedules the job. Failed ticks are logged and retried on the next tick.
func (u *StatusUpdater) Start() error {
	c := cron.New()
	if err := c.AddFunc(u.spec, u.tick); err != nil {
		return err
	}
	c.Start()
	u.cron = c
	u.logger.Info("status updater scheduled", zap.String("spec", u.spec))
	return nil
}

// Stop halts scheduling. A run in progress finishes on its own.
func (u *StatusUpdater) Stop() {
	if u.cron != nil {
		u.cron.Stop()
	}
}

func (u *StatusUpdater) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), u.lockTTL)
	defer cancel()
	if _, err := u.Run(ctx); err != nil && !errors.Is(err, ErrUpdaterBusy) {
		u.logger.Error("status updater tick failed", zap.Error(err))
	}
}

// Run performs one update pass while holding the run lock. When the lock store
// is unreachable the pass still runs unless the lock is required: every advance
// re-checks its row under a row lock, so overlapping passes only skip work.
func (u *StatusUpdater) Run(ctx context.Context) (service.AutoUpdateReport, error) {
	outcome := "ok"
	if u.locks != nil {
		lock, ok, err := u.locks.TryLock(ctx, statusUpdaterLockKey, u.lockTTL)
		switch {
		case err != nil && u.requireLock:
			u.metrics.RecordJob(statusUpdaterJob, "lock_error")
			return service.AutoUpdateReport{}, err
		case err != nil:
			u.logger.Warn("status updater lock unavailable; running unlocked", zap.Error(err))
			outcome = "ok_unlocked"
		case !ok:
			u.metrics.RecordJob(statusUpdaterJob, "skipped")
			u.logger.Debug("status updater lock held elsewhere")
			return service.AutoUpdateReport{}, ErrUpdaterBusy
		default:
			defer func() {
				if err := lock.Release(context.Background()); err != nil {
					u.logger.Warn("status updater lock release failed", zap.Error(err))
				}
			}()
		}
	}

	report, err := u.runner.AutoUpdateStatuses(ctx)
	if err != nil {
		u.metrics.RecordJob(statusUpdaterJob, "error")
		return report, err
	}
	u.metrics.RecordJob(statusUpdaterJob, outcome)
	return report, nil
}
