// Package job provides background job schedulers.
package job

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"drama-catalog-service/internal/catalog"
	"drama-catalog-service/internal/domain"
	"drama-catalog-service/pkg/locker"
)

// RefreshScheduler periodically re-warms the catalog caches so browsing
// rarely waits on a cold upstream. Distributed locking ensures only one
// instance refreshes at a time.
type RefreshScheduler struct {
	service  *catalog.Service
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
	locker   locker.DistributedLocker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// RefreshConfig holds refresh scheduler configuration.
type RefreshConfig struct {
	Interval  time.Duration
	Timeout   time.Duration
	OnStartup bool
}

// NewRefreshScheduler creates a new RefreshScheduler with distributed
// locking support.
func NewRefreshScheduler(
	svc *catalog.Service,
	cfg RefreshConfig,
	logger *zap.Logger,
	locker locker.DistributedLocker,
) *RefreshScheduler {
	return &RefreshScheduler{
		service:  svc,
		interval: cfg.Interval,
		timeout:  cfg.Timeout,
		logger:   logger,
		locker:   locker,
	}
}

// Start begins the background refresh job.
func (s *RefreshScheduler) Start(runOnStartup bool) {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.logger.Info("starting refresh scheduler",
		zap.Duration("interval", s.interval),
		zap.Bool("run_on_startup", runOnStartup),
	)

	s.wg.Add(1)
	go s.run(runOnStartup)
}

// Stop gracefully stops the scheduler.
func (s *RefreshScheduler) Stop() {
	s.logger.Info("stopping refresh scheduler")
	s.cancel()
	s.wg.Wait()
	s.logger.Info("refresh scheduler stopped")
}

func (s *RefreshScheduler) run(runOnStartup bool) {
	defer s.wg.Done()

	if runOnStartup {
		s.executeRefresh()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.executeRefresh()
		}
	}
}

// executeRefresh warms every category under a distributed lock.
//
// Lock TTL = interval duration (cooldown model): on success the lock is held
// for the full interval so no other instance repeats the work; on failure it
// is released immediately so another instance can retry.
func (s *RefreshScheduler) executeRefresh() {
	const lockKey = "catalog:refresh:lock"

	acquired, err := s.locker.Acquire(s.ctx, lockKey, s.interval)
	if err != nil {
		s.logger.Error("failed to acquire distributed lock", zap.Error(err))

		return
	}
	if !acquired {
		s.logger.Debug("another instance is refreshing, skipping execution")

		return
	}

	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	warmed := 0
	failed := 0
	for _, category := range domain.Categories() {
		if err := s.service.Warm(ctx, category); err != nil {
			failed++
			s.logger.Warn("category refresh failed",
				zap.String("category", string(category)),
				zap.Error(err),
			)
			continue
		}
		warmed++
	}

	if failed > 0 {
		if err := s.locker.Release(s.ctx, lockKey); err != nil {
			s.logger.Error("failed to release lock after refresh error", zap.Error(err))
		}
		s.logger.Info("refresh completed with errors, lock released for retry",
			zap.Int("categories_warmed", warmed),
			zap.Int("categories_failed", failed),
		)

		return
	}

	s.logger.Info("refresh completed, lock held for cooldown",
		zap.Int("categories_warmed", warmed),
		zap.Duration("cooldown", s.interval),
	)
}
