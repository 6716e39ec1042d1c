package scheduler

import (
	"context"
	"sync"
	"time"

	billingUsecases "github.com/fibrelink-inc/fibrelink/internal/application/billing/usecases"
	"github.com/fibrelink-inc/fibrelink/internal/shared/biztime"
	"github.com/fibrelink-inc/fibrelink/internal/shared/logger"
)

// BillingScheduler runs the periodic billing maintenance tasks:
// - the status recomputation sweep that marks lapsed subscriptions expired
// - the expiring-soon scan
// - the payment-due scan
// Reads always derive activity from the expiry date, so a missed sweep
// never shows a lapsed plan as active; the sweep keeps the stored
// status consistent for reports and listings.
type BillingScheduler struct {
	recomputeStatusesUC  *billingUsecases.RecomputeStatusesUseCase
	notifyExpiringSoonUC *billingUsecases.NotifyExpiringSoonUseCase
	notifyPaymentDueUC   *billingUsecases.NotifyPaymentDueUseCase
	logger               logger.Interface
	stopChan             chan struct{}
	stopOnce             sync.Once
	wg                   sync.WaitGroup
	interval             time.Duration
}

// NewBillingScheduler creates a new BillingScheduler. A zero interval
// defaults to six hours.
func NewBillingScheduler(
	recomputeStatusesUC *billingUsecases.RecomputeStatusesUseCase,
	notifyExpiringSoonUC *billingUsecases.NotifyExpiringSoonUseCase,
	notifyPaymentDueUC *billingUsecases.NotifyPaymentDueUseCase,
	interval time.Duration,
	logger logger.Interface,
) *BillingScheduler {
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	return &BillingScheduler{
		recomputeStatusesUC:  recomputeStatusesUC,
		notifyExpiringSoonUC: notifyExpiringSoonUC,
		notifyPaymentDueUC:   notifyPaymentDueUC,
		logger:               logger,
		stopChan:             make(chan struct{}),
		interval:             interval,
	}
}

// Start starts the scheduler
func (s *BillingScheduler) Start(ctx context.Context) {
	s.logger.Infow("starting billing scheduler", "interval", s.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runLoop(ctx)
	}()
}

// Stop stops the scheduler gracefully
func (s *BillingScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Infow("stopping billing scheduler")
		close(s.stopChan)
		s.wg.Wait()
		s.logger.Infow("billing scheduler stopped")
	})
}

func (s *BillingScheduler) runLoop(ctx context.Context) {
	// Run immediately on startup to catch up after downtime
	s.runSweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("billing scheduler stopped due to context cancellation")
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.runSweep(ctx)
		}
	}
}

func (s *BillingScheduler) runSweep(ctx context.Context) {
	s.logger.Debugw("billing sweep started")

	startTime := time.Now()
	now := biztime.NowUTC()

	expiredCount, err := s.recomputeStatusesUC.Execute(ctx, now)
	if err != nil {
		s.logger.Errorw("status recomputation sweep failed",
			"error", err,
			"duration", time.Since(startTime),
		)
	}

	expiringCount, err := s.notifyExpiringSoonUC.Execute(ctx, now)
	if err != nil {
		s.logger.Errorw("expiring-soon scan failed", "error", err)
	}

	dueCount, err := s.notifyPaymentDueUC.Execute(ctx, now)
	if err != nil {
		s.logger.Errorw("payment-due scan failed", "error", err)
	}

	s.logger.Infow("billing sweep finished",
		"expired", expiredCount,
		"expiring_soon", expiringCount,
		"payment_due", dueCount,
		"duration", time.Since(startTime),
	)
}
