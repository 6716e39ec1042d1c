package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/fibrelink-inc/fibrelink/internal/domain/billing"
	"github.com/fibrelink-inc/fibrelink/internal/domain/shared/events"
	"github.com/fibrelink-inc/fibrelink/internal/shared/biztime"
	"github.com/fibrelink-inc/fibrelink/internal/shared/logger"
)

// RecomputeStatusesUseCase is the scheduled sweep that reclassifies
// active subscriptions as expired once their expiry date has fully
// passed. It is idempotent: a second run past the same threshold finds
// nothing left to transition. Expiry is a consequence of time passing,
// not an admin action, so the sweep writes no ledger rows; it emits one
// became-expired event per transition instead.
type RecomputeStatusesUseCase struct {
	subscriptionRepo billing.SubscriptionRepository
	publisher        events.EventPublisher
	logger           logger.Interface
}

func NewRecomputeStatusesUseCase(
	subscriptionRepo billing.SubscriptionRepository,
	logger logger.Interface,
) *RecomputeStatusesUseCase {
	return &RecomputeStatusesUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

// SetEventPublisher sets the event publisher (optional).
func (uc *RecomputeStatusesUseCase) SetEventPublisher(publisher events.EventPublisher) {
	uc.publisher = publisher
}

// Execute transitions every active subscription whose expiry precedes
// the start of now's business day and returns the transition count.
// Subscriptions modified concurrently are skipped; the next sweep picks
// them up if they still qualify.
func (uc *RecomputeStatusesUseCase) Execute(ctx context.Context, now time.Time) (int, error) {
	cutoff := biztime.StartOfDayUTC(now)

	subs, err := uc.subscriptionRepo.FindActiveExpiredBefore(ctx, cutoff)
	if err != nil {
		uc.logger.Errorw("failed to find expired subscriptions", "error", err)
		return 0, mapDomainError(err)
	}

	transitioned := 0
	for _, sub := range subs {
		expectedVersion := sub.Version()
		expiry := copyDate(sub.PlanExpiryDate())

		if err := sub.MarkAsExpired(); err != nil {
			uc.logger.Warnw("skipping subscription in sweep", "error", err, "sid", sub.SID())
			continue
		}
		if sub.Version() == expectedVersion {
			// Already expired, nothing crossed the threshold.
			continue
		}

		if err := uc.subscriptionRepo.Update(ctx, sub, expectedVersion); err != nil {
			if errors.Is(err, billing.ErrVersionConflict) {
				uc.logger.Debugw("subscription changed during sweep, skipping", "sid", sub.SID())
				continue
			}
			uc.logger.Errorw("failed to persist expiry transition", "error", err, "sid", sub.SID())
			return transitioned, mapDomainError(err)
		}

		transitioned++

		if uc.publisher != nil && expiry != nil {
			event := billing.NewBecameExpiredEvent(sub.SID(), sub.PlanID(), *expiry)
			if err := uc.publisher.Publish(event); err != nil {
				uc.logger.Warnw("failed to publish became-expired event", "error", err, "sid", sub.SID())
			}
		}
	}

	if transitioned > 0 {
		uc.logger.Infow("status recomputation sweep finished",
			"transitioned", transitioned,
			"scanned", len(subs),
		)
	}

	return transitioned, nil
}
