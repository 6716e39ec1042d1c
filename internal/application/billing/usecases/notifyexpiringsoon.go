package usecases

import (
	"context"
	"time"

	"github.com/fibrelink-inc/fibrelink/internal/domain/billing"
	"github.com/fibrelink-inc/fibrelink/internal/domain/shared/events"
	"github.com/fibrelink-inc/fibrelink/internal/shared/biztime"
	"github.com/fibrelink-inc/fibrelink/internal/shared/logger"
)

// NotifyExpiringSoonUseCase scans for active subscriptions whose expiry
// falls within the notification window and emits one expiring-soon
// event each. Read-only: it never mutates subscriptions or the ledger.
type NotifyExpiringSoonUseCase struct {
	subscriptionRepo billing.SubscriptionRepository
	publisher        events.EventPublisher
	logger           logger.Interface
	windowDays       int
}

func NewNotifyExpiringSoonUseCase(
	subscriptionRepo billing.SubscriptionRepository,
	publisher events.EventPublisher,
	windowDays int,
	logger logger.Interface,
) *NotifyExpiringSoonUseCase {
	if windowDays <= 0 {
		windowDays = 7
	}
	return &NotifyExpiringSoonUseCase{
		subscriptionRepo: subscriptionRepo,
		publisher:        publisher,
		logger:           logger,
		windowDays:       windowDays,
	}
}

// Execute emits events for subscriptions expiring within the window and
// returns how many were signalled.
func (uc *NotifyExpiringSoonUseCase) Execute(ctx context.Context, now time.Time) (int, error) {
	from := biztime.StartOfDayUTC(now)
	to := biztime.EndOfDayUTC(now.AddDate(0, 0, uc.windowDays))

	subs, err := uc.subscriptionRepo.FindExpiringBetween(ctx, from, to)
	if err != nil {
		uc.logger.Errorw("failed to find expiring subscriptions", "error", err)
		return 0, mapDomainError(err)
	}

	notified := 0
	for _, sub := range subs {
		expiry := sub.PlanExpiryDate()
		if expiry == nil {
			continue
		}

		daysRemaining := biztime.DaysUntil(now, *expiry)
		event := billing.NewExpiringSoonEvent(sub.SID(), sub.PlanID(), *expiry, daysRemaining)
		if err := uc.publisher.Publish(event); err != nil {
			uc.logger.Warnw("failed to publish expiring-soon event", "error", err, "sid", sub.SID())
			continue
		}
		notified++
	}

	if notified > 0 {
		uc.logger.Infow("expiring-soon notifications queued", "count", notified, "window_days", uc.windowDays)
	}

	return notified, nil
}
