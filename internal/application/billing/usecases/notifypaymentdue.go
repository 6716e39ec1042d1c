package usecases

import (
	"context"
	"time"

	"github.com/fibrelink-inc/fibrelink/internal/domain/billing"
	"github.com/fibrelink-inc/fibrelink/internal/domain/shared/events"
	"github.com/fibrelink-inc/fibrelink/internal/shared/biztime"
	"github.com/fibrelink-inc/fibrelink/internal/shared/logger"
)

// NotifyPaymentDueUseCase signals subscribers whose unpaid balance is
// due within the look-ahead window or already overdue. Read-only, like
// the expiring-soon scan.
type NotifyPaymentDueUseCase struct {
	subscriptionRepo billing.SubscriptionRepository
	publisher        events.EventPublisher
	logger           logger.Interface
	lookAheadDays    int
}

func NewNotifyPaymentDueUseCase(
	subscriptionRepo billing.SubscriptionRepository,
	publisher events.EventPublisher,
	lookAheadDays int,
	logger logger.Interface,
) *NotifyPaymentDueUseCase {
	if lookAheadDays < 0 {
		lookAheadDays = 0
	}
	return &NotifyPaymentDueUseCase{
		subscriptionRepo: subscriptionRepo,
		publisher:        publisher,
		logger:           logger,
		lookAheadDays:    lookAheadDays,
	}
}

// Execute emits payment-due events and returns how many were signalled.
func (uc *NotifyPaymentDueUseCase) Execute(ctx context.Context, now time.Time) (int, error) {
	cutoff := biztime.EndOfDayUTC(now.AddDate(0, 0, uc.lookAheadDays))

	subs, err := uc.subscriptionRepo.FindWithPaymentDueBefore(ctx, cutoff)
	if err != nil {
		uc.logger.Errorw("failed to find subscriptions with payment due", "error", err)
		return 0, mapDomainError(err)
	}

	notified := 0
	for _, sub := range subs {
		due := sub.PaymentDueDate()
		if due == nil {
			continue
		}

		event := billing.NewPaymentDueEvent(sub.SID(), *due)
		if err := uc.publisher.Publish(event); err != nil {
			uc.logger.Warnw("failed to publish payment-due event", "error", err, "sid", sub.SID())
			continue
		}
		notified++
	}

	if notified > 0 {
		uc.logger.Infow("payment-due notifications queued", "count", notified)
	}

	return notified, nil
}
