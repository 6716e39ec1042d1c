package email

import (
	"fmt"

	"github.com/fibrelink-inc/fibrelink/internal/domain/billing"
	"github.com/fibrelink-inc/fibrelink/internal/domain/shared/events"
	"github.com/fibrelink-inc/fibrelink/internal/shared/biztime"
	"github.com/fibrelink-inc/fibrelink/internal/shared/logger"
)

// BillingEventSubscriber forwards billing domain events to the ops
// mailbox. Send failures are logged and swallowed; email is advisory
// and never affects billing state.
type BillingEventSubscriber struct {
	service *SMTPEmailService
	logger  logger.Interface
}

func NewBillingEventSubscriber(service *SMTPEmailService, logger logger.Interface) *BillingEventSubscriber {
	return &BillingEventSubscriber{
		service: service,
		logger:  logger,
	}
}

// Register subscribes the email handlers to the dispatcher.
func (s *BillingEventSubscriber) Register(subscriber events.EventSubscriber) error {
	registrations := map[string]func(events.DomainEvent) error{
		billing.EventTypeSubscriptionRenewed: s.handleRenewed,
		billing.EventTypeBecameExpired:       s.handleExpired,
		billing.EventTypeExpiringSoon:        s.handleExpiringSoon,
		billing.EventTypePaymentDue:          s.handlePaymentDue,
	}

	for eventType, handle := range registrations {
		if err := subscriber.Subscribe(eventType, events.NewSimpleEventHandler(eventType, handle)); err != nil {
			return fmt.Errorf("failed to subscribe %s: %w", eventType, err)
		}
	}

	return nil
}

func (s *BillingEventSubscriber) handleRenewed(e events.DomainEvent) error {
	event, ok := e.(*billing.SubscriptionRenewedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", e.GetEventType())
	}

	if err := s.service.SendRenewalReceipt(
		event.SubscriberSID,
		event.PlanID,
		biztime.FormatDate(event.NewExpiryDate),
		event.Reactivated,
	); err != nil {
		s.logger.Warnw("failed to send renewal receipt", "error", err, "sid", event.SubscriberSID)
	}
	return nil
}

func (s *BillingEventSubscriber) handleExpired(e events.DomainEvent) error {
	event, ok := e.(*billing.BecameExpiredEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", e.GetEventType())
	}

	if err := s.service.SendExpiredNotice(
		event.SubscriberSID,
		event.PlanID,
		biztime.FormatDate(event.ExpiredOn),
	); err != nil {
		s.logger.Warnw("failed to send expired notice", "error", err, "sid", event.SubscriberSID)
	}
	return nil
}

func (s *BillingEventSubscriber) handleExpiringSoon(e events.DomainEvent) error {
	event, ok := e.(*billing.ExpiringSoonEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", e.GetEventType())
	}

	if err := s.service.SendExpiringSoonNotice(
		event.SubscriberSID,
		event.PlanID,
		biztime.FormatDate(event.ExpiryDate),
		event.DaysRemaining,
	); err != nil {
		s.logger.Warnw("failed to send expiring-soon notice", "error", err, "sid", event.SubscriberSID)
	}
	return nil
}

func (s *BillingEventSubscriber) handlePaymentDue(e events.DomainEvent) error {
	event, ok := e.(*billing.PaymentDueEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", e.GetEventType())
	}

	if err := s.service.SendPaymentDueNotice(
		event.SubscriberSID,
		biztime.FormatDate(event.DueDate),
	); err != nil {
		s.logger.Warnw("failed to send payment-due notice", "error", err, "sid", event.SubscriberSID)
	}
	return nil
}
