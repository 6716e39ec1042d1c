package billing

import "time"

// Event types consumed by the notification dispatcher.
const (
	EventTypeSubscriptionRenewed = "billing.subscription_renewed"
	EventTypeBecameExpired       = "billing.became_expired"
	EventTypeExpiringSoon        = "billing.expiring_soon"
	EventTypePaymentDue          = "billing.payment_due"
)

// SubscriptionRenewedEvent is emitted after a renewal commits.
type SubscriptionRenewedEvent struct {
	SubscriberSID string
	PlanID        string
	OldExpiryDate *time.Time
	NewExpiryDate time.Time
	Reactivated   bool
	OccurredAt    time.Time
}

func NewSubscriptionRenewedEvent(sid, planID string, oldExpiry *time.Time, newExpiry time.Time, reactivated bool) *SubscriptionRenewedEvent {
	return &SubscriptionRenewedEvent{
		SubscriberSID: sid,
		PlanID:        planID,
		OldExpiryDate: oldExpiry,
		NewExpiryDate: newExpiry,
		Reactivated:   reactivated,
		OccurredAt:    time.Now().UTC(),
	}
}

func (e *SubscriptionRenewedEvent) GetAggregateID() string    { return e.SubscriberSID }
func (e *SubscriptionRenewedEvent) GetEventType() string      { return EventTypeSubscriptionRenewed }
func (e *SubscriptionRenewedEvent) GetOccurredAt() time.Time  { return e.OccurredAt }

// BecameExpiredEvent is emitted once per subscription transitioned by
// the status recomputation sweep, never on repeated sweeps past the
// same threshold.
type BecameExpiredEvent struct {
	SubscriberSID string
	PlanID        string
	ExpiredOn     time.Time
	OccurredAt    time.Time
}

func NewBecameExpiredEvent(sid, planID string, expiredOn time.Time) *BecameExpiredEvent {
	return &BecameExpiredEvent{
		SubscriberSID: sid,
		PlanID:        planID,
		ExpiredOn:     expiredOn,
		OccurredAt:    time.Now().UTC(),
	}
}

func (e *BecameExpiredEvent) GetAggregateID() string   { return e.SubscriberSID }
func (e *BecameExpiredEvent) GetEventType() string     { return EventTypeBecameExpired }
func (e *BecameExpiredEvent) GetOccurredAt() time.Time { return e.OccurredAt }

// ExpiringSoonEvent signals that a plan expires within the notification
// window.
type ExpiringSoonEvent struct {
	SubscriberSID string
	PlanID        string
	ExpiryDate    time.Time
	DaysRemaining int
	OccurredAt    time.Time
}

func NewExpiringSoonEvent(sid, planID string, expiryDate time.Time, daysRemaining int) *ExpiringSoonEvent {
	return &ExpiringSoonEvent{
		SubscriberSID: sid,
		PlanID:        planID,
		ExpiryDate:    expiryDate,
		DaysRemaining: daysRemaining,
		OccurredAt:    time.Now().UTC(),
	}
}

func (e *ExpiringSoonEvent) GetAggregateID() string   { return e.SubscriberSID }
func (e *ExpiringSoonEvent) GetEventType() string     { return EventTypeExpiringSoon }
func (e *ExpiringSoonEvent) GetOccurredAt() time.Time { return e.OccurredAt }

// PaymentDueEvent signals an unpaid balance approaching or past its due
// date.
type PaymentDueEvent struct {
	SubscriberSID string
	DueDate       time.Time
	OccurredAt    time.Time
}

func NewPaymentDueEvent(sid string, dueDate time.Time) *PaymentDueEvent {
	return &PaymentDueEvent{
		SubscriberSID: sid,
		DueDate:       dueDate,
		OccurredAt:    time.Now().UTC(),
	}
}

func (e *PaymentDueEvent) GetAggregateID() string   { return e.SubscriberSID }
func (e *PaymentDueEvent) GetEventType() string     { return EventTypePaymentDue }
func (e *PaymentDueEvent) GetOccurredAt() time.Time { return e.OccurredAt }
