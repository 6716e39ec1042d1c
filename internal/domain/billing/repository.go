package billing

import (
	"context"
	"time"
)

// SubscriptionRepository persists the subscription aggregate.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *Subscription) error
	FindBySID(ctx context.Context, sid string) (*Subscription, error)

	// Update persists the aggregate only when the stored version still
	// equals expectedVersion (the version the caller loaded). A
	// concurrent writer in between surfaces as ErrVersionConflict and
	// nothing is written.
	Update(ctx context.Context, sub *Subscription, expectedVersion int) error

	// FindActiveExpiredBefore returns active subscriptions whose expiry
	// precedes the cutoff. Input to the status recomputation sweep.
	FindActiveExpiredBefore(ctx context.Context, cutoff time.Time) ([]*Subscription, error)

	// FindExpiringBetween returns active subscriptions whose expiry
	// falls inside [from, to]. Input to the expiring-soon notifier.
	FindExpiringBetween(ctx context.Context, from, to time.Time) ([]*Subscription, error)

	// FindWithPaymentDueBefore returns subscriptions with an unpaid due
	// date at or before the cutoff.
	FindWithPaymentDueBefore(ctx context.Context, cutoff time.Time) ([]*Subscription, error)

	List(ctx context.Context, offset, limit int) ([]*Subscription, int64, error)
	ExistsBySID(ctx context.Context, sid string) (bool, error)
}

// PlanRepository persists the plan catalog. The billing engine treats
// it as read-only; writes come from the administrative surface.
type PlanRepository interface {
	Create(ctx context.Context, plan *Plan) error
	FindBySID(ctx context.Context, sid string) (*Plan, error)
	Update(ctx context.Context, plan *Plan) error
	List(ctx context.Context) ([]*Plan, error)
}

// LedgerRepository persists the billing change ledger. Append and
// ListBySubscriber are the only operations the engine's normal paths
// use; FindByID, Update and Delete exist solely for the privileged
// audit-correction path.
type LedgerRepository interface {
	Append(ctx context.Context, record *BillingChangeRecord) error
	ListBySubscriber(ctx context.Context, subscriberSID string) ([]*BillingChangeRecord, error)

	FindByID(ctx context.Context, id uint) (*BillingChangeRecord, error)
	Update(ctx context.Context, record *BillingChangeRecord) error
	Delete(ctx context.Context, id uint) error
}
