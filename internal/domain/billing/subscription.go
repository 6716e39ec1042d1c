package billing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	vo "github.com/fibrelink-inc/fibrelink/internal/domain/billing/valueobjects"
	"github.com/fibrelink-inc/fibrelink/internal/shared/biztime"
)

// Subscription is the billing aggregate root, one per subscriber. All
// billing mutations go through its methods; direct field writes are not
// possible outside this package. Every mutating method bumps the version
// used for optimistic locking at the storage layer.
type Subscription struct {
	id               uint
	sid              string
	planID           string
	planStartDate    time.Time
	planExpiryDate   *time.Time
	paymentStatus    vo.PaymentStatus
	oldPendingAmount decimal.Decimal
	paymentDueDate   *time.Time
	accountStatus    vo.AccountStatus
	version          int
	createdAt        time.Time
	updatedAt        time.Time
}

// NewSubscription creates a freshly provisioned subscription awaiting
// installation. The plan start date is the provisioning date; the expiry
// date stays unset until first activation.
func NewSubscription(sid, planID string, provisionedAt time.Time) (*Subscription, error) {
	if sid == "" {
		return nil, fmt.Errorf("subscriber SID is required")
	}
	if planID == "" {
		return nil, fmt.Errorf("plan ID is required")
	}

	now := time.Now().UTC()
	return &Subscription{
		sid:              sid,
		planID:           planID,
		planStartDate:    provisionedAt,
		paymentStatus:    vo.PaymentStatusPending,
		oldPendingAmount: decimal.Zero,
		accountStatus:    vo.AccountStatusPendingInstallation,
		version:          1,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

// ReconstructSubscriptionParams carries persisted state back into the aggregate.
type ReconstructSubscriptionParams struct {
	ID               uint
	SID              string
	PlanID           string
	PlanStartDate    time.Time
	PlanExpiryDate   *time.Time
	PaymentStatus    vo.PaymentStatus
	OldPendingAmount decimal.Decimal
	PaymentDueDate   *time.Time
	AccountStatus    vo.AccountStatus
	Version          int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ReconstructSubscription rebuilds a subscription from persistence.
func ReconstructSubscription(p ReconstructSubscriptionParams) (*Subscription, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if p.SID == "" {
		return nil, fmt.Errorf("subscriber SID is required")
	}
	if p.PlanID == "" {
		return nil, fmt.Errorf("plan ID is required")
	}
	if !p.PaymentStatus.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPaymentStatus, p.PaymentStatus)
	}
	if !p.AccountStatus.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAccountStatus, p.AccountStatus)
	}
	if p.OldPendingAmount.IsNegative() {
		return nil, ErrNegativePendingAmount
	}
	if p.PlanExpiryDate != nil && p.PlanExpiryDate.Before(p.PlanStartDate) {
		return nil, ErrExpiryBeforeStart
	}

	return &Subscription{
		id:               p.ID,
		sid:              p.SID,
		planID:           p.PlanID,
		planStartDate:    p.PlanStartDate,
		planExpiryDate:   p.PlanExpiryDate,
		paymentStatus:    p.PaymentStatus,
		oldPendingAmount: p.OldPendingAmount,
		paymentDueDate:   p.PaymentDueDate,
		accountStatus:    p.AccountStatus,
		version:          p.Version,
		createdAt:        p.CreatedAt,
		updatedAt:        p.UpdatedAt,
	}, nil
}

func (s *Subscription) ID() uint                          { return s.id }
func (s *Subscription) SID() string                       { return s.sid }
func (s *Subscription) PlanID() string                    { return s.planID }
func (s *Subscription) PlanStartDate() time.Time          { return s.planStartDate }
func (s *Subscription) PlanExpiryDate() *time.Time        { return s.planExpiryDate }
func (s *Subscription) PaymentStatus() vo.PaymentStatus   { return s.paymentStatus }
func (s *Subscription) OldPendingAmount() decimal.Decimal { return s.oldPendingAmount }
func (s *Subscription) PaymentDueDate() *time.Time        { return s.paymentDueDate }
func (s *Subscription) AccountStatus() vo.AccountStatus   { return s.accountStatus }
func (s *Subscription) Version() int                      { return s.version }
func (s *Subscription) CreatedAt() time.Time              { return s.createdAt }
func (s *Subscription) UpdatedAt() time.Time              { return s.updatedAt }

// SetID sets the subscription ID (only for persistence layer use)
func (s *Subscription) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("subscription ID cannot be zero")
	}
	s.id = id
	return nil
}

// IsPlanActive reports whether the plan is usable at the given instant.
// This is always derived from account status and expiry, never stored.
func (s *Subscription) IsPlanActive(now time.Time) bool {
	if s.accountStatus != vo.AccountStatusActive {
		return false
	}
	if s.planExpiryDate == nil {
		return false
	}
	return !s.planExpiryDate.Before(biztime.StartOfDayUTC(now))
}

// Activate transitions a pending installation to active service, fixing
// the plan start date and the first expiry date.
func (s *Subscription) Activate(startDate, expiryDate time.Time) error {
	if s.accountStatus == vo.AccountStatusActive {
		return nil
	}
	if !s.accountStatus.CanTransitionTo(vo.AccountStatusActive) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidStatusChange, s.accountStatus, vo.AccountStatusActive)
	}
	if expiryDate.Before(startDate) {
		return ErrExpiryBeforeStart
	}

	s.planStartDate = startDate
	s.planExpiryDate = &expiryDate
	s.accountStatus = vo.AccountStatusActive
	s.touch()
	return nil
}

// ApplyRenewal moves the expiry forward and reactivates an expired
// subscription. The new expiry comes from the renewal calculator.
func (s *Subscription) ApplyRenewal(newExpiry time.Time) error {
	if newExpiry.Before(s.planStartDate) {
		return ErrExpiryBeforeStart
	}

	s.planExpiryDate = &newExpiry
	if s.accountStatus == vo.AccountStatusExpired {
		s.accountStatus = vo.AccountStatusActive
	}
	s.touch()
	return nil
}

// ApplyReduction moves the expiry backward to correct an accidental
// renewal. Unlike ApplyRenewal it never changes the account status, and
// it rejects reductions that would cross the plan start date.
func (s *Subscription) ApplyReduction(newExpiry time.Time) error {
	if s.planExpiryDate == nil {
		return ErrNotActivated
	}
	if newExpiry.Before(s.planStartDate) {
		return ErrExpiryBeforeStart
	}

	s.planExpiryDate = &newExpiry
	s.touch()
	return nil
}

// ChangePlan switches the subscription to another plan. Changing to the
// current plan is a no-op and does not bump the version.
func (s *Subscription) ChangePlan(newPlanID string) error {
	if newPlanID == "" {
		return fmt.Errorf("new plan ID is required")
	}
	if newPlanID == s.planID {
		return nil
	}

	s.planID = newPlanID
	s.touch()
	return nil
}

// SetPaymentStatus records a payment status transition. Any status may
// move to any other; unknown values are rejected at this boundary.
func (s *Subscription) SetPaymentStatus(status vo.PaymentStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidPaymentStatus, status)
	}
	if status == s.paymentStatus {
		return nil
	}

	s.paymentStatus = status
	s.touch()
	return nil
}

// SetOldPendingAmount replaces the carried-forward balance. Negative
// amounts are a business-rule violation, never clamped silently.
func (s *Subscription) SetOldPendingAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrNegativePendingAmount
	}
	if amount.Equal(s.oldPendingAmount) {
		return nil
	}

	s.oldPendingAmount = amount
	s.touch()
	return nil
}

// SetPaymentDueDate sets or clears the payment due date. A nil due date
// means the subscriber is paid up.
func (s *Subscription) SetPaymentDueDate(dueDate *time.Time) {
	if equalDatePtr(s.paymentDueDate, dueDate) {
		return
	}

	s.paymentDueDate = dueDate
	s.touch()
}

// SetPlanStartDate moves the plan start date, keeping the invariant that
// the expiry never precedes it.
func (s *Subscription) SetPlanStartDate(startDate time.Time) error {
	if s.planExpiryDate != nil && s.planExpiryDate.Before(startDate) {
		return ErrExpiryBeforeStart
	}
	if startDate.Equal(s.planStartDate) {
		return nil
	}

	s.planStartDate = startDate
	s.touch()
	return nil
}

// Suspend pauses an active subscription administratively.
func (s *Subscription) Suspend() error {
	if s.accountStatus == vo.AccountStatusSuspended {
		return nil
	}
	if !s.accountStatus.CanTransitionTo(vo.AccountStatusSuspended) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidStatusChange, s.accountStatus, vo.AccountStatusSuspended)
	}

	s.accountStatus = vo.AccountStatusSuspended
	s.touch()
	return nil
}

// Resume lifts an administrative suspension.
func (s *Subscription) Resume() error {
	if s.accountStatus == vo.AccountStatusActive {
		return nil
	}
	if s.accountStatus != vo.AccountStatusSuspended {
		return fmt.Errorf("%w: %s to %s", ErrInvalidStatusChange, s.accountStatus, vo.AccountStatusActive)
	}

	s.accountStatus = vo.AccountStatusActive
	s.touch()
	return nil
}

// MarkAsExpired reclassifies an active subscription whose expiry has
// passed. Only the status recomputation sweep calls this; it never
// touches suspended or pending-installation subscriptions.
func (s *Subscription) MarkAsExpired() error {
	if s.accountStatus == vo.AccountStatusExpired {
		return nil
	}
	if !s.accountStatus.CanTransitionTo(vo.AccountStatusExpired) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidStatusChange, s.accountStatus, vo.AccountStatusExpired)
	}

	s.accountStatus = vo.AccountStatusExpired
	s.touch()
	return nil
}

func (s *Subscription) touch() {
	s.updatedAt = time.Now().UTC()
	s.version++
}

func equalDatePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
