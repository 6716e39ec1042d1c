package billing

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	vo "github.com/fibrelink-inc/fibrelink/internal/domain/billing/valueobjects"
)

var ErrLedgerEntryImmutable = errors.New("ledger entry is immutable")

// BillingChangeRecord is one immutable audit entry in the billing change
// ledger. Exactly one previous/new pair is populated per record; which
// pair that is identifies the changed dimension. Records written by the
// generic patch path share ChangeTypeBillingUpdate, one record per
// changed dimension, so no before/after pair is ever lost.
type BillingChangeRecord struct {
	id            uint
	subscriberSID string
	changeType    vo.ChangeType

	prevPaymentStatus *vo.PaymentStatus
	newPaymentStatus  *vo.PaymentStatus

	prevPlanID *string
	newPlanID  *string

	prevPendingAmount *decimal.Decimal
	newPendingAmount  *decimal.Decimal

	prevDueDate *time.Time
	newDueDate  *time.Time

	prevStartDate *time.Time
	newStartDate  *time.Time

	prevExpiryDate *time.Time
	newExpiryDate  *time.Time

	actorID   string
	notes     *string
	createdAt time.Time
}

// NewBillingChangeRecord creates an empty ledger entry of the given
// change type. Callers populate exactly one dimension with a Set* method
// before appending it.
func NewBillingChangeRecord(subscriberSID string, changeType vo.ChangeType, actorID string) (*BillingChangeRecord, error) {
	if subscriberSID == "" {
		return nil, errors.New("subscriber SID is required")
	}
	if !changeType.IsValid() {
		return nil, errors.New("invalid change type: " + changeType.String())
	}
	if actorID == "" {
		return nil, errors.New("actor ID is required")
	}

	return &BillingChangeRecord{
		subscriberSID: subscriberSID,
		changeType:    changeType,
		actorID:       actorID,
		createdAt:     time.Now().UTC(),
	}, nil
}

// ReconstructBillingChangeRecordParams carries persisted ledger state.
type ReconstructBillingChangeRecordParams struct {
	ID                uint
	SubscriberSID     string
	ChangeType        vo.ChangeType
	PrevPaymentStatus *vo.PaymentStatus
	NewPaymentStatus  *vo.PaymentStatus
	PrevPlanID        *string
	NewPlanID         *string
	PrevPendingAmount *decimal.Decimal
	NewPendingAmount  *decimal.Decimal
	PrevDueDate       *time.Time
	NewDueDate        *time.Time
	PrevStartDate     *time.Time
	NewStartDate      *time.Time
	PrevExpiryDate    *time.Time
	NewExpiryDate     *time.Time
	ActorID           string
	Notes             *string
	CreatedAt         time.Time
}

// ReconstructBillingChangeRecord rebuilds a ledger entry from persistence.
func ReconstructBillingChangeRecord(p ReconstructBillingChangeRecordParams) (*BillingChangeRecord, error) {
	if p.ID == 0 {
		return nil, errors.New("ledger entry ID cannot be zero")
	}
	if p.SubscriberSID == "" {
		return nil, errors.New("subscriber SID is required")
	}
	if !p.ChangeType.IsValid() {
		return nil, errors.New("invalid change type: " + p.ChangeType.String())
	}

	return &BillingChangeRecord{
		id:                p.ID,
		subscriberSID:     p.SubscriberSID,
		changeType:        p.ChangeType,
		prevPaymentStatus: p.PrevPaymentStatus,
		newPaymentStatus:  p.NewPaymentStatus,
		prevPlanID:        p.PrevPlanID,
		newPlanID:         p.NewPlanID,
		prevPendingAmount: p.PrevPendingAmount,
		newPendingAmount:  p.NewPendingAmount,
		prevDueDate:       p.PrevDueDate,
		newDueDate:        p.NewDueDate,
		prevStartDate:     p.PrevStartDate,
		newStartDate:      p.NewStartDate,
		prevExpiryDate:    p.PrevExpiryDate,
		newExpiryDate:     p.NewExpiryDate,
		actorID:           p.ActorID,
		notes:             p.Notes,
		createdAt:         p.CreatedAt,
	}, nil
}

// SetID sets the record ID (only for persistence layer use)
func (r *BillingChangeRecord) SetID(id uint) error {
	if r.id != 0 {
		return ErrLedgerEntryImmutable
	}
	if id == 0 {
		return errors.New("ledger entry ID cannot be zero")
	}
	r.id = id
	return nil
}

func (r *BillingChangeRecord) SetPaymentStatusChange(prev, next vo.PaymentStatus) {
	r.prevPaymentStatus = &prev
	r.newPaymentStatus = &next
}

func (r *BillingChangeRecord) SetPlanChange(prevPlanID, newPlanID string) {
	r.prevPlanID = &prevPlanID
	r.newPlanID = &newPlanID
}

func (r *BillingChangeRecord) SetAmountChange(prev, next decimal.Decimal) {
	r.prevPendingAmount = &prev
	r.newPendingAmount = &next
}

// SetDueDateChange records a due date transition. Either side may be nil;
// a nil due date means the subscriber is paid up.
func (r *BillingChangeRecord) SetDueDateChange(prev, next *time.Time) {
	r.prevDueDate = prev
	r.newDueDate = next
}

func (r *BillingChangeRecord) SetStartDateChange(prev, next time.Time) {
	r.prevStartDate = &prev
	r.newStartDate = &next
}

// SetExpiryChange records an expiry transition. prev is nil for the
// first activation of a never-activated subscription.
func (r *BillingChangeRecord) SetExpiryChange(prev *time.Time, next time.Time) {
	r.prevExpiryDate = prev
	r.newExpiryDate = &next
}

func (r *BillingChangeRecord) SetNotes(notes string) {
	r.notes = &notes
}

func (r *BillingChangeRecord) ID() uint                              { return r.id }
func (r *BillingChangeRecord) SubscriberSID() string                 { return r.subscriberSID }
func (r *BillingChangeRecord) ChangeType() vo.ChangeType             { return r.changeType }
func (r *BillingChangeRecord) PrevPaymentStatus() *vo.PaymentStatus  { return r.prevPaymentStatus }
func (r *BillingChangeRecord) NewPaymentStatus() *vo.PaymentStatus   { return r.newPaymentStatus }
func (r *BillingChangeRecord) PrevPlanID() *string                   { return r.prevPlanID }
func (r *BillingChangeRecord) NewPlanID() *string                    { return r.newPlanID }
func (r *BillingChangeRecord) PrevPendingAmount() *decimal.Decimal   { return r.prevPendingAmount }
func (r *BillingChangeRecord) NewPendingAmount() *decimal.Decimal    { return r.newPendingAmount }
func (r *BillingChangeRecord) PrevDueDate() *time.Time               { return r.prevDueDate }
func (r *BillingChangeRecord) NewDueDate() *time.Time                { return r.newDueDate }
func (r *BillingChangeRecord) PrevStartDate() *time.Time             { return r.prevStartDate }
func (r *BillingChangeRecord) NewStartDate() *time.Time              { return r.newStartDate }
func (r *BillingChangeRecord) PrevExpiryDate() *time.Time            { return r.prevExpiryDate }
func (r *BillingChangeRecord) NewExpiryDate() *time.Time             { return r.newExpiryDate }
func (r *BillingChangeRecord) ActorID() string                       { return r.actorID }
func (r *BillingChangeRecord) Notes() *string                        { return r.notes }
func (r *BillingChangeRecord) CreatedAt() time.Time                  { return r.createdAt }

func (r *BillingChangeRecord) IsRenewal() bool {
	return r.changeType == vo.ChangeTypeRenewal
}

func (r *BillingChangeRecord) IsPaymentStatusChange() bool {
	return r.changeType == vo.ChangeTypePaymentStatus
}

func (r *BillingChangeRecord) IsPlanChange() bool {
	return r.changeType == vo.ChangeTypePlanChange
}

func (r *BillingChangeRecord) IsAmountAdjustment() bool {
	return r.changeType == vo.ChangeTypeAmountAdjustment
}
