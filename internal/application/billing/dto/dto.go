// Package dto defines the transport-facing shapes of billing entities.
// Derived quantities (is_plan_active, total_due) are computed at
// conversion time and never persisted, so they cannot drift from the
// fields they derive from.
package dto

import (
	"time"

	"github.com/fibrelink-inc/fibrelink/internal/domain/billing"
	"github.com/fibrelink-inc/fibrelink/internal/shared/biztime"
)

// PaymentDueDatePaid is the rendering of a cleared due date.
const PaymentDueDatePaid = "Paid"

// SubscriptionDTO is the API view of a subscription.
type SubscriptionDTO struct {
	SID              string  `json:"sid"`
	PlanID           string  `json:"plan_id"`
	PlanStartDate    string  `json:"plan_start_date"`
	PlanExpiryDate   *string `json:"plan_expiry_date,omitempty"`
	PaymentStatus    string  `json:"payment_status"`
	OldPendingAmount string  `json:"old_pending_amount"`
	PaymentDueDate   string  `json:"payment_due_date"`
	AccountStatus    string  `json:"account_status"`
	IsPlanActive     bool    `json:"is_plan_active"`
	PlanName         string  `json:"plan_name,omitempty"`
	PlanPrice        string  `json:"plan_price,omitempty"`
	TotalDue         string  `json:"total_due,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewSubscriptionDTO converts the aggregate. plan may be nil when the
// caller did not resolve the catalog entry; price-derived fields are
// then omitted.
func NewSubscriptionDTO(sub *billing.Subscription, plan *billing.Plan, now time.Time) *SubscriptionDTO {
	d := &SubscriptionDTO{
		SID:              sub.SID(),
		PlanID:           sub.PlanID(),
		PlanStartDate:    biztime.FormatDate(sub.PlanStartDate()),
		PaymentStatus:    sub.PaymentStatus().String(),
		OldPendingAmount: sub.OldPendingAmount().String(),
		PaymentDueDate:   PaymentDueDatePaid,
		AccountStatus:    sub.AccountStatus().String(),
		IsPlanActive:     sub.IsPlanActive(now),
		CreatedAt:        sub.CreatedAt(),
		UpdatedAt:        sub.UpdatedAt(),
	}

	if expiry := sub.PlanExpiryDate(); expiry != nil {
		formatted := biztime.FormatDate(*expiry)
		d.PlanExpiryDate = &formatted
	}
	if due := sub.PaymentDueDate(); due != nil {
		d.PaymentDueDate = biztime.FormatDate(*due)
	}
	if plan != nil {
		d.PlanName = plan.Name()
		d.PlanPrice = plan.MonthlyPrice().String()
		d.TotalDue = plan.MonthlyPrice().Add(sub.OldPendingAmount()).String()
	}

	return d
}

// PlanDTO is the API view of a plan catalog entry.
type PlanDTO struct {
	SID          string    `json:"sid"`
	Name         string    `json:"name"`
	MonthlyPrice string    `json:"monthly_price"`
	Speed        string    `json:"speed"`
	DataLimit    string    `json:"data_limit"`
	Commitment   string    `json:"commitment"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewPlanDTO(plan *billing.Plan) *PlanDTO {
	return &PlanDTO{
		SID:          plan.SID(),
		Name:         plan.Name(),
		MonthlyPrice: plan.MonthlyPrice().String(),
		Speed:        plan.Speed(),
		DataLimit:    plan.DataLimit(),
		Commitment:   plan.Commitment().String(),
		CreatedAt:    plan.CreatedAt(),
		UpdatedAt:    plan.UpdatedAt(),
	}
}

// LedgerEntryDTO is the API view of one billing change record.
type LedgerEntryDTO struct {
	ID            uint      `json:"id"`
	SubscriberSID string    `json:"subscriber_sid"`
	ChangeType    string    `json:"change_type"`

	PrevPaymentStatus *string `json:"prev_payment_status,omitempty"`
	NewPaymentStatus  *string `json:"new_payment_status,omitempty"`
	PrevPlanID        *string `json:"prev_plan_id,omitempty"`
	NewPlanID         *string `json:"new_plan_id,omitempty"`
	PrevPendingAmount *string `json:"prev_pending_amount,omitempty"`
	NewPendingAmount  *string `json:"new_pending_amount,omitempty"`
	PrevDueDate       *string `json:"prev_due_date,omitempty"`
	NewDueDate        *string `json:"new_due_date,omitempty"`
	PrevStartDate     *string `json:"prev_start_date,omitempty"`
	NewStartDate      *string `json:"new_start_date,omitempty"`
	PrevExpiryDate    *string `json:"prev_expiry_date,omitempty"`
	NewExpiryDate     *string `json:"new_expiry_date,omitempty"`

	ActorID   string    `json:"actor_id"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewLedgerEntryDTO(record *billing.BillingChangeRecord) *LedgerEntryDTO {
	d := &LedgerEntryDTO{
		ID:            record.ID(),
		SubscriberSID: record.SubscriberSID(),
		ChangeType:    record.ChangeType().String(),
		PrevPlanID:    record.PrevPlanID(),
		NewPlanID:     record.NewPlanID(),
		ActorID:       record.ActorID(),
		Notes:         record.Notes(),
		CreatedAt:     record.CreatedAt(),
	}

	if v := record.PrevPaymentStatus(); v != nil {
		s := v.String()
		d.PrevPaymentStatus = &s
	}
	if v := record.NewPaymentStatus(); v != nil {
		s := v.String()
		d.NewPaymentStatus = &s
	}
	if v := record.PrevPendingAmount(); v != nil {
		s := v.String()
		d.PrevPendingAmount = &s
	}
	if v := record.NewPendingAmount(); v != nil {
		s := v.String()
		d.NewPendingAmount = &s
	}
	d.PrevDueDate = formatDatePtr(record.PrevDueDate())
	d.NewDueDate = formatDatePtr(record.NewDueDate())
	d.PrevStartDate = formatDatePtr(record.PrevStartDate())
	d.NewStartDate = formatDatePtr(record.NewStartDate())
	d.PrevExpiryDate = formatDatePtr(record.PrevExpiryDate())
	d.NewExpiryDate = formatDatePtr(record.NewExpiryDate())

	return d
}

// NewLedgerEntryDTOList converts records preserving order.
func NewLedgerEntryDTOList(records []*billing.BillingChangeRecord) []*LedgerEntryDTO {
	dtos := make([]*LedgerEntryDTO, 0, len(records))
	for _, r := range records {
		dtos = append(dtos, NewLedgerEntryDTO(r))
	}
	return dtos
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := biztime.FormatDate(*t)
	return &s
}
