package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fibrelink-inc/fibrelink/internal/shared/constants"
)

// BillingChangeModel represents one persisted billing ledger entry.
// Exactly one prev/new column pair is populated per row.
type BillingChangeModel struct {
	ID            uint   `gorm:"primarykey"`
	SubscriberSID string `gorm:"not null;size:50;index:idx_subscriber_changes"`
	ChangeType    string `gorm:"not null;size:30;index:idx_change_type"`

	PrevPaymentStatus *string `gorm:"size:30"`
	NewPaymentStatus  *string `gorm:"size:30"`

	PrevPlanSID *string `gorm:"size:50"`
	NewPlanSID  *string `gorm:"size:50"`

	PrevPendingAmount *decimal.Decimal `gorm:"type:decimal(10,2)"`
	NewPendingAmount  *decimal.Decimal `gorm:"type:decimal(10,2)"`

	PrevDueDate *time.Time
	NewDueDate  *time.Time

	PrevStartDate *time.Time
	NewStartDate  *time.Time

	PrevExpiryDate *time.Time
	NewExpiryDate  *time.Time

	ActorID   string  `gorm:"not null;size:50"`
	Notes     *string `gorm:"size:500"`
	CreatedAt time.Time
}

// TableName specifies the table name for GORM
func (BillingChangeModel) TableName() string {
	return constants.TableBillingChanges
}
