package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fibrelink-inc/fibrelink/internal/shared/constants"
)

// SubscriptionModel represents the database persistence model for subscriptions
// This is the anti-corruption layer between domain and database
type SubscriptionModel struct {
	ID               uint            `gorm:"primarykey"`
	SID              string          `gorm:"uniqueIndex;not null;size:50;comment:Stripe-style ID: sub_xxx"`
	PlanSID          string          `gorm:"not null;size:50;index:idx_plan_subscription"`
	PlanStartDate    time.Time       `gorm:"not null"`
	PlanExpiryDate   *time.Time      `gorm:"index:idx_expiry_date"`
	PaymentStatus    string          `gorm:"not null;size:30;index:idx_payment_status"`
	OldPendingAmount decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	PaymentDueDate   *time.Time      `gorm:"index:idx_payment_due_date"`
	AccountStatus    string          `gorm:"not null;size:30;index:idx_account_status"`
	Version          int             `gorm:"not null;default:1"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName specifies the table name for GORM
func (SubscriptionModel) TableName() string {
	return constants.TableSubscriptions
}

// BeforeCreate hook for GORM
func (s *SubscriptionModel) BeforeCreate(tx *gorm.DB) error {
	if s.Version == 0 {
		s.Version = 1
	}
	return nil
}
