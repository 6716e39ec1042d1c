package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fibrelink-inc/fibrelink/internal/shared/constants"
)

// PlanModel represents the database persistence model for the plan catalog
type PlanModel struct {
	ID           uint            `gorm:"primarykey"`
	SID          string          `gorm:"uniqueIndex;not null;size:50;comment:Stripe-style ID: plan_xxx"`
	Name         string          `gorm:"not null;size:100"`
	MonthlyPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Speed        string          `gorm:"not null;size:50"`
	DataLimit    string          `gorm:"not null;size:50"`
	Commitment   string          `gorm:"not null;size:20"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for GORM
func (PlanModel) TableName() string {
	return constants.TablePlans
}
