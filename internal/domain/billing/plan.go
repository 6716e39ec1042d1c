package billing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	vo "github.com/fibrelink-inc/fibrelink/internal/domain/billing/valueobjects"
)

// Plan is a catalog entry. The billing engine only reads plans; edits
// are an administrative path that never rewrites live subscriptions.
type Plan struct {
	id           uint
	sid          string
	name         string
	monthlyPrice decimal.Decimal
	speed        string
	dataLimit    string
	commitment   vo.CommitmentPeriod
	createdAt    time.Time
	updatedAt    time.Time
}

// NewPlan creates a plan catalog entry.
func NewPlan(sid, name string, monthlyPrice decimal.Decimal, speed, dataLimit string, commitment vo.CommitmentPeriod) (*Plan, error) {
	if sid == "" {
		return nil, fmt.Errorf("plan SID is required")
	}
	if name == "" {
		return nil, fmt.Errorf("plan name is required")
	}
	if monthlyPrice.IsNegative() {
		return nil, fmt.Errorf("monthly price cannot be negative")
	}
	if !commitment.IsValid() {
		return nil, fmt.Errorf("invalid commitment period: %s", commitment)
	}

	now := time.Now().UTC()
	return &Plan{
		sid:          sid,
		name:         name,
		monthlyPrice: monthlyPrice,
		speed:        speed,
		dataLimit:    dataLimit,
		commitment:   commitment,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ReconstructPlan rebuilds a plan from persistence.
func ReconstructPlan(
	id uint,
	sid, name string,
	monthlyPrice decimal.Decimal,
	speed, dataLimit string,
	commitment vo.CommitmentPeriod,
	createdAt, updatedAt time.Time,
) (*Plan, error) {
	if id == 0 {
		return nil, fmt.Errorf("plan ID cannot be zero")
	}
	if sid == "" {
		return nil, fmt.Errorf("plan SID is required")
	}
	if !commitment.IsValid() {
		return nil, fmt.Errorf("invalid commitment period: %s", commitment)
	}

	return &Plan{
		id:           id,
		sid:          sid,
		name:         name,
		monthlyPrice: monthlyPrice,
		speed:        speed,
		dataLimit:    dataLimit,
		commitment:   commitment,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}

func (p *Plan) ID() uint                       { return p.id }
func (p *Plan) SID() string                    { return p.sid }
func (p *Plan) Name() string                   { return p.name }
func (p *Plan) MonthlyPrice() decimal.Decimal  { return p.monthlyPrice }
func (p *Plan) Speed() string                  { return p.speed }
func (p *Plan) DataLimit() string              { return p.dataLimit }
func (p *Plan) Commitment() vo.CommitmentPeriod { return p.commitment }
func (p *Plan) CreatedAt() time.Time           { return p.createdAt }
func (p *Plan) UpdatedAt() time.Time           { return p.updatedAt }

// SetID sets the plan ID (only for persistence layer use)
func (p *Plan) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("plan ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("plan ID cannot be zero")
	}
	p.id = id
	return nil
}

// UpdateDetails edits the catalog entry. Live subscriptions referencing
// the plan are unaffected; they pick the new price up on next read.
func (p *Plan) UpdateDetails(name string, monthlyPrice decimal.Decimal, speed, dataLimit string) error {
	if name == "" {
		return fmt.Errorf("plan name is required")
	}
	if monthlyPrice.IsNegative() {
		return fmt.Errorf("monthly price cannot be negative")
	}

	p.name = name
	p.monthlyPrice = monthlyPrice
	p.speed = speed
	p.dataLimit = dataLimit
	p.updatedAt = time.Now().UTC()
	return nil
}
