package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fibrelink-inc/fibrelink/internal/application/billing/dto"
	"github.com/fibrelink-inc/fibrelink/internal/domain/billing"
	vo "github.com/fibrelink-inc/fibrelink/internal/domain/billing/valueobjects"
	"github.com/fibrelink-inc/fibrelink/internal/shared/biztime"
	apperrors "github.com/fibrelink-inc/fibrelink/internal/shared/errors"
	"github.com/fibrelink-inc/fibrelink/internal/shared/logger"
)

// UpdateBillingCommand is a partial patch: only non-nil fields are
// applied. The due date needs its own presence flag because nil is a
// meaningful value there (paid up).
type UpdateBillingCommand struct {
	SubscriberSID    string
	PlanID           *string
	PaymentStatus    *string
	OldPendingAmount *decimal.Decimal
	PlanStartDate    *time.Time

	SetPaymentDueDate bool
	PaymentDueDate    *time.Time

	ActorID string
	Notes   string
}

// UpdateBillingUseCase applies a multi-field billing patch. Every
// changed dimension produces its own ledger row tagged billing_update,
// so no before/after pair is ever collapsed away; unchanged fields
// produce nothing. An empty patch writes nothing at all.
type UpdateBillingUseCase struct {
	subscriptionRepo billing.SubscriptionRepository
	planRepo         billing.PlanRepository
	ledgerRepo       billing.LedgerRepository
	tx               Transactor
	logger           logger.Interface
	now              NowFunc
}

func NewUpdateBillingUseCase(
	subscriptionRepo billing.SubscriptionRepository,
	planRepo billing.PlanRepository,
	ledgerRepo billing.LedgerRepository,
	tx Transactor,
	logger logger.Interface,
) *UpdateBillingUseCase {
	return &UpdateBillingUseCase{
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		ledgerRepo:       ledgerRepo,
		tx:               tx,
		logger:           logger,
		now:              biztime.NowUTC,
	}
}

// SetNowFunc overrides the clock (tests only).
func (uc *UpdateBillingUseCase) SetNowFunc(now NowFunc) {
	uc.now = now
}

func (uc *UpdateBillingUseCase) Execute(ctx context.Context, cmd UpdateBillingCommand) (*dto.SubscriptionDTO, error) {
	if cmd.SubscriberSID == "" {
		return nil, apperrors.NewValidationError("subscriber SID is required")
	}
	if cmd.ActorID == "" {
		return nil, apperrors.NewValidationError("actor ID is required")
	}

	sub, err := uc.subscriptionRepo.FindBySID(ctx, cmd.SubscriberSID)
	if err != nil {
		uc.logger.Errorw("failed to get subscription", "error", err, "sid", cmd.SubscriberSID)
		return nil, mapDomainError(err)
	}

	expectedVersion := sub.Version()
	var records []*billing.BillingChangeRecord

	newRecord := func() (*billing.BillingChangeRecord, error) {
		record, err := billing.NewBillingChangeRecord(cmd.SubscriberSID, vo.ChangeTypeBillingUpdate, cmd.ActorID)
		if err != nil {
			return nil, err
		}
		if cmd.Notes != "" {
			record.SetNotes(cmd.Notes)
		}
		return record, nil
	}

	if cmd.PlanID != nil {
		prevPlanID := sub.PlanID()
		if _, err := uc.planRepo.FindBySID(ctx, *cmd.PlanID); err != nil {
			uc.logger.Warnw("plan lookup failed for billing update", "error", err, "plan_id", *cmd.PlanID)
			return nil, mapDomainError(err)
		}
		if err := sub.ChangePlan(*cmd.PlanID); err != nil {
			return nil, mapDomainError(err)
		}
		if sub.PlanID() != prevPlanID {
			record, err := newRecord()
			if err != nil {
				return nil, mapDomainError(err)
			}
			record.SetPlanChange(prevPlanID, sub.PlanID())
			records = append(records, record)
		}
	}

	if cmd.PaymentStatus != nil {
		prevStatus := sub.PaymentStatus()
		status := vo.PaymentStatus(*cmd.PaymentStatus)
		if err := sub.SetPaymentStatus(status); err != nil {
			return nil, mapDomainError(err)
		}
		if sub.PaymentStatus() != prevStatus {
			record, err := newRecord()
			if err != nil {
				return nil, mapDomainError(err)
			}
			record.SetPaymentStatusChange(prevStatus, sub.PaymentStatus())
			records = append(records, record)
		}
	}

	if cmd.OldPendingAmount != nil {
		prevAmount := sub.OldPendingAmount()
		if err := sub.SetOldPendingAmount(*cmd.OldPendingAmount); err != nil {
			return nil, mapDomainError(err)
		}
		if !sub.OldPendingAmount().Equal(prevAmount) {
			record, err := newRecord()
			if err != nil {
				return nil, mapDomainError(err)
			}
			record.SetAmountChange(prevAmount, sub.OldPendingAmount())
			records = append(records, record)
		}
	}

	if cmd.PlanStartDate != nil {
		prevStart := sub.PlanStartDate()
		if err := sub.SetPlanStartDate(*cmd.PlanStartDate); err != nil {
			return nil, mapDomainError(err)
		}
		if !sub.PlanStartDate().Equal(prevStart) {
			record, err := newRecord()
			if err != nil {
				return nil, mapDomainError(err)
			}
			record.SetStartDateChange(prevStart, sub.PlanStartDate())
			records = append(records, record)
		}
	}

	if cmd.SetPaymentDueDate {
		prevDue := copyDate(sub.PaymentDueDate())
		sub.SetPaymentDueDate(copyDate(cmd.PaymentDueDate))
		if !equalDates(prevDue, sub.PaymentDueDate()) {
			record, err := newRecord()
			if err != nil {
				return nil, mapDomainError(err)
			}
			record.SetDueDateChange(prevDue, copyDate(sub.PaymentDueDate()))
			records = append(records, record)
		}
	}

	// Empty or no-op patch: nothing to persist, nothing to audit.
	if len(records) == 0 {
		return dto.NewSubscriptionDTO(sub, nil, uc.now()), nil
	}

	err = uc.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.subscriptionRepo.Update(txCtx, sub, expectedVersion); err != nil {
			return fmt.Errorf("failed to update subscription: %w", err)
		}
		for _, record := range records {
			if err := uc.ledgerRepo.Append(txCtx, record); err != nil {
				return fmt.Errorf("failed to append ledger entry: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to apply billing update", "error", err, "sid", cmd.SubscriberSID)
		return nil, mapDomainError(err)
	}

	uc.logger.Infow("billing update applied",
		"sid", cmd.SubscriberSID,
		"changed_dimensions", len(records),
		"actor_id", cmd.ActorID,
	)

	return dto.NewSubscriptionDTO(sub, nil, uc.now()), nil
}

func equalDates(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
