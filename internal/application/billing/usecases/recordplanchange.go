package usecases

import (
	"context"
	"fmt"

	"github.com/fibrelink-inc/fibrelink/internal/application/billing/dto"
	"github.com/fibrelink-inc/fibrelink/internal/domain/billing"
	vo "github.com/fibrelink-inc/fibrelink/internal/domain/billing/valueobjects"
	"github.com/fibrelink-inc/fibrelink/internal/shared/biztime"
	apperrors "github.com/fibrelink-inc/fibrelink/internal/shared/errors"
	"github.com/fibrelink-inc/fibrelink/internal/shared/logger"
)

type RecordPlanChangeCommand struct {
	SubscriberSID string
	NewPlanID     string
	ActorID       string
	Notes         string
}

// RecordPlanChangeUseCase switches a subscription to another catalog
// plan and writes a plan_change ledger row carrying both plan IDs.
type RecordPlanChangeUseCase struct {
	subscriptionRepo billing.SubscriptionRepository
	planRepo         billing.PlanRepository
	ledgerRepo       billing.LedgerRepository
	tx               Transactor
	logger           logger.Interface
	now              NowFunc
}

func NewRecordPlanChangeUseCase(
	subscriptionRepo billing.SubscriptionRepository,
	planRepo billing.PlanRepository,
	ledgerRepo billing.LedgerRepository,
	tx Transactor,
	logger logger.Interface,
) *RecordPlanChangeUseCase {
	return &RecordPlanChangeUseCase{
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		ledgerRepo:       ledgerRepo,
		tx:               tx,
		logger:           logger,
		now:              biztime.NowUTC,
	}
}

// SetNowFunc overrides the clock (tests only).
func (uc *RecordPlanChangeUseCase) SetNowFunc(now NowFunc) {
	uc.now = now
}

func (uc *RecordPlanChangeUseCase) Execute(ctx context.Context, cmd RecordPlanChangeCommand) (*dto.SubscriptionDTO, error) {
	if cmd.SubscriberSID == "" {
		return nil, apperrors.NewValidationError("subscriber SID is required")
	}
	if cmd.NewPlanID == "" {
		return nil, apperrors.NewValidationError("new plan ID is required")
	}
	if cmd.ActorID == "" {
		return nil, apperrors.NewValidationError("actor ID is required")
	}

	if _, err := uc.planRepo.FindBySID(ctx, cmd.NewPlanID); err != nil {
		uc.logger.Warnw("plan lookup failed for plan change", "error", err, "plan_id", cmd.NewPlanID)
		return nil, mapDomainError(err)
	}

	sub, err := uc.subscriptionRepo.FindBySID(ctx, cmd.SubscriberSID)
	if err != nil {
		uc.logger.Errorw("failed to get subscription", "error", err, "sid", cmd.SubscriberSID)
		return nil, mapDomainError(err)
	}

	expectedVersion := sub.Version()
	prevPlanID := sub.PlanID()

	if err := sub.ChangePlan(cmd.NewPlanID); err != nil {
		return nil, mapDomainError(err)
	}
	if sub.PlanID() == prevPlanID {
		return dto.NewSubscriptionDTO(sub, nil, uc.now()), nil
	}

	record, err := billing.NewBillingChangeRecord(cmd.SubscriberSID, vo.ChangeTypePlanChange, cmd.ActorID)
	if err != nil {
		return nil, mapDomainError(err)
	}
	record.SetPlanChange(prevPlanID, cmd.NewPlanID)
	if cmd.Notes != "" {
		record.SetNotes(cmd.Notes)
	}

	err = uc.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.subscriptionRepo.Update(txCtx, sub, expectedVersion); err != nil {
			return fmt.Errorf("failed to update subscription: %w", err)
		}
		if err := uc.ledgerRepo.Append(txCtx, record); err != nil {
			return fmt.Errorf("failed to append ledger entry: %w", err)
		}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to record plan change", "error", err, "sid", cmd.SubscriberSID)
		return nil, mapDomainError(err)
	}

	uc.logger.Infow("plan changed",
		"sid", cmd.SubscriberSID,
		"previous_plan", prevPlanID,
		"new_plan", cmd.NewPlanID,
		"actor_id", cmd.ActorID,
	)

	return dto.NewSubscriptionDTO(sub, nil, uc.now()), nil
}
