package usecases

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fibrelink-inc/fibrelink/internal/application/billing/dto"
	"github.com/fibrelink-inc/fibrelink/internal/domain/billing"
	vo "github.com/fibrelink-inc/fibrelink/internal/domain/billing/valueobjects"
	"github.com/fibrelink-inc/fibrelink/internal/shared/biztime"
	apperrors "github.com/fibrelink-inc/fibrelink/internal/shared/errors"
	"github.com/fibrelink-inc/fibrelink/internal/shared/logger"
)

type RecordAmountAdjustmentCommand struct {
	SubscriberSID string
	NewAmount     decimal.Decimal
	ActorID       string
	Notes         string
}

// RecordAmountAdjustmentUseCase corrects the carried-forward balance
// and writes an amount_adjustment ledger row with both amounts.
type RecordAmountAdjustmentUseCase struct {
	subscriptionRepo billing.SubscriptionRepository
	ledgerRepo       billing.LedgerRepository
	tx               Transactor
	logger           logger.Interface
	now              NowFunc
}

func NewRecordAmountAdjustmentUseCase(
	subscriptionRepo billing.SubscriptionRepository,
	ledgerRepo billing.LedgerRepository,
	tx Transactor,
	logger logger.Interface,
) *RecordAmountAdjustmentUseCase {
	return &RecordAmountAdjustmentUseCase{
		subscriptionRepo: subscriptionRepo,
		ledgerRepo:       ledgerRepo,
		tx:               tx,
		logger:           logger,
		now:              biztime.NowUTC,
	}
}

// SetNowFunc overrides the clock (tests only).
func (uc *RecordAmountAdjustmentUseCase) SetNowFunc(now NowFunc) {
	uc.now = now
}

func (uc *RecordAmountAdjustmentUseCase) Execute(ctx context.Context, cmd RecordAmountAdjustmentCommand) (*dto.SubscriptionDTO, error) {
	if cmd.SubscriberSID == "" {
		return nil, apperrors.NewValidationError("subscriber SID is required")
	}
	if cmd.ActorID == "" {
		return nil, apperrors.NewValidationError("actor ID is required")
	}
	if cmd.NewAmount.IsNegative() {
		return nil, apperrors.NewInvalidRangeError("old pending amount cannot be negative")
	}

	sub, err := uc.subscriptionRepo.FindBySID(ctx, cmd.SubscriberSID)
	if err != nil {
		uc.logger.Errorw("failed to get subscription", "error", err, "sid", cmd.SubscriberSID)
		return nil, mapDomainError(err)
	}

	expectedVersion := sub.Version()
	prevAmount := sub.OldPendingAmount()

	if err := sub.SetOldPendingAmount(cmd.NewAmount); err != nil {
		return nil, mapDomainError(err)
	}
	if sub.OldPendingAmount().Equal(prevAmount) {
		return dto.NewSubscriptionDTO(sub, nil, uc.now()), nil
	}

	record, err := billing.NewBillingChangeRecord(cmd.SubscriberSID, vo.ChangeTypeAmountAdjustment, cmd.ActorID)
	if err != nil {
		return nil, mapDomainError(err)
	}
	record.SetAmountChange(prevAmount, cmd.NewAmount)
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
		uc.logger.Errorw("failed to record amount adjustment", "error", err, "sid", cmd.SubscriberSID)
		return nil, mapDomainError(err)
	}

	uc.logger.Infow("pending amount adjusted",
		"sid", cmd.SubscriberSID,
		"previous", prevAmount.String(),
		"new", cmd.NewAmount.String(),
		"actor_id", cmd.ActorID,
	)

	return dto.NewSubscriptionDTO(sub, nil, uc.now()), nil
}
