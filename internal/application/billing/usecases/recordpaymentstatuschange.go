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

type RecordPaymentStatusChangeCommand struct {
	SubscriberSID string
	PaymentStatus string
	ActorID       string
	Notes         string
}

// RecordPaymentStatusChangeUseCase is the narrow variant of the billing
// patch used when the caller knows precisely that the payment status
// changed; the ledger row carries the precise payment_status tag.
type RecordPaymentStatusChangeUseCase struct {
	subscriptionRepo billing.SubscriptionRepository
	ledgerRepo       billing.LedgerRepository
	tx               Transactor
	logger           logger.Interface
	now              NowFunc
}

func NewRecordPaymentStatusChangeUseCase(
	subscriptionRepo billing.SubscriptionRepository,
	ledgerRepo billing.LedgerRepository,
	tx Transactor,
	logger logger.Interface,
) *RecordPaymentStatusChangeUseCase {
	return &RecordPaymentStatusChangeUseCase{
		subscriptionRepo: subscriptionRepo,
		ledgerRepo:       ledgerRepo,
		tx:               tx,
		logger:           logger,
		now:              biztime.NowUTC,
	}
}

// SetNowFunc overrides the clock (tests only).
func (uc *RecordPaymentStatusChangeUseCase) SetNowFunc(now NowFunc) {
	uc.now = now
}

func (uc *RecordPaymentStatusChangeUseCase) Execute(ctx context.Context, cmd RecordPaymentStatusChangeCommand) (*dto.SubscriptionDTO, error) {
	if cmd.SubscriberSID == "" {
		return nil, apperrors.NewValidationError("subscriber SID is required")
	}
	if cmd.ActorID == "" {
		return nil, apperrors.NewValidationError("actor ID is required")
	}

	status := vo.PaymentStatus(cmd.PaymentStatus)
	if !status.IsValid() {
		return nil, apperrors.NewValidationError("invalid payment status", cmd.PaymentStatus)
	}

	sub, err := uc.subscriptionRepo.FindBySID(ctx, cmd.SubscriberSID)
	if err != nil {
		uc.logger.Errorw("failed to get subscription", "error", err, "sid", cmd.SubscriberSID)
		return nil, mapDomainError(err)
	}

	expectedVersion := sub.Version()
	prevStatus := sub.PaymentStatus()

	if err := sub.SetPaymentStatus(status); err != nil {
		return nil, mapDomainError(err)
	}
	if sub.PaymentStatus() == prevStatus {
		return dto.NewSubscriptionDTO(sub, nil, uc.now()), nil
	}

	record, err := billing.NewBillingChangeRecord(cmd.SubscriberSID, vo.ChangeTypePaymentStatus, cmd.ActorID)
	if err != nil {
		return nil, mapDomainError(err)
	}
	record.SetPaymentStatusChange(prevStatus, status)
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
		uc.logger.Errorw("failed to record payment status change", "error", err, "sid", cmd.SubscriberSID)
		return nil, mapDomainError(err)
	}

	uc.logger.Infow("payment status changed",
		"sid", cmd.SubscriberSID,
		"previous", prevStatus.String(),
		"new", status.String(),
		"actor_id", cmd.ActorID,
	)

	return dto.NewSubscriptionDTO(sub, nil, uc.now()), nil
}
