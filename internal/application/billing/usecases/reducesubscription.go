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

type ReduceSubscriptionCommand struct {
	SubscriberSID string
	Months        int
	ActorID       string
	Notes         string
}

// ReduceSubscriptionUseCase moves a subscription's expiry backward to
// correct an accidental renewal. It never changes the account status:
// reactivation only happens through renewal.
type ReduceSubscriptionUseCase struct {
	subscriptionRepo billing.SubscriptionRepository
	ledgerRepo       billing.LedgerRepository
	tx               Transactor
	logger           logger.Interface
	now              NowFunc
}

func NewReduceSubscriptionUseCase(
	subscriptionRepo billing.SubscriptionRepository,
	ledgerRepo billing.LedgerRepository,
	tx Transactor,
	logger logger.Interface,
) *ReduceSubscriptionUseCase {
	return &ReduceSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		ledgerRepo:       ledgerRepo,
		tx:               tx,
		logger:           logger,
		now:              biztime.NowUTC,
	}
}

// SetNowFunc overrides the clock (tests only).
func (uc *ReduceSubscriptionUseCase) SetNowFunc(now NowFunc) {
	uc.now = now
}

func (uc *ReduceSubscriptionUseCase) Execute(ctx context.Context, cmd ReduceSubscriptionCommand) (*dto.SubscriptionDTO, error) {
	if cmd.SubscriberSID == "" {
		return nil, apperrors.NewValidationError("subscriber SID is required")
	}
	if cmd.ActorID == "" {
		return nil, apperrors.NewValidationError("actor ID is required")
	}
	if cmd.Months < 0 {
		return nil, apperrors.NewInvalidRangeError("reduction months cannot be negative")
	}

	sub, err := uc.subscriptionRepo.FindBySID(ctx, cmd.SubscriberSID)
	if err != nil {
		uc.logger.Errorw("failed to get subscription", "error", err, "sid", cmd.SubscriberSID)
		return nil, mapDomainError(err)
	}

	if cmd.Months == 0 {
		return dto.NewSubscriptionDTO(sub, nil, uc.now()), nil
	}

	expectedVersion := sub.Version()
	prevExpiry := copyDate(sub.PlanExpiryDate())

	newExpiry := billing.ComputeRenewal(prevExpiry, -cmd.Months, uc.now())
	if err := sub.ApplyReduction(newExpiry); err != nil {
		return nil, mapDomainError(err)
	}

	record, err := billing.NewBillingChangeRecord(cmd.SubscriberSID, vo.ChangeTypeRenewal, cmd.ActorID)
	if err != nil {
		return nil, mapDomainError(err)
	}
	record.SetExpiryChange(prevExpiry, newExpiry)
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
		uc.logger.Errorw("failed to reduce subscription", "error", err, "sid", cmd.SubscriberSID)
		return nil, mapDomainError(err)
	}

	uc.logger.Infow("subscription reduced",
		"sid", cmd.SubscriberSID,
		"months", cmd.Months,
		"new_expiry", biztime.FormatDate(newExpiry),
	)

	return dto.NewSubscriptionDTO(sub, nil, uc.now()), nil
}
