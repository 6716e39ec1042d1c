package usecases

import (
	"context"
	"fmt"

	"github.com/fibrelink-inc/fibrelink/internal/application/billing/dto"
	"github.com/fibrelink-inc/fibrelink/internal/domain/billing"
	vo "github.com/fibrelink-inc/fibrelink/internal/domain/billing/valueobjects"
	"github.com/fibrelink-inc/fibrelink/internal/domain/shared/events"
	"github.com/fibrelink-inc/fibrelink/internal/shared/biztime"
	apperrors "github.com/fibrelink-inc/fibrelink/internal/shared/errors"
	"github.com/fibrelink-inc/fibrelink/internal/shared/logger"
)

type RenewSubscriptionCommand struct {
	SubscriberSID string
	Months        int
	ActorID       string
	Notes         string
}

// RenewSubscriptionUseCase extends a subscription's expiry by a number
// of calendar months, reactivating it if the sweep had expired it. The
// subscription write and its ledger append commit atomically.
type RenewSubscriptionUseCase struct {
	subscriptionRepo billing.SubscriptionRepository
	ledgerRepo       billing.LedgerRepository
	tx               Transactor
	publisher        events.EventPublisher
	logger           logger.Interface
	now              NowFunc
}

func NewRenewSubscriptionUseCase(
	subscriptionRepo billing.SubscriptionRepository,
	ledgerRepo billing.LedgerRepository,
	tx Transactor,
	logger logger.Interface,
) *RenewSubscriptionUseCase {
	return &RenewSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		ledgerRepo:       ledgerRepo,
		tx:               tx,
		logger:           logger,
		now:              biztime.NowUTC,
	}
}

// SetEventPublisher sets the event publisher (optional).
func (uc *RenewSubscriptionUseCase) SetEventPublisher(publisher events.EventPublisher) {
	uc.publisher = publisher
}

// SetNowFunc overrides the clock (tests only).
func (uc *RenewSubscriptionUseCase) SetNowFunc(now NowFunc) {
	uc.now = now
}

func (uc *RenewSubscriptionUseCase) Execute(ctx context.Context, cmd RenewSubscriptionCommand) (*dto.SubscriptionDTO, error) {
	if cmd.SubscriberSID == "" {
		return nil, apperrors.NewValidationError("subscriber SID is required")
	}
	if cmd.ActorID == "" {
		return nil, apperrors.NewValidationError("actor ID is required")
	}
	if cmd.Months < 0 {
		return nil, apperrors.NewInvalidRangeError("renewal months cannot be negative")
	}

	sub, err := uc.subscriptionRepo.FindBySID(ctx, cmd.SubscriberSID)
	if err != nil {
		uc.logger.Errorw("failed to get subscription", "error", err, "sid", cmd.SubscriberSID)
		return nil, mapDomainError(err)
	}

	// Zero months is a no-op: no write, no ledger row.
	if cmd.Months == 0 {
		return dto.NewSubscriptionDTO(sub, nil, uc.now()), nil
	}

	expectedVersion := sub.Version()
	prevExpiry := copyDate(sub.PlanExpiryDate())
	wasExpired := sub.AccountStatus() == vo.AccountStatusExpired

	newExpiry := billing.ComputeRenewal(prevExpiry, cmd.Months, uc.now())
	if err := sub.ApplyRenewal(newExpiry); err != nil {
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
		uc.logger.Errorw("failed to renew subscription", "error", err, "sid", cmd.SubscriberSID)
		return nil, mapDomainError(err)
	}

	uc.logger.Infow("subscription renewed",
		"sid", cmd.SubscriberSID,
		"months", cmd.Months,
		"new_expiry", biztime.FormatDate(newExpiry),
		"reactivated", wasExpired,
	)

	if uc.publisher != nil {
		event := billing.NewSubscriptionRenewedEvent(sub.SID(), sub.PlanID(), prevExpiry, newExpiry, wasExpired)
		if err := uc.publisher.Publish(event); err != nil {
			uc.logger.Warnw("failed to publish renewal event", "error", err, "sid", cmd.SubscriberSID)
		}
	}

	return dto.NewSubscriptionDTO(sub, nil, uc.now()), nil
}
