package usecases

import (
	"context"

	"github.com/fibrelink-inc/fibrelink/internal/application/billing/dto"
	"github.com/fibrelink-inc/fibrelink/internal/domain/billing"
	"github.com/fibrelink-inc/fibrelink/internal/shared/biztime"
	apperrors "github.com/fibrelink-inc/fibrelink/internal/shared/errors"
	"github.com/fibrelink-inc/fibrelink/internal/shared/logger"
)

type SuspendSubscriptionCommand struct {
	SubscriberSID string
	ActorID       string
}

// SuspendSubscriptionUseCase pauses service administratively. Suspended
// subscriptions are invisible to the expiry sweep until resumed; the
// transition is a lifecycle action, not a billing change, so no ledger
// row is written.
type SuspendSubscriptionUseCase struct {
	subscriptionRepo billing.SubscriptionRepository
	logger           logger.Interface
	now              NowFunc
}

func NewSuspendSubscriptionUseCase(subscriptionRepo billing.SubscriptionRepository, logger logger.Interface) *SuspendSubscriptionUseCase {
	return &SuspendSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
		now:              biztime.NowUTC,
	}
}

func (uc *SuspendSubscriptionUseCase) Execute(ctx context.Context, cmd SuspendSubscriptionCommand) (*dto.SubscriptionDTO, error) {
	if cmd.SubscriberSID == "" {
		return nil, apperrors.NewValidationError("subscriber SID is required")
	}

	sub, err := uc.subscriptionRepo.FindBySID(ctx, cmd.SubscriberSID)
	if err != nil {
		return nil, mapDomainError(err)
	}

	expectedVersion := sub.Version()
	if err := sub.Suspend(); err != nil {
		return nil, mapDomainError(err)
	}
	if sub.Version() == expectedVersion {
		return dto.NewSubscriptionDTO(sub, nil, uc.now()), nil
	}

	if err := uc.subscriptionRepo.Update(ctx, sub, expectedVersion); err != nil {
		uc.logger.Errorw("failed to suspend subscription", "error", err, "sid", cmd.SubscriberSID)
		return nil, mapDomainError(err)
	}

	uc.logger.Infow("subscription suspended", "sid", cmd.SubscriberSID, "actor_id", cmd.ActorID)
	return dto.NewSubscriptionDTO(sub, nil, uc.now()), nil
}
