package usecases

import (
	"context"

	"github.com/fibrelink-inc/fibrelink/internal/application/billing/dto"
	"github.com/fibrelink-inc/fibrelink/internal/domain/billing"
	"github.com/fibrelink-inc/fibrelink/internal/shared/biztime"
	apperrors "github.com/fibrelink-inc/fibrelink/internal/shared/errors"
	"github.com/fibrelink-inc/fibrelink/internal/shared/logger"
)

type ResumeSubscriptionCommand struct {
	SubscriberSID string
	ActorID       string
}

// ResumeSubscriptionUseCase lifts an administrative suspension. The
// next sweep reclassifies the subscription if its expiry passed while
// it was suspended.
type ResumeSubscriptionUseCase struct {
	subscriptionRepo billing.SubscriptionRepository
	logger           logger.Interface
	now              NowFunc
}

func NewResumeSubscriptionUseCase(subscriptionRepo billing.SubscriptionRepository, logger logger.Interface) *ResumeSubscriptionUseCase {
	return &ResumeSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
		now:              biztime.NowUTC,
	}
}

func (uc *ResumeSubscriptionUseCase) Execute(ctx context.Context, cmd ResumeSubscriptionCommand) (*dto.SubscriptionDTO, error) {
	if cmd.SubscriberSID == "" {
		return nil, apperrors.NewValidationError("subscriber SID is required")
	}

	sub, err := uc.subscriptionRepo.FindBySID(ctx, cmd.SubscriberSID)
	if err != nil {
		return nil, mapDomainError(err)
	}

	expectedVersion := sub.Version()
	if err := sub.Resume(); err != nil {
		return nil, mapDomainError(err)
	}
	if sub.Version() == expectedVersion {
		return dto.NewSubscriptionDTO(sub, nil, uc.now()), nil
	}

	if err := uc.subscriptionRepo.Update(ctx, sub, expectedVersion); err != nil {
		uc.logger.Errorw("failed to resume subscription", "error", err, "sid", cmd.SubscriberSID)
		return nil, mapDomainError(err)
	}

	uc.logger.Infow("subscription resumed", "sid", cmd.SubscriberSID, "actor_id", cmd.ActorID)
	return dto.NewSubscriptionDTO(sub, nil, uc.now()), nil
}
