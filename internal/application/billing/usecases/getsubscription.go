package usecases

import (
	"context"

	"github.com/fibrelink-inc/fibrelink/internal/application/billing/dto"
	"github.com/fibrelink-inc/fibrelink/internal/domain/billing"
	"github.com/fibrelink-inc/fibrelink/internal/shared/biztime"
	apperrors "github.com/fibrelink-inc/fibrelink/internal/shared/errors"
	"github.com/fibrelink-inc/fibrelink/internal/shared/logger"
)

type GetSubscriptionQuery struct {
	SubscriberSID string
}

// GetSubscriptionUseCase returns the subscription with its derived
// fields. Total due is plan price plus the carried-forward balance,
// computed on read and never stored.
type GetSubscriptionUseCase struct {
	subscriptionRepo billing.SubscriptionRepository
	planReader       PlanReader
	logger           logger.Interface
	now              NowFunc
}

func NewGetSubscriptionUseCase(
	subscriptionRepo billing.SubscriptionRepository,
	planReader PlanReader,
	logger logger.Interface,
) *GetSubscriptionUseCase {
	return &GetSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		planReader:       planReader,
		logger:           logger,
		now:              biztime.NowUTC,
	}
}

// SetNowFunc overrides the clock (tests only).
func (uc *GetSubscriptionUseCase) SetNowFunc(now NowFunc) {
	uc.now = now
}

func (uc *GetSubscriptionUseCase) Execute(ctx context.Context, query GetSubscriptionQuery) (*dto.SubscriptionDTO, error) {
	if query.SubscriberSID == "" {
		return nil, apperrors.NewValidationError("subscriber SID is required")
	}

	sub, err := uc.subscriptionRepo.FindBySID(ctx, query.SubscriberSID)
	if err != nil {
		return nil, mapDomainError(err)
	}

	plan, err := uc.planReader.FindBySID(ctx, sub.PlanID())
	if err != nil {
		// Plan resolution failure degrades the view, it does not hide
		// the subscription.
		uc.logger.Warnw("failed to resolve plan for subscription", "error", err, "plan_id", sub.PlanID())
		plan = nil
	}

	return dto.NewSubscriptionDTO(sub, plan, uc.now()), nil
}
