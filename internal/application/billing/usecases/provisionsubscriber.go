package usecases

import (
	"context"
	"time"

	"github.com/fibrelink-inc/fibrelink/internal/application/billing/dto"
	"github.com/fibrelink-inc/fibrelink/internal/domain/billing"
	"github.com/fibrelink-inc/fibrelink/internal/shared/biztime"
	apperrors "github.com/fibrelink-inc/fibrelink/internal/shared/errors"
	"github.com/fibrelink-inc/fibrelink/internal/shared/id"
	"github.com/fibrelink-inc/fibrelink/internal/shared/logger"
)

type ProvisionSubscriberCommand struct {
	PlanID string
	// StartDate anchors the first billing period; nil means today.
	StartDate *time.Time
	// ActivateImmediately skips the pending-installation stage and
	// computes the first expiry from the plan's commitment period.
	ActivateImmediately bool
	ActorID             string
}

// ProvisionSubscriberUseCase creates the subscription record for a new
// subscriber. Provisioning itself writes no ledger rows; the ledger
// tracks mutations of an existing record.
type ProvisionSubscriberUseCase struct {
	subscriptionRepo billing.SubscriptionRepository
	planReader       PlanReader
	logger           logger.Interface
	now              NowFunc
}

func NewProvisionSubscriberUseCase(
	subscriptionRepo billing.SubscriptionRepository,
	planReader PlanReader,
	logger logger.Interface,
) *ProvisionSubscriberUseCase {
	return &ProvisionSubscriberUseCase{
		subscriptionRepo: subscriptionRepo,
		planReader:       planReader,
		logger:           logger,
		now:              biztime.NowUTC,
	}
}

// SetNowFunc overrides the clock (tests only).
func (uc *ProvisionSubscriberUseCase) SetNowFunc(now NowFunc) {
	uc.now = now
}

func (uc *ProvisionSubscriberUseCase) Execute(ctx context.Context, cmd ProvisionSubscriberCommand) (*dto.SubscriptionDTO, error) {
	if cmd.PlanID == "" {
		return nil, apperrors.NewValidationError("plan ID is required")
	}

	plan, err := uc.planReader.FindBySID(ctx, cmd.PlanID)
	if err != nil {
		uc.logger.Warnw("plan lookup failed for provisioning", "error", err, "plan_id", cmd.PlanID)
		return nil, mapDomainError(err)
	}

	startDate := biztime.BusinessDateUTC(uc.now())
	if cmd.StartDate != nil {
		startDate = biztime.BusinessDateUTC(*cmd.StartDate)
	}

	sid, err := id.GenerateWithPrefix(id.PrefixSubscription, id.DefaultLength)
	if err != nil {
		uc.logger.Errorw("failed to generate subscriber SID", "error", err)
		return nil, apperrors.NewInternalError("failed to generate subscriber ID")
	}

	sub, err := billing.NewSubscription(sid, plan.SID(), startDate)
	if err != nil {
		return nil, mapDomainError(err)
	}

	if cmd.ActivateImmediately {
		expiry := billing.AddMonthsClamped(startDate, plan.Commitment().Months())
		if err := sub.Activate(startDate, expiry); err != nil {
			return nil, mapDomainError(err)
		}
	}

	if err := uc.subscriptionRepo.Create(ctx, sub); err != nil {
		uc.logger.Errorw("failed to create subscription", "error", err, "sid", sid)
		return nil, mapDomainError(err)
	}

	uc.logger.Infow("subscriber provisioned",
		"sid", sid,
		"plan_id", plan.SID(),
		"start_date", biztime.FormatDate(startDate),
		"activated", cmd.ActivateImmediately,
	)

	return dto.NewSubscriptionDTO(sub, plan, uc.now()), nil
}
