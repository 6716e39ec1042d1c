package usecases

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fibrelink-inc/fibrelink/internal/application/billing/dto"
	"github.com/fibrelink-inc/fibrelink/internal/domain/billing"
	vo "github.com/fibrelink-inc/fibrelink/internal/domain/billing/valueobjects"
	apperrors "github.com/fibrelink-inc/fibrelink/internal/shared/errors"
	"github.com/fibrelink-inc/fibrelink/internal/shared/id"
	"github.com/fibrelink-inc/fibrelink/internal/shared/logger"
)

type CreatePlanCommand struct {
	Name         string
	MonthlyPrice decimal.Decimal
	Speed        string
	DataLimit    string
	Commitment   string
}

// CreatePlanUseCase adds a plan to the catalog.
type CreatePlanUseCase struct {
	planRepo billing.PlanRepository
	logger   logger.Interface
}

func NewCreatePlanUseCase(planRepo billing.PlanRepository, logger logger.Interface) *CreatePlanUseCase {
	return &CreatePlanUseCase{planRepo: planRepo, logger: logger}
}

func (uc *CreatePlanUseCase) Execute(ctx context.Context, cmd CreatePlanCommand) (*dto.PlanDTO, error) {
	commitment := vo.CommitmentPeriod(cmd.Commitment)
	if !commitment.IsValid() {
		return nil, apperrors.NewValidationError("invalid commitment period", cmd.Commitment)
	}

	sid, err := id.GenerateWithPrefix(id.PrefixPlan, id.DefaultLength)
	if err != nil {
		uc.logger.Errorw("failed to generate plan SID", "error", err)
		return nil, apperrors.NewInternalError("failed to generate plan ID")
	}

	plan, err := billing.NewPlan(sid, cmd.Name, cmd.MonthlyPrice, cmd.Speed, cmd.DataLimit, commitment)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := uc.planRepo.Create(ctx, plan); err != nil {
		uc.logger.Errorw("failed to create plan", "error", err, "name", cmd.Name)
		return nil, mapDomainError(err)
	}

	uc.logger.Infow("plan created", "plan_id", sid, "name", cmd.Name, "commitment", commitment.String())
	return dto.NewPlanDTO(plan), nil
}
