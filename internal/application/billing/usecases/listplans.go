package usecases

import (
	"context"

	"github.com/fibrelink-inc/fibrelink/internal/application/billing/dto"
	"github.com/fibrelink-inc/fibrelink/internal/domain/billing"
	"github.com/fibrelink-inc/fibrelink/internal/shared/logger"
)

// ListPlansUseCase returns the whole plan catalog.
type ListPlansUseCase struct {
	planRepo billing.PlanRepository
	logger   logger.Interface
}

func NewListPlansUseCase(planRepo billing.PlanRepository, logger logger.Interface) *ListPlansUseCase {
	return &ListPlansUseCase{planRepo: planRepo, logger: logger}
}

func (uc *ListPlansUseCase) Execute(ctx context.Context) ([]*dto.PlanDTO, error) {
	plans, err := uc.planRepo.List(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list plans", "error", err)
		return nil, mapDomainError(err)
	}

	dtos := make([]*dto.PlanDTO, 0, len(plans))
	for _, plan := range plans {
		dtos = append(dtos, dto.NewPlanDTO(plan))
	}
	return dtos, nil
}
