package usecases

import (
	"context"

	"github.com/fibrelink-inc/fibrelink/internal/application/billing/dto"
	apperrors "github.com/fibrelink-inc/fibrelink/internal/shared/errors"
)

type GetPlanQuery struct {
	PlanID string
}

// GetPlanUseCase resolves one catalog entry, served through the cached
// reader when one is wired in.
type GetPlanUseCase struct {
	planReader PlanReader
}

func NewGetPlanUseCase(planReader PlanReader) *GetPlanUseCase {
	return &GetPlanUseCase{planReader: planReader}
}

func (uc *GetPlanUseCase) Execute(ctx context.Context, query GetPlanQuery) (*dto.PlanDTO, error) {
	if query.PlanID == "" {
		return nil, apperrors.NewValidationError("plan ID is required")
	}

	plan, err := uc.planReader.FindBySID(ctx, query.PlanID)
	if err != nil {
		return nil, mapDomainError(err)
	}

	return dto.NewPlanDTO(plan), nil
}
