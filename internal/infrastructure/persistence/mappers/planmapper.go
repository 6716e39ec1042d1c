package mappers

import (
	"fmt"

	"github.com/fibrelink-inc/fibrelink/internal/domain/billing"
	vo "github.com/fibrelink-inc/fibrelink/internal/domain/billing/valueobjects"
	"github.com/fibrelink-inc/fibrelink/internal/infrastructure/persistence/models"
	"github.com/fibrelink-inc/fibrelink/internal/shared/mapper"
)

type PlanMapper interface {
	ToEntity(model *models.PlanModel) (*billing.Plan, error)
	ToModel(entity *billing.Plan) (*models.PlanModel, error)
	ToEntities(models []*models.PlanModel) ([]*billing.Plan, error)
}

type PlanMapperImpl struct{}

func NewPlanMapper() PlanMapper {
	return &PlanMapperImpl{}
}

func (m *PlanMapperImpl) ToEntity(model *models.PlanModel) (*billing.Plan, error) {
	if model == nil {
		return nil, nil
	}

	commitment := vo.CommitmentPeriod(model.Commitment)
	if !commitment.IsValid() {
		return nil, fmt.Errorf("invalid commitment period: %s", model.Commitment)
	}

	entity, err := billing.ReconstructPlan(
		model.ID,
		model.SID,
		model.Name,
		model.MonthlyPrice,
		model.Speed,
		model.DataLimit,
		commitment,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct plan entity: %w", err)
	}

	return entity, nil
}

func (m *PlanMapperImpl) ToModel(entity *billing.Plan) (*models.PlanModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.PlanModel{
		ID:           entity.ID(),
		SID:          entity.SID(),
		Name:         entity.Name(),
		MonthlyPrice: entity.MonthlyPrice(),
		Speed:        entity.Speed(),
		DataLimit:    entity.DataLimit(),
		Commitment:   entity.Commitment().String(),
		CreatedAt:    entity.CreatedAt(),
		UpdatedAt:    entity.UpdatedAt(),
	}, nil
}

func (m *PlanMapperImpl) ToEntities(modelList []*models.PlanModel) ([]*billing.Plan, error) {
	return mapper.MapSlicePtrWithID(modelList, m.ToEntity, func(model *models.PlanModel) uint { return model.ID })
}
