package mappers

import (
	"fmt"

	"github.com/fibrelink-inc/fibrelink/internal/domain/billing"
	vo "github.com/fibrelink-inc/fibrelink/internal/domain/billing/valueobjects"
	"github.com/fibrelink-inc/fibrelink/internal/infrastructure/persistence/models"
	"github.com/fibrelink-inc/fibrelink/internal/shared/mapper"
)

type SubscriptionMapper interface {
	ToEntity(model *models.SubscriptionModel) (*billing.Subscription, error)
	ToModel(entity *billing.Subscription) (*models.SubscriptionModel, error)
	ToEntities(models []*models.SubscriptionModel) ([]*billing.Subscription, error)
	ToModels(entities []*billing.Subscription) ([]*models.SubscriptionModel, error)
}

type SubscriptionMapperImpl struct{}

func NewSubscriptionMapper() SubscriptionMapper {
	return &SubscriptionMapperImpl{}
}

func (m *SubscriptionMapperImpl) ToEntity(model *models.SubscriptionModel) (*billing.Subscription, error) {
	if model == nil {
		return nil, nil
	}

	paymentStatus := vo.PaymentStatus(model.PaymentStatus)
	if !paymentStatus.IsValid() {
		return nil, fmt.Errorf("invalid payment status: %s", model.PaymentStatus)
	}

	accountStatus := vo.AccountStatus(model.AccountStatus)
	if !accountStatus.IsValid() {
		return nil, fmt.Errorf("invalid account status: %s", model.AccountStatus)
	}

	entity, err := billing.ReconstructSubscription(billing.ReconstructSubscriptionParams{
		ID:               model.ID,
		SID:              model.SID,
		PlanID:           model.PlanSID,
		PlanStartDate:    model.PlanStartDate,
		PlanExpiryDate:   model.PlanExpiryDate,
		PaymentStatus:    paymentStatus,
		OldPendingAmount: model.OldPendingAmount,
		PaymentDueDate:   model.PaymentDueDate,
		AccountStatus:    accountStatus,
		Version:          model.Version,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct subscription entity: %w", err)
	}

	return entity, nil
}

func (m *SubscriptionMapperImpl) ToModel(entity *billing.Subscription) (*models.SubscriptionModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.SubscriptionModel{
		ID:               entity.ID(),
		SID:              entity.SID(),
		PlanSID:          entity.PlanID(),
		PlanStartDate:    entity.PlanStartDate(),
		PlanExpiryDate:   entity.PlanExpiryDate(),
		PaymentStatus:    entity.PaymentStatus().String(),
		OldPendingAmount: entity.OldPendingAmount(),
		PaymentDueDate:   entity.PaymentDueDate(),
		AccountStatus:    entity.AccountStatus().String(),
		Version:          entity.Version(),
		CreatedAt:        entity.CreatedAt(),
		UpdatedAt:        entity.UpdatedAt(),
	}, nil
}

func (m *SubscriptionMapperImpl) ToEntities(modelList []*models.SubscriptionModel) ([]*billing.Subscription, error) {
	return mapper.MapSlicePtrWithID(modelList, m.ToEntity, func(model *models.SubscriptionModel) uint { return model.ID })
}

func (m *SubscriptionMapperImpl) ToModels(entities []*billing.Subscription) ([]*models.SubscriptionModel, error) {
	return mapper.MapSlicePtrWithID(entities, m.ToModel, func(entity *billing.Subscription) uint { return entity.ID() })
}
