package mappers

import (
	"fmt"

	"github.com/fibrelink-inc/fibrelink/internal/domain/billing"
	vo "github.com/fibrelink-inc/fibrelink/internal/domain/billing/valueobjects"
	"github.com/fibrelink-inc/fibrelink/internal/infrastructure/persistence/models"
	"github.com/fibrelink-inc/fibrelink/internal/shared/mapper"
)

type BillingChangeMapper interface {
	ToEntity(model *models.BillingChangeModel) (*billing.BillingChangeRecord, error)
	ToModel(entity *billing.BillingChangeRecord) (*models.BillingChangeModel, error)
	ToEntities(models []*models.BillingChangeModel) ([]*billing.BillingChangeRecord, error)
}

type BillingChangeMapperImpl struct{}

func NewBillingChangeMapper() BillingChangeMapper {
	return &BillingChangeMapperImpl{}
}

func (m *BillingChangeMapperImpl) ToEntity(model *models.BillingChangeModel) (*billing.BillingChangeRecord, error) {
	if model == nil {
		return nil, nil
	}

	changeType := vo.ChangeType(model.ChangeType)
	if !changeType.IsValid() {
		return nil, fmt.Errorf("invalid change type: %s", model.ChangeType)
	}

	prevPaymentStatus, err := paymentStatusPtr(model.PrevPaymentStatus)
	if err != nil {
		return nil, err
	}
	newPaymentStatus, err := paymentStatusPtr(model.NewPaymentStatus)
	if err != nil {
		return nil, err
	}

	entity, err := billing.ReconstructBillingChangeRecord(billing.ReconstructBillingChangeRecordParams{
		ID:                model.ID,
		SubscriberSID:     model.SubscriberSID,
		ChangeType:        changeType,
		PrevPaymentStatus: prevPaymentStatus,
		NewPaymentStatus:  newPaymentStatus,
		PrevPlanID:        model.PrevPlanSID,
		NewPlanID:         model.NewPlanSID,
		PrevPendingAmount: model.PrevPendingAmount,
		NewPendingAmount:  model.NewPendingAmount,
		PrevDueDate:       model.PrevDueDate,
		NewDueDate:        model.NewDueDate,
		PrevStartDate:     model.PrevStartDate,
		NewStartDate:      model.NewStartDate,
		PrevExpiryDate:    model.PrevExpiryDate,
		NewExpiryDate:     model.NewExpiryDate,
		ActorID:           model.ActorID,
		Notes:             model.Notes,
		CreatedAt:         model.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct billing change entity: %w", err)
	}

	return entity, nil
}

func (m *BillingChangeMapperImpl) ToModel(entity *billing.BillingChangeRecord) (*models.BillingChangeModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.BillingChangeModel{
		ID:                entity.ID(),
		SubscriberSID:     entity.SubscriberSID(),
		ChangeType:        entity.ChangeType().String(),
		PrevPaymentStatus: paymentStatusString(entity.PrevPaymentStatus()),
		NewPaymentStatus:  paymentStatusString(entity.NewPaymentStatus()),
		PrevPlanSID:       entity.PrevPlanID(),
		NewPlanSID:        entity.NewPlanID(),
		PrevPendingAmount: entity.PrevPendingAmount(),
		NewPendingAmount:  entity.NewPendingAmount(),
		PrevDueDate:       entity.PrevDueDate(),
		NewDueDate:        entity.NewDueDate(),
		PrevStartDate:     entity.PrevStartDate(),
		NewStartDate:      entity.NewStartDate(),
		PrevExpiryDate:    entity.PrevExpiryDate(),
		NewExpiryDate:     entity.NewExpiryDate(),
		ActorID:           entity.ActorID(),
		Notes:             entity.Notes(),
		CreatedAt:         entity.CreatedAt(),
	}, nil
}

func (m *BillingChangeMapperImpl) ToEntities(modelList []*models.BillingChangeModel) ([]*billing.BillingChangeRecord, error) {
	return mapper.MapSlicePtrWithID(modelList, m.ToEntity, func(model *models.BillingChangeModel) uint { return model.ID })
}

func paymentStatusPtr(s *string) (*vo.PaymentStatus, error) {
	if s == nil {
		return nil, nil
	}
	status := vo.PaymentStatus(*s)
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid payment status: %s", *s)
	}
	return &status, nil
}

func paymentStatusString(status *vo.PaymentStatus) *string {
	if status == nil {
		return nil
	}
	s := status.String()
	return &s
}
