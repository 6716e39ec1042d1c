package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/fibrelink-inc/fibrelink/internal/domain/billing"
	"github.com/fibrelink-inc/fibrelink/internal/infrastructure/persistence/mappers"
	"github.com/fibrelink-inc/fibrelink/internal/infrastructure/persistence/models"
	"github.com/fibrelink-inc/fibrelink/internal/shared/db"
	"github.com/fibrelink-inc/fibrelink/internal/shared/logger"
)

type BillingChangeRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.BillingChangeMapper
	logger logger.Interface
}

func NewBillingChangeRepository(
	db *gorm.DB,
	logger logger.Interface,
) billing.LedgerRepository {
	return &BillingChangeRepositoryImpl{
		db:     db,
		mapper: mappers.NewBillingChangeMapper(),
		logger: logger,
	}
}

func (r *BillingChangeRepositoryImpl) Append(ctx context.Context, record *billing.BillingChangeRecord) error {
	model, err := r.mapper.ToModel(record)
	if err != nil {
		r.logger.Errorw("failed to map billing change entity to model", "error", err)
		return fmt.Errorf("failed to map billing change entity: %w", err)
	}

	conn := db.GetTxFromContext(ctx, r.db)
	if err := conn.Create(model).Error; err != nil {
		r.logger.Errorw("failed to append billing change", "error", err, "subscriber_sid", model.SubscriberSID)
		return fmt.Errorf("failed to append billing change: %w", err)
	}

	if err := record.SetID(model.ID); err != nil {
		r.logger.Errorw("failed to set billing change ID", "error", err)
		return fmt.Errorf("failed to set billing change ID: %w", err)
	}

	return nil
}

func (r *BillingChangeRepositoryImpl) ListBySubscriber(ctx context.Context, sid string) ([]*billing.BillingChangeRecord, error) {
	var modelList []*models.BillingChangeModel

	conn := db.GetTxFromContext(ctx, r.db)
	if err := conn.
		Where("subscriber_sid = ?", sid).
		Order("created_at DESC, id DESC").
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list billing changes", "subscriber_sid", sid, "error", err)
		return nil, fmt.Errorf("failed to list billing changes: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

func (r *BillingChangeRepositoryImpl) FindByID(ctx context.Context, id uint) (*billing.BillingChangeRecord, error) {
	var model models.BillingChangeModel

	conn := db.GetTxFromContext(ctx, r.db)
	if err := conn.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, billing.ErrLedgerEntryNotFound
		}
		r.logger.Errorw("failed to get billing change by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get billing change: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		r.logger.Errorw("failed to map billing change model to entity", "id", id, "error", err)
		return nil, fmt.Errorf("failed to map billing change: %w", err)
	}

	return entity, nil
}

func (r *BillingChangeRepositoryImpl) Update(ctx context.Context, record *billing.BillingChangeRecord) error {
	model, err := r.mapper.ToModel(record)
	if err != nil {
		r.logger.Errorw("failed to map billing change entity to model", "error", err)
		return fmt.Errorf("failed to map billing change entity: %w", err)
	}

	// Only the annotation is mutable; the recorded transition is not.
	conn := db.GetTxFromContext(ctx, r.db)
	result := conn.Model(&models.BillingChangeModel{}).
		Where("id = ?", model.ID).
		Select("notes").
		Updates(model)
	if result.Error != nil {
		r.logger.Errorw("failed to update billing change", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update billing change: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return billing.ErrLedgerEntryNotFound
	}

	return nil
}

func (r *BillingChangeRepositoryImpl) Delete(ctx context.Context, id uint) error {
	conn := db.GetTxFromContext(ctx, r.db)
	result := conn.Delete(&models.BillingChangeModel{}, id)
	if result.Error != nil {
		r.logger.Errorw("failed to delete billing change", "id", id, "error", result.Error)
		return fmt.Errorf("failed to delete billing change: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return billing.ErrLedgerEntryNotFound
	}

	return nil
}
