package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/fibrelink-inc/fibrelink/internal/domain/billing"
	vo "github.com/fibrelink-inc/fibrelink/internal/domain/billing/valueobjects"
	"github.com/fibrelink-inc/fibrelink/internal/infrastructure/persistence/mappers"
	"github.com/fibrelink-inc/fibrelink/internal/infrastructure/persistence/models"
	"github.com/fibrelink-inc/fibrelink/internal/shared/db"
	"github.com/fibrelink-inc/fibrelink/internal/shared/logger"
)

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.SubscriptionMapper
	logger logger.Interface
}

func NewSubscriptionRepository(
	db *gorm.DB,
	logger logger.Interface,
) billing.SubscriptionRepository {
	return &SubscriptionRepositoryImpl{
		db:     db,
		mapper: mappers.NewSubscriptionMapper(),
		logger: logger,
	}
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, subscriptionEntity *billing.Subscription) error {
	model, err := r.mapper.ToModel(subscriptionEntity)
	if err != nil {
		r.logger.Errorw("failed to map subscription entity to model", "error", err)
		return fmt.Errorf("failed to map subscription entity: %w", err)
	}

	conn := db.GetTxFromContext(ctx, r.db)
	if err := conn.Create(model).Error; err != nil {
		r.logger.Errorw("failed to create subscription in database", "error", err)
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	if err := subscriptionEntity.SetID(model.ID); err != nil {
		r.logger.Errorw("failed to set subscription ID", "error", err)
		return fmt.Errorf("failed to set subscription ID: %w", err)
	}

	r.logger.Infow("subscription created successfully", "id", model.ID, "sid", model.SID, "plan_sid", model.PlanSID)
	return nil
}

func (r *SubscriptionRepositoryImpl) FindBySID(ctx context.Context, sid string) (*billing.Subscription, error) {
	var model models.SubscriptionModel

	conn := db.GetTxFromContext(ctx, r.db)
	if err := conn.Where("sid = ?", sid).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, billing.ErrSubscriptionNotFound
		}
		r.logger.Errorw("failed to get subscription by SID", "sid", sid, "error", err)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		r.logger.Errorw("failed to map subscription model to entity", "sid", sid, "error", err)
		return nil, fmt.Errorf("failed to map subscription: %w", err)
	}

	return entity, nil
}

// Update persists the aggregate with an optimistic version check. The
// row is only written when its stored version still matches
// expectedVersion; a lost race surfaces as ErrVersionConflict and the
// caller's transaction rolls back without touching the row.
func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, subscriptionEntity *billing.Subscription, expectedVersion int) error {
	model, err := r.mapper.ToModel(subscriptionEntity)
	if err != nil {
		r.logger.Errorw("failed to map subscription entity to model", "error", err)
		return fmt.Errorf("failed to map subscription entity: %w", err)
	}

	conn := db.GetTxFromContext(ctx, r.db)
	result := conn.Model(&models.SubscriptionModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Select("plan_sid", "plan_start_date", "plan_expiry_date", "payment_status",
			"old_pending_amount", "payment_due_date", "account_status", "version", "updated_at").
		Updates(model)
	if result.Error != nil {
		r.logger.Errorw("failed to update subscription", "sid", model.SID, "error", result.Error)
		return fmt.Errorf("failed to update subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return billing.ErrVersionConflict
	}

	return nil
}

func (r *SubscriptionRepositoryImpl) FindActiveExpiredBefore(ctx context.Context, cutoff time.Time) ([]*billing.Subscription, error) {
	var modelList []*models.SubscriptionModel

	conn := db.GetTxFromContext(ctx, r.db)
	if err := conn.
		Where("account_status = ? AND plan_expiry_date IS NOT NULL AND plan_expiry_date < ?",
			vo.AccountStatusActive.String(), cutoff).
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to find expired subscriptions", "error", err)
		return nil, fmt.Errorf("failed to find expired subscriptions: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

func (r *SubscriptionRepositoryImpl) FindExpiringBetween(ctx context.Context, from, to time.Time) ([]*billing.Subscription, error) {
	var modelList []*models.SubscriptionModel

	conn := db.GetTxFromContext(ctx, r.db)
	if err := conn.
		Where("account_status = ? AND plan_expiry_date BETWEEN ? AND ?",
			vo.AccountStatusActive.String(), from, to).
		Order("plan_expiry_date ASC").
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to find expiring subscriptions", "error", err)
		return nil, fmt.Errorf("failed to find expiring subscriptions: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

func (r *SubscriptionRepositoryImpl) FindWithPaymentDueBefore(ctx context.Context, cutoff time.Time) ([]*billing.Subscription, error) {
	var modelList []*models.SubscriptionModel

	conn := db.GetTxFromContext(ctx, r.db)
	if err := conn.
		Where("payment_due_date IS NOT NULL AND payment_due_date <= ?", cutoff).
		Order("payment_due_date ASC").
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to find subscriptions with payment due", "error", err)
		return nil, fmt.Errorf("failed to find subscriptions with payment due: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

func (r *SubscriptionRepositoryImpl) List(ctx context.Context, offset, limit int) ([]*billing.Subscription, int64, error) {
	var modelList []*models.SubscriptionModel
	var total int64

	conn := db.GetTxFromContext(ctx, r.db)
	if err := conn.Model(&models.SubscriptionModel{}).Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count subscriptions", "error", err)
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	if err := conn.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list subscriptions", "error", err)
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	entities, err := r.mapper.ToEntities(modelList)
	if err != nil {
		r.logger.Errorw("failed to map subscription models to entities", "error", err)
		return nil, 0, fmt.Errorf("failed to map subscriptions: %w", err)
	}

	return entities, total, nil
}

func (r *SubscriptionRepositoryImpl) ExistsBySID(ctx context.Context, sid string) (bool, error) {
	var count int64

	conn := db.GetTxFromContext(ctx, r.db)
	if err := conn.Model(&models.SubscriptionModel{}).Where("sid = ?", sid).Count(&count).Error; err != nil {
		r.logger.Errorw("failed to check subscription existence", "sid", sid, "error", err)
		return false, fmt.Errorf("failed to check subscription existence: %w", err)
	}

	return count > 0, nil
}
