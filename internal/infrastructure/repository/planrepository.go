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

type PlanRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.PlanMapper
	logger logger.Interface
}

func NewPlanRepository(
	db *gorm.DB,
	logger logger.Interface,
) billing.PlanRepository {
	return &PlanRepositoryImpl{
		db:     db,
		mapper: mappers.NewPlanMapper(),
		logger: logger,
	}
}

func (r *PlanRepositoryImpl) Create(ctx context.Context, planEntity *billing.Plan) error {
	model, err := r.mapper.ToModel(planEntity)
	if err != nil {
		r.logger.Errorw("failed to map plan entity to model", "error", err)
		return fmt.Errorf("failed to map plan entity: %w", err)
	}

	conn := db.GetTxFromContext(ctx, r.db)
	if err := conn.Create(model).Error; err != nil {
		r.logger.Errorw("failed to create plan in database", "error", err)
		return fmt.Errorf("failed to create plan: %w", err)
	}

	if err := planEntity.SetID(model.ID); err != nil {
		r.logger.Errorw("failed to set plan ID", "error", err)
		return fmt.Errorf("failed to set plan ID: %w", err)
	}

	r.logger.Infow("plan created successfully", "id", model.ID, "sid", model.SID, "name", model.Name)
	return nil
}

func (r *PlanRepositoryImpl) FindBySID(ctx context.Context, sid string) (*billing.Plan, error) {
	var model models.PlanModel

	conn := db.GetTxFromContext(ctx, r.db)
	if err := conn.Where("sid = ?", sid).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, billing.ErrPlanNotFound
		}
		r.logger.Errorw("failed to get plan by SID", "sid", sid, "error", err)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		r.logger.Errorw("failed to map plan model to entity", "sid", sid, "error", err)
		return nil, fmt.Errorf("failed to map plan: %w", err)
	}

	return entity, nil
}

func (r *PlanRepositoryImpl) Update(ctx context.Context, planEntity *billing.Plan) error {
	model, err := r.mapper.ToModel(planEntity)
	if err != nil {
		r.logger.Errorw("failed to map plan entity to model", "error", err)
		return fmt.Errorf("failed to map plan entity: %w", err)
	}

	conn := db.GetTxFromContext(ctx, r.db)
	result := conn.Model(&models.PlanModel{}).
		Where("id = ?", model.ID).
		Select("name", "monthly_price", "speed", "data_limit", "commitment", "updated_at").
		Updates(model)
	if result.Error != nil {
		r.logger.Errorw("failed to update plan", "sid", model.SID, "error", result.Error)
		return fmt.Errorf("failed to update plan: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return billing.ErrPlanNotFound
	}

	return nil
}

func (r *PlanRepositoryImpl) List(ctx context.Context) ([]*billing.Plan, error) {
	var modelList []*models.PlanModel

	conn := db.GetTxFromContext(ctx, r.db)
	if err := conn.Order("monthly_price ASC").Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list plans", "error", err)
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}
