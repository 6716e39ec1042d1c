package usecases

import (
	"context"

	"github.com/fibrelink-inc/fibrelink/internal/application/billing/dto"
	"github.com/fibrelink-inc/fibrelink/internal/domain/billing"
	"github.com/fibrelink-inc/fibrelink/internal/shared/biztime"
	"github.com/fibrelink-inc/fibrelink/internal/shared/logger"
)

type ListSubscriptionsQuery struct {
	Page     int
	PageSize int
}

// ListSubscriptionsUseCase pages through the subscription store for the
// back-office dashboard.
type ListSubscriptionsUseCase struct {
	subscriptionRepo billing.SubscriptionRepository
	logger           logger.Interface
	now              NowFunc
}

func NewListSubscriptionsUseCase(subscriptionRepo billing.SubscriptionRepository, logger logger.Interface) *ListSubscriptionsUseCase {
	return &ListSubscriptionsUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
		now:              biztime.NowUTC,
	}
}

func (uc *ListSubscriptionsUseCase) Execute(ctx context.Context, query ListSubscriptionsQuery) ([]*dto.SubscriptionDTO, int64, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	subs, total, err := uc.subscriptionRepo.List(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		uc.logger.Errorw("failed to list subscriptions", "error", err)
		return nil, 0, mapDomainError(err)
	}

	now := uc.now()
	dtos := make([]*dto.SubscriptionDTO, 0, len(subs))
	for _, sub := range subs {
		dtos = append(dtos, dto.NewSubscriptionDTO(sub, nil, now))
	}
	return dtos, total, nil
}
