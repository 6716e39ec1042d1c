package usecases

import (
	"context"

	"github.com/fibrelink-inc/fibrelink/internal/application/billing/dto"
	"github.com/fibrelink-inc/fibrelink/internal/domain/billing"
	apperrors "github.com/fibrelink-inc/fibrelink/internal/shared/errors"
	"github.com/fibrelink-inc/fibrelink/internal/shared/logger"
)

type ListLedgerQuery struct {
	SubscriberSID string
}

// ListLedgerUseCase returns a subscriber's billing change history,
// newest first.
type ListLedgerUseCase struct {
	subscriptionRepo billing.SubscriptionRepository
	ledgerRepo       billing.LedgerRepository
	logger           logger.Interface
}

func NewListLedgerUseCase(
	subscriptionRepo billing.SubscriptionRepository,
	ledgerRepo billing.LedgerRepository,
	logger logger.Interface,
) *ListLedgerUseCase {
	return &ListLedgerUseCase{
		subscriptionRepo: subscriptionRepo,
		ledgerRepo:       ledgerRepo,
		logger:           logger,
	}
}

func (uc *ListLedgerUseCase) Execute(ctx context.Context, query ListLedgerQuery) ([]*dto.LedgerEntryDTO, error) {
	if query.SubscriberSID == "" {
		return nil, apperrors.NewValidationError("subscriber SID is required")
	}

	exists, err := uc.subscriptionRepo.ExistsBySID(ctx, query.SubscriberSID)
	if err != nil {
		uc.logger.Errorw("failed to check subscription", "error", err, "sid", query.SubscriberSID)
		return nil, mapDomainError(err)
	}
	if !exists {
		return nil, apperrors.NewNotFoundError("subscription not found")
	}

	records, err := uc.ledgerRepo.ListBySubscriber(ctx, query.SubscriberSID)
	if err != nil {
		uc.logger.Errorw("failed to list ledger entries", "error", err, "sid", query.SubscriberSID)
		return nil, mapDomainError(err)
	}

	return dto.NewLedgerEntryDTOList(records), nil
}
