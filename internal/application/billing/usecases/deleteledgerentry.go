package usecases

import (
	"context"

	"github.com/fibrelink-inc/fibrelink/internal/domain/billing"
	apperrors "github.com/fibrelink-inc/fibrelink/internal/shared/errors"
	"github.com/fibrelink-inc/fibrelink/internal/shared/logger"
)

type DeleteLedgerEntryCommand struct {
	EntryID uint
	ActorID string
}

// DeleteLedgerEntryUseCase removes a ledger entry. Like edits, deletes
// correct the historical record without replaying subscription state,
// and every delete is logged at warning level with the full entry
// context so the removal itself leaves a trace.
type DeleteLedgerEntryUseCase struct {
	ledgerRepo billing.LedgerRepository
	logger     logger.Interface
}

func NewDeleteLedgerEntryUseCase(ledgerRepo billing.LedgerRepository, logger logger.Interface) *DeleteLedgerEntryUseCase {
	return &DeleteLedgerEntryUseCase{
		ledgerRepo: ledgerRepo,
		logger:     logger,
	}
}

func (uc *DeleteLedgerEntryUseCase) Execute(ctx context.Context, cmd DeleteLedgerEntryCommand) error {
	if cmd.EntryID == 0 {
		return apperrors.NewValidationError("ledger entry ID is required")
	}
	if cmd.ActorID == "" {
		return apperrors.NewValidationError("actor ID is required")
	}

	record, err := uc.ledgerRepo.FindByID(ctx, cmd.EntryID)
	if err != nil {
		return mapDomainError(err)
	}

	if err := uc.ledgerRepo.Delete(ctx, cmd.EntryID); err != nil {
		uc.logger.Errorw("failed to delete ledger entry", "error", err, "entry_id", cmd.EntryID)
		return mapDomainError(err)
	}

	uc.logger.Warnw("ledger entry deleted",
		"entry_id", cmd.EntryID,
		"subscriber_sid", record.SubscriberSID(),
		"change_type", record.ChangeType().String(),
		"actor_id", cmd.ActorID,
	)

	return nil
}
