package usecases

import (
	"context"

	"github.com/fibrelink-inc/fibrelink/internal/application/billing/dto"
	"github.com/fibrelink-inc/fibrelink/internal/domain/billing"
	apperrors "github.com/fibrelink-inc/fibrelink/internal/shared/errors"
	"github.com/fibrelink-inc/fibrelink/internal/shared/logger"
)

type EditLedgerEntryCommand struct {
	EntryID uint
	Notes   *string
	ActorID string
}

// EditLedgerEntryUseCase is the privileged audit-correction path. It
// rewrites the historical record only; subscription state is never
// re-derived from the edit. Every edit is logged at warning level
// because altering audit history is an exceptional action.
type EditLedgerEntryUseCase struct {
	ledgerRepo billing.LedgerRepository
	logger     logger.Interface
}

func NewEditLedgerEntryUseCase(ledgerRepo billing.LedgerRepository, logger logger.Interface) *EditLedgerEntryUseCase {
	return &EditLedgerEntryUseCase{
		ledgerRepo: ledgerRepo,
		logger:     logger,
	}
}

func (uc *EditLedgerEntryUseCase) Execute(ctx context.Context, cmd EditLedgerEntryCommand) (*dto.LedgerEntryDTO, error) {
	if cmd.EntryID == 0 {
		return nil, apperrors.NewValidationError("ledger entry ID is required")
	}
	if cmd.ActorID == "" {
		return nil, apperrors.NewValidationError("actor ID is required")
	}
	if cmd.Notes == nil {
		return nil, apperrors.NewValidationError("edit patch is empty")
	}

	record, err := uc.ledgerRepo.FindByID(ctx, cmd.EntryID)
	if err != nil {
		return nil, mapDomainError(err)
	}

	record.SetNotes(*cmd.Notes)

	if err := uc.ledgerRepo.Update(ctx, record); err != nil {
		uc.logger.Errorw("failed to edit ledger entry", "error", err, "entry_id", cmd.EntryID)
		return nil, mapDomainError(err)
	}

	uc.logger.Warnw("ledger entry edited",
		"entry_id", cmd.EntryID,
		"subscriber_sid", record.SubscriberSID(),
		"actor_id", cmd.ActorID,
	)

	return dto.NewLedgerEntryDTO(record), nil
}
