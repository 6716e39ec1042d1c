package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fibrelink-inc/fibrelink/internal/domain/billing"
	vo "github.com/fibrelink-inc/fibrelink/internal/domain/billing/valueobjects"
	apperrors "github.com/fibrelink-inc/fibrelink/internal/shared/errors"
)

func seedLedgerEntry(t *testing.T, repo *fakeLedgerRepo, sid string) *billing.BillingChangeRecord {
	t.Helper()
	record, err := billing.NewBillingChangeRecord(sid, vo.ChangeTypePaymentStatus, "admin")
	require.NoError(t, err)
	record.SetPaymentStatusChange(vo.PaymentStatusPending, vo.PaymentStatusVerifiedByCash)
	require.NoError(t, repo.Append(context.Background(), record))
	return record
}

func TestListLedger_NewestFirst(t *testing.T) {
	subRepo := newFakeSubscriptionRepo()
	ledgerRepo := newFakeLedgerRepo()
	expiry := date(2024, time.March, 1)
	seedSubscription(t, subRepo, "sub_a", vo.AccountStatusActive, date(2024, time.January, 1), &expiry)

	first := seedLedgerEntry(t, ledgerRepo, "sub_a")
	second := seedLedgerEntry(t, ledgerRepo, "sub_a")
	seedLedgerEntry(t, ledgerRepo, "sub_other")

	uc := NewListLedgerUseCase(subRepo, ledgerRepo, testLogger())

	entries, err := uc.Execute(context.Background(), ListLedgerQuery{SubscriberSID: "sub_a"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, second.ID(), entries[0].ID)
	assert.Equal(t, first.ID(), entries[1].ID)
	assert.Equal(t, "payment_status", entries[0].ChangeType)
}

func TestListLedger_UnknownSubscriber(t *testing.T) {
	uc := NewListLedgerUseCase(newFakeSubscriptionRepo(), newFakeLedgerRepo(), testLogger())

	_, err := uc.Execute(context.Background(), ListLedgerQuery{SubscriberSID: "sub_missing"})
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestEditLedgerEntry_RewritesNotes(t *testing.T) {
	ledgerRepo := newFakeLedgerRepo()
	record := seedLedgerEntry(t, ledgerRepo, "sub_a")

	uc := NewEditLedgerEntryUseCase(ledgerRepo, testLogger())

	result, err := uc.Execute(context.Background(), EditLedgerEntryCommand{
		EntryID: record.ID(),
		Notes:   strPtr("entered against the wrong receipt"),
		ActorID: "admin",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Notes)
	assert.Equal(t, "entered against the wrong receipt", *result.Notes)

	// The before/after pair is untouched by the edit.
	stored, err := ledgerRepo.FindByID(context.Background(), record.ID())
	require.NoError(t, err)
	require.NotNil(t, stored.PrevPaymentStatus())
	assert.Equal(t, vo.PaymentStatusPending, *stored.PrevPaymentStatus())
	assert.Equal(t, vo.PaymentStatusVerifiedByCash, *stored.NewPaymentStatus())
}

func TestEditLedgerEntry_EmptyPatchRejected(t *testing.T) {
	ledgerRepo := newFakeLedgerRepo()
	record := seedLedgerEntry(t, ledgerRepo, "sub_a")

	uc := NewEditLedgerEntryUseCase(ledgerRepo, testLogger())

	_, err := uc.Execute(context.Background(), EditLedgerEntryCommand{
		EntryID: record.ID(),
		ActorID: "admin",
	})
	assert.True(t, apperrors.IsValidationError(err))
}

func TestEditLedgerEntry_NotFound(t *testing.T) {
	uc := NewEditLedgerEntryUseCase(newFakeLedgerRepo(), testLogger())

	_, err := uc.Execute(context.Background(), EditLedgerEntryCommand{
		EntryID: 42,
		Notes:   strPtr("x"),
		ActorID: "admin",
	})
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestDeleteLedgerEntry(t *testing.T) {
	ledgerRepo := newFakeLedgerRepo()
	record := seedLedgerEntry(t, ledgerRepo, "sub_a")
	kept := seedLedgerEntry(t, ledgerRepo, "sub_a")

	uc := NewDeleteLedgerEntryUseCase(ledgerRepo, testLogger())

	err := uc.Execute(context.Background(), DeleteLedgerEntryCommand{
		EntryID: record.ID(),
		ActorID: "admin",
	})
	require.NoError(t, err)

	_, err = ledgerRepo.FindByID(context.Background(), record.ID())
	assert.ErrorIs(t, err, billing.ErrLedgerEntryNotFound)
	_, err = ledgerRepo.FindByID(context.Background(), kept.ID())
	assert.NoError(t, err)
}

func TestDeleteLedgerEntry_NotFound(t *testing.T) {
	uc := NewDeleteLedgerEntryUseCase(newFakeLedgerRepo(), testLogger())

	err := uc.Execute(context.Background(), DeleteLedgerEntryCommand{EntryID: 42, ActorID: "admin"})
	assert.True(t, apperrors.IsNotFoundError(err))
}
