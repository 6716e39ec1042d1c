package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fibrelink-inc/fibrelink/internal/domain/billing"
	vo "github.com/fibrelink-inc/fibrelink/internal/domain/billing/valueobjects"
	apperrors "github.com/fibrelink-inc/fibrelink/internal/shared/errors"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedSubscription(t *testing.T, repo *fakeSubscriptionRepo, sid string, status vo.AccountStatus, start time.Time, expiry *time.Time) {
	t.Helper()

	sub, err := billing.ReconstructSubscription(billing.ReconstructSubscriptionParams{
		ID:               1,
		SID:              sid,
		PlanID:           "plan_basic100mb1",
		PlanStartDate:    start,
		PlanExpiryDate:   expiry,
		PaymentStatus:    vo.PaymentStatusPending,
		OldPendingAmount: decimal.Zero,
		AccountStatus:    status,
		Version:          1,
		CreatedAt:        start,
		UpdatedAt:        start,
	})
	require.NoError(t, err)
	repo.seed(sub)
}

func fixedNow(now time.Time) NowFunc {
	return func() time.Time { return now }
}

func TestRenewSubscription_ExtendsExpiry(t *testing.T) {
	subRepo := newFakeSubscriptionRepo()
	ledgerRepo := newFakeLedgerRepo()
	expiry := date(2024, time.January, 31)
	seedSubscription(t, subRepo, "sub_a", vo.AccountStatusActive, date(2024, time.January, 1), &expiry)

	uc := NewRenewSubscriptionUseCase(subRepo, ledgerRepo, fakeTransactor{}, testLogger())
	uc.SetNowFunc(fixedNow(date(2024, time.January, 20)))

	result, err := uc.Execute(context.Background(), RenewSubscriptionCommand{
		SubscriberSID: "sub_a",
		Months:        3,
		ActorID:       "admin",
	})
	require.NoError(t, err)

	assert.Equal(t, "active", result.AccountStatus)
	require.NotNil(t, result.PlanExpiryDate)
	assert.Equal(t, "2024-04-30", *result.PlanExpiryDate)

	stored := subRepo.get("sub_a")
	assert.True(t, stored.PlanExpiryDate().Equal(date(2024, time.April, 30)))
	assert.Equal(t, 2, stored.Version())

	require.Equal(t, 1, ledgerRepo.count())
	entries, err := ledgerRepo.ListBySubscriber(context.Background(), "sub_a")
	require.NoError(t, err)
	entry := entries[0]
	assert.Equal(t, vo.ChangeTypeRenewal, entry.ChangeType())
	require.NotNil(t, entry.PrevExpiryDate())
	assert.True(t, entry.PrevExpiryDate().Equal(date(2024, time.January, 31)))
	require.NotNil(t, entry.NewExpiryDate())
	assert.True(t, entry.NewExpiryDate().Equal(date(2024, time.April, 30)))
}

func TestRenewSubscription_ReactivatesExpired(t *testing.T) {
	subRepo := newFakeSubscriptionRepo()
	ledgerRepo := newFakeLedgerRepo()
	expiry := date(2024, time.January, 15)
	seedSubscription(t, subRepo, "sub_a", vo.AccountStatusExpired, date(2024, time.January, 1), &expiry)

	publisher := &capturingPublisher{}
	uc := NewRenewSubscriptionUseCase(subRepo, ledgerRepo, fakeTransactor{}, testLogger())
	uc.SetEventPublisher(publisher)
	uc.SetNowFunc(fixedNow(date(2024, time.February, 1)))

	result, err := uc.Execute(context.Background(), RenewSubscriptionCommand{
		SubscriberSID: "sub_a",
		Months:        1,
		ActorID:       "admin",
	})
	require.NoError(t, err)

	assert.Equal(t, "active", result.AccountStatus)
	stored := subRepo.get("sub_a")
	assert.Equal(t, vo.AccountStatusActive, stored.AccountStatus())
	assert.True(t, stored.PlanExpiryDate().Equal(date(2024, time.February, 15)))

	renewed := publisher.byType(billing.EventTypeSubscriptionRenewed)
	require.Len(t, renewed, 1)
	assert.True(t, renewed[0].(*billing.SubscriptionRenewedEvent).Reactivated)
}

func TestRenewSubscription_ZeroMonthsIsNoOp(t *testing.T) {
	subRepo := newFakeSubscriptionRepo()
	ledgerRepo := newFakeLedgerRepo()
	expiry := date(2024, time.January, 31)
	seedSubscription(t, subRepo, "sub_a", vo.AccountStatusActive, date(2024, time.January, 1), &expiry)

	uc := NewRenewSubscriptionUseCase(subRepo, ledgerRepo, fakeTransactor{}, testLogger())
	uc.SetNowFunc(fixedNow(date(2024, time.January, 20)))

	result, err := uc.Execute(context.Background(), RenewSubscriptionCommand{
		SubscriberSID: "sub_a",
		Months:        0,
		ActorID:       "admin",
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 0, ledgerRepo.count())
	assert.Equal(t, 1, subRepo.get("sub_a").Version())
}

func TestRenewSubscription_NegativeMonthsRejected(t *testing.T) {
	subRepo := newFakeSubscriptionRepo()
	ledgerRepo := newFakeLedgerRepo()

	uc := NewRenewSubscriptionUseCase(subRepo, ledgerRepo, fakeTransactor{}, testLogger())

	_, err := uc.Execute(context.Background(), RenewSubscriptionCommand{
		SubscriberSID: "sub_a",
		Months:        -1,
		ActorID:       "admin",
	})
	assert.True(t, apperrors.IsInvalidRangeError(err))
}

func TestRenewSubscription_UnknownSubscriber(t *testing.T) {
	uc := NewRenewSubscriptionUseCase(newFakeSubscriptionRepo(), newFakeLedgerRepo(), fakeTransactor{}, testLogger())

	_, err := uc.Execute(context.Background(), RenewSubscriptionCommand{
		SubscriberSID: "sub_missing",
		Months:        1,
		ActorID:       "admin",
	})
	assert.True(t, apperrors.IsNotFoundError(err))
}

// A renewal racing another writer must fail with Conflict instead of
// stacking a second month on top of the first call's write: the final
// expiry reflects exactly one applied renewal and the ledger holds
// exactly one row.
func TestRenewSubscription_ConcurrentDuplicateConflicts(t *testing.T) {
	subRepo := newFakeSubscriptionRepo()
	ledgerRepo := newFakeLedgerRepo()
	expiry := date(2024, time.January, 1)
	seedSubscription(t, subRepo, "sub_a", vo.AccountStatusActive, date(2023, time.December, 1), &expiry)

	// Both calls read the same snapshot, as two concurrent requests would.
	subRepo.freezeStaleReads(2)

	uc := NewRenewSubscriptionUseCase(subRepo, ledgerRepo, fakeTransactor{}, testLogger())
	uc.SetNowFunc(fixedNow(date(2023, time.December, 20)))

	cmd := RenewSubscriptionCommand{SubscriberSID: "sub_a", Months: 1, ActorID: "admin"}

	_, firstErr := uc.Execute(context.Background(), cmd)
	require.NoError(t, firstErr)

	_, secondErr := uc.Execute(context.Background(), cmd)
	assert.True(t, apperrors.IsConflictError(secondErr))

	stored := subRepo.get("sub_a")
	assert.True(t, stored.PlanExpiryDate().Equal(date(2024, time.February, 1)),
		"expiry must reflect exactly one renewal, got %s", stored.PlanExpiryDate())
	assert.Equal(t, 1, ledgerRepo.count())
}
