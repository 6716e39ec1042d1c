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

func seedBasicPlan(t *testing.T, repo *fakePlanRepo, sid string) {
	t.Helper()
	plan, err := billing.ReconstructPlan(1, sid, "Basic 100Mb", decimal.NewFromInt(500), "100 Mbps", "unlimited", vo.CommitmentMonthly, date(2023, time.January, 1), date(2023, time.January, 1))
	require.NoError(t, err)
	repo.seed(plan)
}

func newUpdateBillingFixture(t *testing.T) (*UpdateBillingUseCase, *fakeSubscriptionRepo, *fakeLedgerRepo, *fakePlanRepo) {
	t.Helper()
	subRepo := newFakeSubscriptionRepo()
	ledgerRepo := newFakeLedgerRepo()
	planRepo := newFakePlanRepo()
	seedBasicPlan(t, planRepo, "plan_basic100mb1")
	seedBasicPlan(t, planRepo, "plan_fiber500mb2")

	uc := NewUpdateBillingUseCase(subRepo, planRepo, ledgerRepo, fakeTransactor{}, testLogger())
	uc.SetNowFunc(fixedNow(date(2024, time.February, 1)))
	return uc, subRepo, ledgerRepo, planRepo
}

func strPtr(s string) *string { return &s }

func TestUpdateBilling_OneLedgerRowPerChangedDimension(t *testing.T) {
	uc, subRepo, ledgerRepo, _ := newUpdateBillingFixture(t)
	expiry := date(2024, time.March, 1)
	seedSubscription(t, subRepo, "sub_a", vo.AccountStatusActive, date(2024, time.January, 1), &expiry)

	amount := decimal.NewFromInt(150)
	due := date(2024, time.February, 15)

	result, err := uc.Execute(context.Background(), UpdateBillingCommand{
		SubscriberSID:     "sub_a",
		PlanID:            strPtr("plan_fiber500mb2"),
		PaymentStatus:     strPtr("verified_by_upi"),
		OldPendingAmount:  &amount,
		SetPaymentDueDate: true,
		PaymentDueDate:    &due,
		ActorID:           "admin",
	})
	require.NoError(t, err)

	assert.Equal(t, "plan_fiber500mb2", result.PlanID)
	assert.Equal(t, "verified_by_upi", result.PaymentStatus)
	assert.Equal(t, "150", result.OldPendingAmount)
	assert.Equal(t, "2024-02-15", result.PaymentDueDate)

	// Four changed dimensions, four billing_update rows.
	require.Equal(t, 4, ledgerRepo.count())
	entries, _ := ledgerRepo.ListBySubscriber(context.Background(), "sub_a")
	for _, entry := range entries {
		assert.Equal(t, vo.ChangeTypeBillingUpdate, entry.ChangeType())
	}

	// Each before/after pair survives on its own row.
	var sawPlan, sawStatus, sawAmount, sawDue bool
	for _, entry := range entries {
		switch {
		case entry.PrevPlanID() != nil:
			sawPlan = true
			assert.Equal(t, "plan_basic100mb1", *entry.PrevPlanID())
			assert.Equal(t, "plan_fiber500mb2", *entry.NewPlanID())
		case entry.PrevPaymentStatus() != nil:
			sawStatus = true
			assert.Equal(t, vo.PaymentStatusPending, *entry.PrevPaymentStatus())
			assert.Equal(t, vo.PaymentStatusVerifiedByUpi, *entry.NewPaymentStatus())
		case entry.PrevPendingAmount() != nil:
			sawAmount = true
			assert.True(t, entry.PrevPendingAmount().IsZero())
			assert.True(t, entry.NewPendingAmount().Equal(amount))
		case entry.NewDueDate() != nil:
			sawDue = true
			assert.Nil(t, entry.PrevDueDate())
			assert.True(t, entry.NewDueDate().Equal(due))
		}
	}
	assert.True(t, sawPlan && sawStatus && sawAmount && sawDue)
}

func TestUpdateBilling_EmptyPatchWritesNothing(t *testing.T) {
	uc, subRepo, ledgerRepo, _ := newUpdateBillingFixture(t)
	expiry := date(2024, time.March, 1)
	seedSubscription(t, subRepo, "sub_a", vo.AccountStatusActive, date(2024, time.January, 1), &expiry)

	result, err := uc.Execute(context.Background(), UpdateBillingCommand{
		SubscriberSID: "sub_a",
		ActorID:       "admin",
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 0, ledgerRepo.count())
	assert.Equal(t, 1, subRepo.get("sub_a").Version())
}

func TestUpdateBilling_SameValuePatchWritesNothing(t *testing.T) {
	uc, subRepo, ledgerRepo, _ := newUpdateBillingFixture(t)
	expiry := date(2024, time.March, 1)
	seedSubscription(t, subRepo, "sub_a", vo.AccountStatusActive, date(2024, time.January, 1), &expiry)

	_, err := uc.Execute(context.Background(), UpdateBillingCommand{
		SubscriberSID: "sub_a",
		PaymentStatus: strPtr("pending"),
		ActorID:       "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, ledgerRepo.count())
}

func TestUpdateBilling_NegativeAmountRejected(t *testing.T) {
	uc, subRepo, ledgerRepo, _ := newUpdateBillingFixture(t)
	expiry := date(2024, time.March, 1)
	seedSubscription(t, subRepo, "sub_a", vo.AccountStatusActive, date(2024, time.January, 1), &expiry)

	amount := decimal.NewFromInt(-50)
	_, err := uc.Execute(context.Background(), UpdateBillingCommand{
		SubscriberSID:    "sub_a",
		OldPendingAmount: &amount,
		ActorID:          "admin",
	})
	assert.True(t, apperrors.IsInvalidRangeError(err))

	stored := subRepo.get("sub_a")
	assert.True(t, stored.OldPendingAmount().IsZero())
	assert.Equal(t, 1, stored.Version())
	assert.Equal(t, 0, ledgerRepo.count())
}

func TestUpdateBilling_UnknownPaymentStatusRejected(t *testing.T) {
	uc, subRepo, ledgerRepo, _ := newUpdateBillingFixture(t)
	expiry := date(2024, time.March, 1)
	seedSubscription(t, subRepo, "sub_a", vo.AccountStatusActive, date(2024, time.January, 1), &expiry)

	_, err := uc.Execute(context.Background(), UpdateBillingCommand{
		SubscriberSID: "sub_a",
		PaymentStatus: strPtr("paid_in_gold"),
		ActorID:       "admin",
	})
	assert.True(t, apperrors.IsValidationError(err))
	assert.Equal(t, 0, ledgerRepo.count())
}

func TestUpdateBilling_UnknownPlanRejected(t *testing.T) {
	uc, subRepo, ledgerRepo, _ := newUpdateBillingFixture(t)
	expiry := date(2024, time.March, 1)
	seedSubscription(t, subRepo, "sub_a", vo.AccountStatusActive, date(2024, time.January, 1), &expiry)

	_, err := uc.Execute(context.Background(), UpdateBillingCommand{
		SubscriberSID: "sub_a",
		PlanID:        strPtr("plan_nonexistent"),
		ActorID:       "admin",
	})
	assert.True(t, apperrors.IsNotFoundError(err))
	assert.Equal(t, 0, ledgerRepo.count())
}

func TestUpdateBilling_ClearDueDate(t *testing.T) {
	uc, subRepo, ledgerRepo, _ := newUpdateBillingFixture(t)
	expiry := date(2024, time.March, 1)
	seedSubscription(t, subRepo, "sub_a", vo.AccountStatusActive, date(2024, time.January, 1), &expiry)

	due := date(2024, time.February, 15)
	_, err := uc.Execute(context.Background(), UpdateBillingCommand{
		SubscriberSID:     "sub_a",
		SetPaymentDueDate: true,
		PaymentDueDate:    &due,
		ActorID:           "admin",
	})
	require.NoError(t, err)

	result, err := uc.Execute(context.Background(), UpdateBillingCommand{
		SubscriberSID:     "sub_a",
		SetPaymentDueDate: true,
		PaymentDueDate:    nil,
		ActorID:           "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, "Paid", result.PaymentDueDate)

	require.Equal(t, 2, ledgerRepo.count())
	entries, _ := ledgerRepo.ListBySubscriber(context.Background(), "sub_a")
	// Newest first: the clearing row has prev set and new nil.
	assert.NotNil(t, entries[0].PrevDueDate())
	assert.Nil(t, entries[0].NewDueDate())
}
