package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fibrelink-inc/fibrelink/internal/domain/billing"
	vo "github.com/fibrelink-inc/fibrelink/internal/domain/billing/valueobjects"
)

func TestRecomputeStatuses_ExpiresLapsedActives(t *testing.T) {
	subRepo := newFakeSubscriptionRepo()
	lapsed := date(2024, time.January, 15)
	current := date(2024, time.June, 1)
	seedSubscription(t, subRepo, "sub_lapsed", vo.AccountStatusActive, date(2024, time.January, 1), &lapsed)
	seedSubscription(t, subRepo, "sub_current", vo.AccountStatusActive, date(2024, time.January, 1), &current)

	publisher := &capturingPublisher{}
	uc := NewRecomputeStatusesUseCase(subRepo, testLogger())
	uc.SetEventPublisher(publisher)

	count, err := uc.Execute(context.Background(), date(2024, time.March, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.Equal(t, vo.AccountStatusExpired, subRepo.get("sub_lapsed").AccountStatus())
	assert.Equal(t, vo.AccountStatusActive, subRepo.get("sub_current").AccountStatus())

	expired := publisher.byType(billing.EventTypeBecameExpired)
	require.Len(t, expired, 1)
	assert.Equal(t, "sub_lapsed", expired[0].GetAggregateID())
}

func TestRecomputeStatuses_SecondRunIsNoOp(t *testing.T) {
	subRepo := newFakeSubscriptionRepo()
	lapsed := date(2024, time.January, 15)
	seedSubscription(t, subRepo, "sub_lapsed", vo.AccountStatusActive, date(2024, time.January, 1), &lapsed)

	uc := NewRecomputeStatusesUseCase(subRepo, testLogger())
	now := date(2024, time.March, 1)

	first, err := uc.Execute(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	second, err := uc.Execute(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 0, second)
}

func TestRecomputeStatuses_SkipsSuspendedAndPending(t *testing.T) {
	subRepo := newFakeSubscriptionRepo()
	lapsed := date(2024, time.January, 15)
	seedSubscription(t, subRepo, "sub_suspended", vo.AccountStatusSuspended, date(2024, time.January, 1), &lapsed)
	seedSubscription(t, subRepo, "sub_pending", vo.AccountStatusPendingInstallation, date(2024, time.January, 1), nil)

	uc := NewRecomputeStatusesUseCase(subRepo, testLogger())

	count, err := uc.Execute(context.Background(), date(2024, time.March, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	assert.Equal(t, vo.AccountStatusSuspended, subRepo.get("sub_suspended").AccountStatus())
	assert.Equal(t, vo.AccountStatusPendingInstallation, subRepo.get("sub_pending").AccountStatus())
}

func TestRecomputeStatuses_ExpiryDayIsStillActive(t *testing.T) {
	subRepo := newFakeSubscriptionRepo()
	expiry := date(2024, time.March, 1)
	seedSubscription(t, subRepo, "sub_a", vo.AccountStatusActive, date(2024, time.January, 1), &expiry)

	uc := NewRecomputeStatusesUseCase(subRepo, testLogger())

	// Sweep runs on the expiry date itself: the plan is good through
	// the end of its expiry day.
	count, err := uc.Execute(context.Background(), date(2024, time.March, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, vo.AccountStatusActive, subRepo.get("sub_a").AccountStatus())
}

func TestNotifyExpiringSoon(t *testing.T) {
	subRepo := newFakeSubscriptionRepo()
	soon := date(2024, time.March, 5)
	far := date(2024, time.June, 1)
	past := date(2024, time.February, 1)
	seedSubscription(t, subRepo, "sub_soon", vo.AccountStatusActive, date(2024, time.January, 1), &soon)
	seedSubscription(t, subRepo, "sub_far", vo.AccountStatusActive, date(2024, time.January, 1), &far)
	seedSubscription(t, subRepo, "sub_past", vo.AccountStatusActive, date(2024, time.January, 1), &past)

	publisher := &capturingPublisher{}
	uc := NewNotifyExpiringSoonUseCase(subRepo, publisher, 7, testLogger())

	count, err := uc.Execute(context.Background(), date(2024, time.March, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	evts := publisher.byType(billing.EventTypeExpiringSoon)
	require.Len(t, evts, 1)
	event := evts[0].(*billing.ExpiringSoonEvent)
	assert.Equal(t, "sub_soon", event.SubscriberSID)
	assert.Equal(t, 4, event.DaysRemaining)
}

func TestNotifyPaymentDue(t *testing.T) {
	subRepo := newFakeSubscriptionRepo()
	expiry := date(2024, time.June, 1)
	seedSubscription(t, subRepo, "sub_due", vo.AccountStatusActive, date(2024, time.January, 1), &expiry)
	seedSubscription(t, subRepo, "sub_paid", vo.AccountStatusActive, date(2024, time.January, 1), &expiry)

	// Give sub_due an overdue balance.
	due := date(2024, time.February, 20)
	sub := subRepo.get("sub_due")
	sub.SetPaymentDueDate(&due)
	require.NoError(t, subRepo.Update(context.Background(), sub, 1))

	publisher := &capturingPublisher{}
	uc := NewNotifyPaymentDueUseCase(subRepo, publisher, 3, testLogger())

	count, err := uc.Execute(context.Background(), date(2024, time.March, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	evts := publisher.byType(billing.EventTypePaymentDue)
	require.Len(t, evts, 1)
	assert.Equal(t, "sub_due", evts[0].GetAggregateID())
}
