package usecases

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/fibrelink-inc/fibrelink/internal/shared/errors"
)

func TestProvisionSubscriber_PendingInstallation(t *testing.T) {
	subRepo := newFakeSubscriptionRepo()
	planRepo := newFakePlanRepo()
	seedBasicPlan(t, planRepo, "plan_basic100mb1")

	uc := NewProvisionSubscriberUseCase(subRepo, planRepo, testLogger())
	uc.SetNowFunc(fixedNow(date(2024, time.February, 1)))

	result, err := uc.Execute(context.Background(), ProvisionSubscriberCommand{
		PlanID:  "plan_basic100mb1",
		ActorID: "admin",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.SID, "sub_"))
	assert.Equal(t, "pending_installation", result.AccountStatus)
	assert.Equal(t, "pending", result.PaymentStatus)
	assert.Nil(t, result.PlanExpiryDate)
	assert.False(t, result.IsPlanActive)

	stored := subRepo.get(result.SID)
	assert.Equal(t, 1, stored.Version())
	assert.Nil(t, stored.PlanExpiryDate())
}

func TestProvisionSubscriber_ActivateImmediately(t *testing.T) {
	subRepo := newFakeSubscriptionRepo()
	planRepo := newFakePlanRepo()
	seedBasicPlan(t, planRepo, "plan_basic100mb1")

	uc := NewProvisionSubscriberUseCase(subRepo, planRepo, testLogger())
	uc.SetNowFunc(fixedNow(date(2024, time.February, 1)))

	start := date(2024, time.January, 31)
	result, err := uc.Execute(context.Background(), ProvisionSubscriberCommand{
		PlanID:              "plan_basic100mb1",
		StartDate:           &start,
		ActivateImmediately: true,
		ActorID:             "admin",
	})
	require.NoError(t, err)

	assert.Equal(t, "active", result.AccountStatus)
	// Monthly commitment from Jan 31 clamps into February.
	require.NotNil(t, result.PlanExpiryDate)
	assert.Equal(t, "2024-02-29", *result.PlanExpiryDate)
	assert.True(t, result.IsPlanActive)
}

func TestProvisionSubscriber_UnknownPlan(t *testing.T) {
	uc := NewProvisionSubscriberUseCase(newFakeSubscriptionRepo(), newFakePlanRepo(), testLogger())

	_, err := uc.Execute(context.Background(), ProvisionSubscriberCommand{
		PlanID:  "plan_nonexistent",
		ActorID: "admin",
	})
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestProvisionSubscriber_MissingPlanID(t *testing.T) {
	uc := NewProvisionSubscriberUseCase(newFakeSubscriptionRepo(), newFakePlanRepo(), testLogger())

	_, err := uc.Execute(context.Background(), ProvisionSubscriberCommand{ActorID: "admin"})
	assert.True(t, apperrors.IsValidationError(err))
}
