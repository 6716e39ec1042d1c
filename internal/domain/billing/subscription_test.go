package billing

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	vo "github.com/fibrelink-inc/fibrelink/internal/domain/billing/valueobjects"
)

func newActiveSubscription(t *testing.T, start, expiry time.Time) *Subscription {
	t.Helper()

	sub, err := ReconstructSubscription(ReconstructSubscriptionParams{
		ID:               1,
		SID:              "sub_test00000001",
		PlanID:           "plan_test0000001",
		PlanStartDate:    start,
		PlanExpiryDate:   &expiry,
		PaymentStatus:    vo.PaymentStatusPending,
		OldPendingAmount: decimal.Zero,
		AccountStatus:    vo.AccountStatusActive,
		Version:          1,
		CreatedAt:        start,
		UpdatedAt:        start,
	})
	if err != nil {
		t.Fatalf("ReconstructSubscription() error = %v", err)
	}
	return sub
}

func TestNewSubscription(t *testing.T) {
	provisionedAt := date(2024, time.January, 1)

	sub, err := NewSubscription("sub_abc", "plan_basic", provisionedAt)
	if err != nil {
		t.Fatalf("NewSubscription() error = %v", err)
	}

	if sub.AccountStatus() != vo.AccountStatusPendingInstallation {
		t.Errorf("AccountStatus() = %s, want %s", sub.AccountStatus(), vo.AccountStatusPendingInstallation)
	}
	if sub.PaymentStatus() != vo.PaymentStatusPending {
		t.Errorf("PaymentStatus() = %s, want %s", sub.PaymentStatus(), vo.PaymentStatusPending)
	}
	if sub.PlanExpiryDate() != nil {
		t.Errorf("PlanExpiryDate() = %v, want nil before activation", sub.PlanExpiryDate())
	}
	if !sub.OldPendingAmount().IsZero() {
		t.Errorf("OldPendingAmount() = %s, want 0", sub.OldPendingAmount())
	}
	if sub.Version() != 1 {
		t.Errorf("Version() = %d, want 1", sub.Version())
	}
}

func TestNewSubscription_Invalid(t *testing.T) {
	provisionedAt := date(2024, time.January, 1)

	if _, err := NewSubscription("", "plan_basic", provisionedAt); err == nil {
		t.Error("NewSubscription() with empty SID, want error")
	}
	if _, err := NewSubscription("sub_abc", "", provisionedAt); err == nil {
		t.Error("NewSubscription() with empty plan ID, want error")
	}
}

func TestReconstructSubscription_RejectsInvariantViolations(t *testing.T) {
	start := date(2024, time.January, 1)
	expiry := date(2023, time.December, 1)

	_, err := ReconstructSubscription(ReconstructSubscriptionParams{
		ID:               1,
		SID:              "sub_abc",
		PlanID:           "plan_basic",
		PlanStartDate:    start,
		PlanExpiryDate:   &expiry,
		PaymentStatus:    vo.PaymentStatusPending,
		OldPendingAmount: decimal.Zero,
		AccountStatus:    vo.AccountStatusActive,
		Version:          1,
	})
	if !errors.Is(err, ErrExpiryBeforeStart) {
		t.Errorf("error = %v, want ErrExpiryBeforeStart", err)
	}

	_, err = ReconstructSubscription(ReconstructSubscriptionParams{
		ID:               1,
		SID:              "sub_abc",
		PlanID:           "plan_basic",
		PlanStartDate:    start,
		PaymentStatus:    vo.PaymentStatusPending,
		OldPendingAmount: decimal.NewFromInt(-5),
		AccountStatus:    vo.AccountStatusActive,
		Version:          1,
	})
	if !errors.Is(err, ErrNegativePendingAmount) {
		t.Errorf("error = %v, want ErrNegativePendingAmount", err)
	}
}

func TestSubscription_Activate(t *testing.T) {
	sub, err := NewSubscription("sub_abc", "plan_basic", date(2024, time.January, 1))
	if err != nil {
		t.Fatalf("NewSubscription() error = %v", err)
	}

	start := date(2024, time.January, 5)
	expiry := date(2024, time.February, 5)
	if err := sub.Activate(start, expiry); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}

	if sub.AccountStatus() != vo.AccountStatusActive {
		t.Errorf("AccountStatus() = %s, want active", sub.AccountStatus())
	}
	if !sub.PlanStartDate().Equal(start) {
		t.Errorf("PlanStartDate() = %s, want %s", sub.PlanStartDate(), start)
	}
	if sub.PlanExpiryDate() == nil || !sub.PlanExpiryDate().Equal(expiry) {
		t.Errorf("PlanExpiryDate() = %v, want %s", sub.PlanExpiryDate(), expiry)
	}
	if sub.Version() != 2 {
		t.Errorf("Version() = %d, want 2", sub.Version())
	}
}

func TestSubscription_ApplyRenewal(t *testing.T) {
	t.Run("extends expiry", func(t *testing.T) {
		sub := newActiveSubscription(t, date(2024, time.January, 1), date(2024, time.January, 31))

		newExpiry := date(2024, time.April, 30)
		if err := sub.ApplyRenewal(newExpiry); err != nil {
			t.Fatalf("ApplyRenewal() error = %v", err)
		}

		if !sub.PlanExpiryDate().Equal(newExpiry) {
			t.Errorf("PlanExpiryDate() = %s, want %s", sub.PlanExpiryDate(), newExpiry)
		}
		if sub.AccountStatus() != vo.AccountStatusActive {
			t.Errorf("AccountStatus() = %s, want active", sub.AccountStatus())
		}
		if sub.Version() != 2 {
			t.Errorf("Version() = %d, want 2", sub.Version())
		}
	})

	t.Run("reactivates expired subscription", func(t *testing.T) {
		sub := newActiveSubscription(t, date(2024, time.January, 1), date(2024, time.January, 15))
		if err := sub.MarkAsExpired(); err != nil {
			t.Fatalf("MarkAsExpired() error = %v", err)
		}

		if err := sub.ApplyRenewal(date(2024, time.February, 15)); err != nil {
			t.Fatalf("ApplyRenewal() error = %v", err)
		}
		if sub.AccountStatus() != vo.AccountStatusActive {
			t.Errorf("AccountStatus() = %s, want active after renewal", sub.AccountStatus())
		}
	})

	t.Run("rejects expiry before start", func(t *testing.T) {
		sub := newActiveSubscription(t, date(2024, time.January, 1), date(2024, time.March, 1))

		err := sub.ApplyRenewal(date(2023, time.December, 1))
		if !errors.Is(err, ErrExpiryBeforeStart) {
			t.Errorf("ApplyRenewal() error = %v, want ErrExpiryBeforeStart", err)
		}
	})
}

func TestSubscription_ApplyReduction(t *testing.T) {
	t.Run("moves expiry backward without status change", func(t *testing.T) {
		sub := newActiveSubscription(t, date(2024, time.January, 1), date(2024, time.April, 30))
		if err := sub.MarkAsExpired(); err != nil {
			t.Fatalf("MarkAsExpired() error = %v", err)
		}

		if err := sub.ApplyReduction(date(2024, time.March, 30)); err != nil {
			t.Fatalf("ApplyReduction() error = %v", err)
		}
		if sub.AccountStatus() != vo.AccountStatusExpired {
			t.Errorf("AccountStatus() = %s, reduction must not reactivate", sub.AccountStatus())
		}
	})

	t.Run("rejects reduction crossing plan start", func(t *testing.T) {
		sub := newActiveSubscription(t, date(2024, time.January, 1), date(2024, time.February, 1))

		err := sub.ApplyReduction(date(2023, time.December, 1))
		if !errors.Is(err, ErrExpiryBeforeStart) {
			t.Errorf("ApplyReduction() error = %v, want ErrExpiryBeforeStart", err)
		}
		if !sub.PlanExpiryDate().Equal(date(2024, time.February, 1)) {
			t.Errorf("PlanExpiryDate() changed on rejected reduction")
		}
	})

	t.Run("rejects reduction before activation", func(t *testing.T) {
		sub, err := NewSubscription("sub_abc", "plan_basic", date(2024, time.January, 1))
		if err != nil {
			t.Fatalf("NewSubscription() error = %v", err)
		}

		if err := sub.ApplyReduction(date(2024, time.February, 1)); !errors.Is(err, ErrNotActivated) {
			t.Errorf("ApplyReduction() error = %v, want ErrNotActivated", err)
		}
	})
}

func TestSubscription_SetPaymentStatus(t *testing.T) {
	sub := newActiveSubscription(t, date(2024, time.January, 1), date(2024, time.February, 1))

	if err := sub.SetPaymentStatus(vo.PaymentStatusVerifiedByUpi); err != nil {
		t.Fatalf("SetPaymentStatus() error = %v", err)
	}
	if sub.PaymentStatus() != vo.PaymentStatusVerifiedByUpi {
		t.Errorf("PaymentStatus() = %s, want verified_by_upi", sub.PaymentStatus())
	}

	// any-to-any transitions are legal
	if err := sub.SetPaymentStatus(vo.PaymentStatusVerifiedByCash); err != nil {
		t.Fatalf("SetPaymentStatus() error = %v", err)
	}
	if err := sub.SetPaymentStatus(vo.PaymentStatusPending); err != nil {
		t.Fatalf("SetPaymentStatus() error = %v", err)
	}

	if err := sub.SetPaymentStatus(vo.PaymentStatus("card")); !errors.Is(err, ErrInvalidPaymentStatus) {
		t.Errorf("SetPaymentStatus() error = %v, want ErrInvalidPaymentStatus", err)
	}
}

func TestSubscription_SetPaymentStatus_SameValueDoesNotBumpVersion(t *testing.T) {
	sub := newActiveSubscription(t, date(2024, time.January, 1), date(2024, time.February, 1))
	before := sub.Version()

	if err := sub.SetPaymentStatus(vo.PaymentStatusPending); err != nil {
		t.Fatalf("SetPaymentStatus() error = %v", err)
	}
	if sub.Version() != before {
		t.Errorf("Version() = %d, want unchanged %d", sub.Version(), before)
	}
}

func TestSubscription_SetOldPendingAmount(t *testing.T) {
	sub := newActiveSubscription(t, date(2024, time.January, 1), date(2024, time.February, 1))

	if err := sub.SetOldPendingAmount(decimal.NewFromInt(250)); err != nil {
		t.Fatalf("SetOldPendingAmount() error = %v", err)
	}
	if !sub.OldPendingAmount().Equal(decimal.NewFromInt(250)) {
		t.Errorf("OldPendingAmount() = %s, want 250", sub.OldPendingAmount())
	}

	err := sub.SetOldPendingAmount(decimal.NewFromInt(-50))
	if !errors.Is(err, ErrNegativePendingAmount) {
		t.Errorf("SetOldPendingAmount(-50) error = %v, want ErrNegativePendingAmount", err)
	}
	if !sub.OldPendingAmount().Equal(decimal.NewFromInt(250)) {
		t.Errorf("OldPendingAmount() changed on rejected mutation")
	}
}

func TestSubscription_SetPlanStartDate(t *testing.T) {
	sub := newActiveSubscription(t, date(2024, time.January, 1), date(2024, time.February, 1))

	err := sub.SetPlanStartDate(date(2024, time.March, 1))
	if !errors.Is(err, ErrExpiryBeforeStart) {
		t.Errorf("SetPlanStartDate() past expiry error = %v, want ErrExpiryBeforeStart", err)
	}

	if err := sub.SetPlanStartDate(date(2024, time.January, 15)); err != nil {
		t.Fatalf("SetPlanStartDate() error = %v", err)
	}
	if !sub.PlanStartDate().Equal(date(2024, time.January, 15)) {
		t.Errorf("PlanStartDate() = %s, want 2024-01-15", sub.PlanStartDate())
	}
}

func TestSubscription_SuspendResume(t *testing.T) {
	sub := newActiveSubscription(t, date(2024, time.January, 1), date(2024, time.February, 1))

	if err := sub.Suspend(); err != nil {
		t.Fatalf("Suspend() error = %v", err)
	}
	if sub.AccountStatus() != vo.AccountStatusSuspended {
		t.Errorf("AccountStatus() = %s, want suspended", sub.AccountStatus())
	}

	// suspended subscriptions are not swept to expired
	if err := sub.MarkAsExpired(); !errors.Is(err, ErrInvalidStatusChange) {
		t.Errorf("MarkAsExpired() on suspended error = %v, want ErrInvalidStatusChange", err)
	}

	if err := sub.Resume(); err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	if sub.AccountStatus() != vo.AccountStatusActive {
		t.Errorf("AccountStatus() = %s, want active", sub.AccountStatus())
	}
}

func TestSubscription_MarkAsExpired_Idempotent(t *testing.T) {
	sub := newActiveSubscription(t, date(2024, time.January, 1), date(2024, time.February, 1))

	if err := sub.MarkAsExpired(); err != nil {
		t.Fatalf("MarkAsExpired() error = %v", err)
	}
	versionAfterFirst := sub.Version()

	if err := sub.MarkAsExpired(); err != nil {
		t.Fatalf("second MarkAsExpired() error = %v", err)
	}
	if sub.Version() != versionAfterFirst {
		t.Errorf("Version() = %d, second MarkAsExpired must be a no-op", sub.Version())
	}
}

func TestSubscription_IsPlanActive(t *testing.T) {
	start := date(2024, time.January, 1)
	expiry := date(2024, time.February, 1)

	tests := []struct {
		name     string
		mutate   func(*Subscription) error
		now      time.Time
		expected bool
	}{
		{"active before expiry", func(s *Subscription) error { return nil }, date(2024, time.January, 20), true},
		{"active on expiry day", func(s *Subscription) error { return nil }, date(2024, time.February, 1), true},
		{"active past expiry", func(s *Subscription) error { return nil }, date(2024, time.February, 2), false},
		{"suspended before expiry", func(s *Subscription) error { return s.Suspend() }, date(2024, time.January, 20), false},
		{"expired status", func(s *Subscription) error { return s.MarkAsExpired() }, date(2024, time.January, 20), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := newActiveSubscription(t, start, expiry)
			if err := tt.mutate(sub); err != nil {
				t.Fatalf("mutate error = %v", err)
			}
			if got := sub.IsPlanActive(tt.now); got != tt.expected {
				t.Errorf("IsPlanActive(%s) = %v, want %v", tt.now.Format("2006-01-02"), got, tt.expected)
			}
		})
	}
}

func TestSubscription_ChangePlan(t *testing.T) {
	sub := newActiveSubscription(t, date(2024, time.January, 1), date(2024, time.February, 1))
	before := sub.Version()

	if err := sub.ChangePlan("plan_test0000001"); err != nil {
		t.Fatalf("ChangePlan() to same plan error = %v", err)
	}
	if sub.Version() != before {
		t.Errorf("Version() bumped on same-plan change")
	}

	if err := sub.ChangePlan("plan_premium0001"); err != nil {
		t.Fatalf("ChangePlan() error = %v", err)
	}
	if sub.PlanID() != "plan_premium0001" {
		t.Errorf("PlanID() = %s, want plan_premium0001", sub.PlanID())
	}
}
