package valueobjects

import "testing"

func TestAccountStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name     string
		from     AccountStatus
		to       AccountStatus
		expected bool
	}{
		{"pending installation activates", AccountStatusPendingInstallation, AccountStatusActive, true},
		{"pending installation cannot expire", AccountStatusPendingInstallation, AccountStatusExpired, false},
		{"active suspends", AccountStatusActive, AccountStatusSuspended, true},
		{"active expires", AccountStatusActive, AccountStatusExpired, true},
		{"suspended resumes", AccountStatusSuspended, AccountStatusActive, true},
		{"suspended cannot expire", AccountStatusSuspended, AccountStatusExpired, false},
		{"expired reactivates", AccountStatusExpired, AccountStatusActive, true},
		{"expired cannot suspend", AccountStatusExpired, AccountStatusSuspended, false},
		{"unknown status transitions nowhere", AccountStatus("deleted"), AccountStatusActive, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.expected {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.expected)
			}
		})
	}
}

func TestCommitmentPeriod_Months(t *testing.T) {
	tests := []struct {
		period   CommitmentPeriod
		expected int
	}{
		{CommitmentMonthly, 1},
		{CommitmentQuarterly, 3},
		{CommitmentHalfYearly, 6},
		{CommitmentYearly, 12},
		{CommitmentPeriod("weekly"), 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			if got := tt.period.Months(); got != tt.expected {
				t.Errorf("Months() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestPaymentStatus_IsVerified(t *testing.T) {
	if PaymentStatusPending.IsVerified() {
		t.Error("pending must not be verified")
	}
	if !PaymentStatusVerifiedByCash.IsVerified() || !PaymentStatusVerifiedByUpi.IsVerified() {
		t.Error("cash and upi statuses must be verified")
	}
}
