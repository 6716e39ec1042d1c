package billing

import "errors"

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrPlanNotFound         = errors.New("plan not found")
	ErrLedgerEntryNotFound  = errors.New("ledger entry not found")

	// ErrVersionConflict signals that a concurrent writer updated the
	// subscription between this operation's read and its write.
	ErrVersionConflict = errors.New("subscription was modified concurrently")

	ErrExpiryBeforeStart     = errors.New("expiry date would precede plan start date")
	ErrNegativePendingAmount = errors.New("old pending amount cannot be negative")
	ErrInvalidPaymentStatus  = errors.New("invalid payment status")
	ErrInvalidAccountStatus  = errors.New("invalid account status")
	ErrInvalidStatusChange   = errors.New("invalid account status transition")
	ErrNotActivated          = errors.New("subscription has not been activated")
)
