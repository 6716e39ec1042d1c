package usecases

import (
	"errors"
	"time"

	"github.com/fibrelink-inc/fibrelink/internal/domain/billing"
	apperrors "github.com/fibrelink-inc/fibrelink/internal/shared/errors"
)

// mapDomainError translates domain sentinels into the application error
// taxonomy surfaced at the API boundary. Errors that are already
// AppErrors pass through untouched.
func mapDomainError(err error) error {
	if err == nil {
		return nil
	}
	if appErr := apperrors.GetAppError(err); appErr != nil {
		return err
	}

	switch {
	case errors.Is(err, billing.ErrSubscriptionNotFound):
		return apperrors.NewNotFoundError("subscription not found")
	case errors.Is(err, billing.ErrPlanNotFound):
		return apperrors.NewNotFoundError("plan not found")
	case errors.Is(err, billing.ErrLedgerEntryNotFound):
		return apperrors.NewNotFoundError("ledger entry not found")
	case errors.Is(err, billing.ErrVersionConflict):
		return apperrors.NewConflictError("subscription was modified concurrently", err.Error())
	case errors.Is(err, billing.ErrExpiryBeforeStart):
		return apperrors.NewInvalidRangeError("expiry date would precede plan start date")
	case errors.Is(err, billing.ErrNegativePendingAmount):
		return apperrors.NewInvalidRangeError("old pending amount cannot be negative")
	case errors.Is(err, billing.ErrNotActivated):
		return apperrors.NewInvalidRangeError("subscription has not been activated")
	case errors.Is(err, billing.ErrInvalidPaymentStatus):
		return apperrors.NewValidationError("invalid payment status", err.Error())
	case errors.Is(err, billing.ErrInvalidStatusChange):
		return apperrors.NewValidationError("invalid account status transition", err.Error())
	default:
		return apperrors.NewInternalError("billing operation failed", err.Error())
	}
}

// copyDate copies a nullable date so later aggregate mutations cannot
// alias the captured previous value.
func copyDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}
