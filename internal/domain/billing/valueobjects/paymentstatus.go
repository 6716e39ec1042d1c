package valueobjects

// PaymentStatus tracks how the current cycle's payment was settled.
// Transitions are unordered: any status may move to any other, but every
// transition must be recorded in the billing change ledger.
type PaymentStatus string

const (
	PaymentStatusPending        PaymentStatus = "pending"
	PaymentStatusVerifiedByCash PaymentStatus = "verified_by_cash"
	PaymentStatusVerifiedByUpi  PaymentStatus = "verified_by_upi"
)

var ValidPaymentStatuses = map[PaymentStatus]bool{
	PaymentStatusPending:        true,
	PaymentStatusVerifiedByCash: true,
	PaymentStatusVerifiedByUpi:  true,
}

func (s PaymentStatus) String() string {
	return string(s)
}

func (s PaymentStatus) IsValid() bool {
	return ValidPaymentStatuses[s]
}

// IsVerified reports whether the payment has been confirmed by any channel.
func (s PaymentStatus) IsVerified() bool {
	return s == PaymentStatusVerifiedByCash || s == PaymentStatusVerifiedByUpi
}
