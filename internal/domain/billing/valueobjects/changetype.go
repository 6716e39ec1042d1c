package valueobjects

// ChangeType classifies a billing change ledger entry. The narrow types
// (payment_status, plan_change, amount_adjustment, renewal) come from the
// dedicated recording operations; billing_update marks rows written by the
// generic partial-patch path, one row per changed dimension.
type ChangeType string

const (
	ChangeTypePaymentStatus    ChangeType = "payment_status"
	ChangeTypePlanChange       ChangeType = "plan_change"
	ChangeTypeAmountAdjustment ChangeType = "amount_adjustment"
	ChangeTypeRenewal          ChangeType = "renewal"
	ChangeTypeBillingUpdate    ChangeType = "billing_update"
)

var ValidChangeTypes = map[ChangeType]bool{
	ChangeTypePaymentStatus:    true,
	ChangeTypePlanChange:       true,
	ChangeTypeAmountAdjustment: true,
	ChangeTypeRenewal:          true,
	ChangeTypeBillingUpdate:    true,
}

func (t ChangeType) String() string {
	return string(t)
}

func (t ChangeType) IsValid() bool {
	return ValidChangeTypes[t]
}
