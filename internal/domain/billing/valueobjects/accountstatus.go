package valueobjects

// AccountStatus is the subscriber account lifecycle state.
type AccountStatus string

const (
	AccountStatusPendingInstallation AccountStatus = "pending_installation"
	AccountStatusActive              AccountStatus = "active"
	AccountStatusSuspended           AccountStatus = "suspended"
	AccountStatusExpired             AccountStatus = "expired"
)

var ValidAccountStatuses = map[AccountStatus]bool{
	AccountStatusPendingInstallation: true,
	AccountStatusActive:              true,
	AccountStatusSuspended:           true,
	AccountStatusExpired:             true,
}

func (s AccountStatus) String() string {
	return string(s)
}

func (s AccountStatus) IsValid() bool {
	return ValidAccountStatuses[s]
}

// CanTransitionTo reports whether moving from s to target is a legal
// lifecycle transition. Expired is only ever entered by the status
// recomputation sweep and only ever left through a renewal.
func (s AccountStatus) CanTransitionTo(target AccountStatus) bool {
	transitions := map[AccountStatus][]AccountStatus{
		AccountStatusPendingInstallation: {AccountStatusActive},
		AccountStatusActive:              {AccountStatusSuspended, AccountStatusExpired},
		AccountStatusSuspended:           {AccountStatusActive},
		AccountStatusExpired:             {AccountStatusActive},
	}

	allowed, exists := transitions[s]
	if !exists {
		return false
	}

	for _, allowedStatus := range allowed {
		if allowedStatus == target {
			return true
		}
	}
	return false
}
