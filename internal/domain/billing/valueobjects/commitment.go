package valueobjects

// CommitmentPeriod is the billing cadence a plan commits a subscriber to.
type CommitmentPeriod string

const (
	CommitmentMonthly    CommitmentPeriod = "monthly"
	CommitmentQuarterly  CommitmentPeriod = "quarterly"
	CommitmentHalfYearly CommitmentPeriod = "half_yearly"
	CommitmentYearly     CommitmentPeriod = "yearly"
)

var ValidCommitmentPeriods = map[CommitmentPeriod]bool{
	CommitmentMonthly:    true,
	CommitmentQuarterly:  true,
	CommitmentHalfYearly: true,
	CommitmentYearly:     true,
}

func (c CommitmentPeriod) String() string {
	return string(c)
}

func (c CommitmentPeriod) IsValid() bool {
	return ValidCommitmentPeriods[c]
}

// Months returns the number of calendar months one commitment period spans.
func (c CommitmentPeriod) Months() int {
	switch c {
	case CommitmentMonthly:
		return 1
	case CommitmentQuarterly:
		return 3
	case CommitmentHalfYearly:
		return 6
	case CommitmentYearly:
		return 12
	default:
		return 0
	}
}
