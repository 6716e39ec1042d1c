package billing

import "time"

// AddMonthsClamped adds months calendar months to t, clamping the day of
// month to the last day of the target month when the source day does not
// exist there (Jan 31 + 1 month = Feb 28/29, not Mar 2/3). The standard
// library's AddDate normalizes overflow into the following month, which
// is the wrong semantics for billing dates.
func AddMonthsClamped(t time.Time, months int) time.Time {
	firstOfTarget := time.Date(t.Year(), t.Month()+time.Month(months), 1,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())

	day := t.Day()
	if last := lastDayOfMonth(firstOfTarget.Year(), firstOfTarget.Month()); day > last {
		day = last
	}

	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// ComputeRenewal returns the expiry date after applying a signed month
// delta to the current expiry. A nil currentExpiry means the subscription
// was never activated; the new period is then anchored at now. Pure date
// math only: business-rule validation (reductions crossing the plan start
// date, zero deltas) belongs to the callers.
func ComputeRenewal(currentExpiry *time.Time, deltaMonths int, now time.Time) time.Time {
	baseline := now
	if currentExpiry != nil {
		baseline = *currentExpiry
	}
	return AddMonthsClamped(baseline, deltaMonths)
}

// lastDayOfMonth returns the number of days in the given month. Day zero
// of the following month normalizes to the last day of this one.
func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
