package billing

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonthsClamped(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		months   int
		expected time.Time
	}{
		{"simple forward", date(2024, time.January, 15), 1, date(2024, time.February, 15)},
		{"simple backward", date(2024, time.February, 15), -1, date(2024, time.January, 15)},
		{"jan 31 clamps to feb 29 in leap year", date(2024, time.January, 31), 1, date(2024, time.February, 29)},
		{"jan 31 clamps to feb 28 in common year", date(2023, time.January, 31), 1, date(2023, time.February, 28)},
		{"mar 31 clamps to apr 30", date(2024, time.March, 31), 1, date(2024, time.April, 30)},
		{"jan 31 plus 3 months", date(2024, time.January, 31), 3, date(2024, time.April, 30)},
		{"year rollover forward", date(2024, time.November, 15), 3, date(2025, time.February, 15)},
		{"year rollover backward", date(2024, time.January, 15), -2, date(2023, time.November, 15)},
		{"twelve months", date(2024, time.June, 30), 12, date(2025, time.June, 30)},
		{"zero months", date(2024, time.January, 31), 0, date(2024, time.January, 31)},
		{"backward clamp may 31 minus 1", date(2024, time.May, 31), -1, date(2024, time.April, 30)},
		{"feb 29 plus 12 months clamps to feb 28", date(2024, time.February, 29), 12, date(2025, time.February, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddMonthsClamped(tt.start, tt.months)
			if !got.Equal(tt.expected) {
				t.Errorf("AddMonthsClamped(%s, %d) = %s, want %s",
					tt.start.Format("2006-01-02"), tt.months,
					got.Format("2006-01-02"), tt.expected.Format("2006-01-02"))
			}
		})
	}
}

func TestAddMonthsClamped_PreservesTimeOfDay(t *testing.T) {
	start := time.Date(2024, time.January, 15, 18, 30, 0, 0, time.UTC)
	got := AddMonthsClamped(start, 1)
	want := time.Date(2024, time.February, 15, 18, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("AddMonthsClamped() = %s, want %s", got, want)
	}
}

func TestComputeRenewal(t *testing.T) {
	now := date(2024, time.June, 1)

	t.Run("with current expiry", func(t *testing.T) {
		expiry := date(2024, time.January, 31)
		got := ComputeRenewal(&expiry, 3, now)
		want := date(2024, time.April, 30)
		if !got.Equal(want) {
			t.Errorf("ComputeRenewal() = %s, want %s", got.Format("2006-01-02"), want.Format("2006-01-02"))
		}
	})

	t.Run("nil expiry anchors at now", func(t *testing.T) {
		got := ComputeRenewal(nil, 1, now)
		want := date(2024, time.July, 1)
		if !got.Equal(want) {
			t.Errorf("ComputeRenewal() = %s, want %s", got.Format("2006-01-02"), want.Format("2006-01-02"))
		}
	})

	t.Run("negative delta reduces", func(t *testing.T) {
		expiry := date(2024, time.April, 30)
		got := ComputeRenewal(&expiry, -3, now)
		want := date(2024, time.January, 30)
		if !got.Equal(want) {
			t.Errorf("ComputeRenewal() = %s, want %s", got.Format("2006-01-02"), want.Format("2006-01-02"))
		}
	})
}

// Renew then Reduce by the same delta returns to the original expiry,
// except where short-month clamping loses the day of month.
func TestComputeRenewal_RoundTrip(t *testing.T) {
	now := date(2024, time.June, 1)

	tests := []struct {
		name     string
		start    time.Time
		months   int
		expected time.Time
	}{
		{"mid-month round trip is exact", date(2024, time.March, 15), 2, date(2024, time.March, 15)},
		{"first of month round trip is exact", date(2024, time.January, 1), 6, date(2024, time.January, 1)},
		{"jan 31 round trip lands on jan 28", date(2023, time.January, 31), 1, date(2023, time.January, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renewed := ComputeRenewal(&tt.start, tt.months, now)
			reduced := ComputeRenewal(&renewed, -tt.months, now)
			if !reduced.Equal(tt.expected) {
				t.Errorf("round trip from %s by %d months = %s, want %s",
					tt.start.Format("2006-01-02"), tt.months,
					reduced.Format("2006-01-02"), tt.expected.Format("2006-01-02"))
			}
		})
	}
}
