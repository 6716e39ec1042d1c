// Package biztime provides business-timezone date helpers. All storage
// and transport use UTC; the business timezone only determines date
// boundaries (billing dates, due dates, expiry comparisons).
//
// Design principles:
// - All time storage is in UTC
// - Day boundaries are computed in the business timezone, then converted to UTC
// - Implicit Local timezone is prohibited
package biztime

import (
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultTimezone is the default business timezone.
	DefaultTimezone = "Asia/Kolkata"
)

var (
	bizLocation     *time.Location
	bizLocationOnce sync.Once
	initErr         error
)

// Init initializes the business timezone. Should be called once at startup.
// An empty tz falls back to Asia/Kolkata.
func Init(tz string) error {
	bizLocationOnce.Do(func() {
		if tz == "" {
			tz = DefaultTimezone
		}
		bizLocation, initErr = time.LoadLocation(tz)
	})
	return initErr
}

// MustInit initializes the business timezone and panics on error.
func MustInit(tz string) {
	if err := Init(tz); err != nil {
		panic(fmt.Sprintf("failed to initialize business timezone %q: %v", tz, err))
	}
}

// Location returns the business timezone location, auto-initializing
// with the default when Init was never called.
func Location() *time.Location {
	if bizLocation == nil {
		if err := Init(""); err != nil {
			panic(fmt.Sprintf("biztime: failed to auto-initialize with default timezone: %v", err))
		}
	}
	return bizLocation
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// StartOfDayUTC returns 00:00:00 of t's business day, converted to UTC.
func StartOfDayUTC(t time.Time) time.Time {
	bizTime := t.In(Location())
	startOfDay := time.Date(bizTime.Year(), bizTime.Month(), bizTime.Day(), 0, 0, 0, 0, Location())
	return startOfDay.UTC()
}

// EndOfDayUTC returns 23:59:59.999999999 of t's business day, converted to UTC.
func EndOfDayUTC(t time.Time) time.Time {
	bizTime := t.In(Location())
	endOfDay := time.Date(bizTime.Year(), bizTime.Month(), bizTime.Day(), 23, 59, 59, 999999999, Location())
	return endOfDay.UTC()
}

// DateUTC builds the stored form of a plain calendar date: midnight
// UTC. Billing dates (start, expiry, due) are stored this way so that
// calendar arithmetic on their UTC fields matches the business
// calendar.
func DateUTC(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// BusinessDateUTC truncates t to its business calendar date and returns
// the stored form of that date.
func BusinessDateUTC(t time.Time) time.Time {
	bizTime := t.In(Location())
	return DateUTC(bizTime.Year(), bizTime.Month(), bizTime.Day())
}

// ParseDate parses YYYY-MM-DD into the stored form of that date.
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format %q: %w", dateStr, err)
	}
	return t, nil
}

// FormatDate formats a UTC instant as YYYY-MM-DD in the business timezone.
func FormatDate(t time.Time) string {
	return t.In(Location()).Format("2006-01-02")
}

// DaysUntil returns the number of whole business days between now and
// target, rounding toward zero. Negative when target is in the past.
func DaysUntil(now, target time.Time) int {
	nowDay := StartOfDayUTC(now)
	targetDay := StartOfDayUTC(target)
	return int(targetDay.Sub(nowDay).Hours() / 24)
}
