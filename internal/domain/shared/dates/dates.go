// Package dates keeps calendar-day arithmetic in one place. Every value is a
// time.Time pinned to midnight UTC so days compare with Equal/Before/After.
package dates

import (
	"errors"
	"time"
)

var ErrInvalidRange = errors.New("dates: end must be after start")

// Day truncates t to its calendar day in UTC.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the calendar day observed at now.
func Today(now time.Time) time.Time {
	return Day(now)
}

// Next returns the day after d.
func Next(d time.Time) time.Time {
	return Day(d).AddDate(0, 0, 1)
}

// Parse reads a YYYY-MM-DD value.
func Parse(value string) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, value, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// Format renders d as YYYY-MM-DD.
func Format(d time.Time) string {
	return Day(d).Format(time.DateOnly)
}

// ValidMonth reports whether year/month form a usable calendar month.
func ValidMonth(year, month int) bool {
	return year >= 1 && month >= 1 && month <= 12
}

// MonthDays lists every day of the given month in ascending order.
func MonthDays(year int, month time.Month) []time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)
	days := make([]time.Time, 0, 31)
	for d := first; d.Before(next); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Range is a half-open day interval [Start, End): the end day itself is free,
// matching the checkout-day convention for bookings.
type Range struct {
	Start time.Time
	End   time.Time
}

// NewRange builds a normalized range and validates ordering.
func NewRange(start, end time.Time) (Range, error) {
	r := Range{Start: Day(start), End: Day(end)}
	if !r.End.After(r.Start) {
		return Range{}, ErrInvalidRange
	}
	return r, nil
}

// Nights is the number of occupied days in the range.
func (r Range) Nights() int {
	return int(r.End.Sub(r.Start).Hours() / 24)
}

// Contains reports whether day d falls inside [Start, End).
func (r Range) Contains(d time.Time) bool {
	d = Day(d)
	return !d.Before(r.Start) && d.Before(r.End)
}

// Overlaps reports whether two half-open ranges share at least one day.
func (r Range) Overlaps(other Range) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Days expands the range into its occupied days.
func (r Range) Days() []time.Time {
	out := make([]time.Time, 0, r.Nights())
	for d := r.Start; d.Before(r.End); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}
