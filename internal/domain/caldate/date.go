package caldate

import (
	"fmt"
	"time"
)

// Date is a calendar day without a time component. Two dates are equal iff
// year, month and day all match; ordering is chronological.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// New builds a Date. Out-of-range components are normalized the way
// time.Date normalizes them.
func New(year int, month time.Month, day int) Date {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Today returns the current calendar day in the local timezone.
func Today() Date {
	return FromTime(time.Now())
}

// FromTime truncates a timestamp to its calendar day.
func FromTime(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Time returns the date at UTC midnight, the form used in API payloads.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Compare returns -1, 0 or +1 ordering d against other chronologically.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(int(d.Month) - int(other.Month))
	default:
		return sign(d.Day - other.Day)
	}
}

func (d Date) Equal(other Date) bool  { return d.Compare(other) == 0 }
func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }
func (d Date) After(other Date) bool  { return d.Compare(other) > 0 }

// NightsUntil counts whole calendar days from d to other. Dates carry no
// time component, so the count is exact and negative when other precedes d.
func (d Date) NightsUntil(other Date) int {
	return int(other.Time().Sub(d.Time()) / (24 * time.Hour))
}

// Format renders the date in the short display form, e.g. "Mar 1, 2025".
func (d Date) Format() string {
	return d.Time().Format("Jan 2, 2006")
}

// ISO renders the submission timestamp form, UTC midnight RFC 3339.
func (d Date) ISO() string {
	return d.Time().Format(time.RFC3339)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekday returns the weekday of the 1st of the month, Sunday-based,
// used to lay out leading blanks in a calendar grid.
func FirstWeekday(year int, month time.Month) time.Weekday {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday()
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
