// Package calendar holds the date and time-of-day arithmetic shared by the
// rental engine. Calendar dates are always anchored at UTC midnight so the
// host time zone never shifts a weekday.
package calendar

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// OperatingZone is the facility's fixed UTC+9 offset.
var OperatingZone = time.FixedZone("KST", 9*60*60)

// FormatError reports a malformed date or time-of-day string.
type FormatError struct {
	Field string
	Value string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid %s format: %q", e.Field, e.Value)
}

// Clock lets callers pin "now" in tests.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// Date is a calendar day with no time zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses YYYY-MM-DD strictly.
func ParseDate(s string) (Date, error) {
	if len(s) != len(dateLayout) {
		return Date{}, &FormatError{Field: "date", Value: s}
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, &FormatError{Field: "date", Value: s}
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func dateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

func (d Date) utc() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	return d.utc().Format(dateLayout)
}

// Weekday reads the weekday of the UTC-anchored date.
func (d Date) Weekday() time.Weekday {
	return d.utc().Weekday()
}

func (d Date) AddDays(n int) Date {
	return dateOf(d.utc().AddDate(0, 0, n))
}

func (d Date) Compare(other Date) int {
	return d.utc().Compare(other.utc())
}

func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

func (d Date) After(other Date) bool { return d.Compare(other) > 0 }

// DaysUntil returns the number of days from d to other (negative if other is earlier).
func (d Date) DaysUntil(other Date) int {
	return int(other.utc().Sub(d.utc()).Hours() / 24)
}

// DayOfWeek returns 0 (Sunday) .. 6 (Saturday) for an ISO date string.
func DayOfWeek(date string) (int, error) {
	d, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	return int(d.Weekday()), nil
}

// Today returns the current date in the operating zone, regardless of the host zone.
func Today(clock Clock) Date {
	return dateOf(clock.Now().UTC().In(OperatingZone))
}

// UntilNextMidnight is the time left before Today(clock) rolls over.
func UntilNextMidnight(clock Clock) time.Duration {
	now := clock.Now().In(OperatingZone)
	y, m, d := now.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, OperatingZone).Sub(now)
}

// InRange reports inclusive membership; nil bounds are unconstrained.
func InRange(d Date, from, to *Date) bool {
	if from != nil && d.Before(*from) {
		return false
	}
	if to != nil && d.After(*to) {
		return false
	}
	return true
}

// DateInRange is InRange over ISO strings; empty bounds are unconstrained.
func DateInRange(date, from, to string) (bool, error) {
	d, err := ParseDate(date)
	if err != nil {
		return false, err
	}
	lo, err := optionalDate(from)
	if err != nil {
		return false, err
	}
	hi, err := optionalDate(to)
	if err != nil {
		return false, err
	}
	return InRange(d, lo, hi), nil
}

func optionalDate(s string) (*Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// RangesOverlap tests two inclusive, optionally open-ended date ranges.
func RangesOverlap(aFrom, aTo, bFrom, bTo *Date) bool {
	if aTo != nil && bFrom != nil && aTo.Before(*bFrom) {
		return false
	}
	if bTo != nil && aFrom != nil && bTo.Before(*aFrom) {
		return false
	}
	return true
}

// OptionalDate parses s, treating an empty string as an absent bound.
func OptionalDate(s string) (*Date, error) {
	return optionalDate(s)
}

// DaysInMonth returns the number of days in d's month.
func (d Date) DaysInMonth() int {
	return time.Date(d.Year, d.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
