// Package timeutil holds the date-only helpers shared by the calendar,
// interval and deadline packages.
package timeutil

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// LayoutISO is the wire and display layout for dates.
const LayoutISO = "2006-01-02"

// Date is a calendar day with the time-of-day stripped. The embedded time is
// always midnight UTC so comparisons and day arithmetic never observe DST.
type Date struct {
	time.Time
}

// Clock returns the current instant. Tests replace it to pin "today".
type Clock func() time.Time

// NewDate builds a Date, normalising out-of-range values the way time.Date
// does (e.g. day 0 is the last day of the previous month).
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// Today returns the current day according to clock, or the wall clock when
// clock is nil.
func Today(clock Clock) Date {
	if clock == nil {
		return DateOf(time.Now())
	}
	return DateOf(clock())
}

// ParseDate parses a YYYY-MM-DD string. A trailing time component
// ("2025-01-10T00:00:00") is tolerated and discarded.
func ParseDate(v string) (Date, error) {
	v = strings.TrimSpace(v)
	if len(v) > len(LayoutISO) && v[len(LayoutISO)] == 'T' {
		v = v[:len(LayoutISO)]
	}
	t, err := time.Parse(LayoutISO, v)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", v, err)
	}
	return DateOf(t), nil
}

// AddDays returns the date n days later (or earlier for negative n).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// DaysUntil returns the whole number of days from d to other. It is negative
// when other is before d.
func (d Date) DaysUntil(other Date) int {
	return int(other.Time.Sub(d.Time).Hours() / 24)
}

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool { return d.Time.Before(other.Time) }

// After reports whether d is strictly after other.
func (d Date) After(other Date) bool { return d.Time.After(other.Time) }

// Equal reports whether d and other are the same day.
func (d Date) Equal(other Date) bool { return d.Time.Equal(other.Time) }

// Compare returns -1, 0 or +1.
func (d Date) Compare(other Date) int {
	switch {
	case d.Before(other):
		return -1
	case d.After(other):
		return 1
	default:
		return 0
	}
}

// SameMonth reports whether d falls in the same month and year as other.
func (d Date) SameMonth(other Date) bool {
	return d.Year() == other.Year() && d.Month() == other.Month()
}

// FirstOfMonth returns the first day of d's month.
func (d Date) FirstOfMonth() Date {
	return NewDate(d.Year(), d.Month(), 1)
}

// LastOfMonth returns the last day of d's month.
func (d Date) LastOfMonth() Date {
	return NewDate(d.Year(), d.Month()+1, 0)
}

// DaysInMonth returns the number of days in d's month.
func (d Date) DaysInMonth() int {
	return d.LastOfMonth().Day()
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time.Format(LayoutISO)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(fmt.Sprintf("%q", d.String())), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if strings.TrimSpace(raw) == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
