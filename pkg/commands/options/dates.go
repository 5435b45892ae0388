package options

import (
	"fmt"
	"strings"
	"time"

	"tableflip.dev/jobcal/pkg/timeutil"
)

const (
	layoutLoose = "2006-1-2"
	layoutShort = "1/2"
)

// ParseDateFlag accepts "2025-01-28", "2025-1-28" or "1/28". A month/day
// without a year that has already passed this year is taken to mean next
// year, which is what a deadline typed in December for January means.
func ParseDateFlag(value string, today timeutil.Date) (timeutil.Date, error) {
	d, md, err := parseDate(value)
	if err != nil || md == nil {
		return d, err
	}
	year := today.Year()
	if timeutil.NewDate(year, md.month, md.day).Before(today) {
		year++
	}
	return md.in(year, value)
}

// ParseStartFlag parses the opening date of a window that closes on end.
// A month/day without a year is the latest such day on or before end, or
// falls in today's year when end is unset.
func ParseStartFlag(value string, end, today timeutil.Date) (timeutil.Date, error) {
	d, md, err := parseDate(value)
	if err != nil || md == nil {
		return d, err
	}
	if end.IsZero() {
		return md.in(today.Year(), value)
	}
	year := end.Year()
	if timeutil.NewDate(year, md.month, md.day).After(end) {
		year--
	}
	return md.in(year, value)
}

type monthDay struct {
	month time.Month
	day   int
}

// in places md in year. Feb 29 outside a leap year is an error rather than
// March 1.
func (md monthDay) in(year int, value string) (timeutil.Date, error) {
	d := timeutil.NewDate(year, md.month, md.day)
	if d.Day() != md.day {
		return timeutil.Date{}, fmt.Errorf("invalid date %q, %d has no %s %d", value, year, md.month, md.day)
	}
	return d, nil
}

// parseDate returns either a full date or, for the short form, the month
// and day still waiting for a year.
func parseDate(value string) (timeutil.Date, *monthDay, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return timeutil.Date{}, nil, nil
	}
	if d, err := timeutil.ParseDate(value); err == nil {
		return d, nil, nil
	}
	if t, err := time.Parse(layoutLoose, value); err == nil {
		return timeutil.DateOf(t), nil, nil
	}
	t, err := time.Parse(layoutShort, value)
	if err != nil {
		return timeutil.Date{}, nil, fmt.Errorf("invalid date %q, want YYYY-MM-DD or M/D", value)
	}
	return timeutil.Date{}, &monthDay{month: t.Month(), day: t.Day()}, nil
}
