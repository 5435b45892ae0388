// Package calendar builds Sunday-aligned month grids and fills them with the
// postings whose application window touches each day.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"tableflip.dev/jobcal/pkg/deadline"
	"tableflip.dev/jobcal/pkg/interval"
	"tableflip.dev/jobcal/pkg/posting"
	"tableflip.dev/jobcal/pkg/timeutil"
)

// Grid returns every date from the Sunday on or before the first of ref's
// month through the Saturday on or after its last day. The result is always
// a whole number of weeks.
func Grid(ref timeutil.Date) []timeutil.Date {
	first := ref.FirstOfMonth()
	last := ref.LastOfMonth()
	from := first.AddDays(-int(first.Weekday()))
	to := last.AddDays(int(time.Saturday - last.Weekday()))

	days := make([]timeutil.Date, 0, from.DaysUntil(to)+1)
	for d := from; !d.After(to); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// Cell is one rendered day. It is rebuilt on every render and never stored.
type Cell struct {
	Date           timeutil.Date
	IsCurrentMonth bool
	IsToday        bool

	// Postings holds every posting whose window contains Date.
	Postings []posting.View
	Starts   []posting.View
	Ends     []posting.View

	// Shown is the display-truncated prefix of Postings; More counts the rest.
	Shown []posting.View
	More  int
}

// HasDeadline reports whether any posting closes on this day.
func (c Cell) HasDeadline() bool { return len(c.Ends) > 0 }

// Urgency classifies this day's deadlines relative to today.
func (c Cell) Urgency(today timeutil.Date) deadline.Urgency {
	return deadline.UrgencyFor(today.DaysUntil(c.Date))
}

// Cells builds the grid for ref's month and attaches postings from idx.
func Cells(ref, today timeutil.Date, idx *interval.Index) []Cell {
	days := Grid(ref)
	var perDay [][]posting.View
	if idx != nil {
		perDay = idx.Sweep(days)
	}
	cells := make([]Cell, len(days))
	for i, d := range days {
		c := Cell{
			Date:           d,
			IsCurrentMonth: d.SameMonth(ref),
			IsToday:        d.Equal(today),
		}
		if idx != nil {
			c.Postings = perDay[i]
			c.Starts = idx.StartingOn(d)
			c.Ends = idx.EndingOn(d)
			c.Shown, c.More = interval.Truncate(c.Postings, interval.MaxPerDay)
		}
		cells[i] = c
	}
	return cells
}

// Weeks splits cells into rows of seven.
func Weeks(cells []Cell) [][]Cell {
	rows := make([][]Cell, 0, len(cells)/7)
	for i := 0; i+7 <= len(cells); i += 7 {
		rows = append(rows, cells[i:i+7])
	}
	return rows
}

var monthLayouts = []string{
	"2006-01",
	"2006-1",
	timeutil.LayoutISO,
	"January 2006",
	"Jan 2006",
	"1/2006",
}

// ParseMonth accepts "2025-01", "January 2025", "Jan 2025", "1/2025" or a
// full date and returns the first of that month. An empty string yields
// today's month.
func ParseMonth(name string, today timeutil.Date) (timeutil.Date, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return today.FirstOfMonth(), nil
	}
	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, name); err == nil {
			return timeutil.DateOf(t).FirstOfMonth(), nil
		}
	}
	return timeutil.Date{}, fmt.Errorf("calendar: unrecognised month %q", name)
}
