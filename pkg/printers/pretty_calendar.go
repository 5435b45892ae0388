package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/jobcal/pkg/calendar"
	"tableflip.dev/jobcal/pkg/deadline"
	"tableflip.dev/jobcal/pkg/interval"
	"tableflip.dev/jobcal/pkg/posting"
	"tableflip.dev/jobcal/pkg/timeutil"
)

// Calendar draws the full month grid containing ref.
func (pp *PrettyPrint) Calendar(ref timeutil.Date, views ...posting.View) {
	_, _ = fmt.Fprintln(pp.out(), calendar.Render(ref, pp.Today, views, pp.calendarOptions()))
	pp.NewLine()
}

const width = len("11 12 13 14 15 16 17") // an example week

// CompactMonth prints a small month with deadline days in their urgency
// color and days inside any application window in bold.
func (pp *PrettyPrint) CompactMonth(ref timeutil.Date, views ...posting.View) {
	out := pp.out()
	idx := interval.New(views)
	first := ref.FirstOfMonth()

	tf := color.New(color.FgWhite, color.Italic)
	m := first.Format("January 2006")
	mid := (width - len(m)) / 2
	if mid < 0 {
		mid = 0
	}
	_, _ = tf.Fprintf(out, "%s%s\n", strings.Repeat(" ", mid), m)

	// Pad out the start of the month.
	d := first.Weekday()
	for i := time.Sunday; i < d; i++ {
		_, _ = fmt.Fprint(out, "   ")
	}

	plain := color.New(color.Faint, color.FgWhite)
	open := color.New(color.Bold, color.FgHiWhite)

	for day := first; day.SameMonth(first); day = day.AddDays(1) {
		printer := plain
		if len(idx.EndingOn(day)) > 0 {
			printer = UrgencyColor(deadline.UrgencyFor(pp.Today.DaysUntil(day)))
		} else if len(idx.On(day)) > 0 {
			printer = open
		}
		if day.Equal(pp.Today) {
			printer = color.New(color.Underline, color.Bold)
		}
		_, _ = printer.Fprintf(out, "%2d ", day.Day())

		d++
		if d > time.Saturday {
			d = time.Sunday
			_, _ = fmt.Fprint(out, "\n")
		}
	}
	_, _ = fmt.Fprint(out, "\n\n")
}

// Deadlines prints the ranked deadline table followed by an urgency summary.
func (pp *PrettyPrint) Deadlines(r deadline.Ranking, showExpired bool) {
	pp.TitleWithCount("Closing soon", len(r.Active))
	pp.deadlineTable(r.Active)
	if showExpired {
		pp.TitleWithCount("Closed", len(r.Expired))
		pp.deadlineTable(r.Expired)
	}
	pp.Summary(r)
}

func (pp *PrettyPrint) deadlineTable(items []deadline.Item) {
	if len(items) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 40
	for _, it := range items {
		c := UrgencyColor(it.Urgency)
		row := []interface{}{}
		if pp.ShowID {
			row = append(row, y.Sprint(it.View.PostingID))
		}
		row = append(row,
			c.Sprint("◆"),
			it.View.Title,
			it.View.Company,
			it.View.End.String(),
			c.Sprint(Relative(pp.Today, it.View.End)),
		)
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Summary prints counts per urgency, most pressing first.
func (pp *PrettyPrint) Summary(r deadline.Ranking) {
	counts := r.Summary()
	order := []deadline.Urgency{deadline.Urgent, deadline.Soon, deadline.Safe, deadline.Overdue}
	var parts []string
	for _, u := range order {
		if counts[u] == 0 {
			continue
		}
		parts = append(parts, UrgencyColor(u).Sprintf("%d %s", counts[u], u))
	}
	if len(parts) == 0 {
		return
	}
	f := color.New(color.Faint)
	_, _ = fmt.Fprintln(pp.out(), strings.Join(parts, f.Sprint(" · ")))
}

// Relative describes end relative to today, e.g. "3 days from now".
func Relative(today, end timeutil.Date) string {
	switch n := today.DaysUntil(end); n {
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	case -1:
		return "yesterday"
	}
	return humanize.RelTime(end.Time, today.Time, "ago", "from now")
}
