package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/jobcal/pkg/deadline"
	"tableflip.dev/jobcal/pkg/posting"
	"tableflip.dev/jobcal/pkg/status"
	"tableflip.dev/jobcal/pkg/timeutil"
)

// PrettyPrint renders postings for a terminal.
type PrettyPrint struct {
	Out    io.Writer
	ShowID bool
	Today  timeutil.Date
}

// New returns a printer writing to color.Output.
func New(today timeutil.Date, showID bool) *PrettyPrint {
	return &PrettyPrint{Out: color.Output, ShowID: showID, Today: today}
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out())
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " posting")
	default:
		_, _ = c.Fprintln(pp.out(), " postings")
	}
}

// Stale prints the warning shown when the data could not be refreshed.
func (pp *PrettyPrint) Stale(reason string) {
	w := color.New(color.FgYellow, color.Italic)
	if reason == "" {
		_, _ = w.Fprintln(pp.out(), "showing cached postings; they may be out of date")
		return
	}
	_, _ = w.Fprintf(pp.out(), "showing cached postings (%s)\n", reason)
}

// Postings lists views one per line with status glyph and window.
func (pp *PrettyPrint) Postings(views ...posting.View) {
	if len(views) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}

	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, v := range views {
		tier := v.StatusAt(pp.Today)
		row := []interface{}{}
		if pp.ShowID {
			row = append(row, y.Sprint(v.PostingID))
		}
		row = append(row,
			TierColor(tier).Sprint(tier.Hint().Symbol),
			v.Title,
			v.Company,
			fmt.Sprintf("%s → %s", v.Start, v.End),
		)
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Detail prints every field of v.
func (pp *PrettyPrint) Detail(v posting.View) {
	bold := color.New(color.Bold)
	tier := v.StatusAt(pp.Today)
	rank := deadline.UrgencyFor(v.DaysRemaining(pp.Today))

	pp.Title(v.Title)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	tbl.MaxColWidth = 60
	add := func(k, val string) {
		if strings.TrimSpace(val) != "" {
			tbl.AddRow(bold.Sprint(k), val)
		}
	}
	add("Posting", v.PostingID.String())
	add("Bookmark", v.BookmarkID.String())
	add("Company", v.Company)
	add("Position", v.Position)
	add("Location", v.Location)
	add("Salary", v.Salary)
	add("Opens", v.Start.String())
	add("Closes", fmt.Sprintf("%s (%s)", v.End, Relative(pp.Today, v.End)))
	add("Status", TierColor(tier).Sprintf("%s %s", tier.Hint().Symbol, tier.Hint().Label))
	add("Urgency", UrgencyColor(rank).Sprint(rank))
	add("Memo", v.Memo)
	if !v.CreatedAt.IsZero() {
		add("Saved", v.CreatedAt.Format("2006-01-02 15:04"))
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Key renders the legend of status tiers and calendar markers.
func (pp *PrettyPrint) Key() {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Marker"), bold.Sprint("Meaning"))
	for _, t := range status.All() {
		h := t.Hint()
		tbl.AddRow(TierColor(t).Sprint(h.Symbol), h.Label)
	}
	tbl.AddRow("▸", "application window opens")
	for _, u := range []deadline.Urgency{deadline.Urgent, deadline.Soon, deadline.Safe, deadline.Overdue} {
		tbl.AddRow(UrgencyColor(u).Sprint("◆"), "deadline, "+u.String())
	}
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// TierColor is the terminal color for a status tier.
func TierColor(t status.Tier) *color.Color {
	switch t {
	case status.Upcoming:
		return color.New(color.FgBlue)
	case status.Expired:
		return color.New(color.Faint)
	default:
		return color.New(color.FgGreen)
	}
}

// UrgencyColor is the terminal color for an urgency tier.
func UrgencyColor(u deadline.Urgency) *color.Color {
	switch u {
	case deadline.Urgent:
		return color.New(color.FgHiRed, color.Bold)
	case deadline.Soon:
		return color.New(color.FgYellow)
	case deadline.Overdue:
		return color.New(color.Faint)
	default:
		return color.New(color.FgGreen)
	}
}
