package calendar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/jobcal/pkg/deadline"
	"tableflip.dev/jobcal/pkg/interval"
	"tableflip.dev/jobcal/pkg/posting"
	"tableflip.dev/jobcal/pkg/timeutil"
)

// Options controls calendar styling.
type Options struct {
	CellWidth    int
	HeaderStyle  lipgloss.Style
	TitleStyle   lipgloss.Style
	DayStyle     lipgloss.Style
	OutsideStyle lipgloss.Style
	TodayStyle   lipgloss.Style
	MoreStyle    lipgloss.Style
	Urgency      map[deadline.Urgency]lipgloss.Style
	// Plain drops the per-posting palette colors.
	Plain bool
}

// DefaultOptions returns the styling used by the CLI.
func DefaultOptions() Options {
	return Options{
		CellWidth:    16,
		HeaderStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Bold(true),
		TitleStyle:   lipgloss.NewStyle().Bold(true).Underline(true),
		DayStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		OutsideStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Faint(true),
		TodayStyle:   lipgloss.NewStyle().Underline(true).Bold(true),
		MoreStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true),
		Urgency: map[deadline.Urgency]lipgloss.Style{
			deadline.Overdue: lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Strikethrough(true),
			deadline.Urgent:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
			deadline.Soon:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
			deadline.Safe:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		},
	}
}

// PlainOptions draws the grid without any styling, for pipes and dumb
// terminals.
func PlainOptions() Options {
	plain := lipgloss.NewStyle()
	return Options{
		CellWidth:    16,
		HeaderStyle:  plain,
		TitleStyle:   plain,
		DayStyle:     plain,
		OutsideStyle: plain,
		TodayStyle:   plain,
		MoreStyle:    plain,
		Plain:        true,
	}
}

var weekdays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Render draws the month containing ref. Each cell shows the day number,
// start (▸) and deadline (◆) markers, up to interval.MaxPerDay posting titles
// in their palette color and a "+N more" line.
func Render(ref, today timeutil.Date, views []posting.View, opts Options) string {
	if ref.IsZero() {
		return ""
	}
	if opts.CellWidth < 6 {
		opts.CellWidth = 6
	}
	cells := Cells(ref, today, interval.New(views))
	pad := lipgloss.NewStyle().Width(opts.CellWidth)

	var lines []string
	title := ref.Format("January 2006")
	lines = append(lines, opts.TitleStyle.Render(title))

	header := make([]string, len(weekdays))
	for i, wd := range weekdays {
		header[i] = pad.Render(opts.HeaderStyle.Render(wd))
	}
	lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, header...))

	for _, week := range Weeks(cells) {
		rendered := make([]string, len(week))
		for i, c := range week {
			rendered[i] = pad.Render(renderCell(c, today, opts))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	}
	return strings.Join(lines, "\n")
}

func renderCell(c Cell, today timeutil.Date, opts Options) string {
	width := opts.CellWidth - 1

	dayStyle := opts.DayStyle
	if !c.IsCurrentMonth {
		dayStyle = opts.OutsideStyle
	}
	if c.IsToday {
		dayStyle = dayStyle.Inherit(opts.TodayStyle)
	}
	head := dayStyle.Render(fmt.Sprintf("%2d", c.Date.Day()))
	if len(c.Starts) > 0 {
		head += " ▸"
	}
	if c.HasDeadline() {
		marker := "◆"
		if s, ok := opts.Urgency[c.Urgency(today)]; ok {
			marker = s.Render(marker)
		}
		head += " " + marker
	}

	rows := []string{head}
	for _, v := range c.Shown {
		label := truncate.StringWithTail(v.Title, uint(width), "…")
		style := lipgloss.NewStyle()
		if v.Color != "" && !opts.Plain {
			style = style.Foreground(lipgloss.Color(v.Color))
		}
		if !c.IsCurrentMonth && !opts.Plain {
			style = style.Faint(true)
		}
		rows = append(rows, style.Render(label))
	}
	for len(rows) < interval.MaxPerDay+1 {
		rows = append(rows, "")
	}
	more := ""
	if c.More > 0 {
		more = opts.MoreStyle.Render(fmt.Sprintf("+%d more", c.More))
	}
	rows = append(rows, more)
	return strings.Join(rows, "\n")
}
