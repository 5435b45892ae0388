// Package calendar runs the month view.
package calendar

import (
	"context"
	"io"

	"tableflip.dev/jobcal/pkg/app"
	"tableflip.dev/jobcal/pkg/calendar"
	"tableflip.dev/jobcal/pkg/interval"
	"tableflip.dev/jobcal/pkg/posting"
	"tableflip.dev/jobcal/pkg/printers"
	"tableflip.dev/jobcal/pkg/runner"
	"tableflip.dev/jobcal/pkg/timeutil"
)

// Calendar prints the month containing Month (default: this month).
type Calendar struct {
	App     *app.App
	Month   string
	Compact bool
	Key     bool
	Watch   bool
	ShowID  bool
	JSON    bool
	Out     io.Writer
}

// Cell is the JSON form of one grid day.
type Cell struct {
	Date         timeutil.Date `json:"date"`
	CurrentMonth bool          `json:"currentMonth"`
	Today        bool          `json:"today,omitempty"`
	Postings     []posting.ID  `json:"postings,omitempty"`
	Starts       []posting.ID  `json:"starts,omitempty"`
	Ends         []posting.ID  `json:"ends,omitempty"`
	Shown        []posting.ID  `json:"shown,omitempty"`
	More         int           `json:"more,omitempty"`
	Urgency      string        `json:"urgency,omitempty"`
}

func (c *Calendar) Do(ctx context.Context) error {
	if c.App == nil {
		return runner.ErrNoApp
	}
	refreshed, err := c.App.Refresh(ctx)
	if err != nil {
		return err
	}
	today := c.App.Today()
	ref, err := calendar.ParseMonth(c.Month, today)
	if err != nil {
		return err
	}

	pp := &printers.PrettyPrint{Out: runner.Output(c.Out), ShowID: c.ShowID, Today: today}
	if !c.JSON {
		runner.WarnStale(pp, refreshed)
	}
	if err := c.draw(pp, ref, c.App.Views()); err != nil {
		return err
	}
	if !c.Watch {
		return nil
	}
	return c.watch(ctx, ref)
}

func (c *Calendar) draw(pp *printers.PrettyPrint, ref timeutil.Date, views []posting.View) error {
	if c.JSON {
		return runner.PrintJSON(pp.Out, Cells(ref, pp.Today, views))
	}
	if c.Compact {
		pp.CompactMonth(ref, views...)
	} else {
		pp.Calendar(ref, views...)
	}
	if c.ShowID {
		pp.Postings(visible(ref, views)...)
	}
	if c.Key {
		pp.Key()
	}
	return nil
}

// watch redraws whenever another process refreshes this user's snapshot.
func (c *Calendar) watch(ctx context.Context, ref timeutil.Date) error {
	events, err := c.App.Watch(ctx)
	if err != nil {
		return err
	}
	for ev := range events {
		if ev.Removed {
			continue
		}
		views, err := c.App.Reload()
		if err != nil {
			c.App.Log.Warn().Err(err).Msg("reloading snapshot")
			continue
		}
		pp := &printers.PrettyPrint{Out: runner.Output(c.Out), ShowID: c.ShowID, Today: c.App.Today()}
		pp.NewLine()
		if err := c.draw(pp, ref, views); err != nil {
			return err
		}
	}
	return nil
}

// Cells projects the month grid into its JSON form.
func Cells(ref, today timeutil.Date, views []posting.View) []Cell {
	grid := calendar.Cells(ref, today, interval.New(views))
	out := make([]Cell, len(grid))
	for i, gc := range grid {
		c := Cell{
			Date:         gc.Date,
			CurrentMonth: gc.IsCurrentMonth,
			Today:        gc.IsToday,
			Postings:     ids(gc.Postings),
			Starts:       ids(gc.Starts),
			Ends:         ids(gc.Ends),
			Shown:        ids(gc.Shown),
			More:         gc.More,
		}
		if gc.HasDeadline() {
			c.Urgency = gc.Urgency(today).String()
		}
		out[i] = c
	}
	return out
}

// visible is the subset of views overlapping the grid around ref.
func visible(ref timeutil.Date, views []posting.View) []posting.View {
	grid := calendar.Grid(ref)
	first, last := grid[0], grid[len(grid)-1]
	var out []posting.View
	for _, v := range views {
		if !v.End.Before(first) && !v.Start.After(last) {
			out = append(out, v)
		}
	}
	return out
}

func ids(views []posting.View) []posting.ID {
	if len(views) == 0 {
		return nil
	}
	out := make([]posting.ID, len(views))
	for i, v := range views {
		out[i] = v.PostingID
	}
	return out
}
