// Package deadlines runs the ranked deadline list.
package deadlines

import (
	"context"
	"io"

	"tableflip.dev/jobcal/pkg/app"
	"tableflip.dev/jobcal/pkg/deadline"
	"tableflip.dev/jobcal/pkg/posting"
	"tableflip.dev/jobcal/pkg/printers"
	"tableflip.dev/jobcal/pkg/runner"
	"tableflip.dev/jobcal/pkg/timeutil"
)

// Deadlines lists bookmarked postings by time left to apply.
type Deadlines struct {
	App *app.App
	// Within limits active items to those closing inside the span, e.g. "2w".
	Within  string
	Expired bool
	ShowID  bool
	JSON    bool
	Out     io.Writer
}

// Item is the JSON form of a ranked posting.
type Item struct {
	posting.View
	DaysRemaining int    `json:"daysRemaining"`
	Urgency       string `json:"urgency"`
}

// Result is the JSON form of a ranking.
type Result struct {
	Today   timeutil.Date  `json:"today"`
	Within  string         `json:"within,omitempty"`
	Active  []Item         `json:"active"`
	Expired []Item         `json:"expired,omitempty"`
	Summary map[string]int `json:"summary"`
	Stale   bool           `json:"stale,omitempty"`
}

func (d *Deadlines) Do(ctx context.Context) error {
	if d.App == nil {
		return runner.ErrNoApp
	}
	refreshed, err := d.App.Refresh(ctx)
	if err != nil {
		return err
	}
	today := d.App.Today()
	r := deadline.Rank(d.App.Views(), today)

	within := ""
	if d.Within != "" {
		days, canonical, err := timeutil.ParseSpan(d.Within)
		if err != nil {
			return err
		}
		r = r.Within(days)
		within = canonical
	}

	if d.JSON {
		res := Result{
			Today:   today,
			Within:  within,
			Active:  items(r.Active),
			Summary: map[string]int{},
			Stale:   refreshed.Stale,
		}
		if d.Expired {
			res.Expired = items(r.Expired)
		}
		for u, n := range r.Summary() {
			res.Summary[u.String()] = n
		}
		return runner.PrintJSON(d.Out, res)
	}

	pp := &printers.PrettyPrint{Out: runner.Output(d.Out), ShowID: d.ShowID, Today: today}
	runner.WarnStale(pp, refreshed)
	pp.Deadlines(r, d.Expired)
	return nil
}

func items(in []deadline.Item) []Item {
	out := make([]Item, len(in))
	for i, it := range in {
		v := it.View
		v.Status = it.Status
		out[i] = Item{View: v, DaysRemaining: it.DaysRemaining, Urgency: it.Urgency.String()}
	}
	return out
}
