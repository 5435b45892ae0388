// Package refresh runs an explicit reload from the job service.
package refresh

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/jobcal/pkg/app"
	"tableflip.dev/jobcal/pkg/runner"
)

// Refresh reloads every bookmark and reports what was skipped.
type Refresh struct {
	App  *app.App
	JSON bool
	Out  io.Writer
}

// Skipped is the JSON form of a bookmark that could not be shown.
type Skipped struct {
	BookmarkID string `json:"bookmarkId"`
	PostingID  string `json:"postingId"`
	Reason     string `json:"reason"`
}

// Result is the JSON form of a refresh.
type Result struct {
	Loaded  int       `json:"loaded"`
	Skipped []Skipped `json:"skipped,omitempty"`
}

func (n *Refresh) Do(ctx context.Context) error {
	if n.App == nil {
		return runner.ErrNoApp
	}
	report, err := n.App.Coordinator.Load(ctx)
	if err != nil {
		return err
	}

	res := Result{Loaded: report.Loaded}
	for _, s := range report.Skipped {
		res.Skipped = append(res.Skipped, Skipped{
			BookmarkID: s.BookmarkID.String(),
			PostingID:  s.PostingID.String(),
			Reason:     s.Reason,
		})
	}
	if n.JSON {
		return runner.PrintJSON(n.Out, res)
	}

	out := runner.Output(n.Out)
	switch res.Loaded {
	case 1:
		_, _ = fmt.Fprintln(out, "loaded 1 posting")
	default:
		_, _ = fmt.Fprintf(out, "loaded %d postings\n", res.Loaded)
	}
	y := color.New(color.FgYellow)
	for _, s := range res.Skipped {
		_, _ = y.Fprintf(out, "skipped bookmark %s: %s\n", s.BookmarkID, s.Reason)
	}
	return nil
}
