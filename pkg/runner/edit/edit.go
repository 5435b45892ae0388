// Package edit runs the posting update flow.
package edit

import (
	"context"
	"fmt"
	"io"

	"tableflip.dev/jobcal/pkg/app"
	"tableflip.dev/jobcal/pkg/coordinator"
	"tableflip.dev/jobcal/pkg/posting"
	"tableflip.dev/jobcal/pkg/printers"
	"tableflip.dev/jobcal/pkg/runner"
	"tableflip.dev/jobcal/pkg/timeutil"
)

// Edit loads the current posting, applies Change to a draft of it and sends
// the whole posting back.
type Edit struct {
	App       *app.App
	PostingID posting.ID
	// Change overlays the requested fields onto the prefilled draft.
	Change func(d *posting.Draft, today timeutil.Date) error
	JSON   bool
	Out    io.Writer
}

func (n *Edit) Do(ctx context.Context) error {
	if n.App == nil {
		return runner.ErrNoApp
	}
	if _, err := n.App.Refresh(ctx); err != nil {
		return err
	}
	today := n.App.Today()
	current, ok := n.App.Coordinator.Repository().Find(n.PostingID)
	if !ok {
		return fmt.Errorf("edit %s: %w", n.PostingID, coordinator.ErrNotFound)
	}

	d := posting.DraftFrom(current)
	if n.Change != nil {
		if err := n.Change(&d, today); err != nil {
			return err
		}
	}
	v, err := n.App.Coordinator.Edit(ctx, n.PostingID, d)
	if err != nil {
		return err
	}
	if err := n.App.Save(); err != nil {
		n.App.Log.Warn().Err(err).Msg("saving snapshot")
	}

	if n.JSON {
		return runner.PrintJSON(n.Out, v)
	}
	pp := &printers.PrettyPrint{Out: runner.Output(n.Out), ShowID: true, Today: today}
	pp.Detail(v)
	return nil
}
