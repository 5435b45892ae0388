// Package remove runs the unbookmark flow.
package remove

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/jobcal/pkg/app"
	"tableflip.dev/jobcal/pkg/posting"
	"tableflip.dev/jobcal/pkg/runner"
)

// Remove deletes the configured user's bookmark on PostingID. The posting
// itself stays on the service.
type Remove struct {
	App       *app.App
	PostingID posting.ID
	JSON      bool
	Out       io.Writer
}

func (n *Remove) Do(ctx context.Context) error {
	if n.App == nil {
		return runner.ErrNoApp
	}
	if _, err := n.App.Refresh(ctx); err != nil {
		n.App.Log.Debug().Err(err).Msg("deleting without a loaded collection")
	}
	title := n.PostingID.String()
	if v, ok := n.App.Coordinator.Repository().Find(n.PostingID); ok {
		title = v.Title
	}
	if err := n.App.Coordinator.Delete(ctx, n.PostingID); err != nil {
		return err
	}
	if err := n.App.Save(); err != nil {
		n.App.Log.Warn().Err(err).Msg("saving snapshot")
	}

	if n.JSON {
		return runner.PrintJSON(n.Out, map[string]interface{}{
			"deleted":   true,
			"postingId": n.PostingID,
		})
	}
	f := color.New(color.Faint)
	_, err := fmt.Fprintf(runner.Output(n.Out), "removed %s %s\n", title, f.Sprintf("(%s)", n.PostingID))
	return err
}
