// Package add runs the create-and-bookmark flow.
package add

import (
	"context"
	"io"

	"tableflip.dev/jobcal/pkg/app"
	"tableflip.dev/jobcal/pkg/posting"
	"tableflip.dev/jobcal/pkg/printers"
	"tableflip.dev/jobcal/pkg/runner"
)

// Add creates a posting from Draft and bookmarks it for the configured user.
type Add struct {
	App   *app.App
	Draft posting.Draft
	JSON  bool
	Out   io.Writer
}

func (n *Add) Do(ctx context.Context) error {
	if n.App == nil {
		return runner.ErrNoApp
	}
	// Validate before touching the network so a bad draft costs nothing.
	if err := n.Draft.Normalize().Validate(); err != nil {
		return err
	}
	if _, err := n.App.Refresh(ctx); err != nil {
		n.App.Log.Debug().Err(err).Msg("adding without a loaded collection")
	}
	v, err := n.App.Coordinator.Add(ctx, n.Draft)
	if err != nil {
		return err
	}
	if err := n.App.Save(); err != nil {
		n.App.Log.Warn().Err(err).Msg("saving snapshot")
	}

	if n.JSON {
		return runner.PrintJSON(n.Out, v)
	}
	pp := &printers.PrettyPrint{Out: runner.Output(n.Out), ShowID: true, Today: n.App.Today()}
	pp.Detail(v)
	return nil
}
