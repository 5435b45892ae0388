// Package info prints where jobcal reads its settings and cache from.
package info

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/jobcal/pkg/runner"
	"tableflip.dev/jobcal/pkg/store"
)

type Info struct {
	Config    *store.Config
	Snapshots *store.Snapshots
	Out       io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := runner.Output(n.Out)
	bold := color.New(color.Bold)

	if override := os.Getenv("JOBCAL_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(out, "JOBCAL_CONFIG_PATH found on env, using ", override)
	} else {
		_, _ = fmt.Fprintln(out, "JOBCAL_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}

	file := n.Config.File
	if file == "" {
		file = "(none found)"
	}
	token := "not set"
	if n.Config.Token != "" {
		token = "set"
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Config file"), file)
	tbl.AddRow(bold.Sprint("Server"), n.Config.Server)
	tbl.AddRow(bold.Sprint("User"), n.Config.User)
	tbl.AddRow(bold.Sprint("Token"), token)
	tbl.AddRow(bold.Sprint("Timeout"), n.Config.Timeout.String())
	tbl.AddRow(bold.Sprint("Cache"), n.Config.BasePath())
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(out, tbl)

	if n.Snapshots == nil {
		var err error
		n.Snapshots, err = store.Open(n.Config)
		if err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintln(out, "Cached users:")
	users := n.Snapshots.Users()
	for _, u := range users {
		snap, err := n.Snapshots.Load(u)
		if err != nil || snap == nil {
			_, _ = fmt.Fprintf(out, "  %s (unreadable)\n", u)
			continue
		}
		_, _ = fmt.Fprintf(out, "  %s: %d postings, saved %s\n", u, len(snap.Views), humanize.Time(snap.SavedAt))
	}
	if len(users) == 0 {
		_, _ = fmt.Fprintf(out, "  %s\n", "no snapshots")
	}
	return nil
}
