// Package runner holds the shared pieces of the command runners.
package runner

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"tableflip.dev/jobcal/pkg/app"
	"tableflip.dev/jobcal/pkg/printers"
	"tableflip.dev/jobcal/pkg/remote"
)

// ErrNoApp is returned by a runner that was not given a configured app.
var ErrNoApp = errors.New("runner: no app configured")

// Output resolves the writer a runner should print to.
func Output(w io.Writer) io.Writer {
	if w == nil {
		return color.Output
	}
	return w
}

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(Output(w), string(b))
	return err
}

// WarnStale prints the stale-data banner when the refresh fell back to the
// cache.
func WarnStale(pp *printers.PrettyPrint, r app.Refreshed) {
	if !r.Stale {
		return
	}
	reason := ""
	if !r.LoadedAt.IsZero() {
		reason = "last synced " + humanize.Time(r.LoadedAt)
	}
	if r.Err != nil {
		if reason != "" {
			reason += ", "
		}
		reason += remote.Message(r.Err)
	}
	pp.Stale(reason)
}
