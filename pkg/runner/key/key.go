// Package key provides CLI helpers to display the calendar legend.
package key

import (
	"context"
	"io"

	"tableflip.dev/jobcal/pkg/printers"
	"tableflip.dev/jobcal/pkg/runner"
)

// Key prints the status and urgency legend.
type Key struct {
	Out io.Writer
}

// Do renders the legend.
func (k *Key) Do(_ context.Context) error {
	pp := &printers.PrettyPrint{Out: runner.Output(k.Out)}
	pp.NewLine()
	pp.Key()
	pp.NewLine()
	return nil
}
