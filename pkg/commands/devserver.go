package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/jobcal/pkg/runner/devserver"
)

func addDevServer(topLevel *cobra.Command) {
	ds := &devserver.DevServer{}

	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Run an in-memory job service to try jobcal against.",
		Example: `
jobcal devserver --seed 42
JOBCAL_SERVER=http://127.0.0.1:8080/ JOBCAL_USER=42 jobcal calendar
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			log := newLogger("info")
			ds.Logger = &log

			ctx, cancel := signalContext()
			defer cancel()
			return ds.Do(ctx)
		},
	}

	cmd.Flags().StringVar(&ds.Addr, "addr", "127.0.0.1:8080", "Address to listen on.")
	cmd.Flags().StringVar(&ds.Token, "token", "", "Require this bearer token on every request.")
	cmd.Flags().StringVar(&ds.Seed, "seed", "", "Bookmark demo postings for this user id.")

	topLevel.AddCommand(cmd)
}
