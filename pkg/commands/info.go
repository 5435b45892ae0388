package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/jobcal/pkg/runner/info"
	"tableflip.dev/jobcal/pkg/store"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the configuration and where snapshots are cached.",
		Example: `
jobcal info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			cfg, err := store.LoadConfig()
			if err != nil {
				return err
			}
			s := info.Info{
				Config: cfg,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}
