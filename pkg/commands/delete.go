package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/jobcal/pkg/commands/options"
	"tableflip.dev/jobcal/pkg/runner/remove"
)

func addDelete(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "delete <posting-id>",
		Aliases: []string{"rm"},
		Short:   "Remove your bookmark on a posting.",
		Long: `Remove your bookmark on a posting.

The posting itself stays on the job service for anyone else who bookmarked it.`,
		Example: `
jobcal delete 12
jobcal rm --id 12
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			id, err := io.PostingID(args)
			if err != nil {
				return output.HandleError(err)
			}
			a, err := loadApp()
			if err != nil {
				return output.HandleError(err)
			}
			defer a.Close()

			n := remove.Remove{
				App:       a,
				PostingID: id,
				JSON:      output.JSON,
			}
			return output.HandleError(n.Do(context.Background()))
		},
	}

	options.AddIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
