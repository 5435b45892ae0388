package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/jobcal/pkg/commands/options"
	"tableflip.dev/jobcal/pkg/runner/deadlines"
)

func addDeadlines(topLevel *cobra.Command) {
	do := &options.DeadlineOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "deadlines",
		Aliases: []string{"due"},
		Short:   "List bookmarked postings by time left to apply.",
		Example: `
jobcal deadlines
jobcal deadlines --within 2w
jobcal deadlines --expired --show-id
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			a, err := loadApp()
			if err != nil {
				return output.HandleError(err)
			}
			defer a.Close()

			d := deadlines.Deadlines{
				App:     a,
				Within:  do.Within,
				Expired: do.Expired,
				ShowID:  io.ShowID,
				JSON:    output.JSON,
			}
			return output.HandleError(d.Do(context.Background()))
		},
	}

	options.AddDeadlineArgs(cmd, do)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
