package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/jobcal/pkg/commands/options"
	"tableflip.dev/jobcal/pkg/runner/add"
)

func addAdd(topLevel *cobra.Command) {
	po := &options.PostingOptions{}

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Create a posting and bookmark it.",
		Example: `
jobcal add "Backend Engineer" --company Globex --start 2025-01-06 --end 2025-01-20
jobcal add -t "SRE" -c Initech --start 1/6 --end 1/31 --memo "referral from Sam"
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			a, err := loadApp()
			if err != nil {
				return output.HandleError(err)
			}
			defer a.Close()

			d, err := po.Draft(args, a.Today())
			if err != nil {
				return output.HandleError(err)
			}
			n := add.Add{
				App:   a,
				Draft: d,
				JSON:  output.JSON,
			}
			return output.HandleError(n.Do(context.Background()))
		},
	}

	options.AddPostingArgs(cmd, po, true)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
