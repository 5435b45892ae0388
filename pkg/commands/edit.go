package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/jobcal/pkg/commands/options"
	"tableflip.dev/jobcal/pkg/posting"
	"tableflip.dev/jobcal/pkg/runner/edit"
	"tableflip.dev/jobcal/pkg/timeutil"
)

func addEdit(topLevel *cobra.Command) {
	po := &options.PostingOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "edit <posting-id>",
		Short: "Change fields of a bookmarked posting.",
		Long: `Change fields of a bookmarked posting.

Only the flags given are changed; every other field keeps its current value.`,
		Example: `
jobcal edit 12 --end 2025-02-01
jobcal edit --id 12 --title "Senior Backend Engineer" --salary "$180k"
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

			n := edit.Edit{
				App:       a,
				PostingID: id,
				Change: func(d *posting.Draft, today timeutil.Date) error {
					return po.ApplyTo(d, today, false)
				},
				JSON: output.JSON,
			}
			return output.HandleError(n.Do(context.Background()))
		},
	}

	options.AddPostingArgs(cmd, po, false)
	options.AddIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
