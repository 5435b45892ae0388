package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/jobcal/pkg/commands/options"
	"tableflip.dev/jobcal/pkg/runner/calendar"
)

func addCalendar(topLevel *cobra.Command) {
	co := &options.CalendarOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "calendar [month]",
		Aliases: []string{"cal"},
		Short:   "Show bookmarked postings on a month calendar.",
		Long: `Show bookmarked postings on a month calendar.

Each day lists up to two postings whose application window covers it, with
"+N more" for the rest. ▸ marks a window opening and ◆ a deadline, colored by
how close it is.`,
		Example: `
jobcal calendar
jobcal calendar 2025-03
jobcal calendar --month "March 2025" --compact
jobcal calendar --watch
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			month := co.Month
			if len(args) == 1 {
				month = args[0]
			}
			a, err := loadApp()
			if err != nil {
				return output.HandleError(err)
			}
			defer a.Close()

			ctx, cancel := signalContext()
			defer cancel()

			c := calendar.Calendar{
				App:     a,
				Month:   month,
				Compact: co.Compact,
				Key:     co.Key,
				Watch:   co.Watch,
				ShowID:  io.ShowID,
				JSON:    output.JSON,
			}
			return output.HandleError(c.Do(ctx))
		},
	}

	options.AddCalendarArgs(cmd, co)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
