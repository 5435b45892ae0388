package options

import (
	"github.com/spf13/cobra"
)

// CalendarOptions
type CalendarOptions struct {
	Month   string
	Compact bool
	Watch   bool
	Key     bool
}

func AddCalendarArgs(cmd *cobra.Command, o *CalendarOptions) {
	cmd.Flags().StringVar(&o.Month, "month", "",
		`Month to show, example: --month="2025-03" or --month="March 2025". Defaults to this month.`)
	cmd.Flags().BoolVar(&o.Compact, "compact", false,
		"Show a compact month with deadline days highlighted.")
	cmd.Flags().BoolVarP(&o.Watch, "watch", "w", false,
		"Redraw whenever another jobcal process refreshes the cached postings.")
	cmd.Flags().BoolVar(&o.Key, "key", false,
		"Print the marker legend below the calendar.")
}

// DeadlineOptions
type DeadlineOptions struct {
	Within  string
	Expired bool
}

func AddDeadlineArgs(cmd *cobra.Command, o *DeadlineOptions) {
	cmd.Flags().StringVar(&o.Within, "within", "",
		`Only show deadlines closing within this span, example: --within=2w or --within=10d.`)
	cmd.Flags().BoolVar(&o.Expired, "expired", false,
		"Also list postings whose deadline has passed.")
}
