package options

import (
	"github.com/spf13/cobra"
)

// LogOptions
type LogOptions struct {
	Verbose bool
	Level   string
}

func AddLogArgs(cmd *cobra.Command, o *LogOptions) {
	cmd.PersistentFlags().BoolVarP(&o.Verbose, "verbose", "v", false,
		"Log requests and coordinator operations to stderr.")
	cmd.PersistentFlags().StringVar(&o.Level, "log-level", "",
		"Log level: debug, info, warn or error. Overrides the config file.")
}
