package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/jobcal/pkg/commands/options"
)

var (
	output  = &options.OutputOptions{}
	logging = &options.LogOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "jobcal",
		Short: base.Wrap80("Track job application windows and deadlines on a calendar."),
		Long: base.Wrap80("jobcal keeps the job postings you bookmarked on a remote job service " +
			"and shows them as a month calendar and a list of upcoming deadlines. " +
			"Configure it with .jobcal.yaml (server, user, token) or JOBCAL_* environment variables."),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	options.AddLogArgs(cmd, logging)
	cmd.PersistentFlags().String("server", "", "Job service base URL, overrides the config file.")
	cmd.PersistentFlags().String("user", "", "User id to act as, overrides the config file.")
	_ = viper.BindPFlag("server", cmd.PersistentFlags().Lookup("server"))
	_ = viper.BindPFlag("user", cmd.PersistentFlags().Lookup("user"))

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addCalendar(topLevel)
	addDeadlines(topLevel)
	addAdd(topLevel)
	addEdit(topLevel)
	addDelete(topLevel)
	addSync(topLevel)
	addKey(topLevel)
	addInfo(topLevel)
	addDevServer(topLevel)
	addVersion(topLevel)
}
