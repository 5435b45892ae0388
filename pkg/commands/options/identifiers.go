package options

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/jobcal/pkg/posting"
)

// IDOptions
type IDOptions struct {
	ShowID bool
	ID     string
}

func AddShowIDArgs(cmd *cobra.Command, o *IDOptions) {
	cmd.Flags().BoolVarP(&o.ShowID, "show-id", "k", false,
		"Show the posting ID.")
}

func AddIDArgs(cmd *cobra.Command, o *IDOptions) {
	cmd.Flags().StringVar(&o.ID, "id", "",
		"Specify the id of a posting.")
}

// PostingID resolves the posting id from --id or the first argument.
func (o *IDOptions) PostingID(args []string) (posting.ID, error) {
	id := strings.TrimSpace(o.ID)
	if id == "" && len(args) > 0 {
		id = strings.TrimSpace(args[0])
	}
	if id == "" {
		return "", errors.New("a posting id is required (see --show-id on calendar or deadlines)")
	}
	return posting.ID(id), nil
}
