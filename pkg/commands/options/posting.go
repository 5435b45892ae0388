package options

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"tableflip.dev/jobcal/pkg/posting"
	"tableflip.dev/jobcal/pkg/timeutil"
)

// PostingOptions
type PostingOptions struct {
	Title    string
	Company  string
	Start    string
	End      string
	Location string
	Position string
	Salary   string
	Memo     string

	flags *pflag.FlagSet
}

func AddPostingArgs(cmd *cobra.Command, o *PostingOptions, withMemo bool) {
	f := cmd.Flags()
	f.StringVarP(&o.Title, "title", "t", "", "Posting title.")
	f.StringVarP(&o.Company, "company", "c", "", "Company name.")
	f.StringVar(&o.Start, "start", "", `Application window opens, example: --start="2025-01-06" or --start="1/6".`)
	f.StringVar(&o.End, "end", "", `Application deadline, example: --end="2025-01-20" or --end="1/20".`)
	f.StringVarP(&o.Location, "location", "l", "", "Location.")
	f.StringVarP(&o.Position, "position", "p", "", "Position or team.")
	f.StringVar(&o.Salary, "salary", "", "Salary range.")
	if withMemo {
		f.StringVarP(&o.Memo, "memo", "m", "", "Private note stored on the bookmark.")
	}
	o.flags = f
}

// Draft builds a fresh draft from the flags. A --title given as arguments
// is joined with spaces.
func (o *PostingOptions) Draft(args []string, today timeutil.Date) (posting.Draft, error) {
	d := posting.Draft{}
	if err := o.ApplyTo(&d, today, true); err != nil {
		return d, err
	}
	if d.Title == "" && len(args) > 0 {
		d.Title = strings.Join(args, " ")
	}
	return d, nil
}

// ApplyTo overlays the flags onto d. With all set every field is copied,
// otherwise only the flags given on the command line.
func (o *PostingOptions) ApplyTo(d *posting.Draft, today timeutil.Date, all bool) error {
	set := func(name string) bool {
		return all || o.flags == nil || o.flags.Changed(name)
	}
	if set("title") {
		d.Title = o.Title
	}
	if set("company") {
		d.Company = o.Company
	}
	if set("location") {
		d.Location = o.Location
	}
	if set("position") {
		d.Position = o.Position
	}
	if set("salary") {
		d.Salary = o.Salary
	}
	if o.flags != nil && o.flags.Lookup("memo") != nil && set("memo") {
		d.Memo = o.Memo
	}
	// The end is resolved first so a short --start lands in the same
	// window as the deadline.
	if set("end") {
		end, err := ParseDateFlag(o.End, today)
		if err != nil {
			return err
		}
		d.End = end
	}
	if set("start") {
		start, err := ParseStartFlag(o.Start, d.End, today)
		if err != nil {
			return err
		}
		d.Start = start
	}
	return nil
}
