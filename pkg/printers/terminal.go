package printers

import (
	"github.com/fatih/color"
	"github.com/muesli/termenv"

	"tableflip.dev/jobcal/pkg/calendar"
)

// calendarOptions picks unstyled output when color is off or the writer
// cannot show it.
func (pp *PrettyPrint) calendarOptions() calendar.Options {
	if color.NoColor || termenv.NewOutput(pp.out()).ColorProfile() == termenv.Ascii {
		return calendar.PlainOptions()
	}
	return calendar.DefaultOptions()
}
