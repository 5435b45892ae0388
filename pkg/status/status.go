// Package status derives the lifecycle tier of a posting's application
// window relative to a given day.
package status

import (
	"fmt"
	"strings"

	"tableflip.dev/jobcal/pkg/timeutil"
)

// Tier is the closed set of lifecycle states.
type Tier int

const (
	// Active means today falls inside [start, end].
	Active Tier = iota
	// Upcoming means the window has not opened yet.
	Upcoming
	// Expired means the window closed before today.
	Expired
)

// Hint is the precomputed rendering information for a tier.
type Hint struct {
	Key    string
	Symbol string
	Label  string
	Color  string
}

var hints = [...]Hint{
	Active:   {Key: "active", Symbol: "●", Label: "Open", Color: "#2e9e5b"},
	Upcoming: {Key: "upcoming", Symbol: "○", Label: "Upcoming", Color: "#3f7fd9"},
	Expired:  {Key: "expired", Symbol: "✘", Label: "Closed", Color: "#8a8a8a"},
}

// Derive maps (today, start, end) to a tier. Comparison is date-only and the
// checks run in priority order: a closed window wins over a future start.
func Derive(today, start, end timeutil.Date) Tier {
	switch {
	case end.Before(today):
		return Expired
	case start.After(today):
		return Upcoming
	default:
		return Active
	}
}

// All lists the tiers in declaration order.
func All() []Tier {
	return []Tier{Active, Upcoming, Expired}
}

// Hint returns the rendering hint for t. Unknown values render as Active.
func (t Tier) Hint() Hint {
	if t < Active || t > Expired {
		return hints[Active]
	}
	return hints[t]
}

func (t Tier) String() string {
	return t.Hint().Key
}

// Parse converts a wire string to a Tier.
func Parse(raw string) (Tier, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	for _, t := range All() {
		if hints[t].Key == key {
			return t, nil
		}
	}
	return Active, fmt.Errorf("status: unknown tier %q", raw)
}

func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Tier) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
