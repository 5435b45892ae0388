// Package deadline orders bookmarked postings by how soon their application
// window closes.
package deadline

import (
	"sort"

	"tableflip.dev/jobcal/pkg/posting"
	"tableflip.dev/jobcal/pkg/status"
	"tableflip.dev/jobcal/pkg/timeutil"
)

// Urgency buckets the days remaining until a deadline.
type Urgency int

const (
	Safe Urgency = iota
	Soon
	Urgent
	Overdue
)

var urgencyNames = [...]string{
	Safe:    "safe",
	Soon:    "soon",
	Urgent:  "urgent",
	Overdue: "expired",
}

func (u Urgency) String() string {
	if u < Safe || u > Overdue {
		return "unknown"
	}
	return urgencyNames[u]
}

// UrgencyFor classifies days remaining: <0 expired, 0..3 urgent, 4..7 soon,
// otherwise safe.
func UrgencyFor(daysRemaining int) Urgency {
	switch {
	case daysRemaining < 0:
		return Overdue
	case daysRemaining <= 3:
		return Urgent
	case daysRemaining <= 7:
		return Soon
	default:
		return Safe
	}
}

// Item is a ranked posting with the values it was ranked by.
type Item struct {
	View          posting.View
	Status        status.Tier
	DaysRemaining int
	Urgency       Urgency
}

// Ranking is the partitioned, ordered deadline list.
type Ranking struct {
	Today   timeutil.Date
	Active  []Item
	Expired []Item
}

// Rank partitions views into active (not expired) and expired for today.
// Active is ordered by days remaining ascending, expired by end date
// descending. Ties keep the input order.
func Rank(views []posting.View, today timeutil.Date) Ranking {
	r := Ranking{Today: today}
	for _, v := range views {
		it := Item{
			View:          v,
			Status:        v.StatusAt(today),
			DaysRemaining: v.DaysRemaining(today),
		}
		it.Urgency = UrgencyFor(it.DaysRemaining)
		if it.Status == status.Expired {
			r.Expired = append(r.Expired, it)
		} else {
			r.Active = append(r.Active, it)
		}
	}
	sort.SliceStable(r.Active, func(i, j int) bool {
		return r.Active[i].DaysRemaining < r.Active[j].DaysRemaining
	})
	sort.SliceStable(r.Expired, func(i, j int) bool {
		return r.Expired[i].View.End.After(r.Expired[j].View.End)
	})
	return r
}

// Within keeps the active items whose deadline is at most days away.
func (r Ranking) Within(days int) Ranking {
	out := Ranking{Today: r.Today, Expired: r.Expired}
	for _, it := range r.Active {
		if it.DaysRemaining <= days {
			out.Active = append(out.Active, it)
		}
	}
	return out
}

// Summary counts items per urgency.
func (r Ranking) Summary() map[Urgency]int {
	out := make(map[Urgency]int, 4)
	for _, it := range r.Active {
		out[it.Urgency]++
	}
	out[Overdue] += len(r.Expired)
	return out
}
