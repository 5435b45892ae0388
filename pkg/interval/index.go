// Package interval answers "which postings touch this day" over inclusive
// [start, end] application windows.
package interval

import (
	"sort"

	"tableflip.dev/jobcal/pkg/posting"
	"tableflip.dev/jobcal/pkg/timeutil"
)

// MaxPerDay is how many postings a calendar cell renders individually; the
// rest collapse into a "+N more" count.
const MaxPerDay = 2

type item struct {
	seq  int
	view posting.View
}

// Index holds postings sorted by start date. Every query returns postings in
// the order they were given to New.
type Index struct {
	byStart []item
	starts  map[string][]int
	ends    map[string][]int
}

// New builds an index over views. Views with an inverted or unset window
// never match any day.
func New(views []posting.View) *Index {
	idx := &Index{
		byStart: make([]item, 0, len(views)),
		starts:  make(map[string][]int),
		ends:    make(map[string][]int),
	}
	for seq, v := range views {
		if v.Start.IsZero() || v.End.IsZero() || v.End.Before(v.Start) {
			continue
		}
		idx.byStart = append(idx.byStart, item{seq: seq, view: v})
	}
	sort.SliceStable(idx.byStart, func(i, j int) bool {
		return idx.byStart[i].view.Start.Before(idx.byStart[j].view.Start)
	})
	for pos, it := range idx.byStart {
		idx.starts[it.view.Start.String()] = append(idx.starts[it.view.Start.String()], pos)
		idx.ends[it.view.End.String()] = append(idx.ends[it.view.End.String()], pos)
	}
	return idx
}

// Len returns the number of indexed postings.
func (idx *Index) Len() int {
	return len(idx.byStart)
}

// On returns the postings whose window contains day (start ≤ day ≤ end).
func (idx *Index) On(day timeutil.Date) []posting.View {
	// Everything at or after cut starts after day and cannot match.
	cut := sort.Search(len(idx.byStart), func(i int) bool {
		return idx.byStart[i].view.Start.After(day)
	})
	var hits []item
	for _, it := range idx.byStart[:cut] {
		if !it.view.End.Before(day) {
			hits = append(hits, it)
		}
	}
	return inOrder(hits)
}

// StartingOn returns the postings whose window opens on day.
func (idx *Index) StartingOn(day timeutil.Date) []posting.View {
	return idx.collect(idx.starts[day.String()])
}

// EndingOn returns the postings whose deadline is day.
func (idx *Index) EndingOn(day timeutil.Date) []posting.View {
	return idx.collect(idx.ends[day.String()])
}

// Visible returns at most MaxPerDay postings for day and how many more were
// left out. The full set stays available through On.
func (idx *Index) Visible(day timeutil.Date) ([]posting.View, int) {
	return Truncate(idx.On(day), MaxPerDay)
}

// Truncate splits views into the first limit entries and a remainder count.
func Truncate(views []posting.View, limit int) ([]posting.View, int) {
	if limit < 0 {
		limit = 0
	}
	if len(views) <= limit {
		return views, 0
	}
	return views[:limit], len(views) - limit
}

// Sweep answers On for every day in days with one pass over start and end
// boundaries. days must be ascending; the result is aligned with days.
func (idx *Index) Sweep(days []timeutil.Date) [][]posting.View {
	out := make([][]posting.View, len(days))
	next := 0
	var active []item
	for i, day := range days {
		for next < len(idx.byStart) && !idx.byStart[next].view.Start.After(day) {
			active = insertBySeq(active, idx.byStart[next])
			next++
		}
		kept := active[:0]
		for _, it := range active {
			if !it.view.End.Before(day) {
				kept = append(kept, it)
			}
		}
		active = kept
		if len(active) > 0 {
			out[i] = make([]posting.View, len(active))
			for j, it := range active {
				out[i][j] = it.view
			}
		}
	}
	return out
}

func (idx *Index) collect(positions []int) []posting.View {
	if len(positions) == 0 {
		return nil
	}
	hits := make([]item, 0, len(positions))
	for _, pos := range positions {
		hits = append(hits, idx.byStart[pos])
	}
	return inOrder(hits)
}

func insertBySeq(list []item, it item) []item {
	at := sort.Search(len(list), func(i int) bool { return list[i].seq > it.seq })
	list = append(list, item{})
	copy(list[at+1:], list[at:])
	list[at] = it
	return list
}

func inOrder(hits []item) []posting.View {
	if len(hits) == 0 {
		return nil
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].seq < hits[j].seq })
	out := make([]posting.View, len(hits))
	for i, it := range hits {
		out[i] = it.view
	}
	return out
}
