package calendar

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"tableflip.dev/jobcal/pkg/interval"
	"tableflip.dev/jobcal/pkg/posting"
	"tableflip.dev/jobcal/pkg/timeutil"
)

func TestGridShapeForManyMonths(t *testing.T) {
	for year := 1999; year <= 2031; year++ {
		for month := time.January; month <= time.December; month++ {
			for _, day := range []int{1, 15, 28} {
				ref := timeutil.NewDate(year, month, day)
				grid := Grid(ref)

				if len(grid)%7 != 0 {
					t.Fatalf("%s: length %d not a multiple of 7", ref, len(grid))
				}
				if grid[0].Weekday() != time.Sunday {
					t.Fatalf("%s: starts on %s", ref, grid[0].Weekday())
				}
				if grid[len(grid)-1].Weekday() != time.Saturday {
					t.Fatalf("%s: ends on %s", ref, grid[len(grid)-1].Weekday())
				}

				counts := map[int]int{}
				for i, d := range grid {
					if i > 0 && grid[i-1].DaysUntil(d) != 1 {
						t.Fatalf("%s: gap between %s and %s", ref, grid[i-1], d)
					}
					if d.SameMonth(ref) {
						counts[d.Day()]++
					}
				}
				if len(counts) != ref.DaysInMonth() {
					t.Fatalf("%s: covered %d days, want %d", ref, len(counts), ref.DaysInMonth())
				}
				for dd, n := range counts {
					if n != 1 {
						t.Fatalf("%s: day %d appears %d times", ref, dd, n)
					}
				}
				if len(grid) > 42 {
					t.Fatalf("%s: %d cells is more than six weeks", ref, len(grid))
				}
			}
		}
	}
}

func TestGridKnownMonths(t *testing.T) {
	tests := []struct {
		ref         timeutil.Date
		first, last string
		cells       int
	}{
		// February 2015 starts on a Sunday and ends on a Saturday.
		{timeutil.NewDate(2015, time.February, 10), "2015-02-01", "2015-02-28", 28},
		{timeutil.NewDate(2025, time.January, 10), "2024-12-29", "2025-02-01", 35},
		{timeutil.NewDate(2026, time.August, 1), "2026-07-26", "2026-09-05", 42},
	}
	for _, tt := range tests {
		grid := Grid(tt.ref)
		if grid[0].String() != tt.first || grid[len(grid)-1].String() != tt.last || len(grid) != tt.cells {
			t.Fatalf("%s: got %s..%s (%d), want %s..%s (%d)", tt.ref,
				grid[0], grid[len(grid)-1], len(grid), tt.first, tt.last, tt.cells)
		}
	}
}

func TestCells(t *testing.T) {
	ref := timeutil.NewDate(2025, time.January, 1)
	today := timeutil.NewDate(2025, time.January, 8)
	views := []posting.View{
		{PostingID: "a", Title: "A", Start: timeutil.NewDate(2025, time.January, 6), End: timeutil.NewDate(2025, time.January, 10)},
		{PostingID: "b", Title: "B", Start: timeutil.NewDate(2025, time.January, 8), End: timeutil.NewDate(2025, time.January, 8)},
		{PostingID: "c", Title: "C", Start: timeutil.NewDate(2024, time.December, 30), End: timeutil.NewDate(2025, time.January, 31)},
	}
	cells := Cells(ref, today, interval.New(views))

	byDate := map[string]Cell{}
	for _, c := range cells {
		byDate[c.Date.String()] = c
	}

	c := byDate["2025-01-08"]
	if !c.IsToday || !c.IsCurrentMonth {
		t.Fatalf("expected today cell in month: %+v", c)
	}
	if len(c.Postings) != 3 || len(c.Shown) != 2 || c.More != 1 {
		t.Fatalf("unexpected postings on 8th: %d shown %d more %d", len(c.Postings), len(c.Shown), c.More)
	}
	if len(c.Starts) != 1 || len(c.Ends) != 1 || !c.HasDeadline() {
		t.Fatalf("expected start and deadline markers on 8th")
	}

	out := byDate["2024-12-30"]
	if out.IsCurrentMonth {
		t.Fatalf("December cell marked as current month")
	}
	if len(out.Postings) != 1 || out.Postings[0].PostingID != "c" {
		t.Fatalf("leading cell should still show spanning posting")
	}

	if len(Weeks(cells)) != len(cells)/7 {
		t.Fatalf("weeks mismatch")
	}
}

func TestParseMonth(t *testing.T) {
	today := timeutil.NewDate(2025, time.June, 14)
	for _, in := range []string{"2025-03", "March 2025", "Mar 2025", "3/2025", "2025-03-19"} {
		got, err := ParseMonth(in, today)
		if err != nil {
			t.Fatalf("ParseMonth(%q): %v", in, err)
		}
		if got.String() != "2025-03-01" {
			t.Fatalf("ParseMonth(%q) = %s", in, got)
		}
	}
	got, err := ParseMonth("", today)
	if err != nil || got.String() != "2025-06-01" {
		t.Fatalf("empty month: %s %v", got, err)
	}
	if _, err := ParseMonth("someday", today); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRenderIncludesTitlesAndOverflow(t *testing.T) {
	ref := timeutil.NewDate(2025, time.January, 1)
	today := timeutil.NewDate(2025, time.January, 8)
	var views []posting.View
	for _, title := range []string{"Alpha", "Bravo", "Charlie"} {
		views = append(views, posting.View{
			PostingID: posting.ID(title),
			Title:     title,
			Start:     timeutil.NewDate(2025, time.January, 15),
			End:       timeutil.NewDate(2025, time.January, 15),
		})
	}
	out := ansiPattern.ReplaceAllString(Render(ref, today, views, DefaultOptions()), "")
	for _, want := range []string{"January 2025", "Alpha", "Bravo", "+1 more"} {
		if !strings.Contains(out, want) {
			t.Fatalf("render missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Charlie") {
		t.Fatalf("third posting should be collapsed into the overflow count")
	}
}

var ansiPattern = regexp.MustCompile("\x1b\\[[0-9;:]*[A-Za-z]")

func TestPlainRenderHasNoEscapes(t *testing.T) {
	ref := timeutil.NewDate(2025, time.January, 1)
	views := []posting.View{{
		PostingID: "1",
		Title:     "Backend",
		Color:     "#ff0000",
		Start:     timeutil.NewDate(2025, time.January, 6),
		End:       timeutil.NewDate(2025, time.January, 10),
	}}
	out := Render(ref, timeutil.NewDate(2025, time.January, 8), views, PlainOptions())
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("plain render contains escape codes:\n%q", out)
	}
	if !strings.Contains(out, "10 ◆") {
		t.Fatalf("deadline marker missing:\n%s", out)
	}
}
