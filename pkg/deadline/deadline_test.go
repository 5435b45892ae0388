package deadline

import (
	"testing"
	"time"

	"tableflip.dev/jobcal/pkg/posting"
	"tableflip.dev/jobcal/pkg/timeutil"
)

var today = timeutil.NewDate(2025, time.May, 20)

func ending(id string, offset int) posting.View {
	return posting.View{
		PostingID: posting.ID(id),
		Title:     id,
		Start:     today.AddDays(-30),
		End:       today.AddDays(offset),
	}
}

func TestRankPartitionsAndOrders(t *testing.T) {
	views := []posting.View{
		ending("plus10", 10),
		ending("minus1", -1),
		ending("today", 0),
		ending("minus5", -5),
		ending("plus2", 2),
	}
	r := Rank(views, today)

	var active []string
	for _, it := range r.Active {
		active = append(active, string(it.View.PostingID))
	}
	var expired []string
	for _, it := range r.Expired {
		expired = append(expired, string(it.View.PostingID))
	}

	if want := []string{"today", "plus2", "plus10"}; !equal(active, want) {
		t.Fatalf("active = %v, want %v", active, want)
	}
	if want := []string{"minus1", "minus5"}; !equal(expired, want) {
		t.Fatalf("expired = %v, want %v", expired, want)
	}
}

func TestRankUpcomingIsActive(t *testing.T) {
	v := posting.View{PostingID: "future", Start: today.AddDays(3), End: today.AddDays(9)}
	r := Rank([]posting.View{v}, today)
	if len(r.Active) != 1 || len(r.Expired) != 0 {
		t.Fatalf("upcoming posting should rank as active: %+v", r)
	}
	if r.Active[0].Urgency != Soon {
		t.Fatalf("expected soon, got %s", r.Active[0].Urgency)
	}
}

func TestRankStableTies(t *testing.T) {
	r := Rank([]posting.View{ending("first", 3), ending("second", 3)}, today)
	if r.Active[0].View.PostingID != "first" {
		t.Fatalf("ties should keep input order")
	}
}

func TestUrgencyFor(t *testing.T) {
	tests := []struct {
		days int
		want Urgency
	}{
		{-10, Overdue},
		{-1, Overdue},
		{0, Urgent},
		{3, Urgent},
		{4, Soon},
		{7, Soon},
		{8, Safe},
		{90, Safe},
	}
	for _, tt := range tests {
		if got := UrgencyFor(tt.days); got != tt.want {
			t.Fatalf("UrgencyFor(%d) = %s, want %s", tt.days, got, tt.want)
		}
	}
}

func TestWithinAndSummary(t *testing.T) {
	r := Rank([]posting.View{
		ending("a", 1),
		ending("b", 5),
		ending("c", 20),
		ending("d", -2),
	}, today)

	w := r.Within(7)
	if len(w.Active) != 2 || len(w.Expired) != 1 {
		t.Fatalf("unexpected window: %d active %d expired", len(w.Active), len(w.Expired))
	}

	s := r.Summary()
	if s[Urgent] != 1 || s[Soon] != 1 || s[Safe] != 1 || s[Overdue] != 1 {
		t.Fatalf("unexpected summary %v", s)
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
