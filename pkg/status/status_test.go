package status

import (
	"testing"
	"time"

	"tableflip.dev/jobcal/pkg/timeutil"
)

func TestDerive(t *testing.T) {
	today := timeutil.NewDate(2025, time.January, 15)
	day := func(offset int) timeutil.Date { return today.AddDays(offset) }

	tests := []struct {
		name       string
		start, end timeutil.Date
		want       Tier
	}{
		{name: "ended yesterday", start: day(-10), end: day(-1), want: Expired},
		{name: "ends today", start: day(-10), end: day(0), want: Active},
		{name: "starts today", start: day(0), end: day(5), want: Active},
		{name: "single day today", start: day(0), end: day(0), want: Active},
		{name: "starts tomorrow", start: day(1), end: day(5), want: Upcoming},
		{name: "inside window", start: day(-3), end: day(3), want: Active},
		{name: "inverted expired wins", start: day(2), end: day(-2), want: Expired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Derive(today, tt.start, tt.end); got != tt.want {
				t.Fatalf("Derive = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDeriveIsIdempotent(t *testing.T) {
	today := timeutil.NewDate(2025, time.March, 1)
	for offset := -40; offset <= 40; offset++ {
		start := today.AddDays(offset)
		end := start.AddDays(7)
		first := Derive(today, start, end)
		for i := 0; i < 3; i++ {
			if again := Derive(today, start, end); again != first {
				t.Fatalf("offset %d: %s then %s", offset, first, again)
			}
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, tier := range All() {
		b, err := tier.MarshalText()
		if err != nil {
			t.Fatalf("marshal %v: %v", tier, err)
		}
		var back Tier
		if err := back.UnmarshalText(b); err != nil {
			t.Fatalf("unmarshal %s: %v", b, err)
		}
		if back != tier {
			t.Fatalf("round trip %s -> %s", tier, back)
		}
	}
	if _, err := Parse("archived"); err == nil {
		t.Fatalf("expected error for unknown tier")
	}
}

func TestHintDefaults(t *testing.T) {
	if Tier(42).Hint().Key != "active" {
		t.Fatalf("unknown tier should fall back to active hint")
	}
	if Expired.Hint().Label != "Closed" {
		t.Fatalf("unexpected expired label %q", Expired.Hint().Label)
	}
}
