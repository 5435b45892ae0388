package options

import (
	"testing"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/jobcal/pkg/posting"
	"tableflip.dev/jobcal/pkg/timeutil"
)

var today = timeutil.NewDate(2025, time.December, 5)

func TestParseDateFlag(t *testing.T) {
	tests := map[string]struct {
		in      string
		want    timeutil.Date
		wantErr bool
	}{
		"empty":          {in: "", want: timeutil.Date{}},
		"iso":            {in: "2025-01-28", want: timeutil.NewDate(2025, time.January, 28)},
		"loose":          {in: "2025-1-8", want: timeutil.NewDate(2025, time.January, 8)},
		"short future":   {in: "12/20", want: timeutil.NewDate(2025, time.December, 20)},
		"short rollover": {in: "1/3", want: timeutil.NewDate(2026, time.January, 3)},
		"short today":    {in: "12/5", want: today},
		"garbage":        {in: "next tuesday", wantErr: true},
		"no leap day":    {in: "2/29", wantErr: true},
		"bad iso day":    {in: "2025-02-30", wantErr: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseDateFlag(tc.in, today)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %s", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("ParseDateFlag(%q) = %s, want %s", tc.in, got, tc.want)
			}
		})
	}
}

func TestDraftFromFlagsAndArgs(t *testing.T) {
	po := &PostingOptions{}
	cmd := &cobra.Command{Use: "add"}
	AddPostingArgs(cmd, po, true)
	if err := cmd.Flags().Parse([]string{"--company", "Acme", "--start", "2025-12-08", "--end", "12/19", "-m", "ping Sam"}); err != nil {
		t.Fatal(err)
	}

	d, err := po.Draft([]string{"Staff", "Engineer"}, today)
	if err != nil {
		t.Fatal(err)
	}
	if d.Title != "Staff Engineer" || d.Company != "Acme" || d.Memo != "ping Sam" {
		t.Errorf("unexpected draft %+v", d)
	}
	if !d.End.Equal(timeutil.NewDate(2025, time.December, 19)) {
		t.Errorf("end = %s", d.End)
	}
}

func TestApplyToOnlyChangedFlags(t *testing.T) {
	po := &PostingOptions{}
	cmd := &cobra.Command{Use: "edit"}
	AddPostingArgs(cmd, po, false)
	if err := cmd.Flags().Parse([]string{"--end", "2026-01-10", "--salary", ""}); err != nil {
		t.Fatal(err)
	}

	d := posting.Draft{
		Title:  "Backend",
		Salary: "$100k",
		Start:  timeutil.NewDate(2025, time.December, 1),
		End:    timeutil.NewDate(2025, time.December, 20),
		Memo:   "keep me",
	}
	if err := po.ApplyTo(&d, today, false); err != nil {
		t.Fatal(err)
	}
	if d.Title != "Backend" || d.Memo != "keep me" {
		t.Errorf("unchanged fields were overwritten: %+v", d)
	}
	if d.Salary != "" {
		t.Errorf("salary = %q, want cleared", d.Salary)
	}
	if !d.End.Equal(timeutil.NewDate(2026, time.January, 10)) {
		t.Errorf("end = %s", d.End)
	}
	if !d.Start.Equal(timeutil.NewDate(2025, time.December, 1)) {
		t.Errorf("start = %s", d.Start)
	}
}

func TestParseStartFlag(t *testing.T) {
	jan8 := timeutil.NewDate(2025, time.January, 8)
	tests := map[string]struct {
		in      string
		end     timeutil.Date
		today   timeutil.Date
		want    timeutil.Date
		wantErr bool
	}{
		"already open":    {in: "1/6", end: timeutil.NewDate(2025, time.January, 20), today: jan8, want: timeutil.NewDate(2025, time.January, 6)},
		"across new year": {in: "12/1", end: timeutil.NewDate(2026, time.January, 10), today: today, want: timeutil.NewDate(2025, time.December, 1)},
		"no end":          {in: "1/6", today: jan8, want: timeutil.NewDate(2025, time.January, 6)},
		"full date":       {in: "2024-11-02", end: timeutil.NewDate(2025, time.January, 20), today: jan8, want: timeutil.NewDate(2024, time.November, 2)},
		"no leap day":     {in: "2/29", end: timeutil.NewDate(2025, time.March, 10), today: jan8, wantErr: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseStartFlag(tc.in, tc.end, tc.today)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %s", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("ParseStartFlag(%q) = %s, want %s", tc.in, got, tc.want)
			}
		})
	}
}

func TestDraftShortWindowAlreadyOpen(t *testing.T) {
	po := &PostingOptions{}
	cmd := &cobra.Command{Use: "add"}
	AddPostingArgs(cmd, po, true)
	if err := cmd.Flags().Parse([]string{"--start", "1/6", "--end", "1/20"}); err != nil {
		t.Fatal(err)
	}

	d, err := po.Draft([]string{"Backend"}, timeutil.NewDate(2025, time.January, 8))
	if err != nil {
		t.Fatal(err)
	}
	if !d.Start.Equal(timeutil.NewDate(2025, time.January, 6)) {
		t.Errorf("start = %s, want 2025-01-06", d.Start)
	}
	if !d.End.Equal(timeutil.NewDate(2025, time.January, 20)) {
		t.Errorf("end = %s, want 2025-01-20", d.End)
	}
	if err := d.Validate(); err != nil {
		t.Errorf("window should validate: %v", err)
	}
}

func TestDraftShortWindowRollsTogether(t *testing.T) {
	po := &PostingOptions{}
	cmd := &cobra.Command{Use: "add"}
	AddPostingArgs(cmd, po, true)
	if err := cmd.Flags().Parse([]string{"--start", "1/2", "--end", "1/4"}); err != nil {
		t.Fatal(err)
	}

	d, err := po.Draft([]string{"Backend"}, today)
	if err != nil {
		t.Fatal(err)
	}
	if !d.Start.Equal(timeutil.NewDate(2026, time.January, 2)) || !d.End.Equal(timeutil.NewDate(2026, time.January, 4)) {
		t.Errorf("window = %s..%s, want 2026-01-02..2026-01-04", d.Start, d.End)
	}
}

func TestApplyToEditStartAnchorsOnExistingEnd(t *testing.T) {
	po := &PostingOptions{}
	cmd := &cobra.Command{Use: "edit"}
	AddPostingArgs(cmd, po, false)
	if err := cmd.Flags().Parse([]string{"--start", "11/28"}); err != nil {
		t.Fatal(err)
	}
	d := posting.Draft{
		Title: "Backend",
		Start: timeutil.NewDate(2025, time.December, 1),
		End:   timeutil.NewDate(2025, time.December, 20),
	}
	if err := po.ApplyTo(&d, today, false); err != nil {
		t.Fatal(err)
	}
	if !d.Start.Equal(timeutil.NewDate(2025, time.November, 28)) {
		t.Errorf("start = %s, want 2025-11-28", d.Start)
	}
}

func TestApplyToBadDate(t *testing.T) {
	po := &PostingOptions{}
	cmd := &cobra.Command{Use: "edit"}
	AddPostingArgs(cmd, po, false)
	if err := cmd.Flags().Parse([]string{"--start", "soon"}); err != nil {
		t.Fatal(err)
	}
	d := posting.Draft{}
	if err := po.ApplyTo(&d, today, false); err == nil {
		t.Fatal("expected error")
	}
}

func TestPostingID(t *testing.T) {
	o := &IDOptions{}
	if _, err := o.PostingID(nil); err == nil {
		t.Error("expected error without an id")
	}
	id, err := o.PostingID([]string{" 12 "})
	if err != nil || id != "12" {
		t.Errorf("PostingID(args) = %q, %v", id, err)
	}
	o.ID = "34"
	id, err = o.PostingID([]string{"12"})
	if err != nil || id != "34" {
		t.Errorf("--id should win, got %q, %v", id, err)
	}
}
