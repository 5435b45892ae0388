package coordinator

import (
	"testing"
	"time"

	"tableflip.dev/jobcal/pkg/posting"
)

func drain(ch <-chan Change) []Change {
	var out []Change
	for {
		select {
		case c := <-ch:
			out = append(out, c)
		default:
			return out
		}
	}
}

func TestResetEmitsDiff(t *testing.T) {
	r := newRepository()
	a := posting.View{PostingID: "a", Title: "A"}
	b := posting.View{PostingID: "b", Title: "B"}
	c := posting.View{PostingID: "c", Title: "C"}
	r.reset([]posting.View{a, b}, time.Unix(0, 0), false)
	drain(r.Events())

	b2 := b
	b2.Title = "B2"
	r.reset([]posting.View{b2, c}, time.Unix(10, 0), false)

	got := drain(r.Events())
	want := []struct {
		action ChangeType
		id     posting.ID
	}{
		{ChangeUpdate, "b"},
		{ChangeCreate, "c"},
		{ChangeDelete, "a"},
		{ChangeReload, ""},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d events, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Action != w.action || got[i].PostingID != w.id {
			t.Fatalf("event %d = %s %s, want %s %s", i, got[i].Action, got[i].PostingID, w.action, w.id)
		}
	}
	if got[0].Previous == nil || got[0].Previous.Title != "B" {
		t.Fatalf("update should carry previous view")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	r := newRepository()
	r.append(posting.View{PostingID: "a", Title: "A"})
	snap := r.Snapshot()
	snap.Views[0].Title = "mutated"

	if v, _ := r.Find("a"); v.Title != "A" {
		t.Fatalf("snapshot shares storage with repository")
	}
}

func TestRemoveAndReplaceMissing(t *testing.T) {
	r := newRepository()
	r.append(posting.View{PostingID: "a"})
	r.append(posting.View{PostingID: "b"})
	r.append(posting.View{PostingID: "c"})

	if r.replace(posting.View{PostingID: "zz"}) {
		t.Fatalf("replace of unknown id reported success")
	}
	if !r.remove("b") || r.remove("b") {
		t.Fatalf("remove should succeed exactly once")
	}
	snap := r.Snapshot()
	if len(snap.Views) != 2 || snap.Views[0].PostingID != "a" || snap.Views[1].PostingID != "c" {
		t.Fatalf("unexpected views after remove: %+v", snap.Views)
	}
}

func TestMarkStaleOnce(t *testing.T) {
	r := newRepository()
	r.markStale()
	r.markStale()
	if got := drain(r.Events()); len(got) != 1 || got[0].Action != ChangeStale {
		t.Fatalf("expected a single stale event, got %+v", got)
	}
	if !r.Snapshot().Stale {
		t.Fatalf("snapshot not stale")
	}
}
