package store

import (
	"context"
	"testing"
	"time"

	"tableflip.dev/jobcal/pkg/posting"
)

func TestWatchEmitsSnapshotChanges(t *testing.T) {
	s, err := Open(&Config{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := s.WatchUser(ctx, "ada")
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow the watcher goroutine to subscribe before writing.
	time.Sleep(50 * time.Millisecond)

	if err := s.SaveViews("someone-else", nil, time.Now()); err != nil {
		t.Fatalf("save other: %v", err)
	}
	if err := s.SaveViews("ada", []posting.View{{PostingID: "1", Title: "One"}}, time.Now()); err != nil {
		t.Fatalf("save: %v", err)
	}

	select {
	case ev, ok := <-ch:
		if !ok {
			t.Fatalf("watch channel closed unexpectedly")
		}
		if ev.UserID != "ada" {
			t.Fatalf("expected event for ada, got %q", ev.UserID)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for snapshot event")
	}
}

func TestWatchClosesOnCancel(t *testing.T) {
	s, err := Open(&Config{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := s.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	cancel()
	select {
	case _, ok := <-ch:
		for ok {
			_, ok = <-ch
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("watch channel not closed after cancel")
	}
}

func TestThrottleCoalescesBurst(t *testing.T) {
	th := newEventThrottle(10 * time.Millisecond)
	defer th.Stop()

	got := make(chan Event, 4)
	send := func(ev Event) { got <- ev }
	th.Enqueue(Event{UserID: "ada"}, send)
	th.Enqueue(Event{UserID: "ada", Removed: true}, send)

	select {
	case ev := <-got:
		if !ev.Removed {
			t.Fatalf("expected the last event to win, got %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for flush")
	}
	select {
	case ev := <-got:
		t.Fatalf("burst produced a second event %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestThrottleSendsNothingAfterStop(t *testing.T) {
	th := newEventThrottle(time.Millisecond)
	events := make(chan Event, 1)
	send := func(ev Event) {
		select {
		case events <- ev:
		default:
		}
	}

	th.Enqueue(Event{UserID: "ada"}, send)
	th.Stop()
	close(events)

	// A timer that fired before Stop must not reach the closed channel.
	th.flush(send)
	th.Enqueue(Event{UserID: "ada"}, send)
	time.Sleep(20 * time.Millisecond)
}
