package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event is emitted by Watch when a user's snapshot is rewritten or removed.
type Event struct {
	UserID  string
	Removed bool
}

// Watch streams snapshot changes until ctx is cancelled. Bursts of writes
// are coalesced into one event per user. The channel is closed once ctx is
// done or the watcher fails.
func (s *Snapshots) Watch(ctx context.Context) (<-chan Event, error) {
	dir := s.Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure snapshot dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("store: watch %s: %w", dir, err)
	}

	events := make(chan Event, 16)
	go func() {
		defer close(events)
		defer watcher.Close()

		send := func(ev Event) {
			select {
			case events <- ev:
			default:
			}
		}
		throttle := newEventThrottle(100 * time.Millisecond)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				user, found := fromKey(snapshotBucket + "-" + filepath.Base(evt.Name))
				if !found {
					continue
				}
				removed := evt.Op&(fsnotify.Remove|fsnotify.Rename) != 0
				throttle.Enqueue(Event{UserID: user, Removed: removed}, send)
			}
		}
	}()
	return events, nil
}

// WatchUser filters Watch down to userID.
func (s *Snapshots) WatchUser(ctx context.Context, userID string) (<-chan Event, error) {
	all, err := s.Watch(ctx)
	if err != nil {
		return nil, err
	}
	out := make(chan Event, 1)
	go func() {
		defer close(out)
		for ev := range all {
			if ev.UserID != userID {
				continue
			}
			select {
			case out <- ev:
			default:
			}
		}
	}()
	return out, nil
}

// eventThrottle coalesces rapid notifications so a watcher redraws once per
// burst of filesystem activity. The last event per user wins. Once Stop
// returns, send is never called again.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]Event
	delay   time.Duration
	stopped bool
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[string]Event),
	}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.pending[ev.UserID] = ev
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
}

// flush sends while holding mu so Stop cannot return mid-flush. send must
// not block.
func (t *eventThrottle) flush(send func(Event)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	pending := t.pending
	t.pending = make(map[string]Event)
	t.timer = nil

	for _, ev := range pending {
		send(ev)
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.pending = make(map[string]Event)
}
