// Package app wires configuration, the job service client, the coordinator
// and the snapshot cache together so every command shares one setup path.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tableflip.dev/jobcal/pkg/coordinator"
	"tableflip.dev/jobcal/pkg/posting"
	"tableflip.dev/jobcal/pkg/remote"
	"tableflip.dev/jobcal/pkg/store"
	"tableflip.dev/jobcal/pkg/timeutil"
)

// UserAgent is sent with every request to the job service.
var UserAgent = "jobcal"

// ErrNoData is returned by Refresh when the service could not be reached and
// there is no cached copy to fall back on.
var ErrNoData = errors.New("app: no postings available")

// Options tunes New. The zero value is usable.
type Options struct {
	Clock      timeutil.Clock
	Logger     *zerolog.Logger
	HTTPClient *http.Client
}

// App is a configured jobcal session for one user.
type App struct {
	Config      *store.Config
	Coordinator *coordinator.Coordinator
	Snapshots   *store.Snapshots
	Client      *remote.Client
	Log         zerolog.Logger

	done      chan struct{}
	closeOnce sync.Once
}

// New validates cfg and builds the client, snapshot cache and coordinator.
func New(cfg *store.Config, opts Options) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: config required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	clientOpts := []remote.Option{
		remote.WithToken(cfg.Token),
		remote.WithUserID(cfg.User),
		remote.WithRate(cfg.Rate, 1),
		remote.WithLogger(log),
		remote.WithUserAgent(UserAgent),
	}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, remote.WithHTTPClient(opts.HTTPClient))
	}
	if cfg.Timeout > 0 {
		clientOpts = append(clientOpts, remote.WithTimeout(cfg.Timeout))
	}
	client, err := remote.New(cfg.Server, clientOpts...)
	if err != nil {
		return nil, err
	}

	snaps, err := store.Open(cfg)
	if err != nil {
		return nil, err
	}

	coord, err := coordinator.New(coordinator.Config{
		UserID:  cfg.User,
		Service: client,
		Cache:   snaps,
		Clock:   opts.Clock,
		Logger:  &log,
	})
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:      cfg,
		Coordinator: coord,
		Snapshots:   snaps,
		Client:      client,
		Log:         log,
		done:        make(chan struct{}),
	}
	go a.logChanges(coord.Repository().Events())
	return a, nil
}

// logChanges records every repository mutation at debug level until Close.
func (a *App) logChanges(events <-chan coordinator.Change) {
	for {
		select {
		case <-a.done:
			return
		case ch := <-events:
			e := a.Log.Debug().Str("change", string(ch.Action))
			if !ch.PostingID.IsZero() {
				e = e.Str("posting", ch.PostingID.String())
			}
			if ch.Current != nil {
				e = e.Str("title", ch.Current.Title).Str("status", ch.Current.Status.String())
			}
			e.Msg("repository changed")
		}
	}
}

// Refreshed describes how current the data behind a command is.
type Refreshed struct {
	Report coordinator.LoadReport
	// Err is the load failure when the views came from the cache.
	Err      error
	Stale    bool
	LoadedAt time.Time
}

// Refresh seeds the repository from the cache and then loads from the
// service. A failed load is only an error when nothing was cached.
func (a *App) Refresh(ctx context.Context) (Refreshed, error) {
	if _, err := a.Coordinator.Restore(); err != nil {
		a.Log.Warn().Err(err).Msg("ignoring unreadable snapshot")
	}
	report, err := a.Coordinator.Load(ctx)
	snap := a.Coordinator.Snapshot()
	out := Refreshed{Report: report, Stale: snap.Stale, LoadedAt: snap.LoadedAt}
	if err != nil {
		if !snap.Loaded {
			return out, fmt.Errorf("%w: %v", ErrNoData, err)
		}
		out.Err = err
	}
	return out, nil
}

// Views is the current collection.
func (a *App) Views() []posting.View {
	return a.Coordinator.Snapshot().Views
}

// Today is the session's notion of the current date.
func (a *App) Today() timeutil.Date {
	return a.Coordinator.Today()
}

// Save writes the current collection to the snapshot cache. Stale
// collections are left alone so a cached copy is never overwritten with
// itself.
func (a *App) Save() error {
	snap := a.Coordinator.Snapshot()
	if snap.Stale || !snap.Loaded {
		return nil
	}
	return a.Snapshots.SaveViews(a.Coordinator.UserID(), snap.Views, snap.LoadedAt)
}

// Watch reports when another process rewrites this user's snapshot.
func (a *App) Watch(ctx context.Context) (<-chan store.Event, error) {
	return a.Snapshots.WatchUser(ctx, a.Coordinator.UserID())
}

// Reload re-reads the cached snapshot, typically after Watch reports that
// another process rewrote it. The service is not contacted.
func (a *App) Reload() ([]posting.View, error) {
	views, _, err := a.Snapshots.LoadViews(a.Coordinator.UserID())
	if err != nil {
		return nil, err
	}
	return views, nil
}

// Close stops the coordinator; responses still in flight are discarded.
func (a *App) Close() {
	a.Coordinator.Close()
	a.closeOnce.Do(func() { close(a.done) })
}
