// Package coordinator runs the bookmark lifecycle against the job service
// and keeps the local repository consistent with it.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tableflip.dev/jobcal/pkg/posting"
	"tableflip.dev/jobcal/pkg/timeutil"
)

// Op names a coordinator operation.
type Op string

const (
	OpAdd    Op = "add"
	OpEdit   Op = "edit"
	OpDelete Op = "delete"
	OpLoad   Op = "load"
)

var (
	// ErrBusy is returned when the same operation is already running.
	ErrBusy = errors.New("coordinator: operation already in flight")
	// ErrLoadInFlight is returned for a Load started while another is
	// outstanding. The second Load is dropped, not queued.
	ErrLoadInFlight = errors.New("coordinator: load already in flight")
	// ErrClosed is returned once Close has been called, including for
	// responses that arrive afterwards.
	ErrClosed = errors.New("coordinator: closed")
	// ErrNotFound is returned when no bookmarked posting has the given id.
	ErrNotFound = errors.New("coordinator: posting not bookmarked")
)

// Service is the remote source of truth.
type Service interface {
	ListBookmarks(ctx context.Context, userID string) ([]posting.JobBookmark, error)
	CreatePosting(ctx context.Context, p posting.JobPosting) (posting.JobPosting, error)
	UpdatePosting(ctx context.Context, p posting.JobPosting) (posting.JobPosting, error)
	CreateBookmark(ctx context.Context, userID string, postingID posting.ID, memo string) (posting.JobBookmark, error)
	DeleteBookmark(ctx context.Context, userID string, postingID posting.ID) error
}

// Cache keeps a local copy of the last good Load. LoadViews returns nil
// views and no error when nothing was saved for the user.
type Cache interface {
	SaveViews(userID string, views []posting.View, at time.Time) error
	LoadViews(userID string) ([]posting.View, time.Time, error)
}

// Config holds the coordinator's collaborators.
type Config struct {
	UserID  string
	Service Service
	// Cache is optional.
	Cache Cache
	Clock timeutil.Clock
	// Logger defaults to a no-op logger.
	Logger *zerolog.Logger
}

// LoadReport summarises a successful Load.
type LoadReport struct {
	Loaded  int
	Skipped []*posting.StaleReferenceError
}

// Coordinator owns the repository and is its only writer.
type Coordinator struct {
	userID  string
	service Service
	cache   Cache
	clock   timeutil.Clock
	log     zerolog.Logger
	repo    *Repository

	mu       sync.Mutex
	inFlight map[Op]bool
	closed   bool
}

// New builds a Coordinator for cfg.UserID.
func New(cfg Config) (*Coordinator, error) {
	if strings.TrimSpace(cfg.UserID) == "" {
		return nil, errors.New("coordinator: user id required")
	}
	if cfg.Service == nil {
		return nil, errors.New("coordinator: service required")
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}
	userID := strings.TrimSpace(cfg.UserID)
	return &Coordinator{
		userID:   userID,
		service:  cfg.Service,
		cache:    cfg.Cache,
		clock:    clock,
		log:      log.With().Str("user", userID).Logger(),
		repo:     newRepository(),
		inFlight: make(map[Op]bool),
	}, nil
}

// UserID is the user whose bookmarks are managed.
func (c *Coordinator) UserID() string {
	return c.userID
}

// Repository exposes the read side.
func (c *Coordinator) Repository() *Repository {
	return c.repo
}

// Snapshot is shorthand for Repository().Snapshot().
func (c *Coordinator) Snapshot() Snapshot {
	return c.repo.Snapshot()
}

// Today is the coordinator's notion of the current date.
func (c *Coordinator) Today() timeutil.Date {
	return timeutil.Today(c.clock)
}

// InFlight reports whether op is running.
func (c *Coordinator) InFlight(op Op) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight[op]
}

// Close marks the coordinator dead. Operations still waiting on the network
// finish without touching the repository.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// Closed reports whether Close has been called.
func (c *Coordinator) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Coordinator) begin(op Op) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.inFlight[op] {
		if op == OpLoad {
			return ErrLoadInFlight
		}
		return ErrBusy
	}
	c.inFlight[op] = true
	return nil
}

func (c *Coordinator) end(op Op) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inFlight, op)
}

// Add validates d, creates the posting, bookmarks it and appends the result.
// Any failure leaves the repository untouched.
func (c *Coordinator) Add(ctx context.Context, d posting.Draft) (posting.View, error) {
	if err := c.begin(OpAdd); err != nil {
		return posting.View{}, err
	}
	defer c.end(OpAdd)

	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return posting.View{}, err
	}

	created, err := c.service.CreatePosting(ctx, d.Posting(""))
	if err != nil {
		c.log.Error().Err(err).Str("op", string(OpAdd)).Str("title", d.Title).Msg("create posting failed")
		return posting.View{}, fmt.Errorf("add: create posting: %w", err)
	}
	if c.Closed() {
		return posting.View{}, ErrClosed
	}

	b, err := c.service.CreateBookmark(ctx, c.userID, created.ID, d.Memo)
	if err != nil {
		// The posting now exists server-side without a bookmark.
		c.log.Error().Err(err).Str("op", string(OpAdd)).Str("posting", created.ID.String()).Msg("create bookmark failed")
		return posting.View{}, fmt.Errorf("add: bookmark posting %s: %w", created.ID, err)
	}
	if c.Closed() {
		return posting.View{}, ErrClosed
	}

	b.Posting = &created
	v, err := posting.Join(b, c.Today())
	if err != nil {
		c.log.Error().Err(err).Str("op", string(OpAdd)).Str("posting", created.ID.String()).Msg("join created bookmark")
		return posting.View{}, fmt.Errorf("add: %w", err)
	}
	c.repo.append(v)
	c.log.Info().Str("op", string(OpAdd)).Str("posting", v.PostingID.String()).Str("bookmark", v.BookmarkID.String()).Msg("added")
	return v, nil
}

// Edit validates d and updates the posting fields of postingID. The memo is a
// bookmark field and is not changed.
func (c *Coordinator) Edit(ctx context.Context, postingID posting.ID, d posting.Draft) (posting.View, error) {
	if err := c.begin(OpEdit); err != nil {
		return posting.View{}, err
	}
	defer c.end(OpEdit)

	current, ok := c.repo.Find(postingID)
	if !ok {
		return posting.View{}, fmt.Errorf("edit %s: %w", postingID, ErrNotFound)
	}
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return posting.View{}, err
	}

	payload := d.Posting(postingID)
	payload.Color = posting.ColorFor(postingID)
	updated, err := c.service.UpdatePosting(ctx, payload)
	if err != nil {
		c.log.Error().Err(err).Str("op", string(OpEdit)).Str("posting", postingID.String()).Msg("update posting failed")
		return posting.View{}, fmt.Errorf("edit %s: %w", postingID, err)
	}
	if c.Closed() {
		return posting.View{}, ErrClosed
	}
	if updated.ID.IsZero() {
		updated.ID = postingID
	}

	v := current.WithPosting(updated, c.Today())
	if !c.repo.replace(v) {
		// Reloaded away while the request was out.
		return posting.View{}, fmt.Errorf("edit %s: %w", postingID, ErrNotFound)
	}
	c.log.Info().Str("op", string(OpEdit)).Str("posting", postingID.String()).Msg("updated")
	return v, nil
}

// Delete removes the current user's bookmark on postingID. The posting itself
// may persist server-side.
func (c *Coordinator) Delete(ctx context.Context, postingID posting.ID) error {
	if err := c.begin(OpDelete); err != nil {
		return err
	}
	defer c.end(OpDelete)

	if postingID.IsZero() {
		return fmt.Errorf("delete: %w", ErrNotFound)
	}
	if err := c.service.DeleteBookmark(ctx, c.userID, postingID); err != nil {
		c.log.Error().Err(err).Str("op", string(OpDelete)).Str("posting", postingID.String()).Msg("delete bookmark failed")
		return fmt.Errorf("delete %s: %w", postingID, err)
	}
	if c.Closed() {
		return ErrClosed
	}
	if !c.repo.remove(postingID) {
		c.log.Debug().Str("op", string(OpDelete)).Str("posting", postingID.String()).Msg("deleted bookmark was not cached")
	}
	c.log.Info().Str("op", string(OpDelete)).Str("posting", postingID.String()).Msg("deleted")
	return nil
}

// Load fetches every bookmark for the user and replaces the collection.
// Bookmarks whose posting does not resolve are skipped. On failure the
// previous collection is kept and flagged stale.
func (c *Coordinator) Load(ctx context.Context) (LoadReport, error) {
	if err := c.begin(OpLoad); err != nil {
		return LoadReport{}, err
	}
	defer c.end(OpLoad)

	bookmarks, err := c.service.ListBookmarks(ctx, c.userID)
	if c.Closed() {
		return LoadReport{}, ErrClosed
	}
	if err != nil {
		c.repo.markStale()
		c.log.Error().Err(err).Str("op", string(OpLoad)).Msg("list bookmarks failed")
		return LoadReport{}, fmt.Errorf("load: %w", err)
	}

	today := c.Today()
	report := LoadReport{}
	views := make([]posting.View, 0, len(bookmarks))
	seen := make(map[posting.ID]bool, len(bookmarks))
	for _, b := range bookmarks {
		v, err := posting.Join(b, today)
		if err != nil {
			var stale *posting.StaleReferenceError
			if errors.As(err, &stale) {
				report.Skipped = append(report.Skipped, stale)
			}
			c.log.Warn().Err(err).Str("op", string(OpLoad)).Str("bookmark", b.ID.String()).Msg("skipping bookmark")
			continue
		}
		if seen[v.PostingID] {
			c.log.Warn().Str("op", string(OpLoad)).Str("posting", v.PostingID.String()).Msg("duplicate bookmark")
			continue
		}
		seen[v.PostingID] = true
		views = append(views, v)
	}
	report.Loaded = len(views)

	at := c.clock()
	c.repo.reset(views, at, false)
	c.log.Info().Str("op", string(OpLoad)).Int("loaded", report.Loaded).Int("skipped", len(report.Skipped)).Msg("loaded")

	if c.cache != nil {
		if err := c.cache.SaveViews(c.userID, views, at); err != nil {
			c.log.Warn().Err(err).Str("op", string(OpLoad)).Msg("saving snapshot cache")
		}
	}
	return report, nil
}

// Restore seeds an unloaded repository from the local cache. The restored
// collection is marked stale until a Load succeeds. It reports whether
// anything was restored.
func (c *Coordinator) Restore() (bool, error) {
	if c.cache == nil {
		return false, nil
	}
	if err := c.begin(OpLoad); err != nil {
		return false, err
	}
	defer c.end(OpLoad)

	if c.repo.Snapshot().Loaded {
		return false, nil
	}
	views, at, err := c.cache.LoadViews(c.userID)
	if err != nil {
		return false, fmt.Errorf("restore: %w", err)
	}
	if views == nil {
		return false, nil
	}
	today := c.Today()
	for i := range views {
		views[i].Status = views[i].StatusAt(today)
	}
	c.repo.reset(views, at, true)
	c.log.Debug().Int("views", len(views)).Time("saved", at).Msg("restored snapshot")
	return true, nil
}
