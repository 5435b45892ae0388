package coordinator

import (
	"sync"
	"time"

	"tableflip.dev/jobcal/pkg/posting"
)

// ChangeType enumerates repository mutations.
type ChangeType string

const (
	// ChangeCreate indicates a view was added.
	ChangeCreate ChangeType = "create"
	// ChangeUpdate indicates a view was replaced.
	ChangeUpdate ChangeType = "update"
	// ChangeDelete indicates a view was removed.
	ChangeDelete ChangeType = "delete"
	// ChangeReload follows the per-view changes of a wholesale replace.
	ChangeReload ChangeType = "reload"
	// ChangeStale indicates the collection is no longer known to be current.
	ChangeStale ChangeType = "stale"
)

// Change is emitted on the repository event channel after every mutation.
type Change struct {
	Action    ChangeType
	PostingID posting.ID
	Current   *posting.View
	Previous  *posting.View
}

// Snapshot is an immutable copy of the repository.
type Snapshot struct {
	Views []posting.View
	// Stale is set when the last Load failed or the views came from the
	// local cache and have not been confirmed by the service.
	Stale    bool
	Loaded   bool
	LoadedAt time.Time
}

// Find returns the view for postingID.
func (s Snapshot) Find(postingID posting.ID) (posting.View, bool) {
	for _, v := range s.Views {
		if v.PostingID == postingID {
			return v, true
		}
	}
	return posting.View{}, false
}

// Repository holds the current user's bookmarked postings. Reads are open to
// anyone; mutation is reserved to the Coordinator that owns it.
type Repository struct {
	mu       sync.RWMutex
	views    []posting.View
	stale    bool
	loaded   bool
	loadedAt time.Time

	eventCh chan Change
}

func newRepository() *Repository {
	return &Repository{eventCh: make(chan Change, 64)}
}

// Events exposes the change channel. Events are dropped when the buffer is
// full.
func (r *Repository) Events() <-chan Change {
	return r.eventCh
}

// Snapshot returns a copy of the current state.
func (r *Repository) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Snapshot{
		Views:    posting.CloneViews(r.views),
		Stale:    r.stale,
		Loaded:   r.loaded,
		LoadedAt: r.loadedAt,
	}
}

// Len is the number of views held.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.views)
}

// Find returns the view for postingID.
func (r *Repository) Find(postingID posting.ID) (posting.View, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := indexOf(r.views, postingID); i >= 0 {
		return r.views[i], true
	}
	return posting.View{}, false
}

func (r *Repository) append(v posting.View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views = append(r.views, v)
	curr := v
	r.emit(Change{Action: ChangeCreate, PostingID: v.PostingID, Current: &curr})
}

func (r *Repository) replace(v posting.View) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := indexOf(r.views, v.PostingID)
	if i < 0 {
		return false
	}
	prev, curr := r.views[i], v
	r.views[i] = v
	r.emit(Change{Action: ChangeUpdate, PostingID: v.PostingID, Current: &curr, Previous: &prev})
	return true
}

func (r *Repository) remove(postingID posting.ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := indexOf(r.views, postingID)
	if i < 0 {
		return false
	}
	prev := r.views[i]
	r.views = append(r.views[:i:i], r.views[i+1:]...)
	r.emit(Change{Action: ChangeDelete, PostingID: postingID, Previous: &prev})
	return true
}

// reset replaces the collection wholesale and emits the difference between
// the old and new state followed by ChangeReload.
func (r *Repository) reset(views []posting.View, at time.Time, stale bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	old := r.views
	r.views = posting.CloneViews(views)
	r.stale = stale
	r.loaded = true
	r.loadedAt = at

	before := make(map[posting.ID]posting.View, len(old))
	for _, v := range old {
		before[v.PostingID] = v
	}
	for _, v := range r.views {
		curr := v
		prev, ok := before[v.PostingID]
		switch {
		case !ok:
			r.emit(Change{Action: ChangeCreate, PostingID: v.PostingID, Current: &curr})
		case prev != v:
			r.emit(Change{Action: ChangeUpdate, PostingID: v.PostingID, Current: &curr, Previous: &prev})
		}
		delete(before, v.PostingID)
	}
	for _, v := range old {
		if _, gone := before[v.PostingID]; gone {
			prev := v
			r.emit(Change{Action: ChangeDelete, PostingID: v.PostingID, Previous: &prev})
		}
	}
	r.emit(Change{Action: ChangeReload})
}

func (r *Repository) markStale() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stale {
		return
	}
	r.stale = true
	r.emit(Change{Action: ChangeStale})
}

func (r *Repository) emit(c Change) {
	select {
	case r.eventCh <- c:
	default:
	}
}

func indexOf(views []posting.View, postingID posting.ID) int {
	for i, v := range views {
		if v.PostingID == postingID {
			return i
		}
	}
	return -1
}
