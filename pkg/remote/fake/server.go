// Package fake is an in-memory implementation of the job service API. It
// backs the remote and coordinator tests and `jobcal devserver`.
package fake

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"

	"tableflip.dev/jobcal/pkg/posting"
	"tableflip.dev/jobcal/pkg/remote"
	"tableflip.dev/jobcal/pkg/status"
	"tableflip.dev/jobcal/pkg/timeutil"
)

// Failure describes an injected error. A zero Status answers 200 with
// success:false, anything else answers that status code.
type Failure struct {
	Status  int
	Message string
}

type bookmarkRecord struct {
	id        posting.ID
	userID    string
	postingID posting.ID
	memo      string
	createdAt time.Time
}

// Server holds postings and bookmarks in memory.
type Server struct {
	router *mux.Router
	log    zerolog.Logger
	clock  timeutil.Clock
	token  string

	mu        sync.Mutex
	postings  map[posting.ID]posting.JobPosting
	bookmarks []bookmarkRecord
	failures  map[string][]Failure
	gates     map[string]chan struct{}
	calls     map[string]int
}

// Option configures a Server.
type Option func(*Server)

// WithLogger logs each request to l.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithClock fixes "today" for the status the server reports.
func WithClock(c timeutil.Clock) Option {
	return func(s *Server) { s.clock = c }
}

// WithToken requires "Authorization: Bearer <token>" on every request.
func WithToken(token string) Option {
	return func(s *Server) { s.token = token }
}

// New builds a Server with its routes registered.
func New(opts ...Option) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		log:      zerolog.Nop(),
		clock:    time.Now,
		postings: make(map[posting.ID]posting.JobPosting),
		failures: make(map[string][]Failure),
		gates:    make(map[string]chan struct{}),
		calls:    make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router.Use(s.logging, s.auth)
	s.RegisterRoute("/bookmarks", s.listBookmarks, remote.OpListBookmarks, http.MethodGet)
	s.RegisterRoute("/bookmarks", s.createBookmark, remote.OpCreateBookmark, http.MethodPost)
	s.RegisterRoute("/bookmarks", s.deleteBookmark, remote.OpDeleteBookmark, http.MethodDelete)
	s.RegisterRoute("/job-postings", s.createPosting, remote.OpCreatePosting, http.MethodPost)
	s.RegisterRoute("/job-postings/{id}", s.updatePosting, remote.OpUpdatePosting, http.MethodPut)
	return s
}

// RegisterRoute mounts handler for op at path. Every request counts towards
// Calls(op) and passes through any gate or injected failure for op first.
func (s *Server) RegisterRoute(path string, handler http.HandlerFunc, op string, methods ...string) {
	s.router.HandleFunc(path, s.intercept(op, handler)).Methods(methods...)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// FailNext queues f as the answer to the next request for op.
func (s *Server) FailNext(op string, f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = append(s.failures[op], f)
}

// Hold blocks requests for op until the returned release func is called.
func (s *Server) Hold(op string) (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.gates[op] = ch
	s.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			if s.gates[op] == ch {
				delete(s.gates, op)
			}
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Calls returns how many requests for op reached the server.
func (s *Server) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// TotalCalls is the sum of Calls over every operation.
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

// Seed stores p (assigning an id when unset) and bookmarks it for userID.
func (s *Server) Seed(userID string, p posting.JobPosting, memo string) (posting.JobBookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID.IsZero() {
		id, err := newID()
		if err != nil {
			return posting.JobBookmark{}, err
		}
		p.ID = id
	}
	s.postings[p.ID] = p
	rec, err := s.addBookmarkLocked(userID, p.ID, memo)
	if err != nil {
		return posting.JobBookmark{}, err
	}
	return s.bookmarkLocked(rec), nil
}

// SeedOrphan records a bookmark whose posting does not exist.
func (s *Server) SeedOrphan(userID string, postingID posting.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.addBookmarkLocked(userID, postingID, "")
	return err
}

// RemovePosting deletes a posting but leaves bookmarks pointing at it.
func (s *Server) RemovePosting(id posting.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.postings, id)
}

// Posting returns the stored posting with id.
func (s *Server) Posting(id posting.ID) (posting.JobPosting, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.postings[id]
	return p, ok
}

// Bookmarks returns userID's bookmarks as the list endpoint would.
func (s *Server) Bookmarks(userID string) []posting.JobBookmark {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []posting.JobBookmark
	for _, rec := range s.bookmarks {
		if rec.userID == userID {
			out = append(out, s.bookmarkLocked(rec))
		}
	}
	return out
}

func (s *Server) intercept(op string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[op]++
		gate := s.gates[op]
		var injected *Failure
		if queue := s.failures[op]; len(queue) > 0 {
			f := queue[0]
			s.failures[op] = queue[1:]
			injected = &f
		}
		s.mu.Unlock()

		if gate != nil {
			select {
			case <-gate:
			case <-r.Context().Done():
				return
			}
		}
		if injected != nil {
			code := injected.Status
			if code == 0 {
				code = http.StatusOK
			}
			s.fail(w, code, injected.Message)
			return
		}
		next(w, r)
	}
}

func (s *Server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Str("user", r.Header.Get("X-User-Id")).
			Msg("req")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" && r.Header.Get("Authorization") != "Bearer "+s.token {
			s.fail(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) listBookmarks(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		s.fail(w, http.StatusBadRequest, "userId is required")
		return
	}
	out := s.Bookmarks(userID)
	if out == nil {
		out = []posting.JobBookmark{}
	}
	s.ok(w, http.StatusOK, out)
}

func (s *Server) createBookmark(w http.ResponseWriter, r *http.Request) {
	var in remote.BookmarkInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.fail(w, http.StatusBadRequest, "malformed bookmark")
		return
	}
	if in.UserID.IsZero() || in.PostingID.IsZero() {
		s.fail(w, http.StatusBadRequest, "userId and jobPostingId are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.postings[in.PostingID]; !ok {
		s.fail(w, http.StatusNotFound, "job posting not found")
		return
	}
	for _, rec := range s.bookmarks {
		if rec.userID == in.UserID.String() && rec.postingID == in.PostingID {
			s.fail(w, http.StatusOK, "posting is already bookmarked")
			return
		}
	}
	rec, err := s.addBookmarkLocked(in.UserID.String(), in.PostingID, in.Memo)
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.ok(w, http.StatusCreated, s.bookmarkLocked(rec))
}

func (s *Server) deleteBookmark(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID, postingID := q.Get("userId"), posting.ID(q.Get("jobPostingId"))

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range s.bookmarks {
		if rec.userID == userID && rec.postingID == postingID {
			s.bookmarks = append(s.bookmarks[:i], s.bookmarks[i+1:]...)
			s.ok(w, http.StatusOK, nil)
			return
		}
	}
	s.fail(w, http.StatusNotFound, "bookmark not found")
}

func (s *Server) createPosting(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodePosting(w, r)
	if !ok {
		return
	}
	id, err := newID()
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err.Error())
		return
	}
	p := postingFrom(id, in)

	s.mu.Lock()
	s.postings[id] = p
	s.mu.Unlock()
	s.ok(w, http.StatusCreated, s.withStatus(p))
}

func (s *Server) updatePosting(w http.ResponseWriter, r *http.Request) {
	id := posting.ID(mux.Vars(r)["id"])
	in, ok := s.decodePosting(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	if _, exists := s.postings[id]; !exists {
		s.mu.Unlock()
		s.fail(w, http.StatusNotFound, "job posting not found")
		return
	}
	p := postingFrom(id, in)
	s.postings[id] = p
	s.mu.Unlock()
	s.ok(w, http.StatusOK, s.withStatus(p))
}

func (s *Server) decodePosting(w http.ResponseWriter, r *http.Request) (remote.PostingInput, bool) {
	var in remote.PostingInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.fail(w, http.StatusBadRequest, "malformed job posting")
		return in, false
	}
	if strings.TrimSpace(in.Title) == "" {
		s.fail(w, http.StatusOK, "title is required")
		return in, false
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		s.fail(w, http.StatusOK, "startDate and endDate are required")
		return in, false
	}
	if in.EndDate.Before(in.StartDate) {
		s.fail(w, http.StatusOK, "endDate is before startDate")
		return in, false
	}
	return in, true
}

func postingFrom(id posting.ID, in remote.PostingInput) posting.JobPosting {
	return posting.JobPosting{
		ID:       id,
		Title:    in.Title,
		Company:  in.Company,
		Start:    in.StartDate,
		End:      in.EndDate,
		Location: in.Location,
		Position: in.Position,
		Salary:   in.Salary,
		Color:    in.Color,
	}
}

func (s *Server) withStatus(p posting.JobPosting) posting.JobPosting {
	p.Status = status.Derive(timeutil.Today(s.clock), p.Start, p.End)
	return p
}

func (s *Server) addBookmarkLocked(userID string, postingID posting.ID, memo string) (bookmarkRecord, error) {
	id, err := newID()
	if err != nil {
		return bookmarkRecord{}, err
	}
	rec := bookmarkRecord{
		id:        id,
		userID:    userID,
		postingID: postingID,
		memo:      memo,
		createdAt: s.clock().UTC().Truncate(time.Second),
	}
	s.bookmarks = append(s.bookmarks, rec)
	return rec, nil
}

func (s *Server) bookmarkLocked(rec bookmarkRecord) posting.JobBookmark {
	b := posting.JobBookmark{
		ID:        rec.id,
		UserID:    rec.userID,
		PostingID: rec.postingID,
		Memo:      rec.memo,
		CreatedAt: rec.createdAt,
	}
	if p, ok := s.postings[rec.postingID]; ok {
		p = s.withStatus(p)
		b.Posting = &p
	}
	return b
}

// PostingIDs lists every stored posting id in sorted order.
func (s *Server) PostingIDs() []posting.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]posting.ID, 0, len(s.postings))
	for id := range s.postings {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *Server) ok(w http.ResponseWriter, code int, data interface{}) {
	env := remote.Envelope{Success: true}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			s.fail(w, http.StatusInternalServerError, err.Error())
			return
		}
		env.Data = raw
	}
	s.JSON(w, code, env)
}

func (s *Server) fail(w http.ResponseWriter, code int, message string) {
	s.JSON(w, code, remote.Envelope{Success: false, Message: message})
}

// JSON writes data with the given status code.
func (s *Server) JSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func newID() (posting.ID, error) {
	id, err := ksuid.NewRandom()
	if err != nil {
		return "", err
	}
	return posting.ID(id.String()), nil
}
