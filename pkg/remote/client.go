// Package remote talks to the job-posting/bookmark service over JSON/HTTP.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"tableflip.dev/jobcal/pkg/posting"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "jobcal/1.0"
	maxBodyBytes     = 4 << 20
)

// Operation names used in errors and logs.
const (
	OpListBookmarks  = "list bookmarks"
	OpCreatePosting  = "create posting"
	OpUpdatePosting  = "update posting"
	OpCreateBookmark = "create bookmark"
	OpDeleteBookmark = "delete bookmark"
)

// Client is the service client. It never retries; a failed call surfaces
// immediately.
type Client struct {
	base      *url.URL
	http      *http.Client
	token     string
	userID    string
	userAgent string
	limiter   *rate.Limiter
	log       zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithToken attaches a bearer token to every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(token) }
}

// WithUserID sends id as X-User-Id on every request.
func WithUserID(id string) Option {
	return func(c *Client) { c.userID = strings.TrimSpace(id) }
}

// WithRate paces outbound requests to rps with the given burst. A zero or
// negative rps disables pacing.
func WithRate(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// New creates a client rooted at baseURL, e.g. "https://jobs.example.com/api/".
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("remote: base url required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "remote: parse base url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("remote: unsupported scheme %q", u.Scheme)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	c := &Client{
		base:      u,
		http:      &http.Client{Timeout: defaultTimeout},
		userAgent: defaultUserAgent,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// ListBookmarks returns every bookmark for userID with its joined posting.
// A posting that does not decode leaves that bookmark's Posting nil and its
// Malformed reason set; the rest of the list is still returned.
func (c *Client) ListBookmarks(ctx context.Context, userID string) ([]posting.JobBookmark, error) {
	q := url.Values{"userId": {userID}}
	var raw rawList
	if err := c.do(ctx, OpListBookmarks, http.MethodGet, "bookmarks", q, nil, &raw); err != nil {
		return nil, err
	}
	out := make([]posting.JobBookmark, 0, len(raw))
	for i, elem := range raw {
		b, err := decodeBookmark(elem)
		if err != nil {
			c.log.Warn().Err(err).Str("op", OpListBookmarks).Int("index", i).Msg("undecodable bookmark")
		} else if b.Malformed != "" {
			c.log.Warn().Str("op", OpListBookmarks).Str("bookmark", b.ID.String()).Str("reason", b.Malformed).Msg("undecodable posting")
		}
		out = append(out, b)
	}
	return out, nil
}

// CreatePosting creates p and returns it with its server-assigned id.
func (c *Client) CreatePosting(ctx context.Context, p posting.JobPosting) (posting.JobPosting, error) {
	var created wirePosting
	if err := c.do(ctx, OpCreatePosting, http.MethodPost, "job-postings", nil, InputFor(p), &created); err != nil {
		return posting.JobPosting{}, err
	}
	if created.ID.IsZero() {
		return posting.JobPosting{}, &TransportError{Op: OpCreatePosting, Message: "response carried no posting id"}
	}
	return created.posting(), nil
}

// UpdatePosting replaces the fields of posting p.ID.
func (c *Client) UpdatePosting(ctx context.Context, p posting.JobPosting) (posting.JobPosting, error) {
	if p.ID.IsZero() {
		return posting.JobPosting{}, errors.New("remote: update posting: id required")
	}
	var updated wirePosting
	path := "job-postings/" + url.PathEscape(p.ID.String())
	if err := c.do(ctx, OpUpdatePosting, http.MethodPut, path, nil, InputFor(p), &updated); err != nil {
		return posting.JobPosting{}, err
	}
	if updated.ID.IsZero() {
		updated.ID = p.ID
	}
	return updated.posting(), nil
}

// CreateBookmark bookmarks postingID for userID.
func (c *Client) CreateBookmark(ctx context.Context, userID string, postingID posting.ID, memo string) (posting.JobBookmark, error) {
	in := BookmarkInput{UserID: posting.ID(userID), PostingID: postingID, Memo: memo}
	var created wireBookmark
	if err := c.do(ctx, OpCreateBookmark, http.MethodPost, "bookmarks", nil, in, &created); err != nil {
		return posting.JobBookmark{}, err
	}
	b := created.bookmark()
	if b.PostingID.IsZero() {
		b.PostingID = postingID
	}
	if b.UserID == "" {
		b.UserID = userID
	}
	return b, nil
}

// DeleteBookmark removes userID's bookmark on postingID.
func (c *Client) DeleteBookmark(ctx context.Context, userID string, postingID posting.ID) error {
	q := url.Values{"userId": {userID}, "jobPostingId": {postingID.String()}}
	return c.do(ctx, OpDeleteBookmark, http.MethodDelete, "bookmarks", q, nil, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &TransportError{Op: op, Err: errors.Wrap(err, "rate limit wait")}
		}
	}

	u := c.base.ResolveReference(&url.URL{Path: path})
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "remote: %s: encode body", op)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return errors.Wrapf(err, "remote: %s: create request", op)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.userID != "" {
		req.Header.Set("X-User-Id", c.userID)
	}

	c.log.Debug().Str("op", op).Str("method", method).Str("url", u.String()).Msg("remote request")
	started := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: errors.Wrap(err, "execute request")}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Err: errors.Wrap(err, "read response")}
	}

	c.log.Debug().Str("op", op).Int("status", resp.StatusCode).Dur("took", time.Since(started)).Msg("remote response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		te := &TransportError{Op: op, StatusCode: resp.StatusCode}
		var env Envelope
		if json.Unmarshal(raw, &env) == nil {
			te.Message = env.Message
		}
		return te
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		if out == nil {
			return nil
		}
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Message: "empty response body"}
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Err: errors.Wrap(err, "decode envelope")}
	}
	if !env.Success {
		return &ServerRejection{Op: op, Message: env.Message}
	}
	if out == nil {
		return nil
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		if l, ok := out.(*rawList); ok && len(env.Data) > 0 {
			*l = nil
			return nil
		}
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Message: "response carried no data"}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Err: errors.Wrap(err, "decode data")}
	}
	return nil
}
