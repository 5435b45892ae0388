package remote

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"tableflip.dev/jobcal/pkg/posting"
	"tableflip.dev/jobcal/pkg/status"
	"tableflip.dev/jobcal/pkg/timeutil"
)

// Envelope is the service's response wrapper.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// PostingInput is the body of POST job-postings and PUT job-postings/{id}.
type PostingInput struct {
	Title     string        `json:"title"`
	StartDate timeutil.Date `json:"startDate"`
	EndDate   timeutil.Date `json:"endDate"`
	Location  string        `json:"location,omitempty"`
	Position  string        `json:"position,omitempty"`
	Salary    string        `json:"salary,omitempty"`
	Color     string        `json:"color,omitempty"`
	Company   string        `json:"company,omitempty"`
}

// InputFor builds the request body for p.
func InputFor(p posting.JobPosting) PostingInput {
	return PostingInput{
		Title:     p.Title,
		StartDate: p.Start,
		EndDate:   p.End,
		Location:  p.Location,
		Position:  p.Position,
		Salary:    p.Salary,
		Color:     p.Color,
		Company:   p.Company,
	}
}

// BookmarkInput is the body of POST bookmarks.
type BookmarkInput struct {
	UserID    posting.ID `json:"userId"`
	PostingID posting.ID `json:"jobPostingId"`
	Memo      string     `json:"memo,omitempty"`
}

type wirePosting struct {
	ID        posting.ID    `json:"id"`
	Title     string        `json:"title"`
	StartDate timeutil.Date `json:"startDate"`
	EndDate   timeutil.Date `json:"endDate"`
	Location  string        `json:"location,omitempty"`
	Position  string        `json:"position,omitempty"`
	Salary    string        `json:"salary,omitempty"`
	Color     string        `json:"color,omitempty"`
	Status    string        `json:"status,omitempty"`
	Company   string        `json:"company,omitempty"`
}

func (w wirePosting) posting() posting.JobPosting {
	p := posting.JobPosting{
		ID:       w.ID,
		Title:    w.Title,
		Company:  w.Company,
		Start:    w.StartDate,
		End:      w.EndDate,
		Location: w.Location,
		Position: w.Position,
		Salary:   w.Salary,
		Color:    w.Color,
	}
	// The wire status is only a hint; callers re-derive it.
	if tier, err := status.Parse(w.Status); err == nil {
		p.Status = tier
	}
	return p
}

type wireBookmark struct {
	ID        posting.ID      `json:"id"`
	UserID    posting.ID      `json:"userId"`
	PostingID posting.ID      `json:"jobPostingId"`
	Posting   json.RawMessage `json:"jobPosting"`
	Memo      string          `json:"memo,omitempty"`
	CreatedAt json.RawMessage `json:"createdAt,omitempty"`
}

func (w wireBookmark) bookmark() posting.JobBookmark {
	b := posting.JobBookmark{
		ID:        w.ID,
		UserID:    string(w.UserID),
		PostingID: w.PostingID,
		Memo:      w.Memo,
		CreatedAt: parseCreatedAt(w.CreatedAt),
	}
	if isNull(w.Posting) {
		return b
	}
	var wp wirePosting
	if err := json.Unmarshal(w.Posting, &wp); err != nil {
		b.Malformed = err.Error()
		if b.PostingID.IsZero() {
			var ref struct {
				ID posting.ID `json:"id"`
			}
			if json.Unmarshal(w.Posting, &ref) == nil {
				b.PostingID = ref.ID
			}
		}
		return b
	}
	p := wp.posting()
	b.Posting = &p
	if b.PostingID.IsZero() {
		b.PostingID = p.ID
	}
	return b
}

// decodeBookmark decodes one element of a bookmark list. Only an element
// that is not a bookmark object at all is an error; a bad posting inside a
// bookmark is carried on the bookmark as Malformed.
func decodeBookmark(raw json.RawMessage) (posting.JobBookmark, error) {
	var w wireBookmark
	if err := json.Unmarshal(raw, &w); err != nil {
		return posting.JobBookmark{Malformed: err.Error()}, err
	}
	return w.bookmark(), nil
}

// rawList is a list response decoded one element at a time. A null list
// is empty.
type rawList []json.RawMessage

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || string(raw) == "null"
}

var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	timeutil.LayoutISO,
}

// parseCreatedAt accepts an ISO string, epoch milliseconds, or a
// [y, m, d, h, min, s] array. Unparseable values yield the zero time rather
// than failing the load.
func parseCreatedAt(raw json.RawMessage) time.Time {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		for _, layout := range createdAtLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
		return time.Time{}
	}
	var millis int64
	if err := json.Unmarshal(raw, &millis); err == nil {
		return time.UnixMilli(millis).UTC()
	}
	var parts []int
	if err := json.Unmarshal(raw, &parts); err == nil && len(parts) >= 3 {
		for len(parts) < 6 {
			parts = append(parts, 0)
		}
		return time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], parts[5], 0, time.UTC)
	}
	return time.Time{}
}
