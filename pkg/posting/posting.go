// Package posting defines job postings, bookmarks and the flattened view the
// calendar and deadline list render.
package posting

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"tableflip.dev/jobcal/pkg/status"
	"tableflip.dev/jobcal/pkg/timeutil"
)

// ID is a server-assigned identifier. The service may send ids as JSON
// numbers or strings; both decode to the same value.
type ID string

func (id ID) String() string { return string(id) }

// IsZero reports whether the id is unset.
func (id ID) IsZero() bool { return strings.TrimSpace(string(id)) == "" }

func (id ID) MarshalJSON() ([]byte, error) {
	if id.IsZero() {
		return []byte(`null`), nil
	}
	if isNumeric(string(id)) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// isNumeric reports whether s is a canonical decimal integer, one that
// survives a round trip through ParseInt. "007" is not.
func isNumeric(s string) bool {
	n, err := strconv.ParseInt(s, 10, 64)
	return err == nil && strconv.FormatInt(n, 10) == s
}

// JobPosting is a company's open position with an application window.
type JobPosting struct {
	ID       ID            `json:"id"`
	Title    string        `json:"title"`
	Company  string        `json:"company,omitempty"`
	Start    timeutil.Date `json:"startDate"`
	End      timeutil.Date `json:"endDate"`
	Location string        `json:"location,omitempty"`
	Position string        `json:"position,omitempty"`
	Salary   string        `json:"salary,omitempty"`
	Color    string        `json:"color,omitempty"`
	// Status is a display cache only; readers recompute it for the day they
	// render.
	Status status.Tier `json:"status"`
}

// JobBookmark is one user's saved reference to a posting. Posting is the
// joined record returned by the service, nil when it did not resolve.
type JobBookmark struct {
	ID        ID          `json:"id"`
	UserID    string      `json:"userId"`
	PostingID ID          `json:"jobPostingId"`
	Memo      string      `json:"memo,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	Posting   *JobPosting `json:"jobPosting,omitempty"`
	// Malformed is set when the service sent a posting that could not be
	// decoded. Posting is nil in that case.
	Malformed string `json:"-"`
}
