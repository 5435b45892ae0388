package posting

import (
	"time"

	"tableflip.dev/jobcal/pkg/status"
	"tableflip.dev/jobcal/pkg/timeutil"
)

// View is a posting as seen through the current user's bookmark. It is the
// unit the calendar, interval index and deadline ranker operate on.
type View struct {
	BookmarkID ID        `json:"bookmarkId"`
	UserID     string    `json:"userId"`
	Memo       string    `json:"memo,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`

	PostingID ID            `json:"postingId"`
	Title     string        `json:"title"`
	Company   string        `json:"company,omitempty"`
	Start     timeutil.Date `json:"startDate"`
	End       timeutil.Date `json:"endDate"`
	Location  string        `json:"location,omitempty"`
	Position  string        `json:"position,omitempty"`
	Salary    string        `json:"salary,omitempty"`
	Color     string        `json:"color"`
	Status    status.Tier   `json:"status"`
}

// StatusAt recomputes the tier for today. Readers should prefer this over
// the cached Status field.
func (v View) StatusAt(today timeutil.Date) status.Tier {
	return status.Derive(today, v.Start, v.End)
}

// Contains reports whether day falls inside [Start, End], inclusive.
func (v View) Contains(day timeutil.Date) bool {
	return !day.Before(v.Start) && !day.After(v.End)
}

// DaysRemaining is the whole number of days from today until End.
func (v View) DaysRemaining(today timeutil.Date) int {
	return today.DaysUntil(v.End)
}

// Posting projects the posting fields back out of the view.
func (v View) Posting() JobPosting {
	return JobPosting{
		ID:       v.PostingID,
		Title:    v.Title,
		Company:  v.Company,
		Start:    v.Start,
		End:      v.End,
		Location: v.Location,
		Position: v.Position,
		Salary:   v.Salary,
		Color:    v.Color,
		Status:   v.Status,
	}
}

// WithPosting returns a copy of v carrying p's fields, refreshing the cached
// status for today and the palette color for p's id.
func (v View) WithPosting(p JobPosting, today timeutil.Date) View {
	v.PostingID = p.ID
	v.Title = p.Title
	v.Company = p.Company
	v.Start = p.Start
	v.End = p.End
	v.Location = p.Location
	v.Position = p.Position
	v.Salary = p.Salary
	v.Color = ColorFor(p.ID)
	v.Status = status.Derive(today, p.Start, p.End)
	return v
}

// Join flattens a bookmark and its posting into a View. It fails with a
// StaleReferenceError when the posting is missing or unusable.
func Join(b JobBookmark, today timeutil.Date) (View, error) {
	p := b.Posting
	switch {
	case b.Malformed != "":
		return View{}, &StaleReferenceError{BookmarkID: b.ID, PostingID: b.PostingID, Reason: "posting malformed: " + b.Malformed}
	case p == nil:
		return View{}, &StaleReferenceError{BookmarkID: b.ID, PostingID: b.PostingID, Reason: "posting missing"}
	case p.ID.IsZero():
		return View{}, &StaleReferenceError{BookmarkID: b.ID, PostingID: b.PostingID, Reason: "posting has no id"}
	case !b.PostingID.IsZero() && b.PostingID != p.ID:
		return View{}, &StaleReferenceError{BookmarkID: b.ID, PostingID: b.PostingID, Reason: "posting id mismatch"}
	case p.Start.IsZero() || p.End.IsZero():
		return View{}, &StaleReferenceError{BookmarkID: b.ID, PostingID: p.ID, Reason: "posting has no application window"}
	case p.End.Before(p.Start):
		return View{}, &StaleReferenceError{BookmarkID: b.ID, PostingID: p.ID, Reason: "posting window is inverted"}
	}
	v := View{
		BookmarkID: b.ID,
		UserID:     b.UserID,
		Memo:       b.Memo,
		CreatedAt:  b.CreatedAt,
	}
	return v.WithPosting(*p, today), nil
}

// CloneViews returns a shallow copy of views. View holds no reference types
// so a slice copy is a deep copy.
func CloneViews(views []View) []View {
	if len(views) == 0 {
		return nil
	}
	return append([]View(nil), views...)
}
