package posting

import (
	"fmt"
	"strings"
)

// FieldError describes one rejected draft field.
type FieldError struct {
	Field  string
	Reason string
}

func (f FieldError) String() string {
	return fmt.Sprintf("%s %s", f.Field, f.Reason)
}

// ValidationError is returned before any network call when a draft cannot be
// submitted.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "posting: invalid draft"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.String())
	}
	return "posting: invalid draft: " + strings.Join(parts, "; ")
}

// Has reports whether field was rejected.
func (e *ValidationError) Has(field string) bool {
	if e == nil {
		return false
	}
	for _, f := range e.Fields {
		if strings.EqualFold(f.Field, field) {
			return true
		}
	}
	return false
}

// StaleReferenceError marks a bookmark whose posting could not be joined.
type StaleReferenceError struct {
	BookmarkID ID
	PostingID  ID
	Reason     string
}

func (e *StaleReferenceError) Error() string {
	return fmt.Sprintf("posting: bookmark %s references unresolved posting %q: %s", e.BookmarkID, e.PostingID, e.Reason)
}
