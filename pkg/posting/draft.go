package posting

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"tableflip.dev/jobcal/pkg/timeutil"
)

// Draft is the private edit buffer behind ADD and EDIT. Nothing else reads
// it until it is submitted.
type Draft struct {
	Title    string        `json:"title" validate:"required,max=200"`
	Company  string        `json:"company,omitempty" validate:"max=200"`
	Start    timeutil.Date `json:"startDate" validate:"required"`
	End      timeutil.Date `json:"endDate" validate:"required"`
	Location string        `json:"location,omitempty" validate:"max=200"`
	Position string        `json:"position,omitempty" validate:"max=200"`
	Salary   string        `json:"salary,omitempty" validate:"max=100"`
	Memo     string        `json:"memo,omitempty" validate:"max=2000"`
}

// DraftFrom seeds an edit buffer from an existing view.
func DraftFrom(v View) Draft {
	return Draft{
		Title:    v.Title,
		Company:  v.Company,
		Start:    v.Start,
		End:      v.End,
		Location: v.Location,
		Position: v.Position,
		Salary:   v.Salary,
		Memo:     v.Memo,
	}
}

// Normalize trims surrounding whitespace from every text field.
func (d Draft) Normalize() Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Company = strings.TrimSpace(d.Company)
	d.Location = strings.TrimSpace(d.Location)
	d.Position = strings.TrimSpace(d.Position)
	d.Salary = strings.TrimSpace(d.Salary)
	d.Memo = strings.TrimSpace(d.Memo)
	return d
}

// Posting converts the draft into a posting payload for id.
func (d Draft) Posting(id ID) JobPosting {
	return JobPosting{
		ID:       id,
		Title:    d.Title,
		Company:  d.Company,
		Start:    d.Start,
		End:      d.End,
		Location: d.Location,
		Position: d.Position,
		Salary:   d.Salary,
	}
}

// Validate checks the draft: title non-empty, both dates set, start ≤ end.
// The returned error is always a *ValidationError.
func (d Draft) Validate() error {
	err := draftValidator().Struct(d.Normalize())
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Fields: []FieldError{{Field: "draft", Reason: err.Error()}}}
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:  fe.Field(),
			Reason: reasonFor(fe),
		})
	}
	return out
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "is longer than " + fe.Param() + " characters"
	case "startbeforeend":
		return "must not be before startDate"
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func draftValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		// Dates validate as their wire string so `required` sees "" for unset.
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(timeutil.Date); ok {
				return d.String()
			}
			return nil
		}, timeutil.Date{})
		v.RegisterStructValidation(func(sl validator.StructLevel) {
			d := sl.Current().Interface().(Draft)
			if d.Start.IsZero() || d.End.IsZero() {
				return
			}
			if d.End.Before(d.Start) {
				sl.ReportError(d.End, "endDate", "End", "startbeforeend", "")
			}
		}, Draft{})
		validate = v
	})
	return validate
}
