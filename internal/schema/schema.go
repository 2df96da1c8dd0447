// Package schema defines the validity rules for RegistrationData and the
// human-readable message attached to each failing field.
//
// Rules live on the struct tags in package types and are checked by
// go-playground/validator. This package registers the custom date-of-birth
// tags, maps validator output to field paths (the json tag names) and turns
// each failure into exactly one FieldError per path.
package schema

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aanand-mishra/registration-form/internal/types"
	"github.com/go-playground/validator/v10"
)

// Kind classifies a field-level validation failure.
type Kind string

const (
	MissingOrTooShort  Kind = "MissingOrTooShort"
	InvalidEmailFormat Kind = "InvalidEmailFormat"
	InvalidDateOfBirth Kind = "InvalidDateOfBirth"
)

// FieldError is the single error reported for one field path.
type FieldError struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// FieldErrors maps a field path to its error. An empty map means valid.
type FieldErrors map[string]FieldError

// Valid reports whether no field failed.
func (fe FieldErrors) Valid() bool { return len(fe) == 0 }

// Messages for each field path, in the wording shown under the inputs.
var messages = map[string]string{
	types.FieldFirstName: "First name must be at least 3 characters",
	types.FieldLastName:  "Last name must be at least 3 characters",
	types.FieldCompany:   "Company name must be at least 3 characters",
	types.FieldEmail:     "Please enter a valid email address",
	types.FieldDOBMonth:  dateMessage,
	types.FieldDOBDay:    dateMessage,
	types.FieldDOBYear:   dateMessage,
}

const dateMessage = "Please enter a valid date of birth"

// Custom validator tags.
const (
	tagEmail    = "email_tld"
	tagMonth    = "dob_month"
	tagDay      = "dob_day"
	tagYear     = "dob_year"
	tagRequired = "dob_required"
	tagCalendar = "dob_calendar"
)

// Schema validates RegistrationData. A Schema is safe for concurrent use;
// validator.Validate caches struct metadata and is designed to be shared.
type Schema struct {
	v *validator.Validate
}

// New builds a Schema with the date-of-birth rules registered.
func New() *Schema {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json tag names so errors carry the form's field paths.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation(tagEmail, validateEmailAddress)
	_ = v.RegisterValidation(tagMonth, rangeValidator(2, 1, 12))
	_ = v.RegisterValidation(tagDay, rangeValidator(2, 1, 31))
	_ = v.RegisterValidation(tagYear, rangeValidator(4, 1000, 9999))
	v.RegisterStructValidation(validateDateOfBirth, types.DateOfBirth{})

	return &Schema{v: v}
}

// Validate checks data against every rule. The returned map is empty when
// data is valid.
func (s *Schema) Validate(data types.RegistrationData) FieldErrors {
	out := FieldErrors{}

	err := s.v.Struct(data)
	if err == nil {
		return out
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// InvalidValidationError only happens for non-struct input.
		panic(err)
	}

	for _, e := range verrs {
		path := fieldPath(e.Namespace())
		if _, seen := out[path]; seen {
			continue
		}
		out[path] = FieldError{
			Kind:    kindFor(path),
			Message: messages[path],
		}
	}
	return out
}

// ValidateField returns the error for a single field path, if any.
func (s *Schema) ValidateField(data types.RegistrationData, path string) (FieldError, bool) {
	fe, ok := s.Validate(data)[path]
	return fe, ok
}

// Message returns the error text used for path.
func Message(path string) string {
	return messages[path]
}

// fieldPath strips the root struct name from a validator namespace:
// "RegistrationData.dateOfBirth.day" -> "dateOfBirth.day".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func kindFor(path string) Kind {
	switch path {
	case types.FieldEmail:
		return InvalidEmailFormat
	case types.FieldDOBMonth, types.FieldDOBDay, types.FieldDOBYear:
		return InvalidDateOfBirth
	default:
		return MissingOrTooShort
	}
}

// emailPattern narrows the validator's RFC 5322 email check to plain
// dot-atom addresses on a domain whose last label has two or more letters.
var emailPattern = regexp.MustCompile(`^[A-Za-z0-9_'+\-.]*[A-Za-z0-9_+\-]@([A-Za-z0-9][A-Za-z0-9\-]*\.)+[A-Za-z]{2,}$`)

func validateEmailAddress(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if strings.HasPrefix(s, ".") || strings.Contains(s, "..") {
		return false
	}
	return emailPattern.MatchString(s)
}

// rangeValidator accepts a numeral of exactly width digits whose value lies
// in [lo, hi]. Signs, spaces and other padding are rejected.
func rangeValidator(width, lo, hi int) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if len(s) != width {
			return false
		}
		for i := 0; i < len(s); i++ {
			if s[i] < '0' || s[i] > '9' {
				return false
			}
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return false
		}
		return n >= lo && n <= hi
	}
}

// validateDateOfBirth enforces all-or-nothing selection and calendar
// validity once all three parts are present and individually well formed.
func validateDateOfBirth(sl validator.StructLevel) {
	dob := sl.Current().Interface().(types.DateOfBirth)

	if dob.IsEmpty() {
		return
	}

	if !dob.IsComplete() {
		if dob.Month == "" {
			sl.ReportError(dob.Month, "month", "Month", tagRequired, "")
		}
		if dob.Day == "" {
			sl.ReportError(dob.Day, "day", "Day", tagRequired, "")
		}
		if dob.Year == "" {
			sl.ReportError(dob.Year, "year", "Year", tagRequired, "")
		}
		return
	}

	month, errM := strconv.Atoi(dob.Month)
	day, errD := strconv.Atoi(dob.Day)
	year, errY := strconv.Atoi(dob.Year)
	if errM != nil || errD != nil || errY != nil {
		// The per-field tags report malformed parts.
		return
	}
	if month < 1 || month > 12 || day < 1 {
		return
	}

	if day > daysIn(time.Month(month), year) {
		sl.ReportError(dob.Day, "day", "Day", tagCalendar, "")
	}
}

// daysIn returns the number of days in month m of year y, leap years
// included.
func daysIn(m time.Month, y int) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
