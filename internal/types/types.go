// Package types holds the data structures shared across the application.
// Keeping them in one place prevents import cycles: the schema, the form
// controller, the renderer and the HTTP handlers all import types without
// depending on each other.
package types

import "fmt"

// RegistrationData is the value set collected by the registration form.
//
// Struct tags serve two purposes:
//
//  1. json:"..."  — the field path used by the form, the JSON API and
//     validation errors (e.g. "firstName", "dateOfBirth.month").
//
//  2. validate:"..." — rules checked by the go-playground/validator
//     package. The date-of-birth tags are registered by the schema package.
type RegistrationData struct {
	FirstName   string      `json:"firstName"   validate:"min=3"`
	LastName    string      `json:"lastName"    validate:"min=3"`
	Email       string      `json:"email"       validate:"email,email_tld"`
	Company     string      `json:"company"     validate:"min=3"`
	DateOfBirth DateOfBirth `json:"dateOfBirth"`
}

// DateOfBirth is the three-part composite field. Each part holds exactly the
// label of the selected option; an empty string means "not selected".
type DateOfBirth struct {
	Month string `json:"month" validate:"omitempty,dob_month"`
	Day   string `json:"day"   validate:"omitempty,dob_day"`
	Year  string `json:"year"  validate:"omitempty,dob_year"`
}

// IsEmpty reports whether no part of the date has been selected.
func (d DateOfBirth) IsEmpty() bool {
	return d.Month == "" && d.Day == "" && d.Year == ""
}

// IsComplete reports whether every part of the date has been selected.
func (d DateOfBirth) IsComplete() bool {
	return d.Month != "" && d.Day != "" && d.Year != ""
}

// String formats the date as MM/DD/YYYY.
func (d DateOfBirth) String() string {
	return d.Month + "/" + d.Day + "/" + d.Year
}

// Field paths accepted by the form controller.
const (
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldEmail     = "email"
	FieldCompany   = "company"
	FieldDOBMonth  = "dateOfBirth.month"
	FieldDOBDay    = "dateOfBirth.day"
	FieldDOBYear   = "dateOfBirth.year"
)

// FieldPaths lists every settable field in form order.
var FieldPaths = []string{
	FieldFirstName,
	FieldLastName,
	FieldEmail,
	FieldCompany,
	FieldDOBMonth,
	FieldDOBDay,
	FieldDOBYear,
}

// Selectable ranges for the date-of-birth controls.
const (
	FirstYear = 1901
	YearCount = 150
)

// Months returns the month options "01" through "12".
func Months() []string { return padded(1, 12, 2) }

// Days returns the day options "01" through "31".
func Days() []string { return padded(1, 31, 2) }

// Years returns the 150 year options starting at 1901.
func Years() []string { return padded(FirstYear, YearCount, 4) }

func padded(start, count, width int) []string {
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, fmt.Sprintf("%0*d", width, start+i))
	}
	return out
}
