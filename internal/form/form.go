// Package form holds the Form Controller: the current field values, the
// validation errors derived from them and the Editing/Submitted state.
//
// A Controller is synchronous and not safe for concurrent use. Callers that
// share one across goroutines (the HTTP session store does) must serialise
// access themselves.
package form

import (
	"errors"
	"fmt"

	"github.com/aanand-mishra/registration-form/internal/schema"
	"github.com/aanand-mishra/registration-form/internal/types"
)

// State is the controller's position in the Editing -> Submitted machine.
type State int

const (
	Editing State = iota
	Submitted
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Submitted:
		return "submitted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// MarshalText lets State appear by name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

var (
	// ErrUnknownField is returned by SetField for a path the form does not have.
	ErrUnknownField = errors.New("unknown field")

	// ErrSubmitted is returned by SetField and Submit once the form has been
	// submitted. There is no way back to Editing.
	ErrSubmitted = errors.New("form already submitted")
)

// Controller tracks one registration form session.
type Controller struct {
	schema    *schema.Schema
	data      types.RegistrationData
	errs      schema.FieldErrors
	state     State
	attempted bool
}

// New returns an empty controller in the Editing state.
func New(s *schema.Schema) *Controller {
	return &Controller{
		schema: s,
		errs:   schema.FieldErrors{},
	}
}

// SetField stores value at path without transformation.
//
// Before the first submit attempt no validation runs. After a failed submit
// only the edited field (all three parts, for the date of birth) is
// re-validated, so its inline error clears or appears as the user types;
// other fields keep their errors until the next submit.
func (c *Controller) SetField(path, value string) error {
	if c.state == Submitted {
		return ErrSubmitted
	}

	ptr := c.field(path)
	if ptr == nil {
		return fmt.Errorf("%w: %q", ErrUnknownField, path)
	}
	*ptr = value

	if c.attempted {
		c.revalidate(revalidationPaths(path))
	}
	return nil
}

// revalidate refreshes the stored errors for paths only.
func (c *Controller) revalidate(paths []string) {
	errs := c.schema.Validate(c.data)
	for _, p := range paths {
		if fe, bad := errs[p]; bad {
			c.errs[p] = fe
		} else {
			delete(c.errs, p)
		}
	}
}

// revalidationPaths returns the paths whose errors depend on path. The date
// parts are checked together, so a change to any of them can move or clear
// an error reported on another.
func revalidationPaths(path string) []string {
	switch path {
	case types.FieldDOBMonth, types.FieldDOBDay, types.FieldDOBYear:
		return []string{types.FieldDOBMonth, types.FieldDOBDay, types.FieldDOBYear}
	default:
		return []string{path}
	}
}

// Submit validates the current values. On success the controller moves to
// Submitted and nil is returned; otherwise the field errors are stored and
// returned and the controller stays in Editing.
func (c *Controller) Submit() (schema.FieldErrors, error) {
	if c.state == Submitted {
		return nil, ErrSubmitted
	}
	c.attempted = true

	errs := c.schema.Validate(c.data)
	c.errs = errs
	if !errs.Valid() {
		return errs, nil
	}

	c.state = Submitted
	return nil, nil
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Data returns a copy of the current values.
func (c *Controller) Data() types.RegistrationData { return c.data }

// Errors returns a copy of the current field errors.
func (c *Controller) Errors() schema.FieldErrors {
	out := make(schema.FieldErrors, len(c.errs))
	for k, v := range c.errs {
		out[k] = v
	}
	return out
}

// Confirmation returns the confirmation panel text. ok is false until the
// form has been submitted.
func (c *Controller) Confirmation() (Confirmation, bool) {
	if c.state != Submitted {
		return Confirmation{}, false
	}
	return NewConfirmation(c.data), true
}

// Snapshot captures everything the renderer and the JSON API need.
func (c *Controller) Snapshot() Snapshot {
	snap := Snapshot{
		State:  c.state,
		Data:   c.data,
		Errors: c.Errors(),
	}
	if conf, ok := c.Confirmation(); ok {
		snap.Confirmation = &conf
	}
	return snap
}

func (c *Controller) field(path string) *string {
	switch path {
	case types.FieldFirstName:
		return &c.data.FirstName
	case types.FieldLastName:
		return &c.data.LastName
	case types.FieldEmail:
		return &c.data.Email
	case types.FieldCompany:
		return &c.data.Company
	case types.FieldDOBMonth:
		return &c.data.DateOfBirth.Month
	case types.FieldDOBDay:
		return &c.data.DateOfBirth.Day
	case types.FieldDOBYear:
		return &c.data.DateOfBirth.Year
	default:
		return nil
	}
}

// Snapshot is a point-in-time copy of a controller.
type Snapshot struct {
	State        State                  `json:"state"`
	Data         types.RegistrationData `json:"data"`
	Errors       schema.FieldErrors     `json:"errors"`
	Confirmation *Confirmation          `json:"confirmation,omitempty"`
}

// Error returns the message for path, or "" when the field is valid.
func (s Snapshot) Error(path string) string {
	return s.Errors[path].Message
}
