// Package render maps a form snapshot to the HTML page: the editable form
// with inline errors while Editing, the confirmation panel once Submitted.
//
// Templates ship inside the binary with go:embed and are executed by a
// pongo2 template set reading from that embedded filesystem. pongo2
// autoescapes every interpolated value.
package render

import (
	"embed"
	"fmt"
	"io"

	"github.com/flosch/pongo2/v6"

	"github.com/aanand-mishra/registration-form/internal/form"
	"github.com/aanand-mishra/registration-form/internal/types"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

const pageTemplate = "templates/page.tmpl"

// Renderer executes the page template. It is safe for concurrent use.
type Renderer struct {
	page    *pongo2.Template
	options map[string][]string
}

// New loads and compiles the embedded page template.
func New() (*Renderer, error) {
	set := pongo2.NewSet("registration", pongo2.NewFSLoader(templatesFS))

	page, err := set.FromFile(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("render.New: load template %q: %w", pageTemplate, err)
	}

	return &Renderer{
		page: page,
		options: map[string][]string{
			types.FieldDOBMonth: types.Months(),
			types.FieldDOBDay:   types.Days(),
			types.FieldDOBYear:  types.Years(),
		},
	}, nil
}

// Render writes the full page for snap to w. Nothing is written when
// execution fails.
func (r *Renderer) Render(w io.Writer, snap form.Snapshot) error {
	if err := r.page.ExecuteWriter(r.context(snap), w); err != nil {
		return fmt.Errorf("render.Render: %w", err)
	}
	return nil
}

func (r *Renderer) context(snap form.Snapshot) pongo2.Context {
	ctx := pongo2.Context{
		"submitted": snap.State == form.Submitted,
	}

	if snap.Confirmation != nil {
		ctx["confirmation"] = map[string]any{
			"title":   snap.Confirmation.Title,
			"message": snap.Confirmation.Message,
		}
		return ctx
	}

	ctx["rows"] = []map[string]any{
		{
			"class": "row",
			"fields": []map[string]any{
				input(snap, types.FieldFirstName, "First Name", "text"),
				input(snap, types.FieldLastName, "Last Name", "text"),
			},
		},
		{
			"class": "row",
			"fields": []map[string]any{
				input(snap, types.FieldEmail, "E-mail", "email"),
				input(snap, types.FieldCompany, "Company", "text"),
			},
		},
		{
			"class": "row dob",
			"fields": []map[string]any{
				r.selection(snap, types.FieldDOBMonth, "Month", "Date of birth"),
				r.selection(snap, types.FieldDOBDay, "Day", ""),
				r.selection(snap, types.FieldDOBYear, "Year", ""),
			},
		},
	}
	return ctx
}

func input(snap form.Snapshot, name, label, typ string) map[string]any {
	return map[string]any{
		"name":  name,
		"label": label,
		"type":  typ,
		"value": value(snap.Data, name),
		"error": snap.Error(name),
	}
}

func (r *Renderer) selection(snap form.Snapshot, name, placeholder, label string) map[string]any {
	return map[string]any{
		"name":        name,
		"label":       label,
		"placeholder": placeholder,
		"options":     r.options[name],
		"value":       value(snap.Data, name),
		"error":       snap.Error(name),
	}
}

func value(d types.RegistrationData, path string) string {
	switch path {
	case types.FieldFirstName:
		return d.FirstName
	case types.FieldLastName:
		return d.LastName
	case types.FieldEmail:
		return d.Email
	case types.FieldCompany:
		return d.Company
	case types.FieldDOBMonth:
		return d.DateOfBirth.Month
	case types.FieldDOBDay:
		return d.DateOfBirth.Day
	case types.FieldDOBYear:
		return d.DateOfBirth.Year
	default:
		return ""
	}
}
