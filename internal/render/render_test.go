package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/registration-form/internal/form"
	"github.com/aanand-mishra/registration-form/internal/schema"
	"github.com/aanand-mishra/registration-form/internal/types"
)

func renderSnapshot(t *testing.T, snap form.Snapshot) string {
	t.Helper()
	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, snap))
	return buf.String()
}

func TestRenderEditingForm(t *testing.T) {
	html := renderSnapshot(t, form.Snapshot{State: form.Editing})

	for _, name := range types.FieldPaths {
		assert.Contains(t, html, `name="`+name+`"`, name)
	}
	assert.Contains(t, html, `type="email"`)
	assert.Contains(t, html, `<option value="">Month</option>`)
	assert.Contains(t, html, `<option value="">Day</option>`)
	assert.Contains(t, html, `<option value="">Year</option>`)
	assert.Contains(t, html, `<option value="01">01</option>`)
	assert.Contains(t, html, `<option value="31">31</option>`)
	assert.Contains(t, html, `<option value="1901">1901</option>`)
	assert.Contains(t, html, `<option value="2050">2050</option>`)
	assert.NotContains(t, html, `<option value="2051">`)
	assert.NotContains(t, html, `class="error"`)
	assert.NotContains(t, html, `class="alert"`)
	assert.Contains(t, html, `>Register</button>`)
}

func TestRenderKeepsValuesAndShowsErrors(t *testing.T) {
	snap := form.Snapshot{
		State: form.Editing,
		Data: types.RegistrationData{
			FirstName:   "Al",
			Email:       "ada@example.com",
			DateOfBirth: types.DateOfBirth{Month: "07"},
		},
		Errors: schema.FieldErrors{
			types.FieldFirstName: {Kind: schema.MissingOrTooShort, Message: schema.Message(types.FieldFirstName)},
			types.FieldDOBDay:    {Kind: schema.InvalidDateOfBirth, Message: schema.Message(types.FieldDOBDay)},
		},
	}

	html := renderSnapshot(t, snap)

	assert.Contains(t, html, `value="Al"`)
	assert.Contains(t, html, `value="ada@example.com"`)
	assert.Contains(t, html, `<option value="07" selected>07</option>`)
	assert.Contains(t, html, `<p class="error">First name must be at least 3 characters</p>`)
	assert.Contains(t, html, `<p class="error">Please enter a valid date of birth</p>`)
	assert.Equal(t, 2, strings.Count(html, `class="error"`))
}

func TestRenderEscapesUserInput(t *testing.T) {
	snap := form.Snapshot{
		State: form.Editing,
		Data:  types.RegistrationData{FirstName: `"><script>alert(1)</script>`},
	}

	html := renderSnapshot(t, snap)
	assert.NotContains(t, html, "<script>")
}

func TestRenderConfirmation(t *testing.T) {
	data := types.RegistrationData{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
		Company:     "Analytical",
		DateOfBirth: types.DateOfBirth{Month: "12", Day: "10", Year: "1815"},
	}
	conf := form.NewConfirmation(data)

	html := renderSnapshot(t, form.Snapshot{State: form.Submitted, Data: data, Confirmation: &conf})

	assert.Contains(t, html, "Hello AdaLovelace")
	assert.Contains(t, html, "12/10/1815")
	assert.NotContains(t, html, "<form")
}
