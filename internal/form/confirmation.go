package form

import "github.com/aanand-mishra/registration-form/internal/types"

// Confirmation is the text of the panel shown after a successful submit.
type Confirmation struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// NewConfirmation fills the fixed message template from data.
func NewConfirmation(data types.RegistrationData) Confirmation {
	msg := "You have successfully registered with the email address " + data.Email +
		" and the company " + data.Company + "."

	if data.DateOfBirth.IsEmpty() {
		msg += " You did not provide a date of birth."
	} else {
		msg += " Your date of birth is " + data.DateOfBirth.String() + "."
	}

	return Confirmation{
		Title:   "Hello " + data.FirstName + data.LastName,
		Message: msg,
	}
}
