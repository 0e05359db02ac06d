// validation.go - Entity validation and the validation failure outcome

package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"                         // Struct tag validation
	"github.com/go-playground/validator/v10/non-standard/validators" // notblank
)

// Messages returned for persistence-level failures that struct tags cannot see.
const (
	MsgEmailInUse      = "Sorry. This email address is already in use"
	MsgUnknownOwner    = `Please provide an existing "userId"`
	MsgPasswordTooLong = "Please enter a password of at most 72 bytes"
	MsgMalformedInput  = "Request body must be valid JSON"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Whitespace-only text counts as empty
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err) // Only fails for an invalid tag name
	}
	return v
}

// messages maps "<Struct>.<Field>.<tag>" to the text shown to clients.
// A missing course field and a blank one get different messages.
var messages = map[string]string{
	"User.FirstName.required":          "Please enter your first name",
	"User.FirstName.notblank":          "Please enter your first name",
	"User.LastName.required":           "Please enter your last name",
	"User.LastName.notblank":           "Please enter your last name",
	"User.EmailAddress.required":       "Please enter your email address",
	"User.EmailAddress.email":          "Please enter a valid email address",
	"User.Password.required":           "Please enter a password",
	"User.Password.notblank":           "Please enter a password",
	"Course.Title.required":            `Please provide a "course title"`,
	"Course.Title.notblank":            `Please provide a "course"`,
	"Course.Description.required":      `Please provide a "course description"`,
	"Course.Description.notblank":      `Please provide a "course"`,
	"Course.UserID.required":           `Please provide a "userId"`,
	"CourseInput.Title.required":       `Please provide a "course title"`,
	"CourseInput.Title.notblank":       `Please provide a "course"`,
	"CourseInput.Description.required": `Please provide a "course description"`,
	"CourseInput.Description.notblank": `Please provide a "course"`,
}

// ValidationError is a recoverable failure listing one message per violated
// field constraint.
type ValidationError struct {
	Messages []string
}

// NewValidationError returns a ValidationError carrying msgs.
func NewValidationError(msgs ...string) *ValidationError {
	return &ValidationError{Messages: msgs}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// Validate checks entity against its validate tags. It returns nil, a
// *ValidationError, or the validator's own error for a non-struct argument.
func Validate(entity any) error {
	err := validate.Struct(entity)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, message(fe))
	}
	return NewValidationError(msgs...)
}

func message(fe validator.FieldError) string {
	if msg, ok := messages[fe.StructNamespace()+"."+fe.Tag()]; ok {
		return msg
	}
	return fmt.Sprintf("%s failed on the %q rule", fe.Field(), fe.Tag())
}
