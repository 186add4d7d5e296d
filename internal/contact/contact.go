// Package contact accepts enquiries from the landing page contact form,
// stores them and forwards them to the Rocket Pool team by email.
package contact

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
)

// SendingMessage is shown on the processing overlay while an enquiry is delivered.
const SendingMessage = "sending to Rocket Pool..."

// ErrInvalidRequest is matched by every ValidationError.
var ErrInvalidRequest = errors.New("contact: invalid request")

// ValidationError carries a message that can be shown to the visitor.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return ErrInvalidRequest.Error() + ": " + e.Message }

func (e *ValidationError) Unwrap() error { return ErrInvalidRequest }

// Request is the contact form as posted by the browser.
type Request struct {
	Name    string `form:"name" json:"name" validate:"required,max=200"`
	Email   string `form:"email" json:"email" validate:"required,email"`
	Message string `form:"message" json:"message" validate:"required,min=2,max=5000"`
	// Account is the dashboard account being viewed, filled in server side.
	Account string `form:"-" json:"-" validate:"omitempty,eth_addr"`
}

// Response is the JSON body returned by POST /send-contact.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Enquiry is a stored contact request.
type Enquiry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Account   string    `json:"account,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Delivered bool      `json:"delivered"`
}

// Validator wraps go-playground/validator and implements echo.Validator.
type Validator struct {
	validator *validator.Validate
}

// NewValidator creates a Validator.
func NewValidator() *Validator {
	return &Validator{validator: validator.New()}
}

// Validate implements the echo.Validator interface.
func (v *Validator) Validate(i any) error {
	return v.validator.Struct(i)
}

// describe turns validator errors into a message fit for the form.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Field() {
	case "Name":
		return "please enter your name"
	case "Email":
		return "please enter a valid email address"
	case "Message":
		if fe.Tag() == "max" {
			return "message is too long"
		}
		return "please enter a message"
	default:
		return fe.Error()
	}
}
