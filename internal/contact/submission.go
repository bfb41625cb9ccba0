package contact

import (
	"github.com/mediflow/contact-api/pkg/sanitizer"
)

// Submission is the raw inbound form body. It lives for the duration of
// one pipeline run and is never persisted.
type Submission struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Organization string `json:"organization"`
	Phone        string `json:"phone"`
	Message      string `json:"message"`
	CaptchaToken string `json:"captchaToken"`
}

// Sanitized is the validated, injection-safe projection of a Submission.
// Every field has been through the sanitizer before validation runs, so
// no raw user string ever reaches the dispatcher.
//
// Over-length input is rejected, not truncated; one policy applied
// uniformly across all fields.
type Sanitized struct {
	Name         string `validate:"required,max=100"`
	Email        string `validate:"required,email,max=100"`
	Organization string `validate:"omitempty,max=100"`
	Phone        string `validate:"omitempty,max=20"`
	Message      string `validate:"required,max=2000"`
}

// Sanitize neutralizes every free-text field independently.
func (s Submission) Sanitize() Sanitized {
	return Sanitized{
		Name:         sanitizer.Sanitize(s.Name),
		Email:        sanitizer.Sanitize(s.Email),
		Organization: sanitizer.Sanitize(s.Organization),
		Phone:        sanitizer.Sanitize(s.Phone),
		Message:      sanitizer.Sanitize(s.Message),
	}
}
