package mailer

import "context"

// Sender is the minimal interface an email provider must implement.
type Sender interface {
	// Send delivers an email and returns the provider-assigned message
	// identifier. The Email must have To, Subject, and HTML already set.
	Send(ctx context.Context, email *Email) (string, error)
}
