package mailer

import "fmt"

// Email is a fully-prepared message ready for delivery.
type Email struct {
	From    string   // Sender identity; empty uses the provider default
	ReplyTo string   // Reply-to address
	Subject string   // Subject line
	HTML    string   // HTML body
	Text    string   // Plain-text alternative
	To      []string // Recipients (at least one required)
}

// Recipient formats a name and email into RFC 5322 address format.
// Returns "Name <email>" if name is provided, otherwise just email.
func Recipient(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}
