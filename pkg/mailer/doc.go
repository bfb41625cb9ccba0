// Package mailer composes and delivers outbound notification email.
//
// Templates are markdown files with YAML frontmatter; the renderer
// converts them to HTML inside a layout and keeps the processed markdown
// as the plain-text alternative. Delivery is abstracted behind the
// Sender interface so providers stay swappable; the bundled adapter in
// the resend subpackage uses the Resend API.
//
// Delivery is at-most-once: a failed send is reported, never retried.
package mailer
