package contact

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"log/slog"

	"github.com/mediflow/contact-api/pkg/mailer"
)

//go:embed templates
var templateFiles embed.FS

const notificationTemplate = "contact.md"

// Dispatcher composes the notification email for an accepted submission
// and sends it through the mail relay. Delivery is attempted exactly
// once; there is no retry.
type Dispatcher struct {
	mail *mailer.Mailer
	log  *slog.Logger
	to   string
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatcherLogger sets the logger for dispatch failures.
func WithDispatcherLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if l != nil {
			d.log = l
		}
	}
}

// NewDispatcher creates a Dispatcher sending to the fixed recipient via
// the given provider.
func NewDispatcher(sender mailer.Sender, mailCfg mailer.Config, to string, opts ...DispatcherOption) *Dispatcher {
	templates, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		// Unreachable for a well-formed embed; fail loudly if it ever isn't.
		panic("contact: embedded templates missing: " + err.Error())
	}

	d := &Dispatcher{
		mail: mailer.New(sender, mailer.NewRenderer(templates, "layouts"), mailCfg),
		log:  slog.Default(),
		to:   to,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch sends the notification for a sanitized submission and returns
// the relay-assigned message id. The submitter's address becomes the
// reply-to; the recipient is the operator-configured destination.
func (d *Dispatcher) Dispatch(ctx context.Context, s Sanitized) (string, error) {
	if d.to == "" {
		return "", ErrNotConfigured
	}

	id, err := d.mail.Send(ctx, mailer.SendParams{
		To:       d.to,
		ReplyTo:  s.Email,
		Template: notificationTemplate,
		Data:     s,
	})
	if err != nil {
		d.log.ErrorContext(ctx, "notification dispatch failed",
			slog.String("error", err.Error()))
		return "", errors.Join(ErrDispatchFailed, err)
	}
	return id, nil
}
