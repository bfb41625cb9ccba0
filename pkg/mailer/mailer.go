package mailer

import (
	"bytes"
	"context"
	"errors"
	texttemplate "text/template"
)

// Config holds mailer configuration.
type Config struct {
	FallbackSubject string `envconfig:"MAILER_FALLBACK_SUBJECT" default:"Notification"`
	DefaultLayout   string `envconfig:"MAILER_DEFAULT_LAYOUT" default:"base.html"`
}

// Mailer renders templated email and hands it to a Sender for delivery.
type Mailer struct {
	sender   Sender
	renderer *Renderer
	config   Config
}

// New creates a Mailer with the given sender and renderer.
func New(sender Sender, renderer *Renderer, cfg Config) *Mailer {
	return &Mailer{
		sender:   sender,
		renderer: renderer,
		config:   cfg,
	}
}

// SendParams contains parameters for sending a templated email.
type SendParams struct {
	To       string // Single recipient
	Template string // Template path (e.g., "contact.md")
	Data     any    // Template data

	// Optional overrides
	Subject string // Override template subject
	Layout  string // Override default layout
	From    string // Override default sender
	ReplyTo string // Reply-to address
}

// Send renders a template and delivers the email, returning the
// provider-assigned message identifier.
// Subject resolution: params.Subject > template metadata > config fallback.
func (m *Mailer) Send(ctx context.Context, params SendParams) (string, error) {
	if params.To == "" {
		return "", ErrNoRecipient
	}

	layout := params.Layout
	if layout == "" {
		layout = m.config.DefaultLayout
	}

	result, err := m.renderer.Render(layout, params.Template, params.Data)
	if err != nil {
		return "", errors.Join(ErrRenderFailed, err)
	}

	subject := params.Subject
	if subject == "" {
		if fromMeta, ok := result.Metadata["Subject"].(string); ok {
			subject = fromMeta
		} else {
			subject = m.config.FallbackSubject
		}
	}

	// Subject lines support {{.Variable}} templating.
	subject, err = renderSubject(subject, params.Data)
	if err != nil {
		return "", errors.Join(ErrRenderFailed, err)
	}

	email := &Email{
		From:    params.From,
		ReplyTo: params.ReplyTo,
		Subject: subject,
		HTML:    result.HTML,
		Text:    result.Text,
		To:      []string{params.To},
	}

	id, err := m.sender.Send(ctx, email)
	if err != nil {
		return "", errors.Join(ErrSendFailed, err)
	}
	return id, nil
}

func renderSubject(subject string, data any) (string, error) {
	tmpl, err := texttemplate.New("subject").Parse(subject)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
