package mailer

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSender is a mock implementation of the Sender interface.
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, email *Email) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html": &fstest.MapFile{
			Data: []byte(`<html><body>{{.Content}}</body></html>`),
		},
		"notify.md": &fstest.MapFile{
			Data: []byte(`---
Subject: Hello {{.Name}}
---
Hi **{{.Name}}**!
`),
		},
	}
}

func TestMailer_Send_Success(t *testing.T) {
	t.Parallel()

	mockSender := &MockSender{}
	renderer := NewRenderer(testFS(), "layouts")
	m := New(mockSender, renderer, Config{
		DefaultLayout:   "base.html",
		FallbackSubject: "Notification",
	})

	mockSender.On("Send", mock.Anything, mock.MatchedBy(func(email *Email) bool {
		return email.To[0] == "alice@example.com" &&
			email.Subject == "Hello Alice" &&
			email.ReplyTo == "reply@example.com" &&
			len(email.HTML) > 0 &&
			len(email.Text) > 0
	})).Return("msg-123", nil)

	id, err := m.Send(context.Background(), SendParams{
		To:       "alice@example.com",
		ReplyTo:  "reply@example.com",
		Template: "notify.md",
		Data:     map[string]string{"Name": "Alice"},
	})

	require.NoError(t, err)
	require.Equal(t, "msg-123", id)
	mockSender.AssertExpectations(t)
}

func TestMailer_Send_NoRecipient(t *testing.T) {
	t.Parallel()

	mockSender := &MockSender{}
	m := New(mockSender, NewRenderer(fstest.MapFS{}, "layouts"), Config{})

	_, err := m.Send(context.Background(), SendParams{Template: "notify.md"})

	require.ErrorIs(t, err, ErrNoRecipient)
	mockSender.AssertNotCalled(t, "Send")
}

func TestMailer_Send_RenderFailure(t *testing.T) {
	t.Parallel()

	mockSender := &MockSender{}
	m := New(mockSender, NewRenderer(fstest.MapFS{}, "layouts"), Config{
		DefaultLayout: "missing.html",
	})

	_, err := m.Send(context.Background(), SendParams{
		To:       "user@example.com",
		Template: "nonexistent.md",
	})

	require.ErrorIs(t, err, ErrRenderFailed)
	mockSender.AssertNotCalled(t, "Send")
}

func TestMailer_Send_SenderFailure(t *testing.T) {
	t.Parallel()

	mockSender := &MockSender{}
	m := New(mockSender, NewRenderer(testFS(), "layouts"), Config{
		DefaultLayout: "base.html",
	})

	mockSender.On("Send", mock.Anything, mock.Anything).
		Return("", errors.New("provider unavailable"))

	_, err := m.Send(context.Background(), SendParams{
		To:       "user@example.com",
		Template: "notify.md",
		Data:     map[string]string{"Name": "Bob"},
	})

	require.ErrorIs(t, err, ErrSendFailed)
}

func TestMailer_Send_SubjectFallback(t *testing.T) {
	t.Parallel()

	fs := fstest.MapFS{
		"layouts/base.html": &fstest.MapFile{Data: []byte(`{{.Content}}`)},
		"plain.md":          &fstest.MapFile{Data: []byte(`no frontmatter here`)},
	}

	mockSender := &MockSender{}
	m := New(mockSender, NewRenderer(fs, "layouts"), Config{
		DefaultLayout:   "base.html",
		FallbackSubject: "Notification",
	})

	mockSender.On("Send", mock.Anything, mock.MatchedBy(func(email *Email) bool {
		return email.Subject == "Notification"
	})).Return("id", nil)

	_, err := m.Send(context.Background(), SendParams{
		To:       "user@example.com",
		Template: "plain.md",
	})

	require.NoError(t, err)
	mockSender.AssertExpectations(t)
}

func TestParseTemplate(t *testing.T) {
	t.Parallel()

	t.Run("frontmatter and body", func(t *testing.T) {
		t.Parallel()
		tmpl, err := ParseTemplate([]byte("---\nSubject: Hi\n---\nbody text"))
		require.NoError(t, err)
		require.Equal(t, "Hi", tmpl.Metadata["Subject"])
		require.Equal(t, "body text", tmpl.Body)
	})

	t.Run("no frontmatter", func(t *testing.T) {
		t.Parallel()
		tmpl, err := ParseTemplate([]byte("just a body"))
		require.NoError(t, err)
		require.Empty(t, tmpl.Metadata)
		require.Equal(t, "just a body", tmpl.Body)
	})

	t.Run("unterminated frontmatter", func(t *testing.T) {
		t.Parallel()
		_, err := ParseTemplate([]byte("---\nSubject: Hi\n"))
		require.ErrorIs(t, err, ErrInvalidFrontmatter)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()
		_, err := ParseTemplate([]byte("---\n\t:bad\n---\nbody"))
		require.ErrorIs(t, err, ErrInvalidFrontmatter)
	})
}
