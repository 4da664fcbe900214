package mail

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Shreekavinmr/masterminds-backend/pkg/config"
)

func TestMessageValidate(t *testing.T) {
	assert.ErrorIs(t, (&Message{Subject: "s", Text: "t"}).Validate(), ErrNoRecipients)
	assert.ErrorIs(t, (&Message{To: []string{"a@b.co"}, Text: "t"}).Validate(), ErrNoSubject)
	assert.ErrorIs(t, (&Message{To: []string{"a@b.co"}, Subject: "s"}).Validate(), ErrNoContent)
	assert.NoError(t, (&Message{To: []string{"a@b.co"}, Subject: "s", HTML: "<p>x</p>"}).Validate())
}

func TestNewSelectsDriver(t *testing.T) {
	m, err := New(config.MailConfig{Driver: DriverConsole}, nil)
	require.NoError(t, err)
	assert.IsType(t, &ConsoleMailer{}, m)

	m, err = New(config.MailConfig{Driver: DriverSMTP, Host: "smtp.example.com"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &SMTPMailer{}, m)

	_, err = New(config.MailConfig{Driver: DriverSMTP}, nil)
	assert.Error(t, err)

	_, err = New(config.MailConfig{Driver: DriverSendGrid}, nil)
	assert.Error(t, err)

	_, err = New(config.MailConfig{Driver: "pigeon"}, nil)
	assert.Error(t, err)
}

func TestSMTPComposeMultipart(t *testing.T) {
	m := NewSMTP(config.MailConfig{Host: "smtp.example.com", From: "noreply@example.com", FromName: "Academy"})
	assert.True(t, m.useTLS)

	raw, err := m.compose(&Message{
		To:      []string{"student@example.com"},
		ReplyTo: "visitor@example.com",
		Subject: "Welcome",
		Text:    "plain body",
		HTML:    "<p>html body</p>",
	}, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)

	body := string(raw)
	assert.Contains(t, body, "From: \"Academy\" <noreply@example.com>\r\n")
	assert.Contains(t, body, "To: student@example.com\r\n")
	assert.Contains(t, body, "Reply-To: visitor@example.com\r\n")
	assert.Contains(t, body, "Content-Type: multipart/alternative; boundary=")
	assert.Contains(t, body, "plain body")
	assert.Contains(t, body, "<p>html body</p>")
	assert.Less(t, strings.Index(body, "plain body"), strings.Index(body, "<p>html body</p>"))
}

func TestSMTPComposeSinglePart(t *testing.T) {
	m := NewSMTP(config.MailConfig{Host: "smtp.example.com", Port: 25, From: "noreply@example.com"})
	assert.False(t, m.useTLS)

	raw, err := m.compose(&Message{To: []string{"a@example.com"}, Subject: "Reset", Text: "link"}, time.Now())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "From: noreply@example.com\r\n")
	assert.Contains(t, string(raw), "Content-Type: text/plain; charset=UTF-8\r\n\r\nlink")
}

func TestSendGridSend(t *testing.T) {
	var payload map[string]interface{}
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.Equal(t, sendgridEndpoint, r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &payload)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewSendGrid("key-123", "Academy", "noreply@example.com")
	s.host = srv.URL

	err := s.Send(context.Background(), &Message{To: []string{"a@example.com"}, Subject: "Hi", Text: "t", HTML: "<b>h</b>"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer key-123", auth)
	assert.Equal(t, "Hi", payload["subject"])
	from := payload["from"].(map[string]interface{})
	assert.Equal(t, "noreply@example.com", from["email"])
	assert.Len(t, payload["content"], 2)
}

func TestSendGridErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer srv.Close()

	s := NewSendGrid("bad", "", "noreply@example.com")
	s.host = srv.URL
	err := s.Send(context.Background(), &Message{To: []string{"a@example.com"}, Subject: "Hi", Text: "t"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestConsoleOmitsBody(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	c := NewConsole(zap.New(core))

	err := c.Send(context.Background(), &Message{To: []string{"a@example.com"}, Subject: "Reset", Text: "secret-link"})
	require.NoError(t, err)
	require.Equal(t, 1, logs.Len())

	entry := logs.All()[0]
	assert.Equal(t, "Reset", entry.ContextMap()["subject"])
	for _, v := range entry.ContextMap() {
		assert.NotEqual(t, "secret-link", v)
	}
}
