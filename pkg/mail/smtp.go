package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"github.com/Shreekavinmr/masterminds-backend/pkg/config"
)

// SMTPMailer delivers mail through an SMTP relay, upgrading with STARTTLS when configured.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	fromName string
	useTLS   bool
	timeout  time.Duration
}

// NewSMTP constructs an SMTPMailer. Port defaults to 587.
func NewSMTP(cfg config.MailConfig) *SMTPMailer {
	port := cfg.Port
	if port == 0 {
		port = 587
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &SMTPMailer{
		host:     cfg.Host,
		port:     port,
		username: cfg.Username,
		password: cfg.Password,
		from:     cfg.From,
		fromName: cfg.FromName,
		useTLS:   cfg.UseTLS || port == 587,
		timeout:  timeout,
	}
}

// Send implements Mailer.
func (m *SMTPMailer) Send(ctx context.Context, msg *Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	body, err := m.compose(msg, time.Now())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect smtp server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if m.useTLS {
		if err := client.StartTLS(&tls.Config{ServerName: m.host, MinVersion: tls.VersionTLS12}); err != nil {
			return fmt.Errorf("start tls: %w", err)
		}
	}
	if m.username != "" {
		if err := client.Auth(smtp.PlainAuth("", m.username, m.password, m.host)); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err := client.Mail(m.from); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	for _, rcpt := range msg.To {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("set recipient: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("open data: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close data: %w", err)
	}
	return client.Quit()
}

// compose renders RFC 5322 headers and a text, html or multipart/alternative body.
func (m *SMTPMailer) compose(msg *Message, now time.Time) ([]byte, error) {
	fromName := m.fromName
	if msg.FromName != "" {
		fromName = msg.FromName
	}

	var buf bytes.Buffer
	writeHeader := func(k, v string) {
		buf.WriteString(k + ": " + v + "\r\n")
	}
	writeHeader("From", formatAddress(fromName, m.from))
	writeHeader("To", strings.Join(msg.To, ", "))
	if msg.ReplyTo != "" {
		writeHeader("Reply-To", msg.ReplyTo)
	}
	writeHeader("Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	writeHeader("Date", now.Format(time.RFC1123Z))
	writeHeader("MIME-Version", "1.0")

	switch {
	case msg.HTML != "" && msg.Text != "":
		mw := multipart.NewWriter(&buf)
		writeHeader("Content-Type", "multipart/alternative; boundary="+mw.Boundary())
		buf.WriteString("\r\n")
		for _, part := range []struct{ contentType, body string }{
			{"text/plain; charset=UTF-8", msg.Text},
			{"text/html; charset=UTF-8", msg.HTML},
		} {
			pw, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {part.contentType}})
			if err != nil {
				return nil, fmt.Errorf("create mime part: %w", err)
			}
			if _, err := pw.Write([]byte(part.body)); err != nil {
				return nil, fmt.Errorf("write mime part: %w", err)
			}
		}
		if err := mw.Close(); err != nil {
			return nil, fmt.Errorf("close mime writer: %w", err)
		}
	case msg.HTML != "":
		writeHeader("Content-Type", "text/html; charset=UTF-8")
		buf.WriteString("\r\n" + msg.HTML)
	default:
		writeHeader("Content-Type", "text/plain; charset=UTF-8")
		buf.WriteString("\r\n" + msg.Text)
	}
	return buf.Bytes(), nil
}
