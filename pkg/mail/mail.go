// Package mail delivers transactional email through SMTP, SendGrid or the log.
package mail

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"go.uber.org/zap"

	"github.com/Shreekavinmr/masterminds-backend/pkg/config"
)

const (
	DriverSMTP     = "smtp"
	DriverSendGrid = "sendgrid"
	DriverConsole  = "console"
)

var (
	ErrNoRecipients = errors.New("mail: at least one recipient is required")
	ErrNoSubject    = errors.New("mail: subject is required")
	ErrNoContent    = errors.New("mail: text or html content is required")
)

// Message is a single outbound email.
type Message struct {
	FromName string
	To       []string
	ReplyTo  string
	Subject  string
	Text     string
	HTML     string
}

// Validate checks the fields every transport needs.
func (m *Message) Validate() error {
	if m == nil || len(m.To) == 0 {
		return ErrNoRecipients
	}
	if m.Subject == "" {
		return ErrNoSubject
	}
	if m.Text == "" && m.HTML == "" {
		return ErrNoContent
	}
	return nil
}

// Mailer sends a message. Implementations do not retry.
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// New selects the transport named by cfg.Driver.
func New(cfg config.MailConfig, logger *zap.Logger) (Mailer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Driver {
	case DriverSMTP:
		if cfg.Host == "" {
			return nil, errors.New("mail: MAIL_HOST is required for the smtp driver")
		}
		return NewSMTP(cfg), nil
	case DriverSendGrid:
		if cfg.SendgridAPIKey == "" {
			return nil, errors.New("mail: SENDGRID_API_KEY is required for the sendgrid driver")
		}
		return NewSendGrid(cfg.SendgridAPIKey, cfg.FromName, cfg.From), nil
	case DriverConsole, "":
		return NewConsole(logger), nil
	default:
		return nil, fmt.Errorf("mail: unknown driver %q", cfg.Driver)
	}
}

func formatAddress(name, address string) string {
	if name == "" {
		return address
	}
	return (&mail.Address{Name: name, Address: address}).String()
}
