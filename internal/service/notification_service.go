package service

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"go.uber.org/zap"

	"github.com/Shreekavinmr/masterminds-backend/internal/models"
	"github.com/Shreekavinmr/masterminds-backend/pkg/mail"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	MailKindPasswordReset = "password_reset"
	MailKindWelcome       = "welcome"
	MailKindContact       = "contact"
	MailKindEnrollInquiry = "enroll_inquiry"
)

type mailMetrics interface {
	RecordMailDelivery(kind string, err error)
}

// NotificationConfig carries the settings mail rendering depends on.
type NotificationConfig struct {
	FrontendBaseURL string
	Timeout         time.Duration
}

// NotificationService renders and sends transactional email. Sends are attempted once.
type NotificationService struct {
	mailer  mail.Mailer
	logger  *zap.Logger
	metrics mailMetrics
	config  NotificationConfig
	html    *htmltemplate.Template
	text    *texttemplate.Template
	now     func() time.Time
}

// NewNotificationService parses the embedded templates.
func NewNotificationService(mailer mail.Mailer, logger *zap.Logger, metrics mailMetrics, cfg NotificationConfig) (*NotificationService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	cfg.FrontendBaseURL = strings.TrimRight(cfg.FrontendBaseURL, "/")
	funcs := map[string]interface{}{
		"join": func(items []string) string { return strings.Join(items, ", ") },
	}
	html, err := htmltemplate.New("html").Funcs(funcs).ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse html templates: %w", err)
	}
	text, err := texttemplate.New("text").Funcs(funcs).ParseFS(templateFS, "templates/*.txt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse text templates: %w", err)
	}
	return &NotificationService{
		mailer:  mailer,
		logger:  logger,
		metrics: metrics,
		config:  cfg,
		html:    html,
		text:    text,
		now:     time.Now,
	}, nil
}

// SendPasswordReset mails the reset link for rawToken.
func (s *NotificationService) SendPasswordReset(ctx context.Context, user *models.User, rawToken string, ttl time.Duration) error {
	body, err := s.renderText("password_reset.txt.tmpl", map[string]interface{}{
		"Name":      user.Name,
		"ResetURL":  fmt.Sprintf("%s/reset-password/%s", s.config.FrontendBaseURL, rawToken),
		"ExpiresIn": humanDuration(ttl),
	})
	if err != nil {
		return err
	}
	return s.deliver(ctx, MailKindPasswordReset, &mail.Message{
		To:      []string{user.Email},
		Subject: "Password Reset Request",
		Text:    body,
	})
}

// SendWelcome mails the initial credentials of a newly enrolled student.
func (s *NotificationService) SendWelcome(ctx context.Context, student *models.Student, password string) error {
	data := map[string]interface{}{
		"Name":          student.Name,
		"Email":         student.Email,
		"Password":      password,
		"PaymentStatus": student.Payment.Status,
		"PaymentAmount": student.Payment.Amount,
		"PortalURL":     s.config.FrontendBaseURL,
	}
	text, err := s.renderText("welcome.txt.tmpl", data)
	if err != nil {
		return err
	}
	html, err := s.renderHTML("welcome.html.tmpl", data)
	if err != nil {
		return err
	}
	return s.deliver(ctx, MailKindWelcome, &mail.Message{
		To:      []string{student.Email},
		Subject: "Welcome to Masterminds Academy - Account Created",
		Text:    text,
		HTML:    html,
	})
}

// SendContact relays a contact form to the admin inbox.
func (s *NotificationService) SendContact(ctx context.Context, adminEmail string, req models.ContactRequest) error {
	html, err := s.renderHTML("contact.html.tmpl", map[string]interface{}{
		"Name":        req.Name,
		"Email":       req.Email,
		"Type":        req.Type,
		"Subject":     req.Subject,
		"Message":     req.Message,
		"Newsletter":  req.Newsletter,
		"SubmittedAt": s.submittedAt(),
	})
	if err != nil {
		return err
	}
	return s.deliver(ctx, MailKindContact, &mail.Message{
		FromName: "Contact Form",
		To:       []string{adminEmail},
		ReplyTo:  req.Email,
		Subject:  "New Contact Form: " + req.Subject,
		HTML:     html,
	})
}

// SendEnrollInquiry relays an enrollment request to the admin inbox.
func (s *NotificationService) SendEnrollInquiry(ctx context.Context, adminEmail string, req models.EnrollInquiryRequest) error {
	html, err := s.renderHTML("enroll_inquiry.html.tmpl", map[string]interface{}{
		"Name":        req.Name,
		"Email":       req.Email,
		"PhoneNumber": req.PhoneNumber,
		"Subjects":    req.Subjects,
		"Curricula":   req.Curricula,
		"SubmittedAt": s.submittedAt(),
	})
	if err != nil {
		return err
	}
	return s.deliver(ctx, MailKindEnrollInquiry, &mail.Message{
		FromName: "Enrollment Form",
		To:       []string{adminEmail},
		ReplyTo:  req.Email,
		Subject:  "New Enrollment Inquiry from " + req.Name,
		HTML:     html,
	})
}

// deliver detaches from request cancellation so a committed write is not followed by an aborted send.
func (s *NotificationService) deliver(ctx context.Context, kind string, msg *mail.Message) error {
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.Timeout)
	defer cancel()

	err := s.mailer.Send(sendCtx, msg)
	if s.metrics != nil {
		s.metrics.RecordMailDelivery(kind, err)
	}
	if err != nil {
		s.logger.Error("mail delivery failed", zap.String("kind", kind), zap.Strings("to", msg.To), zap.Error(err))
		return fmt.Errorf("send %s mail: %w", kind, err)
	}
	s.logger.Info("mail delivered", zap.String("kind", kind), zap.Strings("to", msg.To))
	return nil
}

func (s *NotificationService) renderText(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := s.text.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func (s *NotificationService) renderHTML(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := s.html.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func (s *NotificationService) submittedAt() string {
	return s.now().UTC().Format("2006-01-02 15:04:05 MST")
}

func humanDuration(d time.Duration) string {
	if d%time.Minute == 0 && d < time.Hour {
		minutes := int(d / time.Minute)
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	}
	return d.String()
}
