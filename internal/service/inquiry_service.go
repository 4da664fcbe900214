package service

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Shreekavinmr/masterminds-backend/internal/models"
	appErrors "github.com/Shreekavinmr/masterminds-backend/pkg/errors"
	"github.com/Shreekavinmr/masterminds-backend/pkg/validation"
)

type inquiryMailer interface {
	SendContact(ctx context.Context, adminEmail string, req models.ContactRequest) error
	SendEnrollInquiry(ctx context.Context, adminEmail string, req models.EnrollInquiryRequest) error
}

// inquiryMessages maps the first failing rule to the message shown on the public forms.
var inquiryMessages = map[string]string{
	"required":              "Missing required fields",
	validation.FormEmailTag: "Invalid email address",
	"max":                   "Message exceeds 280 characters",
	"min":                   "Invalid phone number",
}

var errMissingAdminEmail = appErrors.New(appErrors.ErrInternal.Code, http.StatusInternalServerError, "Server configuration error")

// InquiryService relays public form submissions to the admin inbox.
type InquiryService struct {
	mailer     inquiryMailer
	validator  *validation.Validator
	logger     *zap.Logger
	adminEmail string
}

// NewInquiryService constructs an InquiryService. An empty adminEmail makes every relay fail.
func NewInquiryService(mailer inquiryMailer, validate *validation.Validator, logger *zap.Logger, adminEmail string) *InquiryService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InquiryService{mailer: mailer, validator: validate, logger: logger, adminEmail: strings.TrimSpace(adminEmail)}
}

// Contact relays a contact form message.
func (s *InquiryService) Contact(ctx context.Context, req models.ContactRequest) (*models.InquiryResult, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)
	if err := s.validate(req); err != nil {
		return nil, err
	}
	if s.adminEmail == "" {
		s.logger.Error("contact relay rejected: ADMIN_EMAIL is not configured")
		return nil, errMissingAdminEmail
	}
	if err := s.mailer.SendContact(ctx, s.adminEmail, req); err != nil {
		return nil, appErrors.Internal(err, "Failed to send message")
	}
	return &models.InquiryResult{Success: true}, nil
}

// Enroll relays a prospective student's enrollment request.
func (s *InquiryService) Enroll(ctx context.Context, req models.EnrollInquiryRequest) (*models.InquiryResult, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	if err := s.validate(req); err != nil {
		return nil, err
	}
	if s.adminEmail == "" {
		s.logger.Error("enroll relay rejected: ADMIN_EMAIL is not configured")
		return nil, errMissingAdminEmail
	}
	if err := s.mailer.SendEnrollInquiry(ctx, s.adminEmail, req); err != nil {
		return nil, appErrors.Internal(err, "Failed to send enrollment request")
	}
	return &models.InquiryResult{Success: true}, nil
}

func (s *InquiryService) validate(req interface{}) error {
	err := s.validator.Struct(req)
	if err == nil {
		return nil
	}
	message := s.validator.Describe(err)
	if tag := validation.FirstFailedTag(err, "required", validation.FormEmailTag, "max", "min"); tag != "" {
		message = inquiryMessages[tag]
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}
