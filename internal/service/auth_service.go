package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Shreekavinmr/masterminds-backend/internal/models"
	"github.com/Shreekavinmr/masterminds-backend/pkg/crypto"
	appErrors "github.com/Shreekavinmr/masterminds-backend/pkg/errors"
	"github.com/Shreekavinmr/masterminds-backend/pkg/validation"
)

type authUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error
	ConsumeResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) (bool, error)
}

type tokenIssuer interface {
	IssuePair(identity models.Identity) (*models.TokenPair, error)
}

type passwordHasher interface {
	Hash(plaintext string) (string, error)
	Compare(digest, plaintext string) bool
}

type resetMailer interface {
	SendPasswordReset(ctx context.Context, user *models.User, rawToken string, ttl time.Duration) error
}

type authMetrics interface {
	RecordAuthEvent(event, outcome string)
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	ResetTokenTTL time.Duration
}

// AuthService provides authentication use cases.
type AuthService struct {
	repo      authUserRepository
	tokens    tokenIssuer
	hasher    passwordHasher
	mailer    resetMailer
	validator *validation.Validator
	logger    *zap.Logger
	metrics   authMetrics
	config    AuthConfig
	now       func() time.Time

	decoyOnce sync.Once
	decoy     string
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authUserRepository, tokens tokenIssuer, hasher passwordHasher, mailer resetMailer, validate *validation.Validator, logger *zap.Logger, metrics authMetrics, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	if config.ResetTokenTTL <= 0 {
		config.ResetTokenTTL = 10 * time.Minute
	}
	return &AuthService{
		repo:      repo,
		tokens:    tokens,
		hasher:    hasher,
		mailer:    mailer,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		config:    config,
		now:       time.Now,
	}
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login authenticates a user and returns the session and display tokens.
// Unknown emails and wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.TokenPair, error) {
	req.Email = NormalizeEmail(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, s.validator.Describe(err))
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Spend a comparison anyway so unknown emails take as long as wrong passwords.
			s.hasher.Compare(s.decoyDigest(), req.Password)
			s.record("login", "rejected")
			return nil, appErrors.ErrInvalidCredentials
		}
		s.logger.Error("failed to fetch user for login", zap.Error(err))
		return nil, appErrors.Internal(err, "failed to fetch user")
	}

	if !s.hasher.Compare(user.PasswordHash, req.Password) {
		s.record("login", "rejected")
		return nil, appErrors.ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(models.Identity{ID: user.ID, Name: user.Name, Role: user.Role})
	if err != nil {
		s.logger.Error("failed to issue session tokens", zap.String("user_id", user.ID), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to create session")
	}

	s.record("login", "success")
	s.logger.Info("user logged in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return pair, nil
}

func (s *AuthService) decoyDigest() string {
	s.decoyOnce.Do(func() {
		digest, err := s.hasher.Hash("masterminds-decoy-password")
		if err != nil {
			s.logger.Warn("failed to prepare decoy digest", zap.Error(err))
			return
		}
		s.decoy = digest
	})
	return s.decoy
}

// Logout always succeeds; sessions are stateless so there is nothing to revoke server side.
func (s *AuthService) Logout(_ context.Context, claims *models.SessionClaims) {
	s.record("logout", "success")
	if claims != nil {
		s.logger.Info("user logged out", zap.String("user_id", claims.ID))
	}
}

// RequestReset issues a reset token for the account and mails its link.
func (s *AuthService) RequestReset(ctx context.Context, req models.ForgotPasswordRequest) error {
	req.Email = NormalizeEmail(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, s.validator.Describe(err))
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.record("reset_request", "unknown_email")
			return appErrors.Clone(appErrors.ErrNotFound, "User not found")
		}
		s.logger.Error("failed to fetch user for reset", zap.Error(err))
		return appErrors.Internal(err, "failed to fetch user")
	}

	raw, hash, err := crypto.NewResetToken()
	if err != nil {
		s.logger.Error("failed to generate reset token", zap.Error(err))
		return appErrors.Internal(err, "failed to generate reset token")
	}

	expiresAt := s.now().UTC().Add(s.config.ResetTokenTTL)
	if err := s.repo.SetResetToken(ctx, user.ID, hash, expiresAt); err != nil {
		s.logger.Error("failed to store reset token", zap.String("user_id", user.ID), zap.Error(err))
		return appErrors.Internal(err, "failed to store reset token")
	}

	if err := s.mailer.SendPasswordReset(ctx, user, raw, s.config.ResetTokenTTL); err != nil {
		s.record("reset_request", "mail_failed")
		return appErrors.Internal(err, "Failed to send password reset email")
	}

	s.record("reset_request", "success")
	s.logger.Info("password reset requested", zap.String("user_id", user.ID))
	return nil
}

// ConsumeReset sets a new password when rawToken matches an unexpired reset token.
// Missing, expired and already used tokens are indistinguishable to the caller.
func (s *AuthService) ConsumeReset(ctx context.Context, rawToken string, req models.ResetPasswordRequest) error {
	if strings.TrimSpace(rawToken) == "" {
		return appErrors.ErrInvalidResetToken
	}
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, s.validator.Describe(err))
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err))
		return appErrors.Internal(err, "failed to hash password")
	}

	ok, err := s.repo.ConsumeResetToken(ctx, crypto.HashResetToken(rawToken), passwordHash, s.now().UTC())
	if err != nil {
		s.logger.Error("failed to consume reset token", zap.Error(err))
		return appErrors.Internal(err, "failed to reset password")
	}
	if !ok {
		s.record("reset_consume", "rejected")
		return appErrors.ErrInvalidResetToken
	}

	s.record("reset_consume", "success")
	return nil
}

// Me returns the profile of the authenticated subject.
func (s *AuthService) Me(ctx context.Context, claims *models.SessionClaims) (*models.MeResponse, error) {
	if claims == nil || claims.ID == "" {
		return nil, appErrors.ErrUnauthorized
	}
	user, err := s.repo.FindByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "User not found")
		}
		s.logger.Error("failed to load current user", zap.String("user_id", claims.ID), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to load user")
	}
	return &models.MeResponse{Name: user.Name, Role: user.Role}, nil
}

func (s *AuthService) record(event, outcome string) {
	if s.metrics != nil {
		s.metrics.RecordAuthEvent(event, outcome)
	}
}
