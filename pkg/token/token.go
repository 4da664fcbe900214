// Package token signs and verifies the session and display JWTs issued on login.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Shreekavinmr/masterminds-backend/internal/models"
)

const (
	AudienceSession = "session"
	AudienceDisplay = "display"
)

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = errors.New("invalid token")

// SessionVerifier is the only capability authorization code receives.
type SessionVerifier interface {
	VerifySession(token string) (*models.SessionClaims, error)
}

// Codec issues and verifies HS256 tokens.
type Codec struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewCodec constructs a Codec. A zero ttl falls back to one hour.
func NewCodec(secret, issuer string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Codec{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}
}

// TTL returns the validity window of issued tokens.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// IssuePair signs a session token and its display companion with the same expiry.
func (c *Codec) IssuePair(identity models.Identity) (*models.TokenPair, error) {
	issuedAt := c.now().UTC()
	expiresAt := issuedAt.Add(c.ttl)

	session := &models.SessionClaims{
		ID:               identity.ID,
		Name:             identity.Name,
		Role:             identity.Role,
		RegisteredClaims: c.registered(identity.ID, AudienceSession, issuedAt, expiresAt),
	}
	display := &models.DisplayClaims{
		Name:             identity.Name,
		Role:             identity.Role,
		RegisteredClaims: c.registered("", AudienceDisplay, issuedAt, expiresAt),
	}

	sessionToken, err := c.sign(session)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}
	displayToken, err := c.sign(display)
	if err != nil {
		return nil, fmt.Errorf("sign display token: %w", err)
	}

	return &models.TokenPair{Session: sessionToken, Display: displayToken, ExpiresAt: expiresAt}, nil
}

// VerifySession validates an authoritative session token.
// Display tokens are rejected because they carry a different audience.
func (c *Codec) VerifySession(raw string) (*models.SessionClaims, error) {
	claims := &models.SessionClaims{}
	if err := c.parse(raw, claims, AudienceSession); err != nil {
		return nil, err
	}
	if claims.ID == "" || claims.ID != claims.Subject || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifyDisplay validates a display token. It must never be used for authorization.
func (c *Codec) VerifyDisplay(raw string) (*models.DisplayClaims, error) {
	claims := &models.DisplayClaims{}
	if err := c.parse(raw, claims, AudienceDisplay); err != nil {
		return nil, err
	}
	return claims, nil
}

func (c *Codec) registered(subject, audience string, issuedAt, expiresAt time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    c.issuer,
		Subject:   subject,
		Audience:  jwt.ClaimStrings{audience},
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		NotBefore: jwt.NewNumericDate(issuedAt),
	}
}

func (c *Codec) sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

func (c *Codec) parse(raw string, claims jwt.Claims, audience string) error {
	if raw == "" {
		return ErrInvalidToken
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, opts...)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return ErrInvalidToken
	}
	return nil
}
