package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest initiates the reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest completes the reset flow; the token travels in the path.
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

// Identity is the authenticated subject a session token is issued for.
type Identity struct {
	ID   string
	Name string
	Role UserRole
}

// MeResponse is the minimal profile returned to the current user.
type MeResponse struct {
	Name string   `json:"name"`
	Role UserRole `json:"role"`
}

// SessionClaims is the payload of the authoritative session token.
type SessionClaims struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Role UserRole `json:"role"`
	jwt.RegisteredClaims
}

// DisplayClaims is the payload of the script readable companion token. It is a UI hint only.
type DisplayClaims struct {
	Name string   `json:"name"`
	Role UserRole `json:"role"`
	jwt.RegisteredClaims
}

// TokenPair bundles the tokens issued on login.
type TokenPair struct {
	Session   string
	Display   string
	ExpiresAt time.Time
}
