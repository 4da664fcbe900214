package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Shreekavinmr/masterminds-backend/internal/models"
	appErrors "github.com/Shreekavinmr/masterminds-backend/pkg/errors"
	"github.com/Shreekavinmr/masterminds-backend/pkg/response"
	"github.com/Shreekavinmr/masterminds-backend/pkg/token"
)

const (
	// ContextUserKey is the gin context key storing the verified session claims.
	ContextUserKey = "currentUser"

	// SessionCookie carries the authoritative session token.
	SessionCookie = "token"
	// DisplayCookie carries the script-readable display token.
	DisplayCookie = "userMeta"
)

var errInvalidSession = appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired session")

// Authenticate requires a valid session token from the token cookie or a Bearer header.
// Display tokens never pass.
func Authenticate(verifier token.SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := sessionToken(c)
		if raw == "" {
			response.Abort(c, appErrors.ErrUnauthorized)
			return
		}

		claims, err := verifier.VerifySession(raw)
		if err != nil {
			response.Abort(c, errInvalidSession)
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}

// Claims returns the session claims attached by Authenticate.
func Claims(c *gin.Context) *models.SessionClaims {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	claims, _ := value.(*models.SessionClaims)
	return claims
}

func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// OptionalAuthenticate attaches session claims when a valid token is present but never blocks.
func OptionalAuthenticate(verifier token.SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := sessionToken(c); raw != "" {
			if claims, err := verifier.VerifySession(raw); err == nil {
				c.Set(ContextUserKey, claims)
			}
		}
		c.Next()
	}
}
