package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Shreekavinmr/masterminds-backend/internal/middleware"
	"github.com/Shreekavinmr/masterminds-backend/internal/models"
	appErrors "github.com/Shreekavinmr/masterminds-backend/pkg/errors"
	"github.com/Shreekavinmr/masterminds-backend/pkg/response"
)

type authService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.TokenPair, error)
	Logout(ctx context.Context, claims *models.SessionClaims)
	RequestReset(ctx context.Context, req models.ForgotPasswordRequest) error
	ConsumeReset(ctx context.Context, rawToken string, req models.ResetPasswordRequest) error
	Me(ctx context.Context, claims *models.SessionClaims) (*models.MeResponse, error)
}

// CookieConfig controls the attributes of the session cookies.
type CookieConfig struct {
	Domain string
	// Secure marks cookies Secure with SameSite=None; otherwise SameSite=Lax is used.
	Secure bool
	MaxAge time.Duration
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service authService
	cookies CookieConfig
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService, cookies CookieConfig) *AuthHandler {
	if cookies.MaxAge <= 0 {
		cookies.MaxAge = time.Hour
	}
	return &AuthHandler{service: svc, cookies: cookies}
}

// Login godoc
// @Summary Authenticate user
// @Description Authenticate by email and password. Sets the token and userMeta cookies.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	pair, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	maxAge := int(h.cookies.MaxAge.Seconds())
	h.setCookie(c, middleware.SessionCookie, pair.Session, maxAge, true)
	h.setCookie(c, middleware.DisplayCookie, pair.Display, maxAge, false)
	response.Message(c, http.StatusOK, "Login successful", nil)
}

// Logout godoc
// @Summary Logout
// @Description Clears both session cookies. Always succeeds.
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.service.Logout(c.Request.Context(), claimsFromContext(c))
	h.setCookie(c, middleware.SessionCookie, "", -1, true)
	h.setCookie(c, middleware.DisplayCookie, "", -1, false)
	response.Message(c, http.StatusOK, "Logout successful", nil)
}

// ForgotPassword godoc
// @Summary Request a password reset
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.ForgotPasswordRequest true "Account email"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /auth/forgotpassword [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	if err := h.service.RequestReset(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "Email sent with password reset instructions", nil)
}

// ResetPassword godoc
// @Summary Reset password with token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param resettoken path string true "Reset token from the email link"
// @Param payload body models.ResetPasswordRequest true "New password"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /auth/resetpassword/{resettoken} [put]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	if err := h.service.ConsumeReset(c.Request.Context(), c.Param("resettoken"), req); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "Password reset successful", nil)
}

// Me godoc
// @Summary Get current user
// @Description Returns the authenticated user's name and role
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	me, err := h.service.Me(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, me, nil)
}

func (h *AuthHandler) setCookie(c *gin.Context, name, value string, maxAge int, httpOnly bool) {
	if h.cookies.Secure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(name, value, maxAge, "/", h.cookies.Domain, h.cookies.Secure, httpOnly)
}
