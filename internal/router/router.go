// Package router assembles the gin engine: global middleware, route groups and their guards.
package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/Shreekavinmr/masterminds-backend/internal/handler"
	"github.com/Shreekavinmr/masterminds-backend/internal/middleware"
	"github.com/Shreekavinmr/masterminds-backend/internal/service"
	"github.com/Shreekavinmr/masterminds-backend/pkg/logger"
	corsmiddleware "github.com/Shreekavinmr/masterminds-backend/pkg/middleware/cors"
	reqidmiddleware "github.com/Shreekavinmr/masterminds-backend/pkg/middleware/requestid"
	"github.com/Shreekavinmr/masterminds-backend/pkg/ratelimit"
	"github.com/Shreekavinmr/masterminds-backend/pkg/token"
)

// Rate limit scopes for the public endpoints.
const (
	ScopeLogin          = "login"
	ScopeForgotPassword = "forgot_password"
	ScopeContact        = "contact"
	ScopeEnroll         = "enroll"
)

// Options carries the cross-cutting dependencies of the engine.
type Options struct {
	APIPrefix      string
	AllowedOrigins []string
	// TrustedProxies may set X-Forwarded-For. Empty means the socket peer is the client.
	TrustedProxies []string
	EnableDocs     bool
	Verifier       token.SessionVerifier
	// Limiter is nil when rate limiting is disabled.
	Limiter *ratelimit.Limiter
	// Metrics is nil when metrics are disabled.
	Metrics *service.MetricsService
	Logger  *zap.Logger
}

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Auth      *handler.AuthHandler
	Students  *handler.StudentHandler
	Syllabi   *handler.SyllabusHandler
	Notes     *handler.NoteHandler
	Inquiries *handler.InquiryHandler
	Ops       *handler.MetricsHandler
}

// New builds the engine.
func New(opts Options, h Handlers) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.APIPrefix == "" {
		opts.APIPrefix = "/api"
	}

	r := gin.New()
	if err := r.SetTrustedProxies(opts.TrustedProxies); err != nil {
		opts.Logger.Warn("invalid trusted proxies, ignoring forwarded headers", zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(opts.Logger))
	r.Use(corsmiddleware.New(opts.AllowedOrigins))
	if opts.Metrics != nil {
		r.Use(middleware.Metrics(opts.Metrics))
	}

	r.GET("/health", h.Ops.Health)
	r.GET("/ready", h.Ops.Ready)
	if opts.Metrics != nil {
		r.GET("/metrics", h.Ops.Prometheus)
	}
	if opts.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	limit := func(scope string) gin.HandlerFunc {
		if opts.Limiter == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimit(opts.Limiter, scope, opts.Metrics, opts.Logger)
	}

	api := r.Group(opts.APIPrefix)
	api.POST("/contact", limit(ScopeContact), h.Inquiries.Contact)
	api.POST("/enroll", limit(ScopeEnroll), h.Inquiries.Enroll)

	auth := api.Group("/auth")
	auth.POST("/login", limit(ScopeLogin), h.Auth.Login)
	auth.POST("/logout", middleware.OptionalAuthenticate(opts.Verifier), h.Auth.Logout)
	auth.POST("/forgotpassword", limit(ScopeForgotPassword), h.Auth.ForgotPassword)
	auth.PUT("/resetpassword/:resettoken", h.Auth.ResetPassword)
	auth.GET("/syllabi", h.Syllabi.List)

	authenticated := auth.Group("")
	authenticated.Use(middleware.Authenticate(opts.Verifier))
	authenticated.GET("/me", h.Auth.Me)

	admin := authenticated.Group("")
	admin.Use(middleware.AdminOnly())
	admin.POST("/enroll-student", h.Students.Enroll)
	admin.GET("/students", h.Students.List)
	admin.GET("/students/export", h.Students.Export)
	admin.GET("/students/:id", h.Students.Get)
	admin.PUT("/students/:id", h.Students.Update)
	admin.DELETE("/students/:id", h.Students.Delete)

	admin.GET("/syllabus", h.Syllabi.List)
	admin.POST("/syllabus", h.Syllabi.Create)
	admin.PUT("/syllabus/:id", h.Syllabi.Update)
	admin.DELETE("/syllabus/:id", h.Syllabi.Delete)

	admin.GET("/notes", h.Notes.List)
	admin.POST("/notes", h.Notes.Create)
	admin.PUT("/notes/:id", h.Notes.Update)
	admin.DELETE("/notes/:id", h.Notes.Delete)

	student := authenticated.Group("")
	student.Use(middleware.StudentOnly())
	student.GET("/student/notes", h.Notes.ListForStudent)

	return r
}
