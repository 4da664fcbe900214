package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/Shreekavinmr/masterminds-backend/api/swagger"
	"github.com/Shreekavinmr/masterminds-backend/internal/handler"
	"github.com/Shreekavinmr/masterminds-backend/internal/repository"
	"github.com/Shreekavinmr/masterminds-backend/internal/router"
	"github.com/Shreekavinmr/masterminds-backend/internal/service"
	"github.com/Shreekavinmr/masterminds-backend/pkg/config"
	"github.com/Shreekavinmr/masterminds-backend/pkg/crypto"
	"github.com/Shreekavinmr/masterminds-backend/pkg/database"
	"github.com/Shreekavinmr/masterminds-backend/pkg/logger"
	"github.com/Shreekavinmr/masterminds-backend/pkg/mail"
	"github.com/Shreekavinmr/masterminds-backend/pkg/ratelimit"
	"github.com/Shreekavinmr/masterminds-backend/pkg/token"
	"github.com/Shreekavinmr/masterminds-backend/pkg/validation"
)

// @title Masterminds Academy API
// @version 1.0.0
// @description Admissions, student records and study resources for Masterminds Academy.
// @BasePath /
// @schemes http https

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		version, _ := database.MigrationVersion(ctx, db)
		logr.Info("database migrated", zap.Int64("version", version))
	}

	dependencies := map[string]handler.Pinger{"postgres": db}

	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		rdb, err := database.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer rdb.Close()
		limiter = ratelimit.New(ratelimit.NewRedisCounter(rdb), cfg.RateLimit.Requests, cfg.RateLimit.Window)
		dependencies["redis"] = redisPinger(rdb)
	}

	mailer, err := mail.New(cfg.Mail, logr)
	if err != nil {
		return fmt.Errorf("init mailer: %w", err)
	}

	metrics := service.NewMetricsService()
	validate := validation.New()
	codec := token.NewCodec(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
	hasher := crypto.NewHasher(cfg.Auth.BcryptCost)

	users := repository.NewUserRepository(db)
	students := repository.NewStudentRepository(db)
	syllabi := repository.NewSyllabusRepository(db)
	notes := repository.NewNoteRepository(db)

	notifier, err := service.NewNotificationService(mailer, logr, metrics, service.NotificationConfig{
		FrontendBaseURL: cfg.FrontendBaseURL,
		Timeout:         cfg.Mail.Timeout,
	})
	if err != nil {
		return fmt.Errorf("init notifications: %w", err)
	}

	authSvc := service.NewAuthService(users, codec, hasher, notifier, validate, logr, metrics, service.AuthConfig{ResetTokenTTL: cfg.Auth.ResetTokenTTL})
	studentSvc := service.NewStudentService(students, users, hasher, notifier, validate, logr, service.StudentConfig{DefaultPassword: cfg.Auth.StudentDefaultPassword})
	syllabusSvc := service.NewSyllabusService(syllabi, validate, logr)
	noteSvc := service.NewNoteService(notes, students, validate, logr)
	inquirySvc := service.NewInquiryService(notifier, validate, logr, cfg.AdminEmail)

	opts := router.Options{
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		TrustedProxies: cfg.TrustedProxies,
		EnableDocs:     !cfg.IsProduction(),
		Verifier:       codec,
		Limiter:        limiter,
		Logger:         logr,
	}
	if cfg.MetricsEnabled {
		opts.Metrics = metrics
	}

	engine := router.New(opts, router.Handlers{
		Auth: handler.NewAuthHandler(authSvc, handler.CookieConfig{
			Domain: cfg.Cookie.Domain,
			Secure: cfg.IsProduction(),
			MaxAge: cfg.JWT.Expiration,
		}),
		Students:  handler.NewStudentHandler(studentSvc),
		Syllabi:   handler.NewSyllabusHandler(syllabusSvc),
		Notes:     handler.NewNoteHandler(noteSvc),
		Inquiries: handler.NewInquiryHandler(inquirySvc),
		Ops:       handler.NewMetricsHandler(metrics, dependencies),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.String("mail_driver", cfg.Mail.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func redisPinger(client *redis.Client) handler.PingFunc {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
