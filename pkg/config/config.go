package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	devJWTSecret = "dev_secret"
)

// ErrInsecureSecret is returned when production runs with the development JWT secret.
var ErrInsecureSecret = errors.New("JWT_SECRET must be set in production")

type Config struct {
	Env             string
	Port            int
	APIPrefix       string
	FrontendBaseURL string
	AdminEmail      string
	ShutdownTimeout time.Duration
	MetricsEnabled  bool
	// TrustedProxies lists proxy IPs or CIDRs allowed to set X-Forwarded-For.
	TrustedProxies []string

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Cookie    CookieConfig
	CORS      CORSConfig
	Log       LogConfig
	Mail      MailConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	AutoMigrate  bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// CookieConfig controls how session cookies are scoped.
type CookieConfig struct {
	Domain string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// MailConfig selects and configures the outbound mail transport.
type MailConfig struct {
	Driver         string
	Host           string
	Port           int
	Username       string
	Password       string
	UseTLS         bool
	From           string
	FromName       string
	Timeout        time.Duration
	SendgridAPIKey string
}

// AuthConfig tunes credential handling.
type AuthConfig struct {
	ResetTokenTTL          time.Duration
	BcryptCost             int
	StudentDefaultPassword string
}

// RateLimitConfig throttles the unauthenticated endpoints.
type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Window   time.Duration
}

// IsProduction reports whether the process runs with production settings.
func (c *Config) IsProduction() bool {
	return c != nil && c.Env == EnvProduction
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = strings.TrimRight(v.GetString("API_PREFIX"), "/")
	cfg.FrontendBaseURL = strings.TrimRight(v.GetString("FRONTEND_BASE_URL"), "/")
	cfg.AdminEmail = strings.TrimSpace(v.GetString("ADMIN_EMAIL"))
	cfg.ShutdownTimeout = parseDuration(v.GetString("SHUTDOWN_TIMEOUT"), 10*time.Second)
	cfg.MetricsEnabled = v.GetBool("ENABLE_METRICS")
	cfg.TrustedProxies = splitAndTrim(v.GetString("TRUSTED_PROXIES"))

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		AutoMigrate:  v.GetBool("DB_AUTO_MIGRATE"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.Cookie = CookieConfig{Domain: v.GetString("COOKIE_DOMAIN")}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Mail = MailConfig{
		Driver:         strings.ToLower(v.GetString("MAIL_DRIVER")),
		Host:           v.GetString("MAIL_HOST"),
		Port:           v.GetInt("MAIL_PORT"),
		Username:       v.GetString("MAIL_USERNAME"),
		Password:       v.GetString("MAIL_PASSWORD"),
		UseTLS:         v.GetBool("MAIL_TLS"),
		From:           v.GetString("MAIL_FROM"),
		FromName:       v.GetString("MAIL_FROM_NAME"),
		Timeout:        parseDuration(v.GetString("MAIL_TIMEOUT"), 15*time.Second),
		SendgridAPIKey: v.GetString("SENDGRID_API_KEY"),
	}
	if cfg.Mail.From == "" {
		cfg.Mail.From = cfg.Mail.Username
	}

	cfg.Auth = AuthConfig{
		ResetTokenTTL:          parseDuration(v.GetString("RESET_TOKEN_TTL"), 10*time.Minute),
		BcryptCost:             v.GetInt("BCRYPT_COST"),
		StudentDefaultPassword: v.GetString("STUDENT_DEFAULT_PASSWORD"),
	}

	cfg.RateLimit = RateLimitConfig{
		Enabled:  v.GetBool("ENABLE_RATE_LIMIT"),
		Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
		Window:   parseDuration(v.GetString("RATE_LIMIT_WINDOW"), time.Minute),
	}

	if cfg.IsProduction() && (cfg.JWT.Secret == "" || cfg.JWT.Secret == devJWTSecret) {
		return nil, ErrInsecureSecret
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 5000)
	v.SetDefault("API_PREFIX", "/api")
	v.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	v.SetDefault("ADMIN_EMAIL", "")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("ENABLE_METRICS", true)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "masterminds")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", devJWTSecret)
	v.SetDefault("JWT_EXPIRATION", "1h")
	v.SetDefault("JWT_ISSUER", "masterminds-api")
	v.SetDefault("COOKIE_DOMAIN", "")

	v.SetDefault("TRUSTED_PROXIES", "")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000,https://yourapp.com,https://mastermindacad.netlify.app")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("MAIL_DRIVER", "console")
	v.SetDefault("MAIL_HOST", "")
	v.SetDefault("MAIL_PORT", 587)
	v.SetDefault("MAIL_USERNAME", "")
	v.SetDefault("MAIL_PASSWORD", "")
	v.SetDefault("MAIL_TLS", true)
	v.SetDefault("MAIL_FROM", "")
	v.SetDefault("MAIL_FROM_NAME", "Masterminds Academy")
	v.SetDefault("MAIL_TIMEOUT", "15s")
	v.SetDefault("SENDGRID_API_KEY", "")

	v.SetDefault("RESET_TOKEN_TTL", "10m")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("STUDENT_DEFAULT_PASSWORD", "")

	v.SetDefault("ENABLE_RATE_LIMIT", false)
	v.SetDefault("RATE_LIMIT_REQUESTS", 20)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
