package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the site.
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Mail     MailConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Rate     RateLimitConfig
	Admin    AdminConfig
}

type AppConfig struct {
	Env              string
	BaseURL          string
	PageSize         int
	EmailTemplateDir string
	LogLevel         string
}

// IsProduction returns true if the site runs in production mode.
func (a AppConfig) IsProduction() bool {
	return a.Env == "production" || a.Env == "prod"
}

type ServerConfig struct {
	Port            string
	GinMode         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	// MaxUploadBytes bounds multipart bodies kept in memory.
	MaxUploadBytes int64
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	DebugSQL bool
}

// DSN returns the MySQL data source name.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local&clientFoundRows=true",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

type SMTPConfig struct {
	Host          string
	Port          int
	User          string
	Pass          string
	From          string
	SkipTLSVerify bool
}

// Enabled reports whether enough settings exist to send mail.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.From != ""
}

// MailConfig holds the internal recipients of site notifications.
type MailConfig struct {
	Admin string
	HR    string
}

type JWTConfig struct {
	Secret      string
	ExpireHours int
}

// TTL returns the session lifetime.
func (j JWTConfig) TTL() time.Duration {
	return time.Duration(j.ExpireHours) * time.Hour
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// AdminConfig is the bootstrap account created by cmd/seed-admin.
type AdminConfig struct {
	UserName string
	Email    string
	Password string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	cfg.App.Env = getEnvOrDefault("APP_ENV", getEnvOrDefault("ENVIRONMENT", "development"))
	cfg.App.BaseURL = strings.TrimRight(getEnvOrDefault("APP_BASE_URL", "http://localhost:8080"), "/")
	cfg.App.EmailTemplateDir = getEnvOrDefault("EMAIL_TEMPLATE_DIR", "templates/email")
	cfg.App.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")
	if cfg.App.PageSize, err = getEnvAsInt("PAGE_SIZE", 9); err != nil {
		return nil, fmt.Errorf("invalid PAGE_SIZE: %w", err)
	}
	if cfg.App.PageSize <= 0 {
		return nil, errors.New("invalid PAGE_SIZE: must be positive")
	}

	cfg.Server.Port = getEnvOrDefault("SERVER_PORT", "8080")
	cfg.Server.GinMode = getEnvOrDefault("GIN_MODE", "debug")
	if cfg.Server.ReadTimeout, err = getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second); err != nil {
		return nil, fmt.Errorf("invalid SERVER_READ_TIMEOUT: %w", err)
	}
	if cfg.Server.WriteTimeout, err = getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second); err != nil {
		return nil, fmt.Errorf("invalid SERVER_WRITE_TIMEOUT: %w", err)
	}
	if cfg.Server.ShutdownTimeout, err = getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, fmt.Errorf("invalid SERVER_SHUTDOWN_TIMEOUT: %w", err)
	}
	maxUploadMB, err := getEnvAsInt("MAX_UPLOAD_MB", 32)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_MB: %w", err)
	}
	cfg.Server.MaxUploadBytes = int64(maxUploadMB) << 20

	cfg.Database.Host = getEnvOrDefault("DB_HOST", "localhost")
	cfg.Database.Port = getEnvOrDefault("DB_PORT", "3306")
	cfg.Database.Name = getEnvOrDefault("DB_DATABASE", "imex")
	cfg.Database.User = getEnvOrDefault("DB_USERNAME", "root")
	cfg.Database.Password = os.Getenv("DB_PASSWORD")
	cfg.Database.DebugSQL = strings.EqualFold(os.Getenv("DEBUG_SQL"), "true")

	cfg.SMTP.Host = os.Getenv("SMTP_HOST")
	if cfg.SMTP.Port, err = getEnvAsInt("SMTP_PORT", 587); err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}
	cfg.SMTP.User = os.Getenv("SMTP_USER")
	cfg.SMTP.Pass = os.Getenv("SMTP_PASS")
	cfg.SMTP.From = os.Getenv("SMTP_FROM")
	cfg.SMTP.SkipTLSVerify = os.Getenv("SMTP_SKIP_TLS_VERIFY") == "1"

	cfg.Mail.Admin = getEnvOrDefault("MAIL_ADMIN", "office@imex.ro")
	cfg.Mail.HR = getEnvOrDefault("MAIL_HR", cfg.Mail.Admin)

	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	if cfg.JWT.ExpireHours, err = getEnvAsInt("JWT_EXPIRE_HOURS", 8); err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRE_HOURS: %w", err)
	}

	cfg.Redis.Host = os.Getenv("REDIS_HOST")
	if cfg.Redis.Port, err = getEnvAsInt("REDIS_PORT", 6379); err != nil {
		return nil, fmt.Errorf("invalid REDIS_PORT: %w", err)
	}
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	if cfg.Redis.DB, err = getEnvAsInt("REDIS_DB", 0); err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	if cfg.Rate.Requests, err = getEnvAsInt("RATE_LIMIT_REQUESTS", 5); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_REQUESTS: %w", err)
	}
	if cfg.Rate.Window, err = getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_WINDOW: %w", err)
	}

	cfg.Admin.UserName = getEnvOrDefault("ADMIN_USERNAME", "admin")
	cfg.Admin.Email = os.Getenv("ADMIN_EMAIL")
	cfg.Admin.Password = os.Getenv("ADMIN_PASSWORD")

	return cfg, nil
}

// Validate checks settings the server cannot start without.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.App.IsProduction() && len(c.JWT.Secret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters in production")
	}
	return nil
}

// RedisEnabled returns true if Redis configuration is provided.
func (c *Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(valueStr)
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	return time.ParseDuration(valueStr)
}
