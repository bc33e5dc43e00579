package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	RateLimit    RateLimitConfig
	Audit        AuditConfig
	OAuth        OAuthConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters. Tokens expire on a fixed
// window of TokenTTLDays after issuance.
type AuthConfig struct {
	JWTSecret       string
	TokenTTLDays    int
	BcryptCost      int
	MaxFailedLogins int
	LockoutMinutes  int
}

// RateLimitConfig tunes the per-key sliding counters.
type RateLimitConfig struct {
	AuthWindowMinutes     int
	AuthMaxAttempts       int
	RegisterWindowMinutes int
	RegisterMaxAttempts   int
	UseRedis              bool
}

// AuditConfig controls the audit retention sweep.
type AuditConfig struct {
	RetentionDays     int
	CleanupHourUTC    int
	RetentionDisabled bool
}

// OAuthProviderConfig holds one provider's client credentials. A provider
// with an empty ClientID is not wired.
type OAuthProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// OAuthConfig lists the supported identity providers.
type OAuthConfig struct {
	Google OAuthProviderConfig
	GitHub OAuthProviderConfig
}

// NotificationConfig holds outbound notification settings.
type NotificationConfig struct {
	EmailFrom string
	AdminBCC  string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	secret := getEnv("AUTH_JWT_SECRET", "")
	if secret == "" {
		return nil, fmt.Errorf("AUTH_JWT_SECRET is required")
	}
	if len(secret) < 32 {
		return nil, fmt.Errorf("AUTH_JWT_SECRET must be at least 32 characters")
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "tournament-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:       secret,
			TokenTTLDays:    getEnvAsInt("AUTH_TOKEN_TTL_DAYS", 7),
			BcryptCost:      getEnvAsInt("AUTH_BCRYPT_COST", 12),
			MaxFailedLogins: getEnvAsInt("AUTH_MAX_FAILED_LOGINS", 5),
			LockoutMinutes:  getEnvAsInt("AUTH_LOCKOUT_MINUTES", 15),
		},
		RateLimit: RateLimitConfig{
			AuthWindowMinutes:     getEnvAsInt("RATE_LIMIT_AUTH_WINDOW_MINUTES", 15),
			AuthMaxAttempts:       getEnvAsInt("RATE_LIMIT_AUTH_MAX_ATTEMPTS", 5),
			RegisterWindowMinutes: getEnvAsInt("RATE_LIMIT_REGISTER_WINDOW_MINUTES", 60),
			RegisterMaxAttempts:   getEnvAsInt("RATE_LIMIT_REGISTER_MAX_ATTEMPTS", 3),
			UseRedis:              getEnvAsBool("RATE_LIMIT_USE_REDIS", false),
		},
		Audit: AuditConfig{
			RetentionDays:     getEnvAsInt("AUDIT_RETENTION_DAYS", 90),
			CleanupHourUTC:    getEnvAsInt("AUDIT_CLEANUP_HOUR_UTC", 3),
			RetentionDisabled: getEnvAsBool("AUDIT_RETENTION_DISABLED", false),
		},
		OAuth: OAuthConfig{
			Google: OAuthProviderConfig{
				ClientID:     os.Getenv("OAUTH_GOOGLE_CLIENT_ID"),
				ClientSecret: os.Getenv("OAUTH_GOOGLE_CLIENT_SECRET"),
				RedirectURL:  os.Getenv("OAUTH_GOOGLE_REDIRECT_URL"),
			},
			GitHub: OAuthProviderConfig{
				ClientID:     os.Getenv("OAUTH_GITHUB_CLIENT_ID"),
				ClientSecret: os.Getenv("OAUTH_GITHUB_CLIENT_SECRET"),
				RedirectURL:  os.Getenv("OAUTH_GITHUB_REDIRECT_URL"),
			},
		},
		Notification: NotificationConfig{
			EmailFrom: getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			AdminBCC:  os.Getenv("NOTIFY_ADMIN_BCC"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// TokenTTL returns the credential validity window.
func (a AuthConfig) TokenTTL() time.Duration {
	if a.TokenTTLDays <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(a.TokenTTLDays) * 24 * time.Hour
}

// LockoutDuration returns the account lockout window.
func (a AuthConfig) LockoutDuration() time.Duration {
	if a.LockoutMinutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(a.LockoutMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
