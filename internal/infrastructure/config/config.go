package config

import (
	"context"
	"errors"

	"github.com/sethvargo/go-envconfig"
)

// devSecret is the insecure development fallback for the signing/pepper
// secret. It exists so a fresh checkout runs without setup and must never
// be used in production; Load refuses to start there without JWT_SECRET.
const devSecret = "chismoso-secret-change-me"

var ErrSecretRequired = errors.New("config: JWT_SECRET is required in production")

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// JWTSecret doubles as the token signing key and the password pepper,
	// matching the digests and tokens already in circulation.
	JWTSecret string `env:"JWT_SECRET"`

	// AdminEmails is the legacy allow-list (comma-separated); AdminEmail is
	// the single-address fallback used when the list is empty.
	AdminEmails string `env:"ADMIN_EMAILS"`
	AdminEmail  string `env:"ADMIN_EMAIL"`

	DatabaseURL string `env:"DATABASE_URL, default=postgres://localhost:5432/chismoso"`

	Redis  RedisConfig
	Resend ResendConfig
	Gemini GeminiConfig
}

type RedisConfig struct {
	// Addr empty disables the submission dedup store.
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

type ResendConfig struct {
	// APIKey empty disables monthly report notifications.
	APIKey string `env:"RESEND_API_KEY"`
	From   string `env:"RESEND_FROM"`
}

type GeminiConfig struct {
	APIKey  string `env:"GEMINI_API_KEY"`
	BaseURL string `env:"GEMINI_API_BASE"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SigningSecret resolves the shared secret, failing loudly when production
// runs without one instead of silently signing with the dev default.
func (c *Config) SigningSecret() (string, error) {
	if c.JWTSecret != "" {
		return c.JWTSecret, nil
	}
	if c.Env == "production" {
		return "", ErrSecretRequired
	}
	return devSecret, nil
}
