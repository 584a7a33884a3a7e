package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all server configuration, populated from YATRA_* env vars.
type Config struct {
	Addr          string `env:"YATRA_ADDR" envDefault:":8080"`
	Env           string `env:"YATRA_ENV" envDefault:"development"`
	DBPath        string `env:"YATRA_DB_PATH" envDefault:"yatra.db"`
	UploadDir     string `env:"YATRA_UPLOAD_DIR" envDefault:"uploads"`
	LogLevel      string `env:"YATRA_LOG_LEVEL" envDefault:"info"`
	AdminEmail    string `env:"YATRA_ADMIN_EMAIL" envDefault:"admin@tirthyatra.in"`
	AdminPassword string `env:"YATRA_ADMIN_PASSWORD" envDefault:"Har Har Mahadev"`
	CSRFKey       string `env:"YATRA_CSRF_KEY"`
	ResendKey     string `env:"YATRA_RESEND_KEY"`
	EmailFrom     string `env:"YATRA_EMAIL_FROM" envDefault:"Tirth Yatra <noreply@tirthyatra.in>"`
	EmailReplyTo  string `env:"YATRA_REPLY_TO" envDefault:"bookings@tirthyatra.in"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load parses configuration from the environment.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
