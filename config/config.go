package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env  string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port string `env:"PORT" envDefault:"3000" validate:"required"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"false"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	JWTSecret string `env:"JWT_SECRET,required" validate:"required,min=32"`
	// TokenTTL defaults to the 2 minutes the first deployment shipped with.
	// Raise it per environment; nothing depends on the value being short.
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"2m" validate:"min=1s,max=720h"`

	BcryptCost      int `env:"BCRYPT_COST" envDefault:"10" validate:"min=4,max=31"`
	HashConcurrency int `env:"HASH_CONCURRENCY" envDefault:"0" validate:"min=0,max=256"` // 0 = GOMAXPROCS

	CookieName   string `env:"COOKIE_NAME" envDefault:"access_token" validate:"required"`
	CookieSecure bool   `env:"COOKIE_SECURE" envDefault:"false"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SlogLevel maps LOG_LEVEL onto slog levels.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
