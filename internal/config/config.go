// Package config loads process configuration from the environment, with an
// optional .env preload in development. Both JWT secrets are required: the
// process refuses to start without them.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds every tunable the application reads.
type Config struct {
	App struct {
		Env     string `env:"APP_ENV" envDefault:"development"`
		Name    string `env:"APP_NAME" envDefault:"library-api"`
		Port    int    `env:"APP_PORT" envDefault:"3000"`
		Version string `env:"APP_VERSION" envDefault:"1.0.0"`

		ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" envDefault:"15s"`
	}

	API struct {
		Prefix  string `env:"API_PREFIX" envDefault:"/api"`
		Version string `env:"API_VERSION" envDefault:"v1"`
	}

	Database struct {
		URL string `env:"DATABASE_URL,required"`
	}

	Migrations struct {
		Dir string `env:"MIGRATIONS_DIR" envDefault:"migrations"`
	}

	JWT struct {
		Secret          string        `env:"JWT_SECRET,required"`
		RefreshSecret   string        `env:"JWT_REFRESH_SECRET,required"`
		AccessTokenTTL  time.Duration `env:"JWT_EXPIRES_IN" envDefault:"168h"`
		RefreshTokenTTL time.Duration `env:"JWT_REFRESH_EXPIRES_IN" envDefault:"720h"`
	}

	Log struct {
		Level    string `env:"LOG_LEVEL" envDefault:"info"`
		Encoding string `env:"LOG_ENCODING" envDefault:"json"`
	}

	CORS struct {
		AllowedOrigins []string `env:"CORS_ORIGIN" envSeparator:"," envDefault:"*"`
	}

	RateLimit struct {
		// memory or redis.
		Backend string `env:"RATE_LIMIT_BACKEND" envDefault:"memory"`

		GeneralRate   int64         `env:"RATE_LIMIT_GENERAL_RATE" envDefault:"100"`
		GeneralWindow time.Duration `env:"RATE_LIMIT_GENERAL_WINDOW" envDefault:"15m"`
		AuthRate      int64         `env:"RATE_LIMIT_AUTH_RATE" envDefault:"5"`
		AuthWindow    time.Duration `env:"RATE_LIMIT_AUTH_WINDOW" envDefault:"15m"`
		CreateRate    int64         `env:"RATE_LIMIT_CREATE_RATE" envDefault:"10"`
		CreateWindow  time.Duration `env:"RATE_LIMIT_CREATE_WINDOW" envDefault:"10m"`
		SearchRate    int64         `env:"RATE_LIMIT_SEARCH_RATE" envDefault:"50"`
		SearchWindow  time.Duration `env:"RATE_LIMIT_SEARCH_WINDOW" envDefault:"5m"`
	}

	Redis struct {
		Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
		Password string `env:"REDIS_PASSWORD"`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Cache struct {
		Enabled bool          `env:"CACHE_ENABLED" envDefault:"false"`
		TTL     time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	}

	Loan struct {
		PeriodDays int `env:"LOAN_PERIOD_DAYS" envDefault:"14"`
	}
}

// BasePath returns the versioned API mount point, e.g. "/api/v1".
func (c *Config) BasePath() string {
	return c.API.Prefix + "/" + c.API.Version
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	return cfg, nil
}
