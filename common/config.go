package common

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const MinSessionSecretLength = 32

type Config struct {
	Port                 string        `env:"PORT" envDefault:"8080"`
	Env                  string        `env:"ENV" envDefault:"development"`
	SiteURL              string        `env:"SITE_URL" envDefault:"http://localhost:8080"`
	DatabaseURL          string        `env:"DATABASE_URL"`
	SQLitePath           string        `env:"SQLITE_DB" envDefault:"./data/bod.db"`
	SessionSecret        string        `env:"SESSION_SECRET,required,notEmpty"`
	AdminDefaultPassword string        `env:"ADMIN_DEFAULT_PASSWORD" envDefault:"admin123"`
	LogLevel             string        `env:"LOG_LEVEL" envDefault:"info"`
	CacheDir             string        `env:"CACHE_DIR" envDefault:"./cache"`
	CacheTTL             time.Duration `env:"CACHE_TTL" envDefault:"1h"`
	RedisURL             string        `env:"REDIS_URL"`
	LoginRatePerMinute   int           `env:"LOGIN_RATE_PER_MINUTE" envDefault:"10"`

	SMTP SMTPConfig
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	User     string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM"`
	NotifyTo string `env:"NOTIFY_EMAIL"`
}

func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != "" && c.NotifyTo != ""
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}

func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (*Config, error) {
	// a missing .env is normal outside development
	_ = godotenv.Load()
	return ParseConfig()
}

func ParseConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Env != "development" && c.Env != "production" {
		return fmt.Errorf("ENV must be development or production, got %q", c.Env)
	}
	if c.IsProduction() && len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("SESSION_SECRET must be at least %d bytes in production, got %d",
			MinSessionSecretLength, len(c.SessionSecret))
	}
	if c.LoginRatePerMinute <= 0 {
		return errors.New("LOGIN_RATE_PER_MINUTE must be positive")
	}
	return nil
}
