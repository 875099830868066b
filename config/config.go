package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every setting of the bot. Values come from the environment.
type Config struct {
	BotToken string `env:"TELEGRAM_BOT_TOKEN"`

	FirebaseKeyPath     string `env:"FIREBASE_SERVICE_ACCOUNT_KEY_PATH"`
	FirebaseDatabaseURL string `env:"FIREBASE_DATABASE_URL"`

	APIURL      string        `env:"FUNNEL_API_URL" envDefault:"http://localhost:8000"`
	HTTPTimeout time.Duration `env:"FUNNEL_HTTP_TIMEOUT" envDefault:"10s"`
	// SuccessCloseDelay overrides every persona's close delay when non-zero.
	SuccessCloseDelay time.Duration `env:"FUNNEL_SUCCESS_CLOSE_DELAY" envDefault:"0s"`
	RequireSignIn     bool          `env:"FUNNEL_REQUIRE_SIGN_IN" envDefault:"true"`
	SaveProgress      bool          `env:"FUNNEL_SAVE_PROGRESS" envDefault:"true"`

	LogLevel string `env:"FUNNEL_LOG_LEVEL" envDefault:"info"`
	Debug    bool   `env:"FUNNEL_DEBUG" envDefault:"false"`
}

// Load reads the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.HTTPTimeout <= 0 {
		return Config{}, fmt.Errorf("FUNNEL_HTTP_TIMEOUT must be positive, got %s", cfg.HTTPTimeout)
	}
	if cfg.SuccessCloseDelay < 0 {
		return Config{}, fmt.Errorf("FUNNEL_SUCCESS_CLOSE_DELAY must not be negative, got %s", cfg.SuccessCloseDelay)
	}
	return cfg, nil
}

// FirebaseEnabled reports whether a service account is configured.
func (c Config) FirebaseEnabled() bool {
	return c.FirebaseKeyPath != ""
}

// CloseDelay picks the delay before a finished registration is closed.
func (c Config) CloseDelay(personaDefault time.Duration) time.Duration {
	if c.SuccessCloseDelay > 0 {
		return c.SuccessCloseDelay
	}
	return personaDefault
}

// RequireBotToken fails when the bot token is missing.
func (c Config) RequireBotToken() error {
	if c.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	return nil
}
