// Package config defines configuration parsing and helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"dev"`
	Port   int    `env:"PORT" envDefault:"8080"`
	// TikaURL specifies the base URL for the Apache Tika server used for CV
	// text extraction.
	TikaURL string `env:"TIKA_URL" envDefault:"http://tika:9998"`
	// WhisperURL specifies the base URL of the speech-to-text sidecar.
	WhisperURL string `env:"WHISPER_URL" envDefault:"http://whisper:5001"`
	// NLPServiceURL specifies the base URL of the NLP sidecar used for
	// enhanced skill extraction. Empty disables the sidecar; extraction then
	// runs in process.
	NLPServiceURL string `env:"NLP_SERVICE_URL" envDefault:""`
	// TranscriptionLanguage is passed to the speech-to-text sidecar.
	TranscriptionLanguage string `env:"TRANSCRIPTION_LANGUAGE" envDefault:"nl"`

	MaxUploadMB           int64         `env:"MAX_UPLOAD_MB" envDefault:"10"`
	CORSAllowOrigins      string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	RateLimitPerMin       int           `env:"RATE_LIMIT_PER_MIN" envDefault:"30"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	HTTPReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	HTTPWriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	HTTPIdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`

	// Collaborator HTTP client configuration.
	CollaboratorTimeout time.Duration `env:"COLLABORATOR_TIMEOUT" envDefault:"60s"`
	// Collaborator Backoff Configuration
	BackoffMaxElapsedTime  time.Duration `env:"BACKOFF_MAX_ELAPSED_TIME" envDefault:"90s"`
	BackoffInitialInterval time.Duration `env:"BACKOFF_INITIAL_INTERVAL" envDefault:"2s"`
	BackoffMaxInterval     time.Duration `env:"BACKOFF_MAX_INTERVAL" envDefault:"20s"`
	BackoffMultiplier      float64       `env:"BACKOFF_MULTIPLIER" envDefault:"1.5"`
}

// Load parses environment variables into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	return cfg, nil
}

// IsDev reports whether the app is running in development mode.
func (c Config) IsDev() bool { return strings.ToLower(c.AppEnv) == "dev" }

// IsProd reports whether the app is running in production mode.
func (c Config) IsProd() bool { return strings.ToLower(c.AppEnv) == "prod" }

// IsTest reports whether the app is running in test mode.
func (c Config) IsTest() bool { return strings.ToLower(c.AppEnv) == "test" }

// GetBackoffConfig returns backoff configuration appropriate for the current
// environment. In test environments, uses much shorter timeouts for faster
// test execution.
func (c Config) GetBackoffConfig() (maxElapsedTime, initialInterval, maxInterval time.Duration, multiplier float64) {
	if c.IsTest() {
		return 5 * time.Second, 100 * time.Millisecond, 1 * time.Second, 2.0
	}
	return c.BackoffMaxElapsedTime, c.BackoffInitialInterval, c.BackoffMaxInterval, c.BackoffMultiplier
}
