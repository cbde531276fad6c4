package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"time"

	internal_error "github.com/aria3ppp/delivery-areas-seeder/internal/areas/error"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	APIConfig   APIConfig
	RunConfig   RunConfig
	RetryConfig RetryConfig
	LogLevel    slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
}

type APIConfig struct {
	BaseURL      string            `env:"SEEDER_BASE_URL" envDefault:"http://localhost:8080/api/v1/admin"`
	AccessToken  string            `env:"SEEDER_ACCESS_TOKEN"`
	APIKey       string            `env:"SEEDER_API_KEY"`
	ExtraHeaders map[string]string `env:"SEEDER_EXTRA_HEADERS" envDefault:"ngrok-skip-browser-warning:true"`
	HTTPTimeout  time.Duration     `env:"SEEDER_HTTP_TIMEOUT" envDefault:"30s"`
}

type RunConfig struct {
	RequestDelay         time.Duration `env:"SEEDER_REQUEST_DELAY" envDefault:"1s"`
	DefaultEstimatedTime int           `env:"SEEDER_DEFAULT_ESTIMATED_TIME" envDefault:"30"`
	Currency             string        `env:"SEEDER_CURRENCY" envDefault:"SAR"`
}

// RetryConfig controls retries of create calls that failed in transport.
// MaxTries of 1 disables retrying.
type RetryConfig struct {
	MaxTries        uint          `env:"SEEDER_RETRY_MAX_TRIES" envDefault:"1"`
	InitialInterval time.Duration `env:"SEEDER_RETRY_INITIAL_INTERVAL" envDefault:"500ms"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.APIConfig.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return internal_error.ValidationError(fmt.Sprintf("base url %q must be an absolute url", c.APIConfig.BaseURL))
	}

	if c.APIConfig.AccessToken == "" {
		return internal_error.ValidationError("access token is required")
	}

	if c.APIConfig.APIKey == "" {
		return internal_error.ValidationError("api key is required")
	}

	if c.APIConfig.HTTPTimeout < 0 {
		return internal_error.ValidationError("http timeout must not be negative")
	}

	if c.RunConfig.RequestDelay < 0 {
		return internal_error.ValidationError("request delay must not be negative")
	}

	if c.RunConfig.DefaultEstimatedTime <= 0 {
		return internal_error.ValidationError("default estimated time must be positive")
	}

	if c.RetryConfig.MaxTries == 0 {
		return internal_error.ValidationError("retry max tries must be at least 1")
	}

	return nil
}

// Endpoint returns the delivery areas collection url.
func (c *APIConfig) Endpoint() string {
	return c.BaseURL + "/deliveryAreas"
}
