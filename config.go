package gocardless

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every variable Config reads.
const EnvPrefix = "GOCARDLESS"

// Config is the environment-driven client configuration.
// Variables are read with the GOCARDLESS_ prefix, e.g. GOCARDLESS_ACCESS_TOKEN.
// LoadConfig requires AccessToken; callers that take the token from
// elsewhere can process Config with envconfig directly.
type Config struct {
	AccessToken string        `envconfig:"ACCESS_TOKEN"`
	BaseURL     string        `envconfig:"BASE_URL"`
	Timeout     time.Duration `envconfig:"TIMEOUT" default:"30s"`
	Debug       bool          `envconfig:"DEBUG" default:"false"`
	UserAgent   string        `envconfig:"USER_AGENT"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if cfg.AccessToken == "" {
		return Config{}, fmt.Errorf("load config: %w", ErrMissingAccessToken)
	}
	return cfg, nil
}

// Options converts the config into client options. BaseURL and UserAgent
// are only applied when set.
func (c Config) Options() []Option {
	opts := []Option{
		WithTimeout(c.Timeout),
		WithDebug(c.Debug),
	}
	if c.BaseURL != "" {
		opts = append(opts, WithBaseURL(c.BaseURL))
	}
	if c.UserAgent != "" {
		opts = append(opts, WithUserAgent(c.UserAgent))
	}
	return opts
}

// NewFromEnv creates a client from GOCARDLESS_* environment variables.
// opts are applied after the ones derived from the environment.
func NewFromEnv(opts ...Option) (*Client, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return New(cfg.AccessToken, append(cfg.Options(), opts...)...)
}
