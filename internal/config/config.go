// Package config loads mapsquery settings from a YAML file, a .env file and
// the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/alvillain/mapsapi"
	"github.com/alvillain/mapsapi/internal/logging"
)

// ConfigError represents a configuration error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: field %q: %s", e.Field, e.Message)
}

type Config struct {
	APIKey     string        `yaml:"api-key"`
	ClientID   string        `yaml:"client-id"`
	SigningKey string        `yaml:"signing-key"`
	Channel    string        `yaml:"channel"`
	Language   string        `yaml:"language"`
	Region     string        `yaml:"region"`
	ProxyURL   string        `yaml:"proxy-url"`
	Timeout    time.Duration `yaml:"timeout"`
	// BaseURL points the client at another host, e.g. a recording proxy.
	BaseURL string  `yaml:"base-url"`
	Log     Logging `yaml:"log"`
}

type Logging struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// NewDefaultConfig returns the settings used when no file is given.
func NewDefaultConfig() *Config {
	return &Config{
		Timeout: mapsapi.DefaultTimeout,
		Log:     Logging{Level: "info"},
	}
}

// envBindings maps environment variables onto config fields.
var envBindings = []struct {
	name  string
	field func(*Config) *string
}{
	{"MAPS_API_KEY", func(c *Config) *string { return &c.APIKey }},
	{"MAPS_CLIENT_ID", func(c *Config) *string { return &c.ClientID }},
	{"MAPS_SIGNING_KEY", func(c *Config) *string { return &c.SigningKey }},
	{"MAPS_CHANNEL", func(c *Config) *string { return &c.Channel }},
	{"MAPS_LANGUAGE", func(c *Config) *string { return &c.Language }},
	{"MAPS_REGION", func(c *Config) *string { return &c.Region }},
	{"MAPS_PROXY_URL", func(c *Config) *string { return &c.ProxyURL }},
}

// LoadDotEnv exports the variables of a .env file that are not already set.
// A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// Load reads the YAML file at path, when path is not empty, overlays the
// MAPS_* environment variables and validates the result.
func Load(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	cfg.applyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	for _, b := range envBindings {
		if v, ok := lookup(b.name); ok {
			if v = strings.TrimSpace(v); v != "" {
				*b.field(c) = v
			}
		}
	}
}

// Validate re-checks an already-constructed Config.
func (c *Config) Validate() error {
	var errs []error
	if (c.ClientID == "") != (c.SigningKey == "") {
		errs = append(errs, &ConfigError{Field: "client-id", Message: "client-id and signing-key must be set together"})
	}
	if c.Timeout < 0 {
		errs = append(errs, &ConfigError{Field: "timeout", Message: "must not be negative"})
	}
	if c.ProxyURL != "" {
		u, err := url.Parse(c.ProxyURL)
		switch {
		case err != nil:
			errs = append(errs, &ConfigError{Field: "proxy-url", Message: err.Error()})
		case u.Scheme != "http" && u.Scheme != "https" && u.Scheme != "socks5":
			errs = append(errs, &ConfigError{Field: "proxy-url", Message: "scheme must be http, https or socks5"})
		}
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, &ConfigError{Field: "log.level", Message: err.Error()})
	}
	return errors.Join(errs...)
}

// ClientOptions translates the settings into mapsapi client options.
func (c *Config) ClientOptions() ([]mapsapi.Option, error) {
	hc, err := mapsapi.NewHTTPClient(c.ProxyURL, 0)
	if err != nil {
		return nil, err
	}
	opts := []mapsapi.Option{
		mapsapi.WithHTTPClient(hc),
		mapsapi.WithTimeout(c.Timeout),
		mapsapi.WithAPIKey(c.APIKey),
		mapsapi.WithLanguage(c.Language),
		mapsapi.WithRegion(c.Region),
	}
	if c.ClientID != "" {
		opts = append(opts, mapsapi.WithBusinessKey(&mapsapi.BusinessKey{
			ClientID:   c.ClientID,
			SigningKey: c.SigningKey,
			Channel:    c.Channel,
		}))
	}
	if c.BaseURL != "" {
		opts = append(opts, mapsapi.WithBaseURL(c.BaseURL))
	}
	return opts, nil
}
