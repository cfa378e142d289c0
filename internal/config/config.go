// Package config loads application configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config holds all application configuration. Values come from built-in
// defaults overridden by environment variables. It is immutable after Load
// and safe for concurrent reads.
type Config struct {
	Addr           string `koanf:"addr"`
	DatabaseURL    string `koanf:"database_url"`
	GeminiAPIKey   string `koanf:"gemini_api_key"`
	GoogleBooksURL string `koanf:"google_books_url"`
	GeminiURL      string `koanf:"gemini_url"`
	LogLevel       string `koanf:"log_level"`
	LogFormat      string `koanf:"log_format"`

	OIDC OIDCConfig `koanf:"oidc"`
}

// OIDCConfig configures the optional SSO login. SSO is enabled only when
// every field is set.
type OIDCConfig struct {
	IssuerURL    string `koanf:"issuer_url"`
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
	RedirectURL  string `koanf:"redirect_url"`
}

// Enabled reports whether SSO login should be offered.
func (o OIDCConfig) Enabled() bool {
	return o.IssuerURL != "" && o.ClientID != "" && o.ClientSecret != "" && o.RedirectURL != ""
}

func defaultConfig() *Config {
	return &Config{
		Addr:      ":8080",
		LogLevel:  "info",
		LogFormat: "json",
	}
}

// Load reads configuration from environment variables over defaults.
// DATABASE_URL is required; everything else is optional.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	// OIDC_ISSUER_URL -> oidc.issuer_url, DATABASE_URL -> database_url.
	envProvider := env.Provider("", ".", func(s string) string {
		key := strings.ToLower(s)
		if after, found := strings.CutPrefix(key, "oidc_"); found {
			return "oidc." + after
		}
		return key
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	return cfg, nil
}
