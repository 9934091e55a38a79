// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskdeck Contributors

// Package config loads server configuration from an optional YAML file,
// command-line flags, and the environment. Flags set on the command line
// override file values; secrets may come from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/taskdeck/taskdeck/internal/auth"
)

// Default values used when neither file nor flags set a key.
const (
	DefaultHTTPAddr    = "127.0.0.1:8080"
	DefaultMetricsAddr = "127.0.0.1:9100"
	DefaultLogFormat   = "json"
)

// Config holds the settings for the taskdeck server.
type Config struct {
	HTTPAddr    string        `koanf:"http_addr"`
	MetricsAddr string        `koanf:"metrics_addr"`
	DatabaseURL string        `koanf:"database_url"`
	TokenSecret string        `koanf:"token_secret"`
	TokenTTL    time.Duration `koanf:"token_ttl"`
	LogFormat   string        `koanf:"log_format"`
}

// Validate checks that the configuration is complete and coherent.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").
			With("key", "database_url").
			Errorf("database_url is required (flag, file, or DATABASE_URL)")
	}
	if c.TokenSecret == "" {
		return oops.Code("CONFIG_INVALID").
			With("key", "token_secret").
			Errorf("token_secret is required (file or TASKDECK_TOKEN_SECRET)")
	}
	if len(c.TokenSecret) < auth.MinKeyLength {
		return oops.Code("CONFIG_INVALID").
			With("key", "token_secret").
			Errorf("token_secret must be at least %d bytes", auth.MinKeyLength)
	}
	if c.TokenTTL <= 0 {
		return oops.Code("CONFIG_INVALID").
			With("key", "token_ttl").
			Errorf("token_ttl must be positive, got %s", c.TokenTTL)
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return oops.Code("CONFIG_INVALID").
			With("key", "log_format").
			Errorf("log_format must be 'json' or 'text', got %q", c.LogFormat)
	}
	return nil
}

// Load builds a Config from an optional YAML file at path and the given
// flag set. Precedence, lowest to highest: built-in defaults, file,
// flags changed on the command line, then environment variables for the
// two secrets (DATABASE_URL, TASKDECK_TOKEN_SECRET).
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("source", "flags").
				Wrap(err)
		}
	}

	cfg := &Config{
		HTTPAddr:    DefaultHTTPAddr,
		MetricsAddr: DefaultMetricsAddr,
		TokenTTL:    auth.DefaultTokenTTL,
		LogFormat:   DefaultLogFormat,
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").
			With("source", "unmarshal").
			Wrap(err)
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("TASKDECK_TOKEN_SECRET"); v != "" {
		cfg.TokenSecret = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// RegisterFlags adds the server's configuration flags to a flag set.
// Flag names match the koanf keys so posflag can map them directly.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("http_addr", DefaultHTTPAddr, "HTTP API listen address")
	flags.String("metrics_addr", DefaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	flags.String("database_url", "", "PostgreSQL connection URL")
	flags.Duration("token_ttl", auth.DefaultTokenTTL, "access token lifetime")
	flags.String("log_format", DefaultLogFormat, "log format (json or text)")
}
