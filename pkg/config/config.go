// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the people registry configuration.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// environment variables. Command-line flags are applied on top by the
// binary.
//
// The secret key is only read from SECRET_KEY. When it is unset the
// hard-coded fallback "default_key" is used, which is insecure; callers
// should check UsingDefaultSecret and warn.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/AleutianAI/PeopleRegistry/pkg/logging"
	"github.com/awnumar/memguard"
	"gopkg.in/yaml.v3"
)

// DefaultSecretKey is the insecure fallback used when SECRET_KEY is unset.
const DefaultSecretKey = "default_key"

// Store backends accepted by StoreBackend.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
)

// Environment variable names.
const (
	EnvPort         = "REGISTRY_PORT"
	EnvSecretKey    = "SECRET_KEY"
	EnvLogLevel     = "LOG_LEVEL"
	EnvLogFormat    = "LOG_FORMAT"
	EnvStoreBackend = "STORE_BACKEND"
	EnvSeedFile     = "SEED_FILE"
	EnvOTelEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	EnvServiceName  = "SERVICE_NAME"
	EnvDebug        = "REGISTRY_DEBUG"
	EnvRateLimit    = "RATE_LIMIT"
	EnvRateBurst    = "RATE_BURST"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the registry server configuration.
type Config struct {
	// Port the HTTP server listens on.
	Port string `yaml:"port"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// LogFormat is one of auto, text, json.
	LogFormat string `yaml:"log_format"`

	// StoreBackend selects the record store: "memory" or "badger".
	StoreBackend string `yaml:"store_backend"`

	// SeedFile is an optional YAML file with the initial records.
	// Empty means the built-in seed.
	SeedFile string `yaml:"seed_file"`

	// OTelEndpoint is the OTLP gRPC collector address. Empty disables export.
	OTelEndpoint string `yaml:"otel_endpoint"`

	// ServiceName is used for logs and the tracing resource.
	ServiceName string `yaml:"service_name"`

	// Debug runs gin in debug mode.
	Debug bool `yaml:"debug"`

	// RateLimit is the allowed mutating requests per second. 0 disables.
	RateLimit float64 `yaml:"rate_limit"`

	// RateBurst is the token bucket size when RateLimit is enabled.
	RateBurst int `yaml:"rate_burst"`

	secret        *memguard.Enclave
	defaultSecret bool
}

// Default returns the built-in configuration.
//
// The secret key is not set; Load seals it from the environment.
func Default() Config {
	return Config{
		Port:         "5000",
		LogLevel:     "info",
		LogFormat:    string(logging.FormatAuto),
		StoreBackend: BackendMemory,
		ServiceName:  "people-registry",
		RateBurst:    10,
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// the environment, then validates it.
//
// # Inputs
//
//   - path: YAML file path. Empty skips the file.
//
// # Outputs
//
//   - *Config: The merged configuration with the secret key sealed.
//   - error: File read/parse errors, malformed environment values, or a
//     Validate failure.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	secret, ok := os.LookupEnv(EnvSecretKey)
	if !ok || secret == "" {
		secret = DefaultSecretKey
		cfg.defaultSecret = true
	}
	cfg.secret = memguard.NewEnclave([]byte(secret))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv overrides fields from environment variables that are set.
func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(EnvPort); ok {
		c.Port = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvLogFormat); ok {
		c.LogFormat = v
	}
	if v, ok := os.LookupEnv(EnvStoreBackend); ok {
		c.StoreBackend = v
	}
	if v, ok := os.LookupEnv(EnvSeedFile); ok {
		c.SeedFile = v
	}
	if v, ok := os.LookupEnv(EnvOTelEndpoint); ok {
		c.OTelEndpoint = strings.Trim(v, "\"' ")
	}
	if v, ok := os.LookupEnv(EnvServiceName); ok && v != "" {
		c.ServiceName = v
	}
	if v, ok := os.LookupEnv(EnvDebug); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidConfig, EnvDebug, v)
		}
		c.Debug = b
	}
	if v, ok := os.LookupEnv(EnvRateLimit); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, EnvRateLimit, v)
		}
		c.RateLimit = f
	}
	if v, ok := os.LookupEnv(EnvRateBurst); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, EnvRateBurst, v)
		}
		c.RateBurst = n
	}
	return nil
}

// Validate checks field values. It does not touch the secret key.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w: port %q must be a number between 1 and 65535", ErrInvalidConfig, c.Port)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := logging.ParseFormat(c.LogFormat); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	switch c.StoreBackend {
	case BackendMemory, BackendBadger:
	default:
		return fmt.Errorf("%w: unknown store backend %q", ErrInvalidConfig, c.StoreBackend)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("%w: rate_limit must not be negative", ErrInvalidConfig)
	}
	if c.RateLimit > 0 && c.RateBurst < 1 {
		return fmt.Errorf("%w: rate_burst must be at least 1 when rate_limit is set", ErrInvalidConfig)
	}
	return nil
}

// Logging returns the logger configuration derived from LogLevel,
// LogFormat and ServiceName. Call after Validate.
func (c *Config) Logging() logging.Config {
	level, _ := logging.ParseLevel(c.LogLevel)
	format, _ := logging.ParseFormat(c.LogFormat)
	return logging.Config{
		Level:   level,
		Format:  format,
		Service: c.ServiceName,
	}
}

// UsingDefaultSecret reports whether SECRET_KEY was unset and the
// insecure fallback is in use.
func (c *Config) UsingDefaultSecret() bool {
	return c.defaultSecret
}

// SecretKey opens the sealed secret key.
//
// The caller must Destroy the returned buffer when done with it.
func (c *Config) SecretKey() (*memguard.LockedBuffer, error) {
	if c.secret == nil {
		return nil, fmt.Errorf("%w: secret key not loaded", ErrInvalidConfig)
	}
	buf, err := c.secret.Open()
	if err != nil {
		return nil, fmt.Errorf("open secret key: %w", err)
	}
	return buf, nil
}
