// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for chatnotes.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.chatnotes/config.toml
//   - ~/.chatnotes/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/jeranaias/chatnotes/internal/util"
)

// Storage backend names.
const (
	BackendFile   = "file"
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// DefaultStorageKey is the key under which the conversation collection is stored.
// The suffix is bumped when the persisted layout changes.
const DefaultStorageKey = "chatnotes.conversations.v1"

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete chatnotes configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	Storage StorageConfig `toml:"storage" json:"storage"`
	Export  ExportConfig  `toml:"export" json:"export"`
	Log     LogConfig     `toml:"log" json:"log"`
}

// StorageConfig selects and configures the key-value store backend.
type StorageConfig struct {
	// Backend is one of: file, bolt, sqlite, redis, memory
	Backend string `toml:"backend" json:"backend"`
	// Path is the data directory (file) or database file (bolt, sqlite).
	// Empty selects a default under the config directory.
	Path string `toml:"path" json:"path"`
	// Key is the single key holding the conversation collection.
	Key string `toml:"key" json:"key"`
	// RedisURL is used by the redis backend, e.g. redis://localhost:6379/0
	RedisURL string `toml:"redis_url" json:"redis_url"`
	// TimeoutSecs bounds each store operation.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// QuotaBytes limits the memory backend's value size (0 = unlimited).
	QuotaBytes int `toml:"quota_bytes" json:"quota_bytes"`
}

// ExportConfig controls Markdown export.
type ExportConfig struct {
	// OutputDir is where exported files are written.
	OutputDir string `toml:"output_dir" json:"output_dir"`
	// Timezone is an IANA name ("Local", "UTC", "Europe/Berlin") used for rendered instants.
	Timezone string `toml:"timezone" json:"timezone"`
	// OpenAfterExport opens the file with the OS default handler.
	OpenAfterExport bool `toml:"open_after_export" json:"open_after_export"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	// Level is a zerolog level name: trace, debug, info, warn, error, disabled
	Level string `toml:"level" json:"level"`
	// Format is "console" or "json"
	Format string `toml:"format" json:"format"`
	// File is an optional log file path; empty logs to stderr.
	File string `toml:"file" json:"file"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1",
		Storage: StorageConfig{
			Backend:     BackendFile,
			Key:         DefaultStorageKey,
			RedisURL:    "redis://127.0.0.1:6379/0",
			TimeoutSecs: 5,
		},
		Export: ExportConfig{
			OutputDir: ".",
			Timezone:  "Local",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// Dir returns the chatnotes configuration directory.
// CHATNOTES_HOME overrides the default ~/.chatnotes.
func Dir() (string, error) {
	if dir := os.Getenv("CHATNOTES_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".chatnotes"), nil
}

// PathTOML returns the path to the TOML config file.
func PathTOML() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// PathJSON returns the path to the JSON config file.
func PathJSON() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config directory.
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	tomlPath, err := PathTOML()
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(tomlPath); statErr == nil {
		return LoadFromPath(tomlPath)
	}

	jsonPath, err := PathJSON()
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(jsonPath); statErr == nil {
		return LoadFromPath(jsonPath)
	}

	cfg := Default()
	return finish(cfg)
}

// LoadFromPath loads configuration from a specific file. Files ending in
// .json are decoded as JSON, everything else as TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read JSON config: %w", err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode JSON config %s: %w", path, err)
		}
	} else {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode TOML config %s: %w", path, err)
		}
	}

	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	if err := cfg.SetDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SetDefaults fills empty fields, including backend-specific storage paths.
func (c *Config) SetDefaults() error {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = defaults.Storage.Backend
	}
	c.Storage.Backend = strings.ToLower(c.Storage.Backend)
	if c.Storage.Key == "" {
		c.Storage.Key = defaults.Storage.Key
	}
	if c.Storage.TimeoutSecs == 0 {
		c.Storage.TimeoutSecs = defaults.Storage.TimeoutSecs
	}
	if c.Storage.Path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		switch c.Storage.Backend {
		case BackendFile:
			c.Storage.Path = filepath.Join(dir, "data")
		case BackendBolt:
			c.Storage.Path = filepath.Join(dir, "chatnotes.bolt")
		case BackendSQLite:
			c.Storage.Path = filepath.Join(dir, "chatnotes.db")
		}
	}
	if c.Export.OutputDir == "" {
		c.Export.OutputDir = defaults.Export.OutputDir
	}
	if c.Export.Timezone == "" {
		c.Export.Timezone = defaults.Export.Timezone
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = defaults.Log.Format
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// SaveTOML writes the configuration to path with a short header comment.
func SaveTOML(cfg *Config, path string) error {
	var sb strings.Builder
	sb.WriteString("# chatnotes configuration file\n")
	sb.WriteString("# backend: file | bolt | sqlite | redis | memory\n\n")

	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	switch c.Storage.Backend {
	case BackendFile, BackendBolt, BackendSQLite, BackendRedis, BackendMemory:
	default:
		errs = append(errs, ValidationError{
			Field:   "storage.backend",
			Message: fmt.Sprintf("invalid backend '%s', must be one of: file, bolt, sqlite, redis, memory", c.Storage.Backend),
		})
	}

	if strings.TrimSpace(c.Storage.Key) == "" {
		errs = append(errs, ValidationError{Field: "storage.key", Message: "cannot be empty"})
	}
	if c.Storage.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{Field: "storage.timeout_secs", Message: "cannot be negative"})
	}
	if c.Storage.QuotaBytes < 0 {
		errs = append(errs, ValidationError{Field: "storage.quota_bytes", Message: "cannot be negative"})
	}
	if c.Storage.Backend == BackendRedis && c.Storage.RedisURL == "" {
		errs = append(errs, ValidationError{Field: "storage.redis_url", Message: "required for redis backend"})
	}

	if _, err := c.Export.Location(); err != nil {
		errs = append(errs, ValidationError{
			Field:   "export.timezone",
			Message: fmt.Sprintf("unknown time zone '%s'", c.Export.Timezone),
		})
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s'", c.Log.Level),
		})
	}
	if f := strings.ToLower(c.Log.Format); f != "console" && f != "json" {
		errs = append(errs, ValidationError{
			Field:   "log.format",
			Message: fmt.Sprintf("invalid format '%s', must be one of: console, json", c.Log.Format),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// Timeout returns the per-operation store timeout.
func (s StorageConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSecs) * time.Second
}

// Location resolves the configured export time zone.
func (e ExportConfig) Location() (*time.Location, error) {
	switch e.Timezone {
	case "", "Local", "local":
		return time.Local, nil
	case "UTC", "utc":
		return time.UTC, nil
	}
	return time.LoadLocation(e.Timezone)
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported variables:
//   - CHATNOTES_BACKEND: overrides storage.backend
//   - CHATNOTES_STORAGE_PATH: overrides storage.path
//   - CHATNOTES_STORAGE_KEY: overrides storage.key
//   - CHATNOTES_REDIS_URL: overrides storage.redis_url
//   - CHATNOTES_QUOTA_BYTES: overrides storage.quota_bytes
//   - CHATNOTES_EXPORT_DIR: overrides export.output_dir
//   - CHATNOTES_TIMEZONE: overrides export.timezone
//   - CHATNOTES_LOG_LEVEL: overrides log.level
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("CHATNOTES_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("CHATNOTES_STORAGE_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("CHATNOTES_STORAGE_KEY"); v != "" {
		c.Storage.Key = v
	}
	if v := os.Getenv("CHATNOTES_REDIS_URL"); v != "" {
		c.Storage.RedisURL = v
	}
	if v := os.Getenv("CHATNOTES_QUOTA_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Storage.QuotaBytes = n
		}
	}
	if v := os.Getenv("CHATNOTES_EXPORT_DIR"); v != "" {
		c.Export.OutputDir = v
	}
	if v := os.Getenv("CHATNOTES_TIMEZONE"); v != "" {
		c.Export.Timezone = v
	}
	if v := os.Getenv("CHATNOTES_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}
