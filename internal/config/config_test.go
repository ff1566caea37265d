// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the config directory at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CHATNOTES_HOME", dir)
	for _, key := range []string{
		"CHATNOTES_BACKEND", "CHATNOTES_STORAGE_PATH", "CHATNOTES_STORAGE_KEY",
		"CHATNOTES_REDIS_URL", "CHATNOTES_QUOTA_BYTES", "CHATNOTES_EXPORT_DIR",
		"CHATNOTES_TIMEZONE", "CHATNOTES_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, DefaultStorageKey, cfg.Storage.Key)
	assert.Equal(t, filepath.Join(dir, "data"), cfg.Storage.Path)
	assert.Equal(t, 5*time.Second, cfg.Storage.Timeout())
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_TOMLRoundTrip(t *testing.T) {
	dir := isolate(t)

	cfg := Default()
	cfg.Storage.Backend = BackendSQLite
	cfg.Export.Timezone = "UTC"
	cfg.Log.Level = "debug"

	path := filepath.Join(dir, "config.toml")
	require.NoError(t, SaveTOML(cfg, path))

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, loaded.Storage.Backend)
	assert.Equal(t, filepath.Join(dir, "chatnotes.db"), loaded.Storage.Path)
	assert.Equal(t, "debug", loaded.Log.Level)

	loc, err := loaded.Export.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestLoad_JSONFallback(t *testing.T) {
	dir := isolate(t)

	data := []byte(`{"storage": {"backend": "bolt"}, "log": {"format": "json"}}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), data, 0600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendBolt, cfg.Storage.Backend)
	assert.Equal(t, filepath.Join(dir, "chatnotes.bolt"), cfg.Storage.Path)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestApplyEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("CHATNOTES_BACKEND", "memory")
	t.Setenv("CHATNOTES_STORAGE_KEY", "custom.key")
	t.Setenv("CHATNOTES_QUOTA_BYTES", "1024")
	t.Setenv("CHATNOTES_EXPORT_DIR", "/tmp/out")
	t.Setenv("CHATNOTES_LOG_LEVEL", "error")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, "custom.key", cfg.Storage.Key)
	assert.Equal(t, 1024, cfg.Storage.QuotaBytes)
	assert.Equal(t, "/tmp/out", cfg.Export.OutputDir)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"unknown backend", func(c *Config) { c.Storage.Backend = "etcd" }, "storage.backend"},
		{"empty key", func(c *Config) { c.Storage.Key = "  " }, "storage.key"},
		{"negative timeout", func(c *Config) { c.Storage.TimeoutSecs = -1 }, "storage.timeout_secs"},
		{"redis without url", func(c *Config) {
			c.Storage.Backend = BackendRedis
			c.Storage.RedisURL = ""
		}, "storage.redis_url"},
		{"bad timezone", func(c *Config) { c.Export.Timezone = "Mars/Olympus" }, "export.timezone"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var verrs ValidateErrors
			require.True(t, errors.As(err, &verrs))
			require.Len(t, verrs, 1)
			assert.Equal(t, tc.field, verrs[0].Field)
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestLoadFromPath_InvalidTOML(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("[storage\nbackend = "), 0600))

	_, err := LoadFromPath(path)
	assert.Error(t, err)
}
