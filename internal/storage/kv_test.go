// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatnotes/internal/config"
)

// exerciseKV runs the behaviour every backend must share.
func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()
	key := "chatnotes.test.v1"

	_, ok, err := kv.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok, "fresh store must report the key as absent")

	require.NoError(t, kv.Set(ctx, key, `[{"id":"1"}]`))
	value, ok, err := kv.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"1"}]`, value)

	require.NoError(t, kv.Set(ctx, key, "[]"))
	value, _, err = kv.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "[]", value, "Set must overwrite")

	require.NoError(t, kv.Delete(ctx, key))
	_, ok, err = kv.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Delete(ctx, key), "deleting a missing key is not an error")
	require.NoError(t, kv.Close())
}

func TestMemoryKV(t *testing.T) {
	exerciseKV(t, NewMemoryKV(0))
}

func TestMemoryKV_Quota(t *testing.T) {
	kv := NewMemoryKV(8)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k", "12345678"))
	err := kv.Set(ctx, "k", "123456789")
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	value, _, _ := kv.Get(ctx, "k")
	assert.Equal(t, "12345678", value, "failed write must leave the old value")
}

func TestMemoryKV_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewMemoryKV(0).Set(ctx, "k", "v")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileKV(t *testing.T) {
	kv, err := NewFileKV(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	exerciseKV(t, kv)
}

func TestFileKV_KeyIsSanitized(t *testing.T) {
	dir := t.TempDir()
	kv, err := NewFileKV(dir)
	require.NoError(t, err)

	require.NoError(t, kv.Set(context.Background(), "../escape/key", "v"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, strings.Contains(entries[0].Name(), "/"))
	assert.Equal(t, ".._escape_key.json", entries[0].Name())
}

func TestBoltKV(t *testing.T) {
	kv, err := NewBoltKV(filepath.Join(t.TempDir(), "chatnotes.bolt"))
	require.NoError(t, err)
	exerciseKV(t, kv)
}

func TestBoltKV_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chatnotes.bolt")

	kv, err := NewBoltKV(path)
	require.NoError(t, err)
	require.NoError(t, kv.Set(context.Background(), "k", "persisted"))
	require.NoError(t, kv.Close())

	kv, err = NewBoltKV(path)
	require.NoError(t, err)
	defer kv.Close()

	value, ok, err := kv.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted", value)
}

func TestSQLiteKV(t *testing.T) {
	kv, err := NewSQLiteKV(filepath.Join(t.TempDir(), "chatnotes.db"))
	require.NoError(t, err)
	exerciseKV(t, kv)
}

func TestSQLiteKV_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chatnotes.db")

	kv, err := NewSQLiteKV(path)
	require.NoError(t, err)
	require.NoError(t, kv.Set(context.Background(), "k", "persisted"))
	require.NoError(t, kv.Close())

	kv, err = NewSQLiteKV(path)
	require.NoError(t, err)
	defer kv.Close()

	value, ok, err := kv.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted", value)
}

// TestRedisKV needs a live server: CHATNOTES_TEST_REDIS_URL=redis://localhost:6379/15
func TestRedisKV(t *testing.T) {
	url := os.Getenv("CHATNOTES_TEST_REDIS_URL")
	if url == "" {
		t.Skip("CHATNOTES_TEST_REDIS_URL not set")
	}
	kv, err := NewRedisKV(url)
	require.NoError(t, err)
	exerciseKV(t, kv)
}

func TestNewRedisKV_BadURL(t *testing.T) {
	_, err := NewRedisKV("not a url")
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		cfg  config.StorageConfig
		want any
	}{
		{config.StorageConfig{Backend: config.BackendMemory}, &MemoryKV{}},
		{config.StorageConfig{Backend: config.BackendFile, Path: filepath.Join(dir, "files")}, &FileKV{}},
		{config.StorageConfig{Backend: config.BackendBolt, Path: filepath.Join(dir, "x.bolt")}, &BoltKV{}},
		{config.StorageConfig{Backend: config.BackendSQLite, Path: filepath.Join(dir, "x.db")}, &SQLiteKV{}},
		{config.StorageConfig{Backend: config.BackendRedis, RedisURL: "redis://127.0.0.1:6379/0"}, &RedisKV{}},
	}

	for _, tc := range tests {
		t.Run(tc.cfg.Backend, func(t *testing.T) {
			kv, err := Open(tc.cfg)
			require.NoError(t, err)
			defer kv.Close()
			assert.IsType(t, tc.want, kv)
		})
	}

	_, err := Open(config.StorageConfig{Backend: "etcd"})
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
