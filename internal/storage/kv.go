// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"

	"github.com/pkg/errors"

	"github.com/jeranaias/chatnotes/internal/config"
)

var (
	// ErrQuotaExceeded is returned by Set when the value does not fit.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// KV is the key-value store the gateway persists into. Set overwrites any
// prior value atomically; Delete of a missing key is not an error.
type KV interface {
	// Get returns the value and true, or "" and false when the key is absent.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open creates the backend selected by cfg.
func Open(cfg config.StorageConfig) (KV, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return NewFileKV(cfg.Path)
	case config.BackendBolt:
		return NewBoltKV(cfg.Path)
	case config.BackendSQLite:
		return NewSQLiteKV(cfg.Path)
	case config.BackendRedis:
		return NewRedisKV(cfg.RedisURL)
	case config.BackendMemory:
		return NewMemoryKV(cfg.QuotaBytes), nil
	default:
		return nil, errors.Wrapf(ErrUnknownBackend, "%q", cfg.Backend)
	}
}
