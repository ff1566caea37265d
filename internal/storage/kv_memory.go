// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// MemoryKV keeps values in process memory. A positive quota caps the size in
// bytes of any single value, the way browser storage rejects oversized writes.
type MemoryKV struct {
	mu     sync.Mutex
	quota  int
	values map[string]string
}

// NewMemoryKV creates an empty in-memory store. quota <= 0 means unlimited.
func NewMemoryKV(quota int) *MemoryKV {
	return &MemoryKV{quota: quota, values: make(map[string]string)}
}

// Get implements KV.
func (m *MemoryKV) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set implements KV.
func (m *MemoryKV) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.quota > 0 && len(value) > m.quota {
		return errors.Wrapf(ErrQuotaExceeded, "%d bytes over limit of %d", len(value), m.quota)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Delete implements KV.
func (m *MemoryKV) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Close implements KV.
func (m *MemoryKV) Close() error { return nil }
