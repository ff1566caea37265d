// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/jeranaias/chatnotes/internal/util"
)

// FileKV stores each key as a JSON file in a directory.
type FileKV struct {
	// BaseDir is the directory holding one file per key.
	BaseDir string
}

// NewFileKV creates the directory if needed.
func NewFileKV(baseDir string) (*FileKV, error) {
	if baseDir == "" {
		return nil, errors.New("file store: empty directory")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, errors.Wrap(err, "file store: create directory")
	}
	return &FileKV{BaseDir: baseDir}, nil
}

// Get implements KV.
func (f *FileKV) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(f.filePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, errors.Wrap(err, "file store: read")
	}
	return string(data), true, nil
}

// Set implements KV. The write is atomic.
func (f *FileKV) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := util.AtomicWriteFile(f.filePath(key), []byte(value), 0600); err != nil {
		return errors.Wrap(err, "file store: write")
	}
	return nil
}

// Delete implements KV.
func (f *FileKV) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(f.filePath(key)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "file store: delete")
	}
	return nil
}

// Close implements KV.
func (f *FileKV) Close() error { return nil }

// filePath maps a key to a file name made of safe characters only.
func (f *FileKV) filePath(key string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, key)
	return filepath.Join(f.BaseDir, name+".json")
}
