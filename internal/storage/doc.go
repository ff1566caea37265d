// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists the conversation collection in a key-value store.
//
// The whole collection lives under a single key as a JSON array. Instants are
// written as RFC 3339 timestamps with nanoseconds and parsed back into
// time.Time on load.
//
// # Key Types
//
//   - KV: Minimal key-value store (Get, Set, Delete) with several backends
//   - Gateway: Loads, saves and clears the collection; absorbs every failure
//   - StoredConversation, StoredMessage: The persisted record layout
//
// # Backends
//
//   - file: one JSON file per key, written atomically
//   - bolt: a bbolt bucket
//   - sqlite: a kv table in a SQLite database (pure Go driver)
//   - redis: plain string keys
//   - memory: process-local map with an optional byte quota
//
// # Usage
//
//	kv, err := storage.Open(cfg.Storage)
//	gw := storage.NewGateway(kv, storage.WithKey(cfg.Storage.Key), storage.WithLogger(log))
//	convs := gw.Load()
//	gw.Save(convs)
package storage
