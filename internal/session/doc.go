// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the conversation collection for one process.
//
// The Store is the only writer. Every command mutates memory first, then
// saves the whole collection through its Persister. Persistence failures never
// reach the caller; they surface as a warning Notice at most.
//
// # Key Types
//
//   - Store: collection, active selection and the command surface
//   - Persister: load/save/clear of the whole collection
//   - Notifier: receives user-facing Notices
//
// # Usage
//
//	gw := storage.NewGateway(kv, storage.WithLogger(logger))
//	store := session.NewStore(gw, session.WithNotifier(printer))
//	store.Initialize()
//
//	store.CreateConversation()
//	store.SendMessage("Hello", model.RoleHuman)
//	doc, ok := store.ExportOne(store.ActiveID())
//
// Read views return copies; re-read after each command to render.
package session
