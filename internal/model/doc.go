// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// A conversation is a manually authored exchange of alternating human and
// assistant turns. Messages are append-only: once added they are never edited,
// reordered, or removed individually.
//
// # Key Types
//
//   - Conversation: Ordered messages plus title and creation/update instants
//   - Message: Single turn with role, trimmed content, and timestamp
//   - Role: Message role enumeration (human, bot)
//
// # Usage
//
//	conv := model.NewConversation(uuid.NewString(), time.Now())
//	msg := model.NewMessage(uuid.NewString(), "Hello!", model.RoleHuman, time.Now())
//	conv.Append(msg)
//	fmt.Println(conv.Title) // "Hello!"
package model
