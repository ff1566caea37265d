// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"strings"
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the author of a message.
type Role string

const (
	RoleHuman Role = "human"
	RoleBot   Role = "bot"
)

// ParseRole parses a role name. "assistant" is accepted as an alias for bot.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "human", "user":
		return RoleHuman, true
	case "bot", "assistant":
		return RoleBot, true
	default:
		return "", false
	}
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleHuman || r == RoleBot
}

// Label returns a human-readable name for the role.
func (r Role) Label() string {
	switch r {
	case RoleHuman:
		return "Human"
	case RoleBot:
		return "Assistant"
	default:
		return string(r)
	}
}

// Icon returns the glyph used to mark the role in exports.
func (r Role) Icon() string {
	switch r {
	case RoleHuman:
		return "👤"
	case RoleBot:
		return "🤖"
	default:
		return "•"
	}
}

// Opposite returns the other role. Unknown roles map to human.
func (r Role) Opposite() Role {
	if r == RoleHuman {
		return RoleBot
	}
	return RoleHuman
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single turn in a conversation.
type Message struct {
	ID        string
	Content   string
	Role      Role
	Timestamp time.Time
}

// NewMessage creates a message with trimmed content.
func NewMessage(id, content string, role Role, at time.Time) *Message {
	return &Message{
		ID:        id,
		Content:   strings.TrimSpace(content),
		Role:      role,
		Timestamp: at,
	}
}

// Preview returns the content truncated to maxLen runes.
func (m *Message) Preview(maxLen int) string {
	return truncate(m.Content, maxLen)
}
