// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

// =============================================================================
// ROLE TESTS
// =============================================================================

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"human", RoleHuman, true},
		{"HUMAN", RoleHuman, true},
		{"user", RoleHuman, true},
		{"bot", RoleBot, true},
		{" assistant ", RoleBot, true},
		{"system", "", false},
		{"", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ParseRole(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRole_Presentation(t *testing.T) {
	assert.Equal(t, "Human", RoleHuman.Label())
	assert.Equal(t, "Assistant", RoleBot.Label())
	assert.NotEqual(t, RoleHuman.Icon(), RoleBot.Icon())
	assert.Equal(t, RoleBot, RoleHuman.Opposite())
	assert.Equal(t, RoleHuman, RoleBot.Opposite())
	assert.False(t, Role("tool").Valid())
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewMessage_TrimsContent(t *testing.T) {
	msg := NewMessage("m1", "  hello\nworld \t", RoleHuman, t0)

	assert.Equal(t, "hello\nworld", msg.Content)
	assert.Empty(t, NewMessage("m2", " \n ", RoleBot, t0).Content)
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestNewConversation(t *testing.T) {
	conv := NewConversation("c1", t0)

	assert.Equal(t, DefaultTitle, conv.Title)
	assert.Equal(t, t0, conv.CreatedAt)
	assert.Equal(t, t0, conv.UpdatedAt)
	assert.NotNil(t, conv.Messages)
	assert.True(t, conv.IsEmpty())
	assert.Nil(t, conv.LastMessage())
}

func TestConversation_TitleDerivation(t *testing.T) {
	long := strings.Repeat("a", 50) + "bcdef"

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"short", "Hello", "Hello"},
		{"exactly fifty", strings.Repeat("x", 50), strings.Repeat("x", 50)},
		{"long", long, strings.Repeat("a", 50) + "..."},
		{"multibyte", strings.Repeat("é", 51), strings.Repeat("é", 50) + "..."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			conv := NewConversation("c1", t0)
			conv.Append(NewMessage("m1", tc.content, RoleHuman, t0.Add(time.Second)))
			assert.Equal(t, tc.want, conv.Title)

			conv.Append(NewMessage("m2", "something else entirely", RoleBot, t0.Add(2*time.Second)))
			assert.Equal(t, tc.want, conv.Title, "title must not change after the first message")
		})
	}
}

func TestConversation_CustomTitleKept(t *testing.T) {
	conv := NewConversation("c1", t0)
	conv.Title = "Pinned"
	conv.Append(NewMessage("m1", "Hello", RoleHuman, t0))

	assert.Equal(t, "Pinned", conv.Title)
}

func TestConversation_AppendOrderAndUpdatedAt(t *testing.T) {
	conv := NewConversation("c1", t0)
	for i, content := range []string{"one", "two", "three"} {
		at := t0.Add(time.Duration(i+1) * time.Minute)
		conv.Append(NewMessage(content, content, RoleHuman, at))
		assert.Equal(t, at, conv.UpdatedAt)
	}

	require.Equal(t, 3, conv.MessageCount())
	assert.Equal(t, "one", conv.Messages[0].Content)
	assert.Equal(t, "three", conv.LastMessage().Content)
}

func TestConversation_UpdatedAtNeverBeforeCreatedAt(t *testing.T) {
	conv := NewConversation("c1", t0)
	conv.Append(NewMessage("m1", "clock skew", RoleHuman, t0.Add(-time.Hour)))

	assert.Equal(t, t0, conv.UpdatedAt)
}

func TestConversation_Clone(t *testing.T) {
	conv := NewConversation("c1", t0)
	conv.Append(NewMessage("m1", "Hello", RoleHuman, t0))

	clone := conv.Clone()
	clone.Messages[0].Content = "changed"
	clone.Title = "changed"

	assert.Equal(t, "Hello", conv.Messages[0].Content)
	assert.Equal(t, "Hello", conv.Title)
}

func TestConversation_Preview(t *testing.T) {
	conv := NewConversation("c1", t0)
	assert.Equal(t, "Empty conversation", conv.Preview(20))

	conv.Append(NewMessage("m1", "A fairly long opening line", RoleHuman, t0))
	assert.Equal(t, "A fairly...", conv.Preview(11))
}
