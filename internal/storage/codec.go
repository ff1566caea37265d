// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/jeranaias/chatnotes/internal/model"
)

// ErrMalformed is returned by Decode for input that is not a valid collection.
var ErrMalformed = errors.New("malformed conversation data")

// =============================================================================
// STORED TYPES
// =============================================================================

// StoredConversation is the persisted form of a conversation.
type StoredConversation struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Messages  []StoredMessage `json:"messages"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// StoredMessage is the persisted form of a message.
type StoredMessage struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Role      string    `json:"role"`
	Timestamp time.Time `json:"timestamp"`
}

// ToStored converts a conversation to its persisted form. Instants are
// normalized to UTC.
func ToStored(conv *model.Conversation) StoredConversation {
	messages := make([]StoredMessage, 0, len(conv.Messages))
	for _, msg := range conv.Messages {
		messages = append(messages, StoredMessage{
			ID:        msg.ID,
			Content:   msg.Content,
			Role:      string(msg.Role),
			Timestamp: msg.Timestamp.UTC(),
		})
	}

	return StoredConversation{
		ID:        conv.ID,
		Title:     conv.Title,
		Messages:  messages,
		CreatedAt: conv.CreatedAt.UTC(),
		UpdatedAt: conv.UpdatedAt.UTC(),
	}
}

// =============================================================================
// ENCODE / DECODE
// =============================================================================

// Encode serializes the collection in order.
func Encode(convs []*model.Conversation) (string, error) {
	stored := make([]StoredConversation, 0, len(convs))
	for _, conv := range convs {
		stored = append(stored, ToStored(conv))
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return "", errors.Wrap(err, "encode conversations")
	}
	return string(data), nil
}

// Decode parses a value produced by Encode. Anything that is not a JSON array
// of well-formed conversations yields an error wrapping ErrMalformed.
func Decode(data string) ([]*model.Conversation, error) {
	if strings.TrimSpace(data) == "" {
		return nil, errors.Wrap(ErrMalformed, "empty input")
	}

	var stored []StoredConversation
	if err := json.Unmarshal([]byte(data), &stored); err != nil {
		return nil, errors.Wrapf(ErrMalformed, "%v", err)
	}
	if stored == nil {
		return nil, errors.Wrap(ErrMalformed, "not an array")
	}

	convs := make([]*model.Conversation, 0, len(stored))
	seen := make(map[string]bool, len(stored))
	for i, sc := range stored {
		conv, err := fromStored(sc)
		if err != nil {
			return nil, errors.Wrapf(err, "conversation %d", i)
		}
		if seen[conv.ID] {
			return nil, errors.Wrapf(ErrMalformed, "conversation %d: duplicate id %q", i, conv.ID)
		}
		seen[conv.ID] = true
		convs = append(convs, conv)
	}
	return convs, nil
}

// fromStored validates one record and converts it back to a conversation.
func fromStored(sc StoredConversation) (*model.Conversation, error) {
	if sc.ID == "" {
		return nil, errors.Wrap(ErrMalformed, "missing id")
	}
	if sc.Messages == nil {
		return nil, errors.Wrap(ErrMalformed, "missing messages")
	}
	if sc.CreatedAt.IsZero() || sc.UpdatedAt.IsZero() {
		return nil, errors.Wrap(ErrMalformed, "missing timestamps")
	}

	conv := &model.Conversation{
		ID:        sc.ID,
		Title:     sc.Title,
		Messages:  make([]*model.Message, 0, len(sc.Messages)),
		CreatedAt: sc.CreatedAt.UTC(),
		UpdatedAt: sc.UpdatedAt.UTC(),
	}
	if conv.UpdatedAt.Before(conv.CreatedAt) {
		conv.UpdatedAt = conv.CreatedAt
	}

	seen := make(map[string]bool, len(sc.Messages))
	for j, sm := range sc.Messages {
		role := model.Role(sm.Role)
		switch {
		case sm.ID == "":
			return nil, errors.Wrapf(ErrMalformed, "message %d: missing id", j)
		case seen[sm.ID]:
			return nil, errors.Wrapf(ErrMalformed, "message %d: duplicate id %q", j, sm.ID)
		case !role.Valid():
			return nil, errors.Wrapf(ErrMalformed, "message %d: invalid role %q", j, sm.Role)
		case strings.TrimSpace(sm.Content) == "":
			return nil, errors.Wrapf(ErrMalformed, "message %d: empty content", j)
		case sm.Timestamp.IsZero():
			return nil, errors.Wrapf(ErrMalformed, "message %d: missing timestamp", j)
		}
		seen[sm.ID] = true

		conv.Messages = append(conv.Messages, &model.Message{
			ID:        sm.ID,
			Content:   sm.Content,
			Role:      role,
			Timestamp: sm.Timestamp.UTC(),
		})
	}

	return conv, nil
}
