// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/jeranaias/chatnotes/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter renders conversations as Markdown. Output depends only on
// the conversation data and the configured location.
type MarkdownExporter struct {
	// Location is the time zone instants are rendered in.
	Location *time.Location
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	return &MarkdownExporter{Location: opts.location()}
}

// Export renders one conversation: a title block followed by one section per
// message, with a separator between consecutive messages.
func (e *MarkdownExporter) Export(conv *model.Conversation) ([]byte, error) {
	if conv == nil {
		return nil, errors.New("conversation is nil")
	}

	var sb strings.Builder
	e.writeHeader(&sb, conv)
	sb.WriteString("---\n\n")
	e.writeMessages(&sb, conv.Messages)

	return []byte(sb.String()), nil
}

// ExportAll renders the collection under a single export header, one
// top-level section per conversation.
func (e *MarkdownExporter) ExportAll(convs []*model.Conversation, exportedAt time.Time) ([]byte, error) {
	var sb strings.Builder

	sb.WriteString("# All Conversations Export\n\n")
	sb.WriteString(fmt.Sprintf("**Exported:** %s\n", e.timestamp(exportedAt)))
	sb.WriteString(fmt.Sprintf("**Total Conversations:** %d\n\n", len(convs)))
	sb.WriteString("---\n\n")

	for i, conv := range convs {
		if conv == nil {
			return nil, errors.Errorf("conversation %d is nil", i)
		}
		if i > 0 {
			sb.WriteString("\n\n# ---\n\n")
		}
		e.writeHeader(&sb, conv)
		e.writeMessages(&sb, conv.Messages)
	}

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

func (e *MarkdownExporter) writeHeader(sb *strings.Builder, conv *model.Conversation) {
	sb.WriteString(fmt.Sprintf("# %s\n\n", conv.Title))
	sb.WriteString(fmt.Sprintf("**Created:** %s\n", e.timestamp(conv.CreatedAt)))
	sb.WriteString(fmt.Sprintf("**Last Updated:** %s\n", e.timestamp(conv.UpdatedAt)))
	sb.WriteString(fmt.Sprintf("**Messages:** %d\n\n", len(conv.Messages)))
}

func (e *MarkdownExporter) writeMessages(sb *strings.Builder, messages []*model.Message) {
	for i, msg := range messages {
		sb.WriteString(fmt.Sprintf("## %s %s\n", msg.Role.Icon(), msg.Role.Label()))
		sb.WriteString(fmt.Sprintf("*%s*\n\n", e.timestamp(msg.Timestamp)))
		sb.WriteString(msg.Content)
		sb.WriteString("\n\n")

		// Separator between messages, never after the last.
		if i < len(messages)-1 {
			sb.WriteString("---\n\n")
		}
	}
}

func (e *MarkdownExporter) timestamp(t time.Time) string {
	loc := e.Location
	if loc == nil {
		loc = time.UTC
	}
	return formatTimestamp(t, loc)
}
