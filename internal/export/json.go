// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/jeranaias/chatnotes/internal/model"
	"github.com/jeranaias/chatnotes/internal/storage"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports conversations in the persisted record layout, indented.
// A collection export is therefore readable by storage.Decode.
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter.
// The options parameter is accepted for consistency with other exporters.
func NewJSONExporter(_ *Options) *JSONExporter {
	return &JSONExporter{}
}

// Export converts a conversation to JSON format.
func (e *JSONExporter) Export(conv *model.Conversation) ([]byte, error) {
	if conv == nil {
		return nil, errors.New("conversation is nil")
	}
	return json.MarshalIndent(storage.ToStored(conv), "", "  ")
}

// ExportAll converts the collection to a JSON array. The export instant is
// carried by the file name only.
func (e *JSONExporter) ExportAll(convs []*model.Conversation, _ time.Time) ([]byte, error) {
	stored := make([]storage.StoredConversation, 0, len(convs))
	for i, conv := range convs {
		if conv == nil {
			return nil, errors.Errorf("conversation %d is nil", i)
		}
		stored = append(stored, storage.ToStored(conv))
	}
	return json.MarshalIndent(stored, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
