// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export renders conversations into downloadable documents.
//
// Markdown is the primary format; JSON and HTML are also available. Rendering
// is deterministic: the same conversation always produces the same bytes.
//
// # Key Types
//
//   - Exporter: renders one conversation or a whole collection
//   - Document: rendered bytes plus file name and MIME type
//   - Options: output directory, time zone, open-after-export
//
// # Supported Formats
//
//   - Markdown: title block, one section per message
//   - JSON: the persisted record layout, indented
//   - HTML: the Markdown rendered through goldmark with embedded CSS
//
// # Usage
//
// Export one conversation to the current directory:
//
//	exp := export.NewMarkdownExporter(opts)
//	doc, err := export.BuildOne(exp, conv, time.Now())
//	path, err := export.WriteFile(doc, opts)
//
// File names follow Filename and AllFilename:
//
//	export.Filename("Hello World!", at, ".md") // hello_world__1760862615123.md
package export
