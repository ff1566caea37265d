// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"fmt"
	"html"
	"time"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/jeranaias/chatnotes/internal/model"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter renders the Markdown export through goldmark and wraps it in a
// standalone page with embedded CSS. Raw HTML inside messages is dropped.
type HTMLExporter struct {
	markdown *MarkdownExporter
	md       goldmark.Markdown
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	return &HTMLExporter{
		markdown: NewMarkdownExporter(opts),
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			// Message line breaks are meaningful.
			goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
		),
	}
}

// Export converts a conversation to an HTML page.
func (e *HTMLExporter) Export(conv *model.Conversation) ([]byte, error) {
	source, err := e.markdown.Export(conv)
	if err != nil {
		return nil, err
	}
	return e.page(conv.Title, source)
}

// ExportAll converts the collection to a single HTML page.
func (e *HTMLExporter) ExportAll(convs []*model.Conversation, exportedAt time.Time) ([]byte, error) {
	source, err := e.markdown.ExportAll(convs, exportedAt)
	if err != nil {
		return nil, err
	}
	return e.page("All Conversations Export", source)
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

// =============================================================================
// RENDERING FUNCTIONS
// =============================================================================

func (e *HTMLExporter) page(title string, source []byte) ([]byte, error) {
	var body bytes.Buffer
	if err := e.md.Convert(source, &body); err != nil {
		return nil, errors.Wrap(err, "render markdown")
	}

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n")
	buf.WriteString("<html lang=\"en\">\n")
	buf.WriteString("<head>\n")
	buf.WriteString("    <meta charset=\"UTF-8\">\n")
	buf.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	buf.WriteString(fmt.Sprintf("    <title>%s</title>\n", html.EscapeString(title)))
	buf.WriteString("    <meta name=\"generator\" content=\"chatnotes\">\n")
	buf.WriteString(pageCSS)
	buf.WriteString("</head>\n")
	buf.WriteString("<body>\n")
	buf.WriteString("<main class=\"conversation\">\n")
	buf.Write(body.Bytes())
	buf.WriteString("</main>\n")
	buf.WriteString("</body>\n")
	buf.WriteString("</html>\n")

	return buf.Bytes(), nil
}

// =============================================================================
// EMBEDDED CSS
// =============================================================================

const pageCSS = `    <style>
        :root {
            --font-sans: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            --font-mono: "SF Mono", "Monaco", "Inconsolata", "Fira Code", monospace;
            --bg: #ffffff;
            --text: #24292e;
            --muted: #6a737d;
            --border: #e1e4e8;
            --code-bg: #f6f8fa;
        }

        @media (prefers-color-scheme: dark) {
            :root {
                --bg: #1a1b26;
                --text: #c0caf5;
                --muted: #565f89;
                --border: #414868;
                --code-bg: #24283b;
            }
        }

        body {
            margin: 0;
            background: var(--bg);
            color: var(--text);
            font-family: var(--font-sans);
            line-height: 1.6;
        }

        .conversation {
            max-width: 860px;
            margin: 0 auto;
            padding: 2rem 1.5rem;
        }

        h1 { border-bottom: 1px solid var(--border); padding-bottom: 0.3em; }
        h2 { margin-top: 1.5em; font-size: 1.15em; }
        h2 + p em { color: var(--muted); font-size: 0.9em; }
        hr { border: 0; border-top: 1px solid var(--border); margin: 1.5em 0; }

        pre, code {
            font-family: var(--font-mono);
            background: var(--code-bg);
            border-radius: 4px;
        }
        pre { padding: 0.8em; overflow-x: auto; }
        code { padding: 0.1em 0.3em; }
        pre code { padding: 0; }
    </style>
`
