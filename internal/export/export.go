// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/chatnotes/internal/model"
	"github.com/jeranaias/chatnotes/internal/util"
)

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter renders conversations into a document format.
type Exporter interface {
	// Export renders one conversation.
	Export(conv *model.Conversation) ([]byte, error)

	// ExportAll renders the whole collection in order.
	ExportAll(convs []*model.Conversation, exportedAt time.Time) ([]byte, error)

	// FileExtension returns the file extension including the dot (e.g. ".md").
	FileExtension() string

	// MimeType returns the MIME type of the rendered document.
	MimeType() string
}

// Format names accepted by ForFormat.
const (
	FormatMarkdown = "md"
	FormatJSON     = "json"
	FormatHTML     = "html"
)

// ForFormat returns the exporter for a format name.
func ForFormat(format string, opts *Options) (Exporter, error) {
	switch strings.ToLower(format) {
	case "", FormatMarkdown, "markdown":
		return NewMarkdownExporter(opts), nil
	case FormatHTML, "htm":
		return NewHTMLExporter(opts), nil
	case FormatJSON:
		return NewJSONExporter(opts), nil
	default:
		return nil, errors.Errorf("unsupported export format: %s", format)
	}
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is the directory where files will be saved.
	// Default: current working directory
	OutputDir string

	// OpenAfterExport opens the file in the default application.
	OpenAfterExport bool

	// Location is the time zone instants are rendered in.
	// Default: UTC
	Location *time.Location
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir: ".",
		Location:  time.UTC,
	}
}

func (o *Options) location() *time.Location {
	if o == nil || o.Location == nil {
		return time.UTC
	}
	return o.Location
}

// =============================================================================
// DOCUMENTS
// =============================================================================

// Document is a rendered export ready for delivery.
type Document struct {
	Filename string
	MimeType string
	Content  []byte
}

// BuildOne renders conv and names the document after its title and at.
func BuildOne(exp Exporter, conv *model.Conversation, at time.Time) (Document, error) {
	if conv == nil {
		return Document{}, errors.New("conversation is nil")
	}
	content, err := exp.Export(conv)
	if err != nil {
		return Document{}, errors.Wrap(err, "export conversation")
	}
	return Document{
		Filename: Filename(conv.Title, at, exp.FileExtension()),
		MimeType: exp.MimeType(),
		Content:  content,
	}, nil
}

// BuildAll renders the collection as one document exported at at.
func BuildAll(exp Exporter, convs []*model.Conversation, at time.Time) (Document, error) {
	content, err := exp.ExportAll(convs, at)
	if err != nil {
		return Document{}, errors.Wrap(err, "export collection")
	}
	return Document{
		Filename: AllFilename(at, exp.FileExtension()),
		MimeType: exp.MimeType(),
		Content:  content,
	}, nil
}

// WriteFile delivers doc into opts.OutputDir and returns the written path.
// The write is atomic. A failure to open the file afterwards is only logged.
func WriteFile(doc Document, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if doc.Filename == "" || filepath.Base(doc.Filename) != doc.Filename {
		return "", errors.Errorf("invalid document filename %q", doc.Filename)
	}

	dir := opts.OutputDir
	if dir == "" {
		dir = "."
	}
	outputPath := filepath.Join(dir, doc.Filename)
	if err := util.AtomicWriteFile(outputPath, doc.Content, 0644); err != nil {
		return "", errors.Wrap(err, "write export")
	}

	if opts.OpenAfterExport {
		if err := openFile(outputPath); err != nil {
			log.Warn().Err(err).Str("path", outputPath).Msg("could not open exported file")
		}
	}
	return outputPath, nil
}

// =============================================================================
// FILENAMES
// =============================================================================

// Filename derives an export file name from a title: every rune outside
// [a-z0-9] (ignoring case) becomes '_', the result is lower-cased and
// suffixed with the Unix millisecond time of at.
func Filename(title string, at time.Time, ext string) string {
	return sanitizeFilename(title) + "_" + strconv.FormatInt(at.UnixMilli(), 10) + ext
}

// AllFilename names a collection export made at at.
func AllFilename(at time.Time, ext string) string {
	return "all_conversations_" + strconv.FormatInt(at.UnixMilli(), 10) + ext
}

// sanitizeFilename maps s onto [a-z0-9_], one underscore per rune of the
// NFC form so composed and decomposed titles name the same file. Only ASCII
// letters survive; lowercasing happens after filtering so a letter such as
// 'İ' becomes '_' rather than folding into 'i'.
func sanitizeFilename(s string) string {
	s = norm.NFC.String(s)
	result := make([]byte, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			result = append(result, byte(r))
		case r >= 'A' && r <= 'Z':
			result = append(result, byte(r-'A'+'a'))
		default:
			result = append(result, '_')
		}
	}

	if len(result) == 0 {
		return "conversation"
	}
	return string(result)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// openFile opens a file in the default application for the OS.
func openFile(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		// Empty quoted string is the window title; the path must come last.
		cmd = exec.Command("cmd", "/c", "start", `""`, path)
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux":
		cmd = exec.Command("xdg-open", path)
	default:
		return errors.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

// timestampLayout renders instants with their zone abbreviation.
const timestampLayout = "2006-01-02 15:04:05 MST"

// formatTimestamp formats an instant for display in loc.
func formatTimestamp(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(timestampLayout)
}
