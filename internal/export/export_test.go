// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/jeranaias/chatnotes/internal/model"
	"github.com/jeranaias/chatnotes/internal/storage"
)

var t0 = time.Date(2026, 10, 19, 8, 30, 15, 0, time.UTC)

// helloConversation is created at t0 with a human "Hello" and a bot "Hi there".
func helloConversation() *model.Conversation {
	conv := model.NewConversation("c-1", t0)
	conv.Append(model.NewMessage("m-1", "Hello", model.RoleHuman, t0.Add(time.Second)))
	conv.Append(model.NewMessage("m-2", "Hi there", model.RoleBot, t0.Add(2*time.Second)))
	return conv
}

// outline parses Markdown with goldmark and lists its block structure.
func outline(t *testing.T, src []byte) []string {
	t.Helper()
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var blocks []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			blocks = append(blocks, strings.Repeat("#", node.Level)+" "+string(node.Text(src)))
		case *ast.ThematicBreak:
			blocks = append(blocks, "---")
		case *ast.Paragraph:
			blocks = append(blocks, "p")
		default:
			blocks = append(blocks, n.Kind().String())
		}
	}
	return blocks
}

// =============================================================================
// MARKDOWN
// =============================================================================

func TestMarkdownExporter_HelloScenario(t *testing.T) {
	out, err := NewMarkdownExporter(nil).Export(helloConversation())
	require.NoError(t, err)

	want := "# Hello\n\n" +
		"**Created:** 2026-10-19 08:30:15 UTC\n" +
		"**Last Updated:** 2026-10-19 08:30:17 UTC\n" +
		"**Messages:** 2\n\n" +
		"---\n\n" +
		"## 👤 Human\n" +
		"*2026-10-19 08:30:16 UTC*\n\n" +
		"Hello\n\n" +
		"---\n\n" +
		"## 🤖 Assistant\n" +
		"*2026-10-19 08:30:17 UTC*\n\n" +
		"Hi there\n\n"
	assert.Equal(t, want, string(out))
	assert.False(t, strings.HasSuffix(string(out), "---\n\n"), "no separator after the last message")
}

func TestMarkdownExporter_Structure(t *testing.T) {
	out, err := NewMarkdownExporter(nil).Export(helloConversation())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"# Hello",
		"p", // created / updated / count
		"---",
		"## 👤 Human",
		"p", // timestamp
		"p", // Hello
		"---",
		"## 🤖 Assistant",
		"p",
		"p",
	}, outline(t, out))
}

func TestMarkdownExporter_Idempotent(t *testing.T) {
	exp := NewMarkdownExporter(nil)
	conv := helloConversation()

	first, err := exp.Export(conv)
	require.NoError(t, err)
	second, err := exp.Export(conv)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	all1, err := exp.ExportAll([]*model.Conversation{conv}, t0)
	require.NoError(t, err)
	all2, err := exp.ExportAll([]*model.Conversation{conv}, t0)
	require.NoError(t, err)
	assert.Equal(t, all1, all2)
}

func TestMarkdownExporter_ContentVerbatim(t *testing.T) {
	conv := model.NewConversation("c", t0)
	conv.Append(model.NewMessage("m", "line one\nline two\n\n```go\nfmt.Println(1)\n```", model.RoleBot, t0))

	out, err := NewMarkdownExporter(nil).Export(conv)
	require.NoError(t, err)
	assert.Contains(t, string(out), "\n\nline one\nline two\n\n```go\nfmt.Println(1)\n```\n\n")
}

func TestMarkdownExporter_Location(t *testing.T) {
	exp := NewMarkdownExporter(&Options{Location: time.FixedZone("CEST", 2*60*60)})

	out, err := exp.Export(helloConversation())
	require.NoError(t, err)
	assert.Contains(t, string(out), "**Created:** 2026-10-19 10:30:15 CEST\n")
}

func TestMarkdownExporter_EmptyConversation(t *testing.T) {
	out, err := NewMarkdownExporter(nil).Export(model.NewConversation("c", t0))
	require.NoError(t, err)
	assert.Contains(t, string(out), "# New Conversation\n\n")
	assert.Contains(t, string(out), "**Messages:** 0\n\n---\n\n")
	assert.NotContains(t, string(out), "##")
}

func TestMarkdownExporter_Nil(t *testing.T) {
	_, err := NewMarkdownExporter(nil).Export(nil)
	assert.Error(t, err)
}

// stackTracer is implemented by errors created with github.com/pkg/errors.
type stackTracer interface {
	StackTrace() errors.StackTrace
}

func TestErrorsCarryStackTraces(t *testing.T) {
	md := NewMarkdownExporter(nil)
	js := NewJSONExporter(nil)

	_, formatErr := ForFormat("pdf", nil)
	_, mdOneErr := md.Export(nil)
	_, mdAllErr := md.ExportAll([]*model.Conversation{nil}, t0)
	_, jsOneErr := js.Export(nil)
	_, jsAllErr := js.ExportAll([]*model.Conversation{helloConversation(), nil}, t0)

	for name, err := range map[string]error{
		"format":          formatErr,
		"markdown one":    mdOneErr,
		"markdown all":    mdAllErr,
		"json one":        jsOneErr,
		"json collection": jsAllErr,
	} {
		require.Error(t, err, name)
		_, ok := err.(stackTracer)
		assert.True(t, ok, name)
	}
	assert.Contains(t, jsAllErr.Error(), "conversation 1 is nil")
}

func TestMarkdownExporter_ExportAll(t *testing.T) {
	first := helloConversation()
	second := model.NewConversation("c-2", t0.Add(time.Hour))
	second.Append(model.NewMessage("m-3", "Second thread", model.RoleHuman, t0.Add(time.Hour)))

	out, err := NewMarkdownExporter(nil).ExportAll([]*model.Conversation{first, second}, t0.Add(2*time.Hour))
	require.NoError(t, err)
	s := string(out)

	assert.True(t, strings.HasPrefix(s, "# All Conversations Export\n\n"+
		"**Exported:** 2026-10-19 10:30:15 UTC\n"+
		"**Total Conversations:** 2\n\n---\n\n# Hello\n\n"))

	assert.Equal(t, 1, strings.Count(s, "\n\n# ---\n\n"), "one separator between two conversations")
	assert.Less(t, strings.Index(s, "# Hello"), strings.Index(s, "# Second thread"))
	assert.True(t, strings.HasSuffix(s, "Second thread\n\n"))
	assert.False(t, strings.HasSuffix(s, "# ---\n\n"))

	blocks := outline(t, out)
	assert.Equal(t, "# All Conversations Export", blocks[0])
	assert.Contains(t, blocks, "# ---")
	assert.Contains(t, blocks, "# Second thread")
}

func TestMarkdownExporter_ExportAllEmpty(t *testing.T) {
	out, err := NewMarkdownExporter(nil).ExportAll(nil, t0)
	require.NoError(t, err)
	assert.Equal(t, "# All Conversations Export\n\n**Exported:** 2026-10-19 08:30:15 UTC\n**Total Conversations:** 0\n\n---\n\n", string(out))
}

// =============================================================================
// JSON / HTML
// =============================================================================

func TestJSONExporter_DecodesBack(t *testing.T) {
	convs := []*model.Conversation{helloConversation(), model.NewConversation("c-2", t0)}

	out, err := NewJSONExporter(nil).ExportAll(convs, t0)
	require.NoError(t, err)

	decoded, err := storage.Decode(string(out))
	require.NoError(t, err)
	assert.Equal(t, convs, decoded)

	one, err := NewJSONExporter(nil).Export(convs[0])
	require.NoError(t, err)
	assert.Contains(t, string(one), `"createdAt": "2026-10-19T08:30:15Z"`)
}

func TestHTMLExporter(t *testing.T) {
	conv := helloConversation()
	conv.Append(model.NewMessage("m-3", "<script>alert('xss')</script>", model.RoleHuman, t0.Add(3*time.Second)))

	out, err := NewHTMLExporter(nil).Export(conv)
	require.NoError(t, err)
	s := string(out)

	assert.True(t, strings.HasPrefix(s, "<!DOCTYPE html>\n"))
	assert.Contains(t, s, "<title>Hello</title>")
	assert.Contains(t, s, "<h1>Hello</h1>")
	assert.Contains(t, s, "<hr>")
	assert.NotContains(t, s, "<script>")
}

func TestHTMLExporter_EscapesTitle(t *testing.T) {
	conv := model.NewConversation("c", t0)
	conv.Title = "a < b & c"

	out, err := NewHTMLExporter(nil).Export(conv)
	require.NoError(t, err)
	assert.Contains(t, string(out), "<title>a &lt; b &amp; c</title>")
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		format string
		ext    string
		mime   string
	}{
		{"", ".md", "text/markdown"},
		{"md", ".md", "text/markdown"},
		{"Markdown", ".md", "text/markdown"},
		{"json", ".json", "application/json"},
		{"html", ".html", "text/html"},
	}
	for _, tc := range tests {
		exp, err := ForFormat(tc.format, nil)
		require.NoError(t, err, tc.format)
		assert.Equal(t, tc.ext, exp.FileExtension())
		assert.Equal(t, tc.mime, exp.MimeType())
	}

	_, err := ForFormat("pdf", nil)
	assert.Error(t, err)
}

// =============================================================================
// DOCUMENTS
// =============================================================================

func TestFilename(t *testing.T) {
	at := time.UnixMilli(1760862615123)

	tests := []struct {
		title string
		want  string
	}{
		{"Hello", "hello_1760862615123.md"},
		{"Hello World!", "hello_world__1760862615123.md"},
		{"MiXeD CaSe 42", "mixed_case_42_1760862615123.md"},
		{"../etc/passwd", "___etc_passwd_1760862615123.md"},
		{"héllo", "h_llo_1760862615123.md"},
		{"he\u0301llo", "h_llo_1760862615123.md"},
		{"İstanbul", "_stanbul_1760862615123.md"},
		{"ÀÉÎ", "____1760862615123.md"},
		{"", "conversation_1760862615123.md"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Filename(tc.title, at, ".md"), tc.title)
	}

	assert.Equal(t, "all_conversations_1760862615123.md", AllFilename(at, ".md"))
	assert.NotEqual(t, Filename("Hello", at, ".md"), Filename("Hello", at.Add(time.Millisecond), ".md"))
}

func TestBuildOne(t *testing.T) {
	at := time.UnixMilli(1760862615123)

	doc, err := BuildOne(NewMarkdownExporter(nil), helloConversation(), at)
	require.NoError(t, err)
	assert.Equal(t, "hello_1760862615123.md", doc.Filename)
	assert.Equal(t, "text/markdown", doc.MimeType)
	assert.True(t, strings.HasPrefix(string(doc.Content), "# Hello\n"))

	_, err = BuildOne(NewMarkdownExporter(nil), nil, at)
	assert.Error(t, err)
}

func TestBuildAll(t *testing.T) {
	at := time.UnixMilli(1760862615123)

	doc, err := BuildAll(NewJSONExporter(nil), []*model.Conversation{helloConversation()}, at)
	require.NoError(t, err)
	assert.Equal(t, "all_conversations_1760862615123.json", doc.Filename)
	assert.Equal(t, "application/json", doc.MimeType)
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	doc := Document{Filename: "hello_1.md", MimeType: "text/markdown", Content: []byte("# Hello\n")}

	path, err := WriteFile(doc, &Options{OutputDir: dir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "hello_1.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Hello\n", string(data))
}

func TestWriteFile_RejectsPaths(t *testing.T) {
	for _, name := range []string{"", "../escape.md", "sub/dir.md"} {
		_, err := WriteFile(Document{Filename: name}, &Options{OutputDir: t.TempDir()})
		assert.Error(t, err, name)
	}
}
