// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

// =============================================================================
// NOTICES
// =============================================================================

// NoticeKind classifies a user-facing notice.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeSuccess
	NoticeWarning
)

// String returns the string representation of the kind.
func (k NoticeKind) String() string {
	switch k {
	case NoticeSuccess:
		return "success"
	case NoticeWarning:
		return "warning"
	default:
		return "info"
	}
}

// Notice is a short message for the user, shown by the rendering layer.
type Notice struct {
	Kind        NoticeKind
	Title       string
	Description string
}

// Notifier receives notices raised by store commands.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

// Notify implements Notifier.
func (f NotifierFunc) Notify(n Notice) { f(n) }

type discardNotifier struct{}

func (discardNotifier) Notify(Notice) {}

// Notice texts.
var (
	noticeDeleted = Notice{
		Kind:        NoticeInfo,
		Title:       "Conversation deleted",
		Description: "The conversation has been removed.",
	}
	noticeCleared = Notice{
		Kind:        NoticeInfo,
		Title:       "All data cleared",
		Description: "Every conversation has been removed.",
	}
	noticeNotSaved = Notice{
		Kind:        NoticeWarning,
		Title:       "Changes not saved",
		Description: "Your conversations could not be stored. They remain available until you quit.",
	}
)

func exportedNotice(what, format string) Notice {
	return Notice{
		Kind:        NoticeSuccess,
		Title:       "Exported successfully",
		Description: what + " downloaded as " + format + " file.",
	}
}

// formatName names an export format by its file extension.
func formatName(ext string) string {
	switch ext {
	case ".md":
		return "markdown"
	case ".json":
		return "JSON"
	case ".html":
		return "HTML"
	default:
		return ext
	}
}
