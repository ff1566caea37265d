// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - How chatnotes output adapts to where it is going.
//
// Styled output and glamour rendering are used only when stdout is a
// terminal. NO_COLOR (or CLICOLOR=0) turns styling off, FORCE_COLOR turns it
// on for pipes, and --no-color wins over both. Tables and rendered
// conversations follow the terminal width, or COLUMNS when stdout is piped.

package cli

import (
	"os"
	"strconv"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTTY reports whether stdin is a terminal, meaning prompts and the
// compose line editor can be used.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// =============================================================================
// WIDTH
// =============================================================================

const (
	// DefaultTerminalWidth is used when neither the terminal nor COLUMNS
	// gives a width.
	DefaultTerminalWidth = 80

	// MinTerminalWidth keeps the list table readable on narrow terminals.
	MinTerminalWidth = 40
)

// GetTerminalWidth returns the column budget for tables and rendered
// Markdown.
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = DefaultTerminalWidth
		if n, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && n > 0 {
			width = n
		}
	}
	return max(width, MinTerminalWidth)
}

// =============================================================================
// COLOR
// =============================================================================

var colorState struct {
	sync.Mutex
	decided bool
	enabled bool
}

// ColorsEnabled reports whether output is styled. The environment is read
// once; SetupColor can turn styling off afterwards.
func ColorsEnabled() bool {
	colorState.Lock()
	defer colorState.Unlock()

	if !colorState.decided {
		colorState.enabled = detectColor()
		colorState.decided = true
	}
	return colorState.enabled
}

func detectColor() bool {
	if termenv.EnvNoColor() {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	return stdoutIsTerminal()
}

// SetupColor settles the color decision and applies it to every lipgloss
// style. noColor comes from --no-color and forces plain text.
func SetupColor(noColor bool) {
	if noColor {
		colorState.Lock()
		colorState.enabled = false
		colorState.decided = true
		colorState.Unlock()
	}
	lipgloss.SetColorProfile(GetColorProfile())
}

// GetColorProfile returns Ascii when styling is off, otherwise the profile
// the terminal advertises.
func GetColorProfile() termenv.Profile {
	if !ColorsEnabled() {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}
