// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// confirm.go - Confirmation handling for destructive commands.
//
// The pattern is the same everywhere:
//   1. If --confirm flag is present, proceed without prompting
//   2. If stdin is not a TTY, require --confirm flag (can't prompt)
//   3. Otherwise, show an interactive prompt

package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// =============================================================================
// CONFIRMATION HANDLING
// =============================================================================

// ConfirmationOptions describes how a destructive action may be confirmed.
type ConfirmationOptions struct {
	// ConfirmFlag indicates if --confirm flag was passed (skip interactive prompt)
	ConfirmFlag bool
	// Interactive indicates the input stream can be prompted
	Interactive bool
	// In and Out are the prompt streams
	In  io.Reader
	Out io.Writer
}

// RequireConfirmation checks if the user has confirmed a destructive action.
//
// Returns:
//
//	bool  - true if confirmed, false if cancelled
//	error - non-nil if confirmation is required but cannot be asked for
//
// Example:
//
//	confirmed, err := RequireConfirmation("delete every conversation", opts)
//	if err != nil {
//	    return err
//	}
//	if !confirmed {
//	    ShowCancellationMessage(out)
//	    return nil
//	}
func RequireConfirmation(action string, opts ConfirmationOptions) (bool, error) {
	if opts.ConfirmFlag {
		return true, nil
	}

	// Can't prompt if stdin is not a TTY (e.g., piped input, cron jobs)
	if !opts.Interactive || opts.In == nil {
		return false, &ConfirmationRequiredError{Action: action}
	}

	fmt.Fprintln(opts.Out)
	fmt.Fprintln(opts.Out, WarningStyle.Render("WARNING: Destructive Action"))
	fmt.Fprintln(opts.Out, ErrorStyle.Render("This action cannot be undone."))
	fmt.Fprintf(opts.Out, "Are you sure you want to %s? [y/N]: ", action)

	reader := bufio.NewReader(opts.In)
	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}

	response := strings.ToLower(strings.TrimSpace(input))
	return response == "y" || response == "yes", nil
}

// ShowCancellationMessage displays a standard cancellation message.
func ShowCancellationMessage(out io.Writer) {
	fmt.Fprintln(out, DimStyle.Render("Cancelled."))
}
