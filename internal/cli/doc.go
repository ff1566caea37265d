// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the chatnotes command tree.
//
// Commands share one App per process. The App loads configuration, builds the
// logger and opens the storage backend on first use, then hands commands an
// initialized session.Store. Store notices are printed to stderr so that
// exported documents can be piped from stdout.
//
// # Key Types
//
//   - App: config, logger and lazily opened store shared by commands
//   - Composer: line-oriented compose session with alternating roles
//   - ValidationError, NotFoundError, ConfigError: mapped to exit codes
//
// # Usage
//
//	func main() {
//	    os.Exit(cli.Execute())
//	}
//
// # Commands Overview
//
//	new                     Start a new conversation
//	list                    List conversations, newest first
//	show [conv]             Render a conversation
//	send [text...]          Append a message to the active conversation
//	compose [conv]          Write a conversation interactively
//	delete <conv>           Delete a conversation
//	export [conv] [--all]   Export as Markdown, JSON or HTML
//	clear                   Delete everything
//	config init|show|path   Manage the configuration file
//	version                 Print version information
package cli
