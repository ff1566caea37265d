// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// compose.go - Interactive compose session.
//
// Each line typed is sent as a message and the role flips between human and
// bot after every send. A line ending in a backslash continues on the next
// line. Slash commands manage conversations without leaving the session.

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/chatnotes/internal/config"
	"github.com/jeranaias/chatnotes/internal/export"
	"github.com/jeranaias/chatnotes/internal/model"
	"github.com/jeranaias/chatnotes/internal/session"
)

func newComposeCommand(getApp func() *App) *cobra.Command {
	var roleArg string

	cmd := &cobra.Command{
		Use:   "compose [conversation]",
		Short: "Write a conversation interactively, alternating roles",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var role model.Role
			if roleArg != "" {
				parsed, ok := model.ParseRole(roleArg)
				if !ok {
					return roleError(roleArg)
				}
				role = parsed
			}

			app := getApp()
			store, err := app.Store()
			if err != nil {
				return err
			}

			if arg := firstArg(args); arg != "" {
				id, ok := resolveID(store, arg)
				if !ok {
					return ErrNotFound("conversation", arg)
				}
				store.SetActive(id)
			}
			if store.ActiveConversation() == nil {
				store.CreateConversation()
			}

			c := NewComposer(app, store)
			if role != "" {
				c.role = role
			}

			c.printBanner()
			if app.interactive {
				return runComposeTerminal(c)
			}
			return runComposeStream(c, app.in)
		},
	}
	cmd.Flags().StringVarP(&roleArg, "role", "r", "", "role of the first message (default: alternate)")
	return cmd
}

// =============================================================================
// COMPOSER
// =============================================================================

// Composer turns input lines into store commands.
type Composer struct {
	app     *App
	store   *session.Store
	out     io.Writer
	role    model.Role
	pending strings.Builder
}

// NewComposer starts composing in the active conversation. The first role is
// the opposite of the last message's role.
func NewComposer(app *App, store *session.Store) *Composer {
	c := &Composer{app: app, store: store, out: app.out}
	c.resetRole()
	return c
}

// Role returns the role the next message will be sent as.
func (c *Composer) Role() model.Role {
	return c.role
}

// Prompt returns the input prompt. liner measures prompts by rune count, so
// it carries no styling.
func (c *Composer) Prompt() string {
	if c.pending.Len() > 0 {
		return "...> "
	}
	return c.role.String() + "> "
}

// Handle processes one input line. It returns false when the session ends.
func (c *Composer) Handle(line string) (bool, error) {
	if strings.HasSuffix(line, `\`) {
		c.pending.WriteString(strings.TrimSuffix(line, `\`))
		c.pending.WriteString("\n")
		return true, nil
	}

	if c.pending.Len() > 0 {
		c.pending.WriteString(line)
		text := c.pending.String()
		c.pending.Reset()
		return true, c.send(text)
	}

	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "/") {
		return c.command(trimmed)
	}
	if trimmed == "" {
		return true, nil
	}
	return true, c.send(line)
}

func (c *Composer) send(text string) error {
	msg, ok := c.store.SendMessage(text, c.role)
	if !ok {
		return nil
	}
	fmt.Fprintf(c.out, "%s %s\n", RenderRole(msg.Role), DimStyle.Render(msg.Timestamp.Local().Format("15:04:05")))
	c.role = c.role.Opposite()
	return nil
}

func (c *Composer) resetRole() {
	c.role = model.RoleHuman
	if conv := c.store.ActiveConversation(); conv != nil {
		if last := conv.LastMessage(); last != nil {
			c.role = last.Role.Opposite()
		}
	}
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

const composeHelp = `Commands:
  /role [human|bot]   Set the next role (no argument flips it)
  /new                Start a new conversation
  /list               List conversations
  /use <conv>         Switch to another conversation
  /show               Print the active conversation
  /export [all]       Export the active conversation (or all) as Markdown
  /delete             Delete the active conversation
  /help               Show this help
  /quit               Leave compose

End a line with \ to continue the message on the next line.`

func (c *Composer) command(line string) (bool, error) {
	fields := strings.Fields(line)
	name, args := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case "/quit", "/exit", "/q":
		return false, nil

	case "/help", "/?":
		fmt.Fprintln(c.out, composeHelp)

	case "/role":
		if len(args) == 0 {
			c.role = c.role.Opposite()
		} else {
			role, ok := model.ParseRole(args[0])
			if !ok {
				return true, roleError(args[0])
			}
			c.role = role
		}
		fmt.Fprintf(c.out, "Next: %s\n", RenderRole(c.role))

	case "/new":
		id := c.store.CreateConversation()
		c.resetRole()
		fmt.Fprintf(c.out, "%s %s\n", SuccessStyle.Render("Created"), id)

	case "/list", "/ls":
		renderList(c.out, c.store.ListConversations(), c.store.ActiveID(), GetTerminalWidth(), false)

	case "/use":
		if len(args) == 0 {
			return true, &ValidationError{Field: "conversation", Reason: "missing argument", Example: "/use 2"}
		}
		id, ok := resolveID(c.store, args[0])
		if !ok {
			return true, ErrNotFound("conversation", args[0])
		}
		c.store.SetActive(id)
		c.resetRole()
		c.printBanner()

	case "/show":
		conv := c.store.ActiveConversation()
		if conv == nil {
			return true, ErrNotFound("conversation", "(none active)")
		}
		md, err := export.NewMarkdownExporter(c.app.ExportOptions()).Export(conv)
		if err != nil {
			return true, err
		}
		_, err = c.out.Write(md)
		return true, err

	case "/export":
		return true, c.export(len(args) > 0 && strings.EqualFold(args[0], "all"))

	case "/delete":
		id := c.store.ActiveID()
		if id == "" {
			return true, ErrNotFound("conversation", "(none active)")
		}
		c.store.DeleteConversation(id)
		if c.store.ActiveConversation() == nil {
			c.store.CreateConversation()
		}
		c.resetRole()
		c.printBanner()

	default:
		return true, &ValidationError{Field: "command", Value: name, Reason: "unknown command", Example: "/help"}
	}
	return true, nil
}

func (c *Composer) export(all bool) error {
	var (
		doc export.Document
		ok  bool
	)
	if all {
		doc, ok = c.store.ExportAll()
	} else {
		doc, ok = c.store.ExportOne(c.store.ActiveID())
	}
	if !ok {
		return fmt.Errorf("nothing to export")
	}

	path, err := export.WriteFile(doc, c.app.ExportOptions())
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, path)
	return nil
}

func (c *Composer) printBanner() {
	conv := c.store.ActiveConversation()
	if conv == nil {
		return
	}
	fmt.Fprintf(c.out, "%s %s\n", TitleStyle.Render(conv.Title), DimStyle.Render(fmt.Sprintf("(%d messages, /help for commands)", conv.MessageCount())))
}

// =============================================================================
// INPUT LOOPS
// =============================================================================

// runComposeTerminal reads lines with liner, keeping history across sessions.
func runComposeTerminal(c *Composer) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyFile := composeHistoryPath()
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer saveComposeHistory(line, historyFile)

	for {
		input, err := line.Prompt(c.Prompt())
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(c.out)
				return nil
			}
			return err
		}
		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}

		more, err := c.Handle(input)
		if err != nil {
			DisplayError(c.app.errOut, err)
		}
		if !more {
			return nil
		}
	}
}

// runComposeStream reads lines from a non-terminal input until EOF.
func runComposeStream(c *Composer, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		more, err := c.Handle(scanner.Text())
		if err != nil {
			DisplayError(c.app.errOut, err)
		}
		if !more {
			return nil
		}
	}
	if c.pending.Len() > 0 {
		text := strings.TrimSuffix(c.pending.String(), "\n")
		c.pending.Reset()
		if err := c.send(text); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func composeHistoryPath() string {
	dir, err := config.Dir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "compose_history")
}

// saveComposeHistory persists history with owner-only permissions.
func saveComposeHistory(line *liner.State, path string) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	line.WriteHistory(f)
}
