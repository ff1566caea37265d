// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// conversation_cmd.go - new, list, show, send and delete.
//
// Conversations are addressed by list position (1 = newest), full id or a
// unique id prefix.

package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/jeranaias/chatnotes/internal/export"
	"github.com/jeranaias/chatnotes/internal/model"
	"github.com/jeranaias/chatnotes/internal/util"
)

// =============================================================================
// NEW
// =============================================================================

func newNewCommand(getApp func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Start a new conversation and make it active",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp()
			store, err := app.Store()
			if err != nil {
				return err
			}
			id := store.CreateConversation()
			fmt.Fprintf(app.out, "%s %s\n", SuccessStyle.Render("Created"), id)
			return nil
		},
	}
}

// =============================================================================
// LIST
// =============================================================================

func newListCommand(getApp func() *App) *cobra.Command {
	var long bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List conversations, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp()
			store, err := app.Store()
			if err != nil {
				return err
			}
			renderList(app.out, store.ListConversations(), store.ActiveID(), GetTerminalWidth(), long)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&long, "long", "l", false, "show the opening message under each conversation")
	return cmd
}

// renderList prints a conversation table sized to width columns. With long
// set, each row is followed by a preview of the opening message.
func renderList(w io.Writer, convs []*model.Conversation, activeID string, width int, long bool) {
	if len(convs) == 0 {
		fmt.Fprintln(w, DimStyle.Render("No conversations yet. Start one with: chatnotes new"))
		return
	}

	const (
		numWidth     = 4
		idWidth      = 9
		countWidth   = 6
		updatedWidth = 17
	)
	titleWidth := width - numWidth - idWidth - countWidth - updatedWidth - 6
	if titleWidth < 12 {
		titleWidth = 12
	}

	header := "  " + util.PadRight("#", numWidth) + util.PadRight("ID", idWidth) +
		util.PadRight("Title", titleWidth) + " " + util.PadRight("Msgs", countWidth) + "Updated"
	fmt.Fprintln(w, TitleStyle.Render(header))
	fmt.Fprintln(w, RenderSeparator(min(width, len(header)+updatedWidth)))

	for i, conv := range convs {
		marker := "  "
		if conv.ID == activeID {
			marker = HighlightStyle.Render("* ")
		}
		row := util.PadRight(strconv.Itoa(i+1), numWidth) +
			util.PadRight(shortID(conv.ID), idWidth) +
			util.PadRight(util.SingleLine(conv.Title), titleWidth) + " " +
			util.PadRight(strconv.Itoa(conv.MessageCount()), countWidth) +
			DimStyle.Render(conv.UpdatedAt.Local().Format("2006-01-02 15:04"))
		fmt.Fprintln(w, marker+row)

		if long {
			indent := strings.Repeat(" ", 2+numWidth)
			preview := conv.Preview(max(width-len(indent), 12))
			style := ValueStyle
			if conv.IsEmpty() {
				style = DimStyle
			}
			fmt.Fprintln(w, indent+style.Render(util.SingleLine(preview)))
		}
	}
}

// =============================================================================
// SHOW
// =============================================================================

func newShowCommand(getApp func() *App) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show [conversation]",
		Short: "Render a conversation (default: the active one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp()
			store, err := app.Store()
			if err != nil {
				return err
			}
			conv, err := conversationOrActive(store, firstArg(args))
			if err != nil {
				return err
			}

			md, err := export.NewMarkdownExporter(app.ExportOptions()).Export(conv)
			if err != nil {
				return err
			}
			if raw || !ColorsEnabled() {
				_, err = app.out.Write(md)
				return err
			}
			rendered, err := renderMarkdown(string(md), GetTerminalWidth())
			if err != nil {
				return err
			}
			fmt.Fprint(app.out, rendered)
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the Markdown source instead of rendering it")
	return cmd
}

// renderMarkdown renders Markdown for the terminal with glamour.
func renderMarkdown(md string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-2),
		glamour.WithEmoji(),
	)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}
	return r.Render(md)
}

// =============================================================================
// SEND
// =============================================================================

func newSendCommand(getApp func() *App) *cobra.Command {
	var (
		to       string
		roleArg  string
		startNew bool
	)

	cmd := &cobra.Command{
		Use:   "send [text...]",
		Short: "Append a message to the active conversation",
		Long: `Append a message to the active conversation.

Without --role the role alternates: the message takes the opposite role of
the conversation's last message, starting with human. Use "-" to read the
text from stdin.`,
		Example: `  chatnotes send "How do I reverse a slice in Go?"
  chatnotes send --role bot "Use slices.Reverse."
  git log -1 | chatnotes send --to 2 -`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp()
			store, err := app.Store()
			if err != nil {
				return err
			}

			content := strings.Join(args, " ")
			if content == "-" {
				data, err := io.ReadAll(app.in)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				content = string(data)
			}
			if strings.TrimSpace(content) == "" {
				return &ValidationError{Field: "text", Reason: "message is empty"}
			}

			// Arguments are checked before the first mutation so a bad
			// invocation leaves storage untouched.
			if startNew && to != "" {
				return &ValidationError{Field: "arguments", Reason: "--new and --to are exclusive"}
			}
			if roleArg != "" {
				if _, ok := model.ParseRole(roleArg); !ok {
					return roleError(roleArg)
				}
			}
			var target string
			if to != "" {
				id, ok := resolveID(store, to)
				if !ok {
					return ErrNotFound("conversation", to)
				}
				target = id
			}

			switch {
			case startNew:
				store.CreateConversation()
			case target != "":
				store.SetActive(target)
			}

			active := store.ActiveConversation()
			if active == nil {
				return &ValidationError{
					Field:   "conversation",
					Reason:  "no active conversation",
					Example: "chatnotes send --new \"Hello\"",
				}
			}

			role, err := pickRole(roleArg, active)
			if err != nil {
				return err
			}

			msg, ok := store.SendMessage(content, role)
			if !ok {
				return &ValidationError{Field: "text", Reason: "message was not added"}
			}
			fmt.Fprintf(app.out, "%s %s\n", RenderRole(msg.Role), DimStyle.Render("added to "+shortID(active.ID)))
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "conversation to append to (index, id or id prefix)")
	cmd.Flags().StringVarP(&roleArg, "role", "r", "", "message role: human or bot (default: alternate)")
	cmd.Flags().BoolVar(&startNew, "new", false, "start a new conversation first")
	return cmd
}

// pickRole parses an explicit role or alternates from the last message.
func pickRole(arg string, conv *model.Conversation) (model.Role, error) {
	if arg != "" {
		role, ok := model.ParseRole(arg)
		if !ok {
			return "", roleError(arg)
		}
		return role, nil
	}
	if last := conv.LastMessage(); last != nil {
		return last.Role.Opposite(), nil
	}
	return model.RoleHuman, nil
}

func roleError(arg string) error {
	return &ValidationError{Field: "role", Value: arg, Reason: "must be human or bot", Example: "--role bot"}
}

// =============================================================================
// DELETE
// =============================================================================

func newDeleteCommand(getApp func() *App) *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:     "delete <conversation>",
		Aliases: []string{"rm"},
		Short:   "Delete a conversation",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp()
			store, err := app.Store()
			if err != nil {
				return err
			}

			id, ok := resolveID(store, args[0])
			if !ok {
				// Unknown ids are still passed through; the store treats them as a no-op.
				id = args[0]
			}

			action := "delete this conversation"
			if conv, found := store.Conversation(id); found {
				action = fmt.Sprintf("delete %q", conv.Title)
			}
			confirmed, err := RequireConfirmation(action, app.confirmOptions(confirm))
			if err != nil {
				return err
			}
			if !confirmed {
				ShowCancellationMessage(app.out)
				return nil
			}

			store.DeleteConversation(id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&confirm, "confirm", "y", false, "skip the confirmation prompt")
	return cmd
}

// =============================================================================
// HELPERS
// =============================================================================

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func (a *App) confirmOptions(flag bool) ConfirmationOptions {
	return ConfirmationOptions{
		ConfirmFlag: flag,
		Interactive: a.interactive,
		In:          a.in,
		Out:         a.out,
	}
}
