// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// export_cmd.go - Export one conversation or all of them.
//
// Examples:
//   chatnotes export                       Export the active conversation as Markdown
//   chatnotes export 2 --format html       Export the second conversation as HTML
//   chatnotes export --all --dir ~/notes   Export everything into one file
//   chatnotes export --stdout | less       Print instead of writing a file

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeranaias/chatnotes/internal/export"
)

var exportFormats = []string{export.FormatMarkdown, export.FormatJSON, export.FormatHTML}

func newExportCommand(getApp func() *App) *cobra.Command {
	var (
		all      bool
		format   string
		dir      string
		open     bool
		toStdout bool
	)

	cmd := &cobra.Command{
		Use:   "export [conversation]",
		Short: "Export a conversation (default: the active one) to a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp()
			if all && len(args) > 0 {
				return &ValidationError{Field: "arguments", Reason: "--all does not take a conversation"}
			}

			opts := app.ExportOptions()
			if dir != "" {
				opts.OutputDir = dir
			}
			if cmd.Flags().Changed("open") {
				opts.OpenAfterExport = open
			}

			exp, err := export.ForFormat(format, opts)
			if err != nil {
				return ErrUnsupportedFormat(format, exportFormats)
			}
			app.UseExporter(exp)

			store, err := app.Store()
			if err != nil {
				return err
			}

			var (
				doc export.Document
				ok  bool
			)
			if all {
				doc, ok = store.ExportAll()
			} else {
				conv, err := conversationOrActive(store, firstArg(args))
				if err != nil {
					return err
				}
				doc, ok = store.ExportOne(conv.ID)
			}
			if !ok {
				return fmt.Errorf("export failed")
			}

			if toStdout {
				_, err := app.out.Write(doc.Content)
				return err
			}

			path, err := export.WriteFile(doc, opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.out, path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "export every conversation into one document")
	cmd.Flags().StringVarP(&format, "format", "f", export.FormatMarkdown, "export format: md, json, html")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "output directory (default from config)")
	cmd.Flags().BoolVar(&open, "open", false, "open the file with the default application")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "write the document to stdout instead of a file")
	return cmd
}
