// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// root.go - Root command, persistent flags and Execute.

package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Execute runs the command tree against the process streams and returns the
// exit code.
func Execute() int {
	cmd := NewRootCommand(os.Stdin, os.Stdout, os.Stderr, IsTTY())
	if err := cmd.Execute(); err != nil {
		DisplayError(os.Stderr, err)
		return GetExitCode(err)
	}
	return ExitSuccess
}

// NewRootCommand builds the command tree. interactive tells commands whether
// in can be prompted.
func NewRootCommand(in io.Reader, out, errOut io.Writer, interactive bool) *cobra.Command {
	var (
		opts globalOptions
		app  *App
	)

	root := &cobra.Command{
		Use:   "chatnotes",
		Short: "Write down conversations and export them as Markdown",
		Long: `chatnotes keeps hand-written conversations between a human and an
assistant, stores them locally and exports them as Markdown documents.

The most recently created conversation is active when a command starts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			SetupColor(opts.noColor)
			var err error
			app, err = newApp(opts, in, out, errOut, interactive)
			return err
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.chatnotes/config.toml)")
	flags.StringVar(&opts.backend, "backend", "", "storage backend: file, bolt, sqlite, redis, memory")
	flags.StringVar(&opts.storagePath, "storage-path", "", "data directory or database file for the backend")
	flags.StringVar(&opts.logLevel, "log-level", "", "diagnostic log level (debug, info, warn, error)")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	getApp := func() *App { return app }

	root.AddCommand(
		newNewCommand(getApp),
		newListCommand(getApp),
		newShowCommand(getApp),
		newSendCommand(getApp),
		newDeleteCommand(getApp),
		newExportCommand(getApp),
		newClearCommand(getApp),
		newComposeCommand(getApp),
		newConfigCommand(getApp, &opts),
		newVersionCommand(),
	)

	closeApp := func() error {
		if app == nil {
			return nil
		}
		err := app.Close()
		app = nil
		return err
	}
	closeAfterRun(root, closeApp)
	return root
}

// closeAfterRun wraps every RunE in the tree so closeFn runs whether or not
// the command fails. PersistentPostRunE is skipped on error.
func closeAfterRun(cmd *cobra.Command, closeFn func() error) {
	for _, child := range cmd.Commands() {
		closeAfterRun(child, closeFn)
	}
	if cmd.RunE == nil {
		return
	}
	run := cmd.RunE
	cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if cerr := closeFn(); err == nil {
				err = cerr
			}
		}()
		return run(cmd, args)
	}
}
