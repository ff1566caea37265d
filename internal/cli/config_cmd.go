// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration management.
//
// Subcommands:
//   init [--force]   Write a default config file
//   show             Print the effective configuration (after env and flags)
//   path             Print the config file location

package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/jeranaias/chatnotes/internal/config"
)

func newConfigCommand(getApp func() *App, opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	// init and path must work even when the current file is broken.
	skipLoad := func(cmd *cobra.Command, args []string) error { return nil }

	configPath := func() (string, error) {
		if opts.configPath != "" {
			return opts.configPath, nil
		}
		return config.PathTOML()
	}

	var force bool
	initCmd := &cobra.Command{
		Use:               "init",
		Short:             "Write a default config file",
		Args:              cobra.NoArgs,
		PersistentPreRunE: skipLoad,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return &ConfigError{Err: err}
			}
			if _, err := os.Stat(path); err == nil && !force {
				return &ValidationError{
					Field:   "config",
					Value:   path,
					Reason:  "file already exists",
					Example: "chatnotes config init --force",
				}
			}
			if err := config.SaveTOML(config.Default(), path); err != nil {
				return &ConfigError{Err: err}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", SuccessStyle.Render("Wrote"), path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	pathCmd := &cobra.Command{
		Use:               "path",
		Short:             "Print the config file location",
		Args:              cobra.NoArgs,
		PersistentPreRunE: skipLoad,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return &ConfigError{Err: err}
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp()
			return toml.NewEncoder(app.out).Encode(app.Config)
		},
	}

	cmd.AddCommand(initCmd, pathCmd, showCmd)
	return cmd
}
