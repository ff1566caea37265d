// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newClearCommand(getApp func() *App) *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every conversation and the stored data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp()
			store, err := app.Store()
			if err != nil {
				return err
			}

			n := len(store.ListConversations())
			confirmed, err := RequireConfirmation(fmt.Sprintf("delete all %d conversations", n), app.confirmOptions(confirm))
			if err != nil {
				return err
			}
			if !confirmed {
				ShowCancellationMessage(app.out)
				return nil
			}

			store.ClearAllData()
			return nil
		},
	}
	cmd.Flags().BoolVarP(&confirm, "confirm", "y", false, "skip the confirmation prompt")
	return cmd
}
