package handlers

import (
	"context"

	"github.com/liora-cosmetic/liora/cli/cmd"
	"github.com/liora-cosmetic/liora/cli/helpers"
	"github.com/liora-cosmetic/liora/pkg/logger"
	"github.com/spf13/cobra"
)

func Logout(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	store := executor.GetStore()
	if err := store.Clear(ctx); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("signed out", "session_file", store.Path())
	return helpers.NewOutputWriter(cobraCmd.OutOrStdout(), helpers.OutputFormatJSON).
		WriteJSON(map[string]string{"status": "signed out"})
}

// Whoami prints the account of the saved session
func Whoami(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	store := executor.GetStore()
	session, err := store.Load(ctx)
	if err != nil {
		return err
	}
	return helpers.NewOutputWriter(cobraCmd.OutOrStdout(), helpers.OutputFormatJSON).
		WriteJSON(infoOf(session, store.Path()))
}
