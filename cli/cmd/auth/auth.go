package auth

import (
	"github.com/liora-cosmetic/liora/cli/cmd"
	"github.com/liora-cosmetic/liora/cli/cmd/auth/handlers"
	"github.com/spf13/cobra"
)

// Cmd returns the auth command group
func Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in to the Liora admin API",
		Long:  "Commands for managing the saved admin session",
	}
	cmd.AddCommand(
		LoginCmd(),
		LogoutCmd(),
		WhoamiCmd(),
	)
	return cmd
}

// LoginCmd returns the login command
func LoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and save the session",
		Long: `Sign in with an admin account and save the access token.
On a terminal the credentials are asked for; otherwise pass them as flags.`,
		Example: `  # Interactive sign-in
  liora auth login

  # Scripted sign-in
  liora auth login --email admin@liora.vn --password "$LIORA_PASSWORD"`,
		RunE: runLogin,
	}
	cmd.Flags().String("email", "", "Admin email address")
	cmd.Flags().String("password", "", "Admin password")
	return cmd
}

func runLogin(cobraCmd *cobra.Command, args []string) error {
	return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{}, cmd.ModeHandlers{
		JSON: handlers.LoginJSON,
		TUI:  handlers.LoginTUI,
	}, args)
}

// LogoutCmd returns the logout command
func LogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the saved session",
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{NoClient: true}, cmd.ModeHandlers{
				JSON: handlers.Logout,
			}, args)
		},
	}
}

// WhoamiCmd returns the command printing the signed-in account
func WhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{NoClient: true}, cmd.ModeHandlers{
				JSON: handlers.Whoami,
			}, args)
		},
	}
}
