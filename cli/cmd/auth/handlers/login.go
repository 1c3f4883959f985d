package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/liora-cosmetic/liora/cli/auth"
	"github.com/liora-cosmetic/liora/cli/cmd"
	"github.com/liora-cosmetic/liora/cli/helpers"
	"github.com/liora-cosmetic/liora/cli/tui/components"
	"github.com/liora-cosmetic/liora/pkg/listctl"
	"github.com/liora-cosmetic/liora/pkg/logger"
	"github.com/spf13/cobra"
)

// sessionInfo is what login and whoami print; the token itself never is
type sessionInfo struct {
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Role    string `json:"role,omitempty"`
	SavedAt string `json:"saved_at"`
	File    string `json:"session_file"`
}

// LoginJSON signs in with the --email and --password flags
func LoginJSON(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	email, err := cobraCmd.Flags().GetString("email")
	if err != nil {
		return fmt.Errorf("failed to get email flag: %w", err)
	}
	password, err := cobraCmd.Flags().GetString("password")
	if err != nil {
		return fmt.Errorf("failed to get password flag: %w", err)
	}
	if strings.TrimSpace(email) == "" || password == "" {
		return listctl.NewValidationError("credentials", email, "--email and --password are required")
	}
	return login(ctx, cobraCmd, executor, strings.TrimSpace(email), password)
}

// LoginTUI asks for the credentials missing from the flags
func LoginTUI(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	data := &components.LoginFormData{}
	var err error
	if data.Email, err = cobraCmd.Flags().GetString("email"); err != nil {
		return fmt.Errorf("failed to get email flag: %w", err)
	}
	if data.Password, err = cobraCmd.Flags().GetString("password"); err != nil {
		return fmt.Errorf("failed to get password flag: %w", err)
	}
	if data.Email == "" || data.Password == "" {
		done, err := components.NewFormWrapper(ctx, components.NewLoginForm(data)).Run()
		if err != nil {
			return err
		}
		if !done {
			return context.Canceled
		}
	}
	return login(ctx, cobraCmd, executor, strings.TrimSpace(data.Email), data.Password)
}

func login(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, email, password string) error {
	log := logger.FromContext(ctx)
	result, err := executor.GetClient().Login(ctx, email, password)
	if err != nil {
		return err
	}
	session := &auth.Session{AccessToken: result.AccessToken, User: result.User}
	store := executor.GetStore()
	if err := store.Save(ctx, session); err != nil {
		return err
	}
	log.Info("signed in", "email", session.User.Email)
	return helpers.NewOutputWriter(cobraCmd.OutOrStdout(), helpers.OutputFormatJSON).
		WriteJSON(infoOf(session, store.Path()))
}

func infoOf(s *auth.Session, path string) sessionInfo {
	return sessionInfo{
		Email:   s.User.Email,
		Name:    s.User.FullName,
		Role:    s.User.Role,
		SavedAt: s.SavedAt.Format(time.RFC3339),
		File:    path,
	}
}
