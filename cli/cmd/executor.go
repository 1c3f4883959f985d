package cmd

import (
	"context"
	"fmt"

	"github.com/liora-cosmetic/liora/cli/api"
	"github.com/liora-cosmetic/liora/cli/auth"
	"github.com/liora-cosmetic/liora/cli/helpers"
	"github.com/liora-cosmetic/liora/cli/tui/models"
	"github.com/liora-cosmetic/liora/pkg/config"
	"github.com/liora-cosmetic/liora/pkg/logger"
	"github.com/spf13/cobra"
)

// CommandExecutor handles common setup and execution patterns for CLI commands:
// mode detection, session lookup, API client creation and error output.
type CommandExecutor struct {
	mode   models.Mode
	cfg    *config.Config
	store  *auth.Store
	client *api.Client
}

// HandlerFunc defines the signature for command handlers.
type HandlerFunc func(ctx context.Context, cmd *cobra.Command, executor *CommandExecutor, args []string) error

// ModeHandlers contains handlers for different execution modes.
type ModeHandlers struct {
	JSON HandlerFunc
	TUI  HandlerFunc
}

// ExecutorOptions allows customization of the command executor
type ExecutorOptions struct {
	// RequireAuth resolves a token from the configuration or the saved session
	RequireAuth bool
	// NoClient skips building the API client
	NoClient bool
}

// NewCommandExecutor creates a new command executor with all necessary setup.
func NewCommandExecutor(cmd *cobra.Command, opts ExecutorOptions) (*CommandExecutor, error) {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)
	mode := helpers.DetectMode(cmd)
	log.Debug("detected execution mode", "mode", mode)
	cfg := config.FromContext(ctx)
	executor := &CommandExecutor{
		mode:  mode,
		cfg:   cfg,
		store: auth.NewStore(cfg.CLI.SessionFile),
	}
	if opts.NoClient {
		return executor, nil
	}
	token := ""
	if opts.RequireAuth {
		var err error
		token, err = auth.ResolveToken(ctx, cfg, executor.store)
		if err != nil {
			return nil, err
		}
	}
	client, err := api.NewClient(ctx, cfg, token)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	executor.client = client
	return executor, nil
}

// Execute runs the appropriate handler based on the detected mode.
func (e *CommandExecutor) Execute(ctx context.Context, cmd *cobra.Command, handlers ModeHandlers, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	switch e.mode {
	case models.ModeJSON:
		if handlers.JSON == nil {
			return fmt.Errorf("JSON mode handler not implemented")
		}
		return handlers.JSON(ctx, cmd, e, args)
	case models.ModeTUI:
		if handlers.TUI == nil {
			if handlers.JSON != nil {
				return handlers.JSON(ctx, cmd, e, args)
			}
			return fmt.Errorf("TUI mode handler not implemented")
		}
		return handlers.TUI(ctx, cmd, e, args)
	default:
		return fmt.Errorf("unsupported mode: %s", e.mode)
	}
}

func (e *CommandExecutor) GetClient() *api.Client {
	return e.client
}

func (e *CommandExecutor) GetConfig() *config.Config {
	return e.cfg
}

func (e *CommandExecutor) GetStore() *auth.Store {
	return e.store
}

func (e *CommandExecutor) GetMode() models.Mode {
	return e.mode
}

// ExecuteCommand is a convenience function that combines executor creation and execution.
func ExecuteCommand(cmd *cobra.Command, opts ExecutorOptions, handlers ModeHandlers, args []string) error {
	executor, err := NewCommandExecutor(cmd, opts)
	if err != nil {
		return HandleCommonErrors(cmd, err, helpers.DetectMode(cmd))
	}
	return HandleCommonErrors(cmd, executor.Execute(cmd.Context(), cmd, handlers, args), executor.GetMode())
}

// HandleCommonErrors prints err once in the format of mode and returns it
// as a structured CLI error.
func HandleCommonErrors(cmd *cobra.Command, err error, mode models.Mode) error {
	if err == nil {
		return nil
	}
	cliErr := helpers.CategorizeError(err)
	helpers.OutputError(cmd.ErrOrStderr(), cliErr, mode)
	return cliErr
}
