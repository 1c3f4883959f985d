package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	authcmd "github.com/liora-cosmetic/liora/cli/cmd/auth"
	configcmd "github.com/liora-cosmetic/liora/cli/cmd/config"
	"github.com/liora-cosmetic/liora/cli/cmd/resource"
	"github.com/liora-cosmetic/liora/cli/helpers"
	"github.com/liora-cosmetic/liora/cli/tui/models"
	"github.com/liora-cosmetic/liora/pkg/config"
	"github.com/liora-cosmetic/liora/pkg/logger"
	"github.com/liora-cosmetic/liora/pkg/version"
)

// tuiLogFile receives logs while the alt screen is active and no log file is set
const tuiLogFile = "~/.liora/liora.log"

var logCloser io.Closer

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "liora",
		Short: "Liora Cosmetic admin console",
		Long: `Manage Liora Cosmetic orders, products and users from the terminal.

On a terminal every list opens as an interactive table with search, filters,
sorting, paging and bulk actions. Piped or with --format json the same
commands print JSON.`,
		Version:       version.GetVersion(),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return SetupGlobalConfig(cmd)
		},
	}
	addGlobalFlags(root)
	root.AddCommand(
		resource.OrdersCmd(),
		resource.ProductsCmd(),
		resource.UsersCmd(),
		authcmd.Cmd(),
		configcmd.NewConfigCommand(),
		VersionCmd(),
	)
	return root
}

// Execute runs the root command and releases the log file afterwards.
func Execute(ctx context.Context) error {
	err := RootCmd().ExecuteContext(ctx)
	if logCloser != nil {
		if cerr := logCloser.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
		logCloser = nil
	}
	return err
}

func addGlobalFlags(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.String("config", config.DefaultConfigFileName, "Path to the configuration file")
	flags.String("env-file", ".env", "Path to an environment file")
	flags.String("base-url", "", "Admin API base URL")
	flags.String("token", "", "Access token (overrides the saved session)")
	flags.Duration("timeout", 0, "Request timeout")
	flags.Int("page-size", 0, "Rows per page")
	flags.Bool("remote-page", false, "Let the API page, sort and filter")
	flags.String("timezone", "", "Time zone of displayed dates")
	flags.String("log-level", "", "Log level (debug, info, warn, error, disabled)")
	flags.Bool("log-json", false, "Log as JSON")
	flags.Bool("log-source", false, "Add source locations to logs")
	flags.String("log-file", "", "Write logs to a file")
	flags.String("format", "", "Output mode (auto, tui, json)")
	flags.String("session", "", "Session file")
	flags.Bool("no-color", false, "Disable colors")
}

// SetupGlobalConfig loads the env file and every configuration source, then
// stores the configuration and logger in the command context.
func SetupGlobalConfig(cmd *cobra.Command) error {
	if _, err := loadEnvFile(cmd); err != nil {
		return err
	}
	configFile, err := resolveConfigFile(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	manager := config.NewManager(config.NewService())
	cfg, err := manager.Load(ctx,
		config.NewYAMLProvider(configFile),
		config.NewEnvProvider(),
		config.NewCLIProvider(extractCLIFlags(cmd)),
	)
	if err != nil {
		return err
	}
	ctx = config.ContextWithManager(ctx, manager)
	cmd.SetContext(ctx)
	logFile := cfg.Runtime.LogFile
	if logFile == "" && helpers.DetectMode(cmd) == models.ModeTUI {
		logFile = tuiLogFile
	}
	if logFile != "" {
		logFile = config.ExpandHome(logFile)
		if err := os.MkdirAll(filepath.Dir(logFile), 0o700); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	closer, err := logger.SetupLogger(cfg.Runtime.LogLevel, cfg.Runtime.LogJSON, cfg.Runtime.LogSource, logFile)
	if err != nil {
		return err
	}
	logCloser = closer
	if !helpers.ShouldUseColor(cmd) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	log := logger.GetDefault()
	log.Debug("configuration loaded", "config_file", configFile, "base_url", cfg.API.BaseURL, "mode", cfg.CLI.Mode)
	cmd.SetContext(logger.ContextWithLogger(ctx, log))
	return nil
}

// resolveConfigFile falls back to ~/.liora/liora.yaml when the default file
// is missing from the working directory.
func resolveConfigFile(cmd *cobra.Command) (string, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return "", fmt.Errorf("failed to get config flag: %w", err)
	}
	if cmd.Flags().Changed("config") {
		return path, nil
	}
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	home := config.ExpandHome(filepath.Join("~", ".liora", config.DefaultConfigFileName))
	if _, err := os.Stat(home); err == nil {
		return home, nil
	}
	return path, nil
}
