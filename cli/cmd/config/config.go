package config

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/liora-cosmetic/liora/cli/cmd"
	"github.com/liora-cosmetic/liora/cli/helpers"
	"github.com/liora-cosmetic/liora/pkg/config"
	"github.com/liora-cosmetic/liora/pkg/logger"
)

const redactedValue = "[REDACTED]"

// NewConfigCommand creates the config command using the unified command pattern
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management and diagnostics",
		Long:  `Configuration management and diagnostics for the liora client.`,
	}
	cmd.AddCommand(
		NewConfigShowCommand(),
		NewConfigDiagnosticsCommand(),
		NewConfigValidateCommand(),
	)
	return cmd
}

// NewConfigShowCommand creates the config show subcommand
func NewConfigShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration values",
		Long: `Display the current configuration values in different formats.
Supports JSON, YAML, and table output formats. Secrets are redacted.`,
		RunE: executeConfigShowCommand,
	}
	cmd.Flags().StringP("output", "o", "table", "Output format (json, yaml, table)")
	cmd.Flags().Bool("sources", false, "Show which source set each value")
	return cmd
}

func executeConfigShowCommand(cobraCmd *cobra.Command, args []string) error {
	handler := func(ctx context.Context, cobraCmd *cobra.Command, _ *cmd.CommandExecutor, _ []string) error {
		log := logger.FromContext(ctx)
		log.Debug("executing config show command")
		format, err := cobraCmd.Flags().GetString("output")
		if err != nil {
			return fmt.Errorf("failed to get output flag: %w", err)
		}
		showSources, err := cobraCmd.Flags().GetBool("sources")
		if err != nil {
			return fmt.Errorf("failed to get sources flag: %w", err)
		}
		cfg := config.FromContext(ctx)
		var sources map[string]config.SourceType
		if showSources {
			sources = sourcesOf(ctx, cfg)
		}
		return formatConfigOutput(cobraCmd.OutOrStdout(), cfg, sources, format)
	}
	return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{NoClient: true}, cmd.ModeHandlers{
		JSON: handler,
	}, args)
}

// NewConfigDiagnosticsCommand creates the config diagnostics subcommand
func NewConfigDiagnosticsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagnostics",
		Short: "Run configuration diagnostics",
		Long: `Perform configuration diagnostics including:
- Source precedence of every value
- Validation errors
- Environment variable mapping
- Session file accessibility`,
		RunE: executeConfigDiagnosticsCommand,
	}
	cmd.Flags().BoolP("verbose", "v", false, "Show the environment variable of every key")
	return cmd
}

func executeConfigDiagnosticsCommand(cobraCmd *cobra.Command, args []string) error {
	return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{NoClient: true}, cmd.ModeHandlers{
		JSON: handleConfigDiagnosticsJSON,
		TUI:  handleConfigDiagnosticsTUI,
	}, args)
}

func handleConfigDiagnosticsJSON(
	ctx context.Context,
	cobraCmd *cobra.Command,
	executor *cmd.CommandExecutor,
	_ []string,
) error {
	verbose, err := cobraCmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	return helpers.NewOutputWriter(cobraCmd.OutOrStdout(), helpers.OutputFormatJSON).
		WriteJSON(collectDiagnostics(ctx, executor, verbose))
}

func handleConfigDiagnosticsTUI(
	ctx context.Context,
	cobraCmd *cobra.Command,
	executor *cmd.CommandExecutor,
	_ []string,
) error {
	log := logger.FromContext(ctx)
	verbose, err := cobraCmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	d := collectDiagnostics(ctx, executor, verbose)
	out := cobraCmd.OutOrStdout()
	fmt.Fprintln(out, "=== Configuration Diagnostics ===")
	fmt.Fprintf(out, "Session file: %s (%s)\n", d.Session.Path, d.Session.Status)
	fmt.Fprintln(out, "\n--- Configuration Validation ---")
	if d.Validation.Valid {
		fmt.Fprintln(out, "✅ Configuration is valid")
	} else {
		fmt.Fprintf(out, "❌ Validation errors:\n%s\n", d.Validation.Error)
	}
	fmt.Fprintln(out, "\n--- Configuration Sources ---")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, key := range sortedKeys(d.Configuration) {
		line := fmt.Sprintf("%s\t%s\t%s", key, d.Configuration[key], d.Sources[key])
		if verbose {
			line += "\t" + d.Env[key]
		}
		fmt.Fprintln(w, line)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(out, "\n--- Source Precedence ---")
	fmt.Fprintln(out, "Configuration sources (highest to lowest precedence):")
	fmt.Fprintln(out, "1. CLI flags")
	fmt.Fprintln(out, "2. Environment variables")
	fmt.Fprintln(out, "3. YAML configuration file")
	fmt.Fprintln(out, "4. Default values")
	log.Debug("diagnostics completed successfully")
	return nil
}

// NewConfigValidateCommand creates the config validate subcommand
func NewConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the loaded configuration",
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{NoClient: true}, cmd.ModeHandlers{
				JSON: handleConfigValidate,
			}, args)
		},
	}
}

func handleConfigValidate(ctx context.Context, cobraCmd *cobra.Command, _ *cmd.CommandExecutor, _ []string) error {
	cfg := config.FromContext(ctx)
	if err := config.ManagerFromContext(ctx).Service.Validate(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return helpers.NewOutputWriter(cobraCmd.OutOrStdout(), helpers.OutputFormatJSON).
		WriteJSON(map[string]any{"valid": true, "message": "Configuration is valid"})
}

type diagnostics struct {
	Configuration map[string]string            `json:"configuration"`
	Sources       map[string]config.SourceType `json:"sources"`
	Env           map[string]string            `json:"env,omitempty"`
	Validation    validationResult             `json:"validation"`
	Session       sessionStatus                `json:"session"`
}

type validationResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

type sessionStatus struct {
	Path   string `json:"path"`
	Status string `json:"status"`
}

func collectDiagnostics(ctx context.Context, executor *cmd.CommandExecutor, verbose bool) diagnostics {
	cfg := config.FromContext(ctx)
	d := diagnostics{
		Configuration: flattenConfig(cfg),
		Sources:       sourcesOf(ctx, cfg),
		Validation:    validationResult{Valid: true},
		Session:       sessionStatus{Path: executor.GetStore().Path(), Status: "absent"},
	}
	if err := config.ManagerFromContext(ctx).Service.Validate(cfg); err != nil {
		d.Validation = validationResult{Valid: false, Error: err.Error()}
	}
	if info, err := os.Stat(d.Session.Path); err == nil {
		d.Session.Status = fmt.Sprintf("present, mode %s", info.Mode().Perm())
	}
	if verbose {
		d.Env = make(map[string]string)
		for _, m := range config.GenerateEnvMappings() {
			d.Env[m.ConfigPath] = m.EnvVar
		}
	}
	return d
}

// sourcesOf reports the source of every flattened key
func sourcesOf(ctx context.Context, cfg *config.Config) map[string]config.SourceType {
	service := config.ManagerFromContext(ctx).Service
	out := make(map[string]config.SourceType)
	for key := range flattenConfig(cfg) {
		source := service.GetSource(key)
		if source == "" {
			source = config.SourceDefault
		}
		out[key] = source
	}
	return out
}

// formatConfigOutput formats and outputs configuration based on requested format
func formatConfigOutput(w io.Writer, cfg *config.Config, sources map[string]config.SourceType, format string) error {
	flat := flattenConfig(cfg)
	switch format {
	case "json":
		output := map[string]any{"config": flat}
		if len(sources) > 0 {
			output["sources"] = sources
		}
		return helpers.NewOutputWriter(w, helpers.OutputFormatJSON).WriteJSON(output)
	case "yaml":
		output := map[string]any{"config": flat}
		if len(sources) > 0 {
			output["sources"] = sources
		}
		data, err := yaml.MarshalWithOptions(output, yaml.Indent(2))
		if err != nil {
			return fmt.Errorf("failed to encode configuration: %w", err)
		}
		_, err = w.Write(data)
		return err
	case "table":
		return outputTable(w, flat, sources)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func outputTable(out io.Writer, flat map[string]string, sources map[string]config.SourceType) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if sources != nil {
		fmt.Fprintln(w, "KEY\tVALUE\tSOURCE")
		fmt.Fprintln(w, "---\t-----\t------")
	} else {
		fmt.Fprintln(w, "KEY\tVALUE")
		fmt.Fprintln(w, "---\t-----")
	}
	for _, key := range sortedKeys(flat) {
		if sources != nil {
			fmt.Fprintf(w, "%s\t%s\t%s\n", key, flat[key], sources[key])
		} else {
			fmt.Fprintf(w, "%s\t%s\n", key, flat[key])
		}
	}
	return w.Flush()
}

// flattenConfig converts nested config to a flat, redacted key-value map
func flattenConfig(cfg *config.Config) map[string]string {
	result := make(map[string]string)
	flattenAPIConfig(cfg, result)
	flattenListsConfig(cfg, result)
	flattenNotifyConfig(cfg, result)
	flattenRuntimeConfig(cfg, result)
	flattenCLIConfig(cfg, result)
	for key, value := range result {
		if value != "" && config.IsSensitiveConfigPath(key) {
			result[key] = redactedValue
		}
	}
	return result
}

func flattenAPIConfig(cfg *config.Config, result map[string]string) {
	result["api.base_url"] = redactURL(cfg.API.BaseURL)
	result["api.token"] = cfg.API.Token.Value()
	result["api.timeout"] = cfg.API.Timeout.String()
	result["api.retry_count"] = strconv.Itoa(cfg.API.RetryCount)
	result["api.retry_wait"] = cfg.API.RetryWait.String()
	result["api.detail_cache_size"] = strconv.Itoa(cfg.API.DetailCacheSize)
	result["api.detail_cache_ttl"] = cfg.API.DetailCacheTTL.String()
	result["api.zero_based_pages"] = strconv.FormatBool(cfg.API.ZeroBasedPages)
	result["api.endpoints.orders"] = cfg.API.Endpoints.Orders
	result["api.endpoints.products"] = cfg.API.Endpoints.Products
	result["api.endpoints.users"] = cfg.API.Endpoints.Users
	result["api.endpoints.login"] = cfg.API.Endpoints.Login
}

func flattenListsConfig(cfg *config.Config, result map[string]string) {
	result["lists.page_size"] = strconv.Itoa(cfg.Lists.PageSize)
	result["lists.search_debounce"] = cfg.Lists.SearchDebounce.String()
	result["lists.remote_paging"] = strconv.FormatBool(cfg.Lists.RemotePaging)
	result["lists.timezone"] = cfg.Lists.Timezone
}

func flattenNotifyConfig(cfg *config.Config, result map[string]string) {
	result["notify.error_timeout"] = cfg.Notify.ErrorTimeout.String()
	result["notify.info_timeout"] = cfg.Notify.InfoTimeout.String()
}

func flattenRuntimeConfig(cfg *config.Config, result map[string]string) {
	result["runtime.log_level"] = cfg.Runtime.LogLevel
	result["runtime.log_json"] = strconv.FormatBool(cfg.Runtime.LogJSON)
	result["runtime.log_source"] = strconv.FormatBool(cfg.Runtime.LogSource)
	result["runtime.log_file"] = cfg.Runtime.LogFile
}

func flattenCLIConfig(cfg *config.Config, result map[string]string) {
	result["cli.mode"] = cfg.CLI.Mode
	result["cli.session_file"] = cfg.CLI.SessionFile
	result["cli.no_color"] = strconv.FormatBool(cfg.CLI.NoColor)
}

// redactURL hides credentials embedded in a URL
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	u.User = url.User(redactedValue)
	return u.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
