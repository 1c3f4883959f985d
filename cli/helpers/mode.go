package helpers

import (
	"os"

	"github.com/liora-cosmetic/liora/cli/tui/models"
	"github.com/liora-cosmetic/liora/pkg/config"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// isRunningInCI checks if we're running in a CI/CD environment
func isRunningInCI() bool {
	if os.Getenv("CI") != "" {
		return true
	}
	ciVars := []string{
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"CIRCLECI",
		"BUILDKITE",
		"JENKINS_URL",
		"TF_BUILD",
		"CONTINUOUS_INTEGRATION",
	}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// isInteractiveEnvironment reports whether a TUI can run
func isInteractiveEnvironment() bool {
	if isRunningInCI() {
		return false
	}
	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return false
	}
	term := os.Getenv("TERM")
	return term != "dumb" && term != ""
}

// ModeFor resolves the configured mode; "auto" picks TUI on interactive terminals.
func ModeFor(cfg *config.Config, interactive bool) models.Mode {
	switch cfg.CLI.Mode {
	case string(OutputFormatJSON):
		return models.ModeJSON
	case string(OutputFormatTUI):
		return models.ModeTUI
	}
	if interactive {
		return models.ModeTUI
	}
	return models.ModeJSON
}

// DetectMode detects the output mode of cmd from the configuration in its context
func DetectMode(cmd *cobra.Command) models.Mode {
	cfg := config.FromContext(cmd.Context())
	if cfg.CLI.Mode == "auto" || cfg.CLI.Mode == "" {
		return ModeFor(cfg, isInteractiveEnvironment())
	}
	return ModeFor(cfg, false)
}

// ShouldUseColor determines if colored output should be used
func ShouldUseColor(cmd *cobra.Command) bool {
	cfg := config.FromContext(cmd.Context())
	if cfg.CLI.NoColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	if !isTerminal(os.Stdout) || isRunningInCI() {
		return false
	}
	term := os.Getenv("TERM")
	return term != "dumb" && term != ""
}
