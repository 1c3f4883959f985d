package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/liora-cosmetic/liora/cli/helpers"
	"github.com/liora-cosmetic/liora/cli/tui/models"
	"github.com/liora-cosmetic/liora/cli/tui/styles"
	"github.com/liora-cosmetic/liora/pkg/version"
)

func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			out := cmd.OutOrStdout()
			if helpers.DetectMode(cmd) == models.ModeJSON {
				return helpers.NewOutputWriter(out, helpers.OutputFormatJSON).WriteJSON(info)
			}
			fmt.Fprintln(out, styles.RenderTitle("liora "+info.Version))
			fmt.Fprintf(out, "commit:   %s\nbuilt:    %s\nruntime:  %s %s\n",
				info.CommitHash, info.BuildDate, info.GoVersion, info.Platform)
			return nil
		},
	}
}
