package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"scriptfetch/internal/config"
)

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Print the settings, state, log and output locations",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		settings := loadSettings()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "settings: %s\n", config.GetSettingsPath())
		fmt.Fprintf(out, "history:  %s\n", config.GetHistoryDBPath())
		fmt.Fprintf(out, "logs:     %s\n", config.GetLogsDir())
		fmt.Fprintf(out, "lock:     %s\n", lockPath())
		fmt.Fprintf(out, "output:   %s\n", settings.General.OutputDir)
		fmt.Fprintf(out, "source:   %s\n", settings.General.BaseURL)
	},
}

func init() {
	rootCmd.AddCommand(pathsCmd)
}
