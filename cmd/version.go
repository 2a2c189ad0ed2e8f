package cmd

import (
	"github.com/spf13/cobra"

	"github.com/storewire/storewire/internal/version"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("storewire v%s\n", version.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
