package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/storewire/storewire/internal/app"
	"github.com/storewire/storewire/internal/config"
)

// cleanupCmd represents the cleanup command
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove old notifications",
	Long: `Remove old notifications.

Removes notifications older than the configured horizon to keep the
local snapshot small.

USAGE:
    storewire cleanup [OPTIONS]

OPTIONS:
    --days <n>         Remove notifications older than n days (default: auto_cleanup_days config value)
    --dry-run          Show what would be removed without removing
    -h, --help         Show this help`,
	RunE: runCleanup,
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
	cleanupCmd.Flags().Int("days", 0, "Remove notifications older than n days (default: auto_cleanup_days config value)")
	cleanupCmd.Flags().Bool("dry-run", false, "Show what would be removed without removing")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	config.Load()
	log := initLogging("cleanup")
	defer log.Shutdown()

	days, err := cmd.Flags().GetInt("days")
	if err != nil {
		return fmt.Errorf("invalid days value: %w", err)
	}
	if days == 0 {
		days = config.GetInt("auto_cleanup_days", 30)
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	rt, err := app.OpenStores()
	if err != nil {
		return err
	}
	defer rt.Close()

	return app.NewCleanupUseCase(rt.Notifications).Execute(app.CleanupInput{
		Days:   days,
		DryRun: dryRun,
		Output: cmd.OutOrStdout(),
	})
}
