package cmd

import (
	"github.com/spf13/cobra"

	"github.com/storewire/storewire/internal/app"
	"github.com/storewire/storewire/internal/config"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show unread counts",
	Long: `Show unread counts.

The default count format prints a single number (unread notifications
plus unread chat messages) for embedding in prompts and status bars.

USAGE:
    storewire status [OPTIONS]

OPTIONS:
    --format=<format>  Output format: count, summary (default: count)
    -h, --help         Show this help`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().String("format", "count", "Output format: count, summary")
}

func runStatus(cmd *cobra.Command, args []string) error {
	config.Load()
	log := initLogging("status")
	defer log.Shutdown()

	rt, err := app.OpenStores()
	if err != nil {
		return err
	}
	defer rt.Close()

	format, _ := cmd.Flags().GetString("format")
	return app.NewStatusUseCase(rt.Notifications, rt.Sessions).Execute(app.StatusInput{
		Format: format,
		Output: cmd.OutOrStdout(),
	})
}
