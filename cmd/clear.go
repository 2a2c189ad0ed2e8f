package cmd

import (
	"github.com/spf13/cobra"

	"github.com/storewire/storewire/internal/app"
	"github.com/storewire/storewire/internal/config"
)

// clearCmd represents the clear command
var clearCmd = &cobra.Command{
	Use:   "clear [target]",
	Short: "Clear local state",
	Long: `Clear local state and its snapshots.

Targets: notifications, orders, chat, all (default: all).

USAGE:
    storewire clear [target]`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClear,
}

func init() {
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	config.Load()
	log := initLogging("clear")
	defer log.Shutdown()

	rt, err := app.OpenStores()
	if err != nil {
		return err
	}
	defer rt.Close()

	target := ""
	if len(args) == 1 {
		target = args[0]
	}
	return app.NewClearUseCase(rt.Notifications, rt.Orders, rt.Sessions).Execute(app.ClearInput{
		Target: target,
	})
}
