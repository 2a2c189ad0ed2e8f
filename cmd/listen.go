package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/storewire/storewire/internal/app"
	"github.com/storewire/storewire/internal/colors"
	"github.com/storewire/storewire/internal/config"
	"github.com/storewire/storewire/internal/transport"
)

// listenCmd represents the listen command
var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Connect to the storefront and deliver events until interrupted",
	Long: `Connect to the storefront and deliver events until interrupted.

Maintains the websocket connection, mirrors orders and notifications
into local state, tracks support chat sessions, and fires hook scripts
for every accepted event. Reconnects automatically; stops retrying
after repeated failures until restarted.

USAGE:
    storewire listen [OPTIONS]

OPTIONS:
    --server <url>     Override the configured server URL
    --role <role>      Override the configured role (customer, admin)
    -h, --help         Show this help`,
	RunE: runListen,
}

func init() {
	rootCmd.AddCommand(listenCmd)
	listenCmd.Flags().String("server", "", "Websocket server URL (default: server_url config value)")
	listenCmd.Flags().String("role", "", "Client role: customer or admin (default: role config value)")
}

func runListen(cmd *cobra.Command, args []string) error {
	config.Load()
	if server, _ := cmd.Flags().GetString("server"); server != "" {
		config.Set("server_url", server)
	}
	if role, _ := cmd.Flags().GetString("role"); role != "" {
		config.Set("role", role)
	}
	log := initLogging("listen")
	defer log.Shutdown()

	rt, err := app.Open()
	if err != nil {
		return err
	}
	defer rt.Close()

	rt.Client.OnStateChange(func(status transport.Status) {
		switch status.State {
		case transport.StateConnected:
			colors.Success("connected to " + rt.ServerURL)
		case transport.StateReconnecting:
			colors.Warning("connection lost, reconnecting:", status.LastError)
		case transport.StateFailed:
			colors.Error("giving up after repeated failures:", status.LastError)
		}
	})

	colors.Info("connecting to " + rt.ServerURL + " as " + rt.Role)
	rt.Connect()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	colors.Info("shutting down")
	return nil
}
