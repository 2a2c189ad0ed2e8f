package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/storewire/storewire/internal/app"
	"github.com/storewire/storewire/internal/config"
	"github.com/storewire/storewire/internal/transport"
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send <message>",
	Short: "Send a chat message",
	Long: `Send a chat message.

Customers send into their own session; admins must name the session
with --session. The command connects, delivers the message, and exits.

USAGE:
    storewire send [OPTIONS] <message>

OPTIONS:
    --session <id>     Target session (required for admin clients)
    --timeout <secs>   How long to wait for the connection (default: 10)
    -h, --help         Show this help`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().String("session", "", "Target session id")
	sendCmd.Flags().Int("timeout", 10, "Seconds to wait for the connection")
}

func runSend(cmd *cobra.Command, args []string) error {
	config.Load()
	log := initLogging("send")
	defer log.Shutdown()

	rt, err := app.Open()
	if err != nil {
		return err
	}
	defer rt.Close()

	timeout, _ := cmd.Flags().GetInt("timeout")
	rt.Connect()
	if err := waitConnected(rt.Client, time.Duration(timeout)*time.Second); err != nil {
		return err
	}

	session, _ := cmd.Flags().GetString("session")
	return app.NewSendUseCase(rt.Client, rt.Sessions).Execute(app.SendInput{
		SessionID: session,
		Text:      strings.Join(args, " "),
		Role:      rt.Role,
		ClientID:  rt.ClientID,
	})
}

// waitConnected polls until the client is connected, the retry loop
// gives up, or the timeout elapses.
func waitConnected(client *transport.Client, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		status := client.Status()
		switch status.State {
		case transport.StateConnected:
			return nil
		case transport.StateFailed:
			return fmt.Errorf("connection failed: %s", status.LastError)
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("timed out waiting for connection after %s", timeout)
}
