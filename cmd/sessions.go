package cmd

import (
	"github.com/spf13/cobra"

	"github.com/storewire/storewire/internal/app"
	"github.com/storewire/storewire/internal/config"
)

// sessionsCmd represents the sessions command
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List support chat sessions",
	Long: `List support chat sessions, most recently active first.

Output is one session per line, tab-separated:
id, presence, unread count, customer name, last message.

USAGE:
    storewire sessions [OPTIONS]

OPTIONS:
    --unread           Show only sessions with unread messages
    --online           Show only sessions with the customer online
    -h, --help         Show this help`,
	RunE: runSessions,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.Flags().Bool("unread", false, "Show only sessions with unread messages")
	sessionsCmd.Flags().Bool("online", false, "Show only sessions with the customer online")
}

func runSessions(cmd *cobra.Command, args []string) error {
	config.Load()
	log := initLogging("sessions")
	defer log.Shutdown()

	rt, err := app.OpenStores()
	if err != nil {
		return err
	}
	defer rt.Close()

	unread, _ := cmd.Flags().GetBool("unread")
	online, _ := cmd.Flags().GetBool("online")

	return app.NewSessionsUseCase(rt.Sessions).Execute(app.SessionsInput{
		UnreadOnly: unread,
		OnlineOnly: online,
		Output:     cmd.OutOrStdout(),
	})
}
