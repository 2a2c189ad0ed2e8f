package cmd

import (
	"github.com/spf13/cobra"

	"github.com/storewire/storewire/internal/app"
	"github.com/storewire/storewire/internal/config"
)

// markReadCmd represents the mark-read command
var markReadCmd = &cobra.Command{
	Use:   "mark-read [notification-id]",
	Short: "Mark notifications or a chat session as read",
	Long: `Mark notifications or a chat session as read.

USAGE:
    storewire mark-read <notification-id>
    storewire mark-read --all
    storewire mark-read --session <session-id>

OPTIONS:
    --all              Mark all notifications read
    --session <id>     Reset a chat session's unread count
    -h, --help         Show this help`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMarkRead,
}

func init() {
	rootCmd.AddCommand(markReadCmd)
	markReadCmd.Flags().Bool("all", false, "Mark all notifications read")
	markReadCmd.Flags().String("session", "", "Reset a chat session's unread count")
}

func runMarkRead(cmd *cobra.Command, args []string) error {
	config.Load()
	log := initLogging("mark-read")
	defer log.Shutdown()

	rt, err := app.OpenStores()
	if err != nil {
		return err
	}
	defer rt.Close()

	all, _ := cmd.Flags().GetBool("all")
	session, _ := cmd.Flags().GetString("session")
	id := ""
	if len(args) == 1 {
		id = args[0]
	}

	return app.NewMarkReadUseCase(rt.Notifications, rt.Sessions).Execute(app.MarkReadInput{
		NotificationID: id,
		SessionID:      session,
		All:            all,
	})
}
