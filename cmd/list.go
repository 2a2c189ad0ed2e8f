package cmd

import (
	"github.com/spf13/cobra"

	"github.com/storewire/storewire/internal/app"
	"github.com/storewire/storewire/internal/config"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notifications",
	Long: `List notifications, newest first.

Output is one notification per line, tab-separated:
id, read state, type, timestamp, title, message.

USAGE:
    storewire list [OPTIONS]

OPTIONS:
    --unread           Show only unread notifications
    --read             Show only read notifications
    --type <type>      Filter by notification type
    --limit <n>        Show at most n notifications
    -h, --help         Show this help`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().Bool("unread", false, "Show only unread notifications")
	listCmd.Flags().Bool("read", false, "Show only read notifications")
	listCmd.Flags().String("type", "", "Filter by notification type")
	listCmd.Flags().Int("limit", 0, "Show at most n notifications (0 = all)")
}

func runList(cmd *cobra.Command, args []string) error {
	config.Load()
	log := initLogging("list")
	defer log.Shutdown()

	rt, err := app.OpenStores()
	if err != nil {
		return err
	}
	defer rt.Close()

	unread, _ := cmd.Flags().GetBool("unread")
	read, _ := cmd.Flags().GetBool("read")
	typ, _ := cmd.Flags().GetString("type")
	limit, _ := cmd.Flags().GetInt("limit")

	readFilter := ""
	if unread {
		readFilter = "unread"
	}
	if read {
		readFilter = "read"
	}

	return app.NewListUseCase(rt.Notifications).Execute(app.ListInput{
		Read:   readFilter,
		Type:   typ,
		Limit:  limit,
		Output: cmd.OutOrStdout(),
	})
}
