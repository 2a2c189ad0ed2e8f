package cmd

import (
	"github.com/spf13/cobra"

	"github.com/storewire/storewire/internal/app"
	"github.com/storewire/storewire/internal/config"
)

// ordersCmd represents the orders command
var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List mirrored orders",
	Long: `List the orders the event stream has pushed at this client,
newest first. Output is one order per line, tab-separated:
id, order number, status, updated-at.

USAGE:
    storewire orders [OPTIONS]

OPTIONS:
    --status <status>  Filter by order status
    -h, --help         Show this help`,
	RunE: runOrders,
}

func init() {
	rootCmd.AddCommand(ordersCmd)
	ordersCmd.Flags().String("status", "", "Filter by order status (pending, processing, shipped, delivered, cancelled, refunded)")
}

func runOrders(cmd *cobra.Command, args []string) error {
	config.Load()
	log := initLogging("orders")
	defer log.Shutdown()

	rt, err := app.OpenStores()
	if err != nil {
		return err
	}
	defer rt.Close()

	status, _ := cmd.Flags().GetString("status")
	return app.NewOrdersUseCase(rt.Orders).Execute(app.OrdersInput{
		Status: status,
		Output: cmd.OutOrStdout(),
	})
}
