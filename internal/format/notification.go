// Package format renders domain events into display-ready text.
package format

import (
	"fmt"

	"github.com/storewire/storewire/internal/domain"
)

// statusTemplate maps an order status to its notification type and
// message template. Statuses without an entry fall back to the generic
// order_status rendering.
type statusTemplate struct {
	Type    domain.NotificationType
	Title   string
	Message string // fmt template taking the order number
}

var statusTemplates = map[domain.OrderStatus]statusTemplate{
	domain.StatusProcessing: {
		Type:    domain.TypeOrderProcessing,
		Title:   "Order processing",
		Message: "Your order %s is now being processed.",
	},
	domain.StatusShipped: {
		Type:    domain.TypeOrderShipped,
		Title:   "Order shipped",
		Message: "Your order %s has been shipped and is on its way.",
	},
	domain.StatusDelivered: {
		Type:    domain.TypeOrderDelivered,
		Title:   "Order delivered",
		Message: "Your order %s has been delivered.",
	},
	domain.StatusCancelled: {
		Type:    domain.TypeOrderCancelled,
		Title:   "Order cancelled",
		Message: "Your order %s has been cancelled.",
	},
}

// OrderStatusNotification maps an order status transition to a
// notification type, title, and message. It is deterministic and does
// no I/O; unknown statuses render the generic "status updated" form.
func OrderStatusNotification(status domain.OrderStatus, orderNumber string) (domain.NotificationType, string, string) {
	if tmpl, ok := statusTemplates[status]; ok {
		return tmpl.Type, tmpl.Title, fmt.Sprintf(tmpl.Message, orderNumber)
	}
	return domain.TypeOrderStatus, "Order update",
		fmt.Sprintf("Your order %s status updated to %s.", orderNumber, status)
}
