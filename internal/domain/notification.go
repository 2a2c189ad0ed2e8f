package domain

import (
	"fmt"
	"time"
)

// NotificationType classifies a notification for display and filtering.
type NotificationType string

const (
	TypeOrderDelivered  NotificationType = "order_delivered"
	TypeOrderProcessing NotificationType = "order_processing"
	TypeOrderShipped    NotificationType = "order_shipped"
	TypeOrderCancelled  NotificationType = "order_cancelled"
	TypeOrderStatus     NotificationType = "order_status"
	TypeTest            NotificationType = "test"
	TypeDefault         NotificationType = "default"
)

// IsValid checks if the notification type is valid.
func (t NotificationType) IsValid() bool {
	switch t {
	case TypeOrderDelivered, TypeOrderProcessing, TypeOrderShipped,
		TypeOrderCancelled, TypeOrderStatus, TypeTest, TypeDefault:
		return true
	default:
		return false
	}
}

// String returns the string representation of the type.
func (t NotificationType) String() string {
	return string(t)
}

// OrderRef ties a notification back to the order that produced it.
type OrderRef struct {
	OrderID     string      `json:"orderId"`
	OrderNumber string      `json:"orderNumber,omitempty"`
	Status      OrderStatus `json:"status"`
}

// Notification is a display-ready notification record.
type Notification struct {
	ID        string           `json:"id"`
	Title     string           `json:"title,omitempty"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	Read      bool             `json:"read"`
	Link      string           `json:"link,omitempty"`
	Order     *OrderRef        `json:"order,omitempty"`
	Timestamp string           `json:"timestamp,omitempty"`
}

// IsRead reports whether the notification has been acknowledged.
func (n *Notification) IsRead() bool {
	return n.Read
}

// MarkRead flags the notification as read.
func (n *Notification) MarkRead() *Notification {
	n.Read = true
	return n
}

// RefersTo reports whether the notification references the given order
// in the given status. Used to absorb duplicate status pushes.
func (n *Notification) RefersTo(orderID string, status OrderStatus) bool {
	return n.Order != nil && n.Order.OrderID == orderID && n.Order.Status == status
}

// Validate validates the notification and returns an error if invalid.
func (n *Notification) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("notification ID cannot be empty")
	}
	if n.Message == "" {
		return fmt.Errorf("notification message cannot be empty")
	}
	if !n.Type.IsValid() {
		return fmt.Errorf("invalid notification type: %s", n.Type)
	}
	if n.Timestamp != "" {
		if _, err := time.Parse(time.RFC3339, n.Timestamp); err != nil {
			return fmt.Errorf("invalid notification timestamp: %w", err)
		}
	}
	return nil
}

// ParseNotificationType parses a string into a NotificationType.
func ParseNotificationType(t string) (NotificationType, error) {
	nt := NotificationType(t)
	if !nt.IsValid() {
		return "", fmt.Errorf("invalid notification type: %s", t)
	}
	return nt, nil
}
