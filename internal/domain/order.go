// Package domain provides the domain layer for the storewire client.
// It contains the value objects shared by the stores, the router, and
// the CLI surfaces.
package domain

import (
	"fmt"
	"strings"
)

// OrderStatus represents the lifecycle status of a storefront order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
	StatusRefunded   OrderStatus = "Refunded"
)

// IsValid checks if the order status is valid.
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled, StatusRefunded:
		return true
	default:
		return false
	}
}

// String returns the string representation of the status.
func (s OrderStatus) String() string {
	return string(s)
}

// Order is the slice of an order this client consumes. The order
// lifecycle is owned by the storefront server; the client only mirrors
// what the event stream pushes at it.
type Order struct {
	ID            string      `json:"id"`
	OrderNumber   string      `json:"orderNumber"`
	Status        OrderStatus `json:"status"`
	CustomerEmail string      `json:"customerEmail,omitempty"`
	UpdatedAt     string      `json:"updatedAt,omitempty"`
}

// Validate validates the order and returns an error if invalid.
func (o *Order) Validate() error {
	if o.ID == "" {
		return fmt.Errorf("order ID cannot be empty")
	}
	if o.OrderNumber == "" {
		return fmt.Errorf("order number cannot be empty")
	}
	if !o.Status.IsValid() {
		return fmt.Errorf("invalid order status: %s", o.Status)
	}
	return nil
}

// ParseOrderStatus parses a string into an OrderStatus. Matching is
// case-insensitive; the canonical capitalized form is returned.
func ParseOrderStatus(status string) (OrderStatus, error) {
	for _, known := range []OrderStatus{
		StatusPending, StatusProcessing, StatusShipped,
		StatusDelivered, StatusCancelled, StatusRefunded,
	} {
		if strings.EqualFold(status, string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("invalid order status: %s", status)
}
