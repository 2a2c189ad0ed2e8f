package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/storewire/storewire/internal/domain"
)

// OrderLister defines dependencies required to list orders.
type OrderLister interface {
	List(filter domain.OrderFilter) []domain.Order
}

// OrdersInput represents orders command inputs after flag parsing.
type OrdersInput struct {
	Status string
	Output io.Writer
}

// OrdersUseCase coordinates order listing.
type OrdersUseCase struct {
	store OrderLister
}

// NewOrdersUseCase creates an orders use-case.
func NewOrdersUseCase(store OrderLister) *OrdersUseCase {
	if store == nil {
		panic("NewOrdersUseCase: store dependency cannot be nil")
	}
	return &OrdersUseCase{store: store}
}

// Execute lists orders newest first, one tab-separated line each: id,
// order number, status, updated-at.
func (u *OrdersUseCase) Execute(input OrdersInput) error {
	filter := domain.OrderFilter{}
	if input.Status != "" {
		status, err := domain.ParseOrderStatus(input.Status)
		if err != nil {
			return fmt.Errorf("orders: %w", err)
		}
		filter.Status = status
	}
	for _, order := range u.store.List(filter) {
		line := strings.Join([]string{order.ID, order.OrderNumber, order.Status.String(), order.UpdatedAt}, "\t")
		fmt.Fprintln(input.Output, line)
	}
	return nil
}
