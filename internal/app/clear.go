package app

import (
	"fmt"

	"github.com/storewire/storewire/internal/colors"
)

// ClearClient defines dependencies required by the clear command.
type ClearClient interface {
	Clear() error
}

// ClearInput represents clear command inputs after flag parsing.
type ClearInput struct {
	Target string // "notifications", "orders", "chat", "all"
}

// ClearUseCase wipes local state.
type ClearUseCase struct {
	notifications ClearClient
	orders        ClearClient
	sessions      ClearClient
}

// NewClearUseCase creates a clear use-case.
func NewClearUseCase(notifications, orders, sessions ClearClient) *ClearUseCase {
	if notifications == nil || orders == nil || sessions == nil {
		panic("NewClearUseCase: store dependencies cannot be nil")
	}
	return &ClearUseCase{notifications: notifications, orders: orders, sessions: sessions}
}

// Execute clears the requested stores and their snapshots.
func (u *ClearUseCase) Execute(input ClearInput) error {
	var targets []ClearClient
	switch input.Target {
	case "notifications":
		targets = []ClearClient{u.notifications}
	case "orders":
		targets = []ClearClient{u.orders}
	case "chat":
		targets = []ClearClient{u.sessions}
	case "", "all":
		targets = []ClearClient{u.notifications, u.orders, u.sessions}
	default:
		return fmt.Errorf("clear: unknown target %q (use notifications, orders, chat, or all)", input.Target)
	}
	for _, t := range targets {
		if err := t.Clear(); err != nil {
			return fmt.Errorf("clear: %w", err)
		}
	}
	colors.Success("cleared")
	return nil
}
