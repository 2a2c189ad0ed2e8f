package app

import (
	"fmt"
	"io"
)

// StatusClient defines dependencies required by the status command.
type StatusClient interface {
	UnreadCount() int
}

// UnreadCounter defines the chat-side unread total.
type UnreadCounter interface {
	TotalUnread() int
}

// StatusInput represents status command inputs after flag parsing.
type StatusInput struct {
	Format string // "count", "summary"
	Output io.Writer
}

// StatusUseCase reports unread totals, shaped for shell prompts and
// status bars.
type StatusUseCase struct {
	notifications StatusClient
	sessions      UnreadCounter
}

// NewStatusUseCase creates a status use-case.
func NewStatusUseCase(notifications StatusClient, sessions UnreadCounter) *StatusUseCase {
	if notifications == nil || sessions == nil {
		panic("NewStatusUseCase: store dependencies cannot be nil")
	}
	return &StatusUseCase{notifications: notifications, sessions: sessions}
}

// Execute prints the unread totals. The "count" format prints a single
// number (notifications plus chat) for embedding in a prompt; "summary"
// prints both components.
func (u *StatusUseCase) Execute(input StatusInput) error {
	notifications := u.notifications.UnreadCount()
	chat := u.sessions.TotalUnread()
	switch input.Format {
	case "", "count":
		fmt.Fprintln(input.Output, notifications+chat)
	case "summary":
		fmt.Fprintf(input.Output, "notifications: %d unread\nchat: %d unread\n", notifications, chat)
	default:
		return fmt.Errorf("status: unknown format %q (use count or summary)", input.Format)
	}
	return nil
}
