package app

import (
	"fmt"

	"github.com/storewire/storewire/internal/colors"
)

// MarkReadClient defines dependencies required to acknowledge
// notifications and chat sessions.
type MarkReadClient interface {
	MarkRead(id string) (bool, error)
	MarkAllRead() (int, error)
}

// SessionMarkReadClient defines dependencies required to acknowledge a
// chat session.
type SessionMarkReadClient interface {
	MarkRead(sessionID string) (bool, error)
}

// MarkReadInput represents mark-read command inputs after flag parsing.
type MarkReadInput struct {
	NotificationID string
	SessionID      string
	All            bool
}

// MarkReadUseCase coordinates acknowledgement of notifications and
// session unread counts.
type MarkReadUseCase struct {
	notifications MarkReadClient
	sessions      SessionMarkReadClient
}

// NewMarkReadUseCase creates a mark-read use-case.
func NewMarkReadUseCase(notifications MarkReadClient, sessions SessionMarkReadClient) *MarkReadUseCase {
	if notifications == nil || sessions == nil {
		panic("NewMarkReadUseCase: store dependencies cannot be nil")
	}
	return &MarkReadUseCase{notifications: notifications, sessions: sessions}
}

// Execute applies the requested acknowledgement. Exactly one of All,
// NotificationID, or SessionID must be set.
func (u *MarkReadUseCase) Execute(input MarkReadInput) error {
	set := 0
	if input.All {
		set++
	}
	if input.NotificationID != "" {
		set++
	}
	if input.SessionID != "" {
		set++
	}
	if set != 1 {
		return fmt.Errorf("mark-read: pass exactly one of --all, a notification id, or --session")
	}

	switch {
	case input.All:
		n, err := u.notifications.MarkAllRead()
		if err != nil {
			return fmt.Errorf("mark-read: %w", err)
		}
		colors.Success(fmt.Sprintf("marked %d notification(s) read", n))
	case input.NotificationID != "":
		found, err := u.notifications.MarkRead(input.NotificationID)
		if err != nil {
			return fmt.Errorf("mark-read: %w", err)
		}
		if !found {
			return fmt.Errorf("mark-read: notification %s not found", input.NotificationID)
		}
		colors.Success("marked read")
	default:
		found, err := u.sessions.MarkRead(input.SessionID)
		if err != nil {
			return fmt.Errorf("mark-read: %w", err)
		}
		if !found {
			return fmt.Errorf("mark-read: session %s not found", input.SessionID)
		}
		colors.Success("session marked read")
	}
	return nil
}
