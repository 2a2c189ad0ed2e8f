package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/storewire/storewire/internal/domain"
)

// NotificationLister defines dependencies required to list notifications.
type NotificationLister interface {
	List(filter domain.NotificationFilter) []domain.Notification
}

// ListInput represents list command inputs after flag parsing.
type ListInput struct {
	Read   string // "", "read", "unread"
	Type   string
	Limit  int
	Output io.Writer
}

// ListUseCase coordinates notification listing.
type ListUseCase struct {
	store NotificationLister
}

// NewListUseCase creates a list use-case.
func NewListUseCase(store NotificationLister) *ListUseCase {
	if store == nil {
		panic("NewListUseCase: store dependency cannot be nil")
	}
	return &ListUseCase{store: store}
}

// Execute lists notifications newest first, one tab-separated line
// each: id, read state, type, timestamp, title, message.
func (u *ListUseCase) Execute(input ListInput) error {
	filter := domain.NotificationFilter{Read: domain.ReadFilter(input.Read)}
	if input.Type != "" {
		typ, err := domain.ParseNotificationType(input.Type)
		if err != nil {
			return fmt.Errorf("list: %w", err)
		}
		filter.Type = typ
	}
	switch filter.Read {
	case domain.ReadFilterAll, domain.ReadFilterRead, domain.ReadFilterUnread:
	default:
		return fmt.Errorf("list: invalid read filter %q (use read or unread)", input.Read)
	}

	notifications := u.store.List(filter)
	if input.Limit > 0 && len(notifications) > input.Limit {
		notifications = notifications[:input.Limit]
	}
	for _, n := range notifications {
		state := "unread"
		if n.Read {
			state = "read"
		}
		line := strings.Join([]string{n.ID, state, n.Type.String(), n.Timestamp, n.Title, n.Message}, "\t")
		fmt.Fprintln(input.Output, line)
	}
	return nil
}
