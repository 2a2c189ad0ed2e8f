package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/storewire/storewire/internal/domain"
)

// SessionLister defines dependencies required to list chat sessions.
type SessionLister interface {
	Sessions(filter domain.SessionFilter) []domain.Session
}

// SessionsInput represents sessions command inputs after flag parsing.
type SessionsInput struct {
	UnreadOnly bool
	OnlineOnly bool
	Output     io.Writer
}

// SessionsUseCase coordinates session listing.
type SessionsUseCase struct {
	store SessionLister
}

// NewSessionsUseCase creates a sessions use-case.
func NewSessionsUseCase(store SessionLister) *SessionsUseCase {
	if store == nil {
		panic("NewSessionsUseCase: store dependency cannot be nil")
	}
	return &SessionsUseCase{store: store}
}

// Execute lists sessions most recently active first, one tab-separated
// line each: id, presence, unread count, customer name, last message.
func (u *SessionsUseCase) Execute(input SessionsInput) error {
	sessions := u.store.Sessions(domain.SessionFilter{
		UnreadOnly: input.UnreadOnly,
		OnlineOnly: input.OnlineOnly,
	})
	for _, sess := range sessions {
		presence := "offline"
		if sess.Online {
			presence = "online"
		}
		name := sess.Customer.Name
		if name == "" {
			name = "anonymous"
		}
		last := ""
		if m := sess.LastMessage(); m != nil {
			last = m.Text
		}
		line := strings.Join([]string{
			sess.ID,
			presence,
			fmt.Sprintf("%d", sess.UnreadCount),
			name,
			last,
		}, "\t")
		fmt.Fprintln(input.Output, line)
	}
	return nil
}
