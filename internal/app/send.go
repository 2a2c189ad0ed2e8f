package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/storewire/storewire/internal/domain"
	"github.com/storewire/storewire/internal/event"
)

// Emitter defines the outbound side of the event stream.
type Emitter interface {
	Emit(name string, payload any) error
}

// MessageAppender defines the local echo of a sent message.
type MessageAppender interface {
	AppendMessage(sessionID string, msg domain.Message, customer *domain.CustomerInfo) (bool, error)
}

// SendInput represents send command inputs after flag parsing.
type SendInput struct {
	SessionID string // required for admins; customers default to their client id
	Text      string
	Role      string
	ClientID  string
}

// SendUseCase coordinates sending a chat message.
type SendUseCase struct {
	emitter  Emitter
	sessions MessageAppender
	now      func() time.Time
	newID    func() string
}

// NewSendUseCase creates a send use-case.
func NewSendUseCase(emitter Emitter, sessions MessageAppender) *SendUseCase {
	if emitter == nil || sessions == nil {
		panic("NewSendUseCase: dependencies cannot be nil")
	}
	return &SendUseCase{
		emitter:  emitter,
		sessions: sessions,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Execute emits the message and echoes it into the local session so the
// sender sees their own history without a server round trip.
func (u *SendUseCase) Execute(input SendInput) error {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return fmt.Errorf("send: message text cannot be empty")
	}
	sessionID := input.SessionID
	if sessionID == "" {
		if input.Role == "admin" {
			return fmt.Errorf("send: --session is required for admin clients")
		}
		sessionID = input.ClientID
	}
	if sessionID == "" {
		return fmt.Errorf("send: no session to send to")
	}

	sender := domain.SenderCustomer
	if input.Role == "admin" {
		sender = domain.SenderSupport
	}
	msg := domain.Message{
		ID:        u.newID(),
		Text:      text,
		Sender:    sender,
		Timestamp: u.now().UTC().Format(time.RFC3339),
	}
	wire := event.ChatMessage{
		MessageID: msg.ID,
		SessionID: sessionID,
		Content:   msg.Text,
		Sender:    sender.String(),
		Timestamp: msg.Timestamp,
	}
	if err := u.emitter.Emit(event.NameMessage, wire); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	if _, err := u.sessions.AppendMessage(sessionID, msg, nil); err != nil {
		return fmt.Errorf("send: message sent but local echo failed: %w", err)
	}
	return nil
}
