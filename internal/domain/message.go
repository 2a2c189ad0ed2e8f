package domain

import (
	"fmt"
	"time"
)

// Sender identifies which side of a support conversation authored a message.
type Sender string

const (
	SenderCustomer Sender = "customer"
	SenderSupport  Sender = "support"
	SenderSystem   Sender = "system"
)

// IsValid checks if the sender is valid.
func (s Sender) IsValid() bool {
	switch s {
	case SenderCustomer, SenderSupport, SenderSystem:
		return true
	default:
		return false
	}
}

// String returns the string representation of the sender.
func (s Sender) String() string {
	return string(s)
}

// Attachment describes a file attached to a chat message. Data holds
// inline (base64) content when the server sends it that way; it is the
// first thing dropped when persistence runs out of room.
type Attachment struct {
	Type string `json:"type,omitempty"`
	URL  string `json:"url,omitempty"`
	Name string `json:"name,omitempty"`
	Size int64  `json:"size,omitempty"`
	Data string `json:"data,omitempty"`
}

// Message is a single chat message within a support session.
type Message struct {
	ID         string      `json:"id"`
	Text       string      `json:"text"`
	Sender     Sender      `json:"sender"`
	Timestamp  string      `json:"timestamp,omitempty"`
	Attachment *Attachment `json:"attachment,omitempty"`
}

// Validate validates the message and returns an error if invalid.
func (m *Message) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("message ID cannot be empty")
	}
	if !m.Sender.IsValid() {
		return fmt.Errorf("invalid message sender: %s", m.Sender)
	}
	if m.Text == "" && m.Attachment == nil {
		return fmt.Errorf("message must have text or an attachment")
	}
	if m.Timestamp != "" {
		if _, err := time.Parse(time.RFC3339, m.Timestamp); err != nil {
			return fmt.Errorf("invalid message timestamp: %w", err)
		}
	}
	return nil
}

// ParseSender parses a string into a Sender.
func ParseSender(sender string) (Sender, error) {
	s := Sender(sender)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid message sender: %s", sender)
	}
	return s, nil
}
