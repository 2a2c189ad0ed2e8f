package domain

// CustomerInfo holds what the client knows about the customer behind a
// support session.
type CustomerInfo struct {
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	Authenticated bool   `json:"authenticated,omitempty"`
}

// Session is a single customer-support conversation thread. Sessions
// are created on first message and never deleted; they persist until
// the local state is cleared.
type Session struct {
	ID          string       `json:"id"`
	Messages    []Message    `json:"messages"`
	Customer    CustomerInfo `json:"customer"`
	LastActive  string       `json:"lastActive,omitempty"`
	UnreadCount int          `json:"unreadCount"`
	Online      bool         `json:"-"`
}

// HasMessage reports whether a message with the given ID is already in
// the session. Message IDs are the dedup key for at-least-once delivery.
func (s *Session) HasMessage(id string) bool {
	for i := range s.Messages {
		if s.Messages[i].ID == id {
			return true
		}
	}
	return false
}

// LastMessage returns the most recent message, or nil for an empty session.
func (s *Session) LastMessage() *Message {
	if len(s.Messages) == 0 {
		return nil
	}
	return &s.Messages[len(s.Messages)-1]
}
