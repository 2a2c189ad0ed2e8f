package store

import (
	"encoding/json"
	"errors"
	"sort"
	"sync"

	"github.com/storewire/storewire/internal/colors"
	"github.com/storewire/storewire/internal/domain"
	"github.com/storewire/storewire/internal/persist"
)

// chatSnapshot is the persisted projection of the session store. The
// presence flag is connection-derived and excluded via the domain tags.
type chatSnapshot struct {
	Sessions map[string]*domain.Session `json:"sessions"`
}

// SessionStore owns the support chat sessions and their unread
// bookkeeping. The viewer role decides which senders count as unread:
// a customer client counts support messages, an admin client counts
// customer messages. System messages never count.
type SessionStore struct {
	mu         sync.RWMutex
	sessions   map[string]*domain.Session
	active     string
	viewer     domain.Sender
	messageCap int
	port       persist.Port
	subs       subscribers
}

// NewSessionStore creates a session store backed by port, loading any
// prior snapshot. messageCap bounds retained messages per session.
func NewSessionStore(port persist.Port, viewer domain.Sender, messageCap int) *SessionStore {
	s := &SessionStore{
		sessions:   make(map[string]*domain.Session),
		viewer:     viewer,
		messageCap: messageCap,
		port:       port,
	}
	data, err := port.Load("chat")
	if err != nil {
		if !errors.Is(err, persist.ErrNoSnapshot) {
			colors.Debug("chat snapshot load failed:", err.Error())
		}
		return s
	}
	var snap chatSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		colors.Warning("chat snapshot unreadable, starting empty:", err.Error())
		return s
	}
	if snap.Sessions != nil {
		s.sessions = snap.Sessions
	}
	return s
}

// counterpart returns the sender role whose messages count as unread
// for this viewer.
func (s *SessionStore) counterpart() domain.Sender {
	if s.viewer == domain.SenderCustomer {
		return domain.SenderSupport
	}
	return domain.SenderCustomer
}

// AppendMessage appends a message to a session, creating the session on
// first contact. Duplicate message IDs are absorbed as a no-op and
// reported as accepted == false. The unread count increments only for
// counterpart messages while the session is not the active one.
func (s *SessionStore) AppendMessage(sessionID string, msg domain.Message, customer *domain.CustomerInfo) (bool, error) {
	if err := msg.Validate(); err != nil {
		return false, err
	}
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &domain.Session{ID: sessionID}
		s.sessions[sessionID] = sess
	}
	if sess.HasMessage(msg.ID) {
		s.mu.Unlock()
		return false, nil
	}
	if customer != nil {
		mergeCustomer(&sess.Customer, *customer)
	}
	sess.Messages = append(sess.Messages, msg)
	s.trimMessages(sess)
	if msg.Timestamp != "" && msg.Timestamp > sess.LastActive {
		sess.LastActive = msg.Timestamp
	}
	if msg.Sender == s.counterpart() && sessionID != s.active {
		sess.UnreadCount++
	}
	err := s.persistLocked()
	s.mu.Unlock()
	s.subs.notify()
	return true, err
}

// SetActive marks a session as the one currently being viewed and
// resets its unread count. An empty ID means no session is active.
func (s *SessionStore) SetActive(sessionID string) error {
	s.mu.Lock()
	s.active = sessionID
	var err error
	if sess, ok := s.sessions[sessionID]; ok && sess.UnreadCount > 0 {
		sess.UnreadCount = 0
		err = s.persistLocked()
	}
	s.mu.Unlock()
	s.subs.notify()
	return err
}

// ActiveID returns the currently active session ID.
func (s *SessionStore) ActiveID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// MarkRead resets a session's unread count to zero. Message data is
// untouched. Returns false when the session does not exist.
func (s *SessionStore) MarkRead(sessionID string) (bool, error) {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return false, nil
	}
	var err error
	if sess.UnreadCount != 0 {
		sess.UnreadCount = 0
		err = s.persistLocked()
	}
	s.mu.Unlock()
	s.subs.notify()
	return true, err
}

// SetPresence updates a session's online flag only. Presence is
// connection-derived and never persisted.
func (s *SessionStore) SetPresence(sessionID string, online bool) bool {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if ok {
		sess.Online = online
	}
	s.mu.Unlock()
	if ok {
		s.subs.notify()
	}
	return ok
}

// UpsertSummary merges a server-synced session summary: customer info,
// messages not already present (dedup by ID), and lastActive. Unread
// counts of inactive sessions are not reset; counterpart messages that
// are genuinely new still increment them.
func (s *SessionStore) UpsertSummary(sessionID string, customer domain.CustomerInfo, msgs []domain.Message, lastActive string, online bool) error {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &domain.Session{ID: sessionID}
		s.sessions[sessionID] = sess
	}
	mergeCustomer(&sess.Customer, customer)
	sess.Online = online
	for i := range msgs {
		if msgs[i].ID == "" || sess.HasMessage(msgs[i].ID) {
			continue
		}
		sess.Messages = append(sess.Messages, msgs[i])
		if msgs[i].Sender == s.counterpart() && sessionID != s.active {
			sess.UnreadCount++
		}
	}
	s.trimMessages(sess)
	if lastActive > sess.LastActive {
		sess.LastActive = lastActive
	}
	err := s.persistLocked()
	s.mu.Unlock()
	s.subs.notify()
	return err
}

// Get returns a copy of the session with the given ID.
func (s *SessionStore) Get(sessionID string) (domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return domain.Session{}, false
	}
	return copySession(sess), true
}

// Sessions returns the sessions matching the filter, most recently
// active first.
func (s *SessionStore) Sessions(filter domain.SessionFilter) []domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		if sess.Matches(filter) {
			out = append(out, copySession(sess))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastActive != out[j].LastActive {
			return out[i].LastActive > out[j].LastActive
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// TotalUnread sums unread counts across all sessions, computed fresh
// on every call.
func (s *SessionStore) TotalUnread() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, sess := range s.sessions {
		total += sess.UnreadCount
	}
	return total
}

// Len returns the number of sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Clear drops all sessions and their snapshot.
func (s *SessionStore) Clear() error {
	s.mu.Lock()
	s.sessions = make(map[string]*domain.Session)
	s.active = ""
	err := s.port.Clear("chat")
	s.mu.Unlock()
	s.subs.notify()
	return err
}

// Subscribe returns a subscription signaled after every mutation.
func (s *SessionStore) Subscribe() *Subscription {
	return s.subs.subscribe()
}

func (s *SessionStore) trimMessages(sess *domain.Session) {
	if s.messageCap > 0 && len(sess.Messages) > s.messageCap {
		sess.Messages = sess.Messages[len(sess.Messages)-s.messageCap:]
	}
}

func (s *SessionStore) persistLocked() error {
	full := chatSnapshot{Sessions: s.sessions}
	return saveSnapshot(s.port, "chat", full, func() any {
		degraded := make(map[string]*domain.Session, len(s.sessions))
		for id, sess := range s.sessions {
			c := copySession(sess)
			for i := range c.Messages {
				if c.Messages[i].Attachment != nil && c.Messages[i].Attachment.Data != "" {
					att := *c.Messages[i].Attachment
					att.Data = ""
					c.Messages[i].Attachment = &att
				}
			}
			if len(c.Messages) > emergencyCap {
				c.Messages = c.Messages[len(c.Messages)-emergencyCap:]
			}
			degraded[id] = &c
		}
		return chatSnapshot{Sessions: degraded}
	})
}

func copySession(sess *domain.Session) domain.Session {
	c := *sess
	c.Messages = make([]domain.Message, len(sess.Messages))
	copy(c.Messages, sess.Messages)
	return c
}

func mergeCustomer(dst *domain.CustomerInfo, src domain.CustomerInfo) {
	if src.Name != "" {
		dst.Name = src.Name
	}
	if src.Email != "" {
		dst.Email = src.Email
	}
	if src.Authenticated {
		dst.Authenticated = true
	}
}
