package store

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/storewire/storewire/internal/colors"
	"github.com/storewire/storewire/internal/domain"
	"github.com/storewire/storewire/internal/persist"
)

// notificationsSnapshot is the persisted projection of the notification store.
type notificationsSnapshot struct {
	Notifications []domain.Notification `json:"notifications"`
}

// NotificationStore holds display-ready notifications, newest first,
// bounded by a retention cap.
type NotificationStore struct {
	mu    sync.RWMutex
	items []domain.Notification
	cap   int
	port  persist.Port
	subs  subscribers
}

// NewNotificationStore creates a notification store backed by port,
// loading any prior snapshot. cap bounds retention (most recent win).
func NewNotificationStore(port persist.Port, cap int) *NotificationStore {
	s := &NotificationStore{port: port, cap: cap}
	data, err := port.Load("notifications")
	if err != nil {
		if !errors.Is(err, persist.ErrNoSnapshot) {
			colors.Debug("notification snapshot load failed:", err.Error())
		}
		return s
	}
	var snap notificationsSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		colors.Warning("notification snapshot unreadable, starting empty:", err.Error())
		return s
	}
	s.items = snap.Notifications
	s.trim()
	return s
}

// Add validates and prepends a notification, evicting beyond the cap.
func (s *NotificationStore) Add(n domain.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.items = append([]domain.Notification{n}, s.items...)
	s.trim()
	err := s.persistLocked()
	s.mu.Unlock()
	s.subs.notify()
	return err
}

// MarkRead flags the notification with the given ID as read. Returns
// false when no such notification exists.
func (s *NotificationStore) MarkRead(id string) (bool, error) {
	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Read = true
			found = true
			break
		}
	}
	var err error
	if found {
		err = s.persistLocked()
	}
	s.mu.Unlock()
	if found {
		s.subs.notify()
	}
	return found, err
}

// MarkAllRead flags every notification as read and reports how many
// were unread before.
func (s *NotificationStore) MarkAllRead() (int, error) {
	s.mu.Lock()
	flipped := 0
	for i := range s.items {
		if !s.items[i].Read {
			s.items[i].Read = true
			flipped++
		}
	}
	var err error
	if flipped > 0 {
		err = s.persistLocked()
	}
	s.mu.Unlock()
	if flipped > 0 {
		s.subs.notify()
	}
	return flipped, err
}

// UnreadCount counts unread notifications, computed fresh on each call.
func (s *NotificationStore) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for i := range s.items {
		if !s.items[i].Read {
			count++
		}
	}
	return count
}

// HasUnreadFor reports whether an unread notification already references
// the given order in the given status. The router uses this to absorb
// duplicate status pushes.
func (s *NotificationStore) HasUnreadFor(orderID string, status domain.OrderStatus) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.items {
		if !s.items[i].Read && s.items[i].RefersTo(orderID, status) {
			return true
		}
	}
	return false
}

// Get returns the notification with the given ID.
func (s *NotificationStore) Get(id string) (domain.Notification, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.items {
		if s.items[i].ID == id {
			return s.items[i], true
		}
	}
	return domain.Notification{}, false
}

// List returns the notifications matching the filter, newest first.
func (s *NotificationStore) List(filter domain.NotificationFilter) []domain.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Notification, 0, len(s.items))
	for i := range s.items {
		if s.items[i].Matches(filter) {
			out = append(out, s.items[i])
		}
	}
	return out
}

// Len returns the number of retained notifications.
func (s *NotificationStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// RemoveOlderThan drops notifications with a timestamp before cutoff
// (RFC3339) and reports how many were removed.
func (s *NotificationStore) RemoveOlderThan(cutoff string) (int, error) {
	s.mu.Lock()
	kept := s.items[:0]
	for i := range s.items {
		if s.items[i].Timestamp == "" || s.items[i].Timestamp >= cutoff {
			kept = append(kept, s.items[i])
		}
	}
	removed := len(s.items) - len(kept)
	s.items = kept
	var err error
	if removed > 0 {
		err = s.persistLocked()
	}
	s.mu.Unlock()
	if removed > 0 {
		s.subs.notify()
	}
	return removed, err
}

// Clear drops all notifications and their snapshot.
func (s *NotificationStore) Clear() error {
	s.mu.Lock()
	s.items = nil
	err := s.port.Clear("notifications")
	s.mu.Unlock()
	s.subs.notify()
	return err
}

// Subscribe returns a subscription signaled after every mutation.
func (s *NotificationStore) Subscribe() *Subscription {
	return s.subs.subscribe()
}

func (s *NotificationStore) trim() {
	if s.cap > 0 && len(s.items) > s.cap {
		s.items = s.items[:s.cap]
	}
}

func (s *NotificationStore) persistLocked() error {
	full := notificationsSnapshot{Notifications: s.items}
	return saveSnapshot(s.port, "notifications", full, func() any {
		n := len(s.items)
		if n > emergencyCap {
			n = emergencyCap
		}
		return notificationsSnapshot{Notifications: s.items[:n]}
	})
}
