package domain

// ReadFilter selects notifications by read state.
type ReadFilter string

const (
	ReadFilterAll    ReadFilter = ""
	ReadFilterRead   ReadFilter = "read"
	ReadFilterUnread ReadFilter = "unread"
)

// NotificationFilter holds filter criteria for listing notifications.
// Empty fields match everything.
type NotificationFilter struct {
	Type      NotificationType
	Read      ReadFilter
	OlderThan string
	NewerThan string
}

// Matches checks if the notification matches the given filter criteria.
func (n *Notification) Matches(filter NotificationFilter) bool {
	if filter.Type != "" && n.Type != filter.Type {
		return false
	}
	if filter.OlderThan != "" && n.Timestamp > filter.OlderThan {
		return false
	}
	if filter.NewerThan != "" && n.Timestamp < filter.NewerThan {
		return false
	}
	if filter.Read == ReadFilterRead && !n.Read {
		return false
	}
	if filter.Read == ReadFilterUnread && n.Read {
		return false
	}
	return true
}

// SessionFilter holds filter criteria for listing sessions.
type SessionFilter struct {
	UnreadOnly bool
	OnlineOnly bool
}

// Matches checks if the session matches the given filter criteria.
func (s *Session) Matches(filter SessionFilter) bool {
	if filter.UnreadOnly && s.UnreadCount == 0 {
		return false
	}
	if filter.OnlineOnly && !s.Online {
		return false
	}
	return true
}

// OrderFilter holds filter criteria for listing orders.
type OrderFilter struct {
	Status OrderStatus
}

// Matches checks if the order matches the given filter criteria.
func (o *Order) Matches(filter OrderFilter) bool {
	return filter.Status == "" || o.Status == filter.Status
}
