package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storewire/storewire/internal/domain"
	"github.com/storewire/storewire/internal/persist"
)

func notif(id string, typ domain.NotificationType, ts string) domain.Notification {
	return domain.Notification{ID: id, Message: "order update", Type: typ, Timestamp: ts}
}

func TestNotificationStore_AddAndUnread(t *testing.T) {
	s := NewNotificationStore(persist.NewMemoryPort(), 50)

	require.NoError(t, s.Add(notif("n1", domain.TypeOrderShipped, "2026-03-01T10:00:00Z")))
	require.NoError(t, s.Add(notif("n2", domain.TypeOrderStatus, "2026-03-01T11:00:00Z")))

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 2, s.UnreadCount(), "read defaults to false")

	items := s.List(domain.NotificationFilter{})
	require.Len(t, items, 2)
	assert.Equal(t, "n2", items[0].ID, "newest first")
}

func TestNotificationStore_AddRejectsInvalid(t *testing.T) {
	s := NewNotificationStore(persist.NewMemoryPort(), 50)
	err := s.Add(domain.Notification{ID: "n1", Type: domain.TypeDefault})
	assert.Error(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestNotificationStore_MarkRead(t *testing.T) {
	s := NewNotificationStore(persist.NewMemoryPort(), 50)
	require.NoError(t, s.Add(notif("n1", domain.TypeOrderShipped, "2026-03-01T10:00:00Z")))

	found, err := s.MarkRead("n1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 0, s.UnreadCount())

	found, err = s.MarkRead("missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNotificationStore_MarkAllRead(t *testing.T) {
	s := NewNotificationStore(persist.NewMemoryPort(), 50)
	for i := 0; i < 4; i++ {
		require.NoError(t, s.Add(notif(fmt.Sprintf("n%d", i), domain.TypeDefault, "2026-03-01T10:00:00Z")))
	}
	_, err := s.MarkRead("n0")
	require.NoError(t, err)

	flipped, err := s.MarkAllRead()
	require.NoError(t, err)
	assert.Equal(t, 3, flipped)
	assert.Equal(t, 0, s.UnreadCount())
}

func TestNotificationStore_RetentionCap(t *testing.T) {
	port := persist.NewMemoryPort()
	s := NewNotificationStore(port, 50)

	for i := 0; i < 60; i++ {
		require.NoError(t, s.Add(notif(fmt.Sprintf("n%d", i), domain.TypeDefault, "2026-03-01T10:00:00Z")))
	}
	assert.Equal(t, 50, s.Len())

	items := s.List(domain.NotificationFilter{})
	assert.Equal(t, "n59", items[0].ID, "most recent retained")

	reloaded := NewNotificationStore(port, 50)
	assert.Equal(t, 50, reloaded.Len())
}

func TestNotificationStore_HasUnreadFor(t *testing.T) {
	s := NewNotificationStore(persist.NewMemoryPort(), 50)
	n := notif("n1", domain.TypeOrderShipped, "2026-03-01T10:00:00Z")
	n.Order = &domain.OrderRef{OrderID: "o1", OrderNumber: "ORD-1", Status: domain.StatusShipped}
	require.NoError(t, s.Add(n))

	assert.True(t, s.HasUnreadFor("o1", domain.StatusShipped))
	assert.False(t, s.HasUnreadFor("o1", domain.StatusDelivered))
	assert.False(t, s.HasUnreadFor("o2", domain.StatusShipped))

	_, err := s.MarkRead("n1")
	require.NoError(t, err)
	assert.False(t, s.HasUnreadFor("o1", domain.StatusShipped), "read notifications no longer block")
}

func TestNotificationStore_RemoveOlderThan(t *testing.T) {
	s := NewNotificationStore(persist.NewMemoryPort(), 50)
	require.NoError(t, s.Add(notif("old", domain.TypeDefault, "2026-01-01T00:00:00Z")))
	require.NoError(t, s.Add(notif("new", domain.TypeDefault, "2026-03-01T00:00:00Z")))

	removed, err := s.RemoveOlderThan("2026-02-01T00:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, s.Len())
	_, found := s.Get("new")
	assert.True(t, found)
	_, found = s.Get("old")
	assert.False(t, found)
}

func TestNotificationStore_CorruptSnapshotStartsEmpty(t *testing.T) {
	port := persist.NewMemoryPort()
	require.NoError(t, port.Save("notifications", []byte(`"not an object"`)))

	s := NewNotificationStore(port, 50)
	assert.Equal(t, 0, s.Len())
}

func TestNotificationStore_QuotaFallbackTruncates(t *testing.T) {
	port := persist.NewMemoryPort()
	s := NewNotificationStore(port, 50)
	for i := 0; i < 40; i++ {
		require.NoError(t, s.Add(notif(fmt.Sprintf("n%d", i), domain.TypeDefault, "2026-03-01T10:00:00Z")))
	}

	// Tight quota: the full 41-item snapshot fails, the 20-item
	// emergency projection fits.
	port.Quota = 3000
	err := s.Add(notif("n40", domain.TypeDefault, "2026-03-01T10:00:00Z"))
	require.NoError(t, err)
	assert.Equal(t, 41, s.Len(), "in-memory state unaffected by degradation")

	reloaded := NewNotificationStore(port, 50)
	assert.Equal(t, emergencyCap, reloaded.Len())
	items := reloaded.List(domain.NotificationFilter{})
	assert.Equal(t, "n40", items[0].ID)
}
