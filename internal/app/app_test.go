package app

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storewire/storewire/internal/domain"
	"github.com/storewire/storewire/internal/event"
)

type fakeNotifications struct {
	items      []domain.Notification
	markedID   string
	markAllN   int
	removedN   int
	lastCutoff string
	err        error
}

func (f *fakeNotifications) List(filter domain.NotificationFilter) []domain.Notification {
	var out []domain.Notification
	for i := range f.items {
		if f.items[i].Matches(filter) {
			out = append(out, f.items[i])
		}
	}
	return out
}

func (f *fakeNotifications) MarkRead(id string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.markedID = id
	for i := range f.items {
		if f.items[i].ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeNotifications) MarkAllRead() (int, error) {
	return f.markAllN, f.err
}

func (f *fakeNotifications) RemoveOlderThan(cutoff string) (int, error) {
	f.lastCutoff = cutoff
	return f.removedN, f.err
}

func (f *fakeNotifications) UnreadCount() int {
	n := 0
	for i := range f.items {
		if !f.items[i].Read {
			n++
		}
	}
	return n
}

type fakeSessions struct {
	items    []domain.Session
	markedID string
	unread   int
	appended []event.ChatMessage
	echoed   []domain.Message
}

func (f *fakeSessions) Sessions(filter domain.SessionFilter) []domain.Session {
	var out []domain.Session
	for i := range f.items {
		if f.items[i].Matches(filter) {
			out = append(out, f.items[i])
		}
	}
	return out
}

func (f *fakeSessions) MarkRead(sessionID string) (bool, error) {
	f.markedID = sessionID
	for i := range f.items {
		if f.items[i].ID == sessionID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSessions) TotalUnread() int { return f.unread }

func (f *fakeSessions) AppendMessage(sessionID string, msg domain.Message, customer *domain.CustomerInfo) (bool, error) {
	f.echoed = append(f.echoed, msg)
	return true, nil
}

type fakeEmitter struct {
	events []string
	last   any
	err    error
}

func (f *fakeEmitter) Emit(name string, payload any) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, name)
	f.last = payload
	return nil
}

type fakeClearer struct {
	cleared bool
	err     error
}

func (f *fakeClearer) Clear() error {
	f.cleared = true
	return f.err
}

func TestListUseCase(t *testing.T) {
	store := &fakeNotifications{items: []domain.Notification{
		{ID: "n1", Message: "shipped", Type: domain.TypeOrderShipped, Timestamp: "2026-08-30T10:00:00Z"},
		{ID: "n2", Message: "delivered", Type: domain.TypeOrderDelivered, Read: true, Timestamp: "2026-08-29T10:00:00Z"},
	}}
	uc := NewListUseCase(store)

	tests := []struct {
		name    string
		input   ListInput
		want    []string
		wantErr bool
	}{
		{name: "all", input: ListInput{}, want: []string{"n1", "n2"}},
		{name: "unread only", input: ListInput{Read: "unread"}, want: []string{"n1"}},
		{name: "by type", input: ListInput{Type: "order_delivered"}, want: []string{"n2"}},
		{name: "limit", input: ListInput{Limit: 1}, want: []string{"n1"}},
		{name: "bad read filter", input: ListInput{Read: "maybe"}, wantErr: true},
		{name: "bad type", input: ListInput{Type: "carrier_pigeon"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.input.Output = &buf
			err := uc.Execute(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			for _, id := range tt.want {
				assert.Contains(t, buf.String(), id+"\t")
			}
		})
	}
}

func TestSessionsUseCase(t *testing.T) {
	store := &fakeSessions{items: []domain.Session{
		{ID: "s1", UnreadCount: 2, Online: true, Customer: domain.CustomerInfo{Name: "Ada"},
			Messages: []domain.Message{{ID: "m1", Text: "help", Sender: domain.SenderCustomer}}},
		{ID: "s2"},
	}}
	uc := NewSessionsUseCase(store)

	var buf bytes.Buffer
	require.NoError(t, uc.Execute(SessionsInput{UnreadOnly: true, Output: &buf}))
	assert.Contains(t, buf.String(), "s1\tonline\t2\tAda\thelp")
	assert.NotContains(t, buf.String(), "s2")

	buf.Reset()
	require.NoError(t, uc.Execute(SessionsInput{Output: &buf}))
	assert.Contains(t, buf.String(), "s2\toffline\t0\tanonymous")
}

func TestOrdersUseCase(t *testing.T) {
	store := &fakeOrders{items: []domain.Order{
		{ID: "o1", OrderNumber: "SW-1", Status: domain.StatusShipped},
		{ID: "o2", OrderNumber: "SW-2", Status: domain.StatusPending},
	}}
	uc := NewOrdersUseCase(store)

	var buf bytes.Buffer
	require.NoError(t, uc.Execute(OrdersInput{Status: "shipped", Output: &buf}))
	assert.Contains(t, buf.String(), "o1\tSW-1\tshipped")
	assert.NotContains(t, buf.String(), "o2")

	require.Error(t, uc.Execute(OrdersInput{Status: "lost", Output: &buf}))
}

type fakeOrders struct {
	items []domain.Order
}

func (f *fakeOrders) List(filter domain.OrderFilter) []domain.Order {
	var out []domain.Order
	for i := range f.items {
		if f.items[i].Matches(filter) {
			out = append(out, f.items[i])
		}
	}
	return out
}

func TestMarkReadUseCase(t *testing.T) {
	t.Run("single notification", func(t *testing.T) {
		notifications := &fakeNotifications{items: []domain.Notification{{ID: "n1"}}}
		uc := NewMarkReadUseCase(notifications, &fakeSessions{})
		require.NoError(t, uc.Execute(MarkReadInput{NotificationID: "n1"}))
		assert.Equal(t, "n1", notifications.markedID)
	})
	t.Run("unknown notification", func(t *testing.T) {
		uc := NewMarkReadUseCase(&fakeNotifications{}, &fakeSessions{})
		require.Error(t, uc.Execute(MarkReadInput{NotificationID: "ghost"}))
	})
	t.Run("session", func(t *testing.T) {
		sessions := &fakeSessions{items: []domain.Session{{ID: "s1"}}}
		uc := NewMarkReadUseCase(&fakeNotifications{}, sessions)
		require.NoError(t, uc.Execute(MarkReadInput{SessionID: "s1"}))
		assert.Equal(t, "s1", sessions.markedID)
	})
	t.Run("all", func(t *testing.T) {
		uc := NewMarkReadUseCase(&fakeNotifications{markAllN: 3}, &fakeSessions{})
		require.NoError(t, uc.Execute(MarkReadInput{All: true}))
	})
	t.Run("requires exactly one selector", func(t *testing.T) {
		uc := NewMarkReadUseCase(&fakeNotifications{}, &fakeSessions{})
		require.Error(t, uc.Execute(MarkReadInput{}))
		require.Error(t, uc.Execute(MarkReadInput{All: true, NotificationID: "n1"}))
	})
}

func TestSendUseCase(t *testing.T) {
	t.Run("customer defaults to own session", func(t *testing.T) {
		emitter := &fakeEmitter{}
		sessions := &fakeSessions{}
		uc := NewSendUseCase(emitter, sessions)
		uc.newID = func() string { return "m-fixed" }
		uc.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }

		require.NoError(t, uc.Execute(SendInput{Text: "where is my order", Role: "customer", ClientID: "c-1"}))

		require.Equal(t, []string{event.NameMessage}, emitter.events)
		wire := emitter.last.(event.ChatMessage)
		assert.Equal(t, "c-1", wire.SessionID)
		assert.Equal(t, "m-fixed", wire.MessageID)
		assert.Equal(t, "customer", wire.Sender)
		require.Len(t, sessions.echoed, 1)
		assert.Equal(t, domain.SenderCustomer, sessions.echoed[0].Sender)
	})
	t.Run("admin requires session", func(t *testing.T) {
		uc := NewSendUseCase(&fakeEmitter{}, &fakeSessions{})
		require.Error(t, uc.Execute(SendInput{Text: "hi", Role: "admin", ClientID: "a-1"}))
	})
	t.Run("admin sends as support", func(t *testing.T) {
		emitter := &fakeEmitter{}
		uc := NewSendUseCase(emitter, &fakeSessions{})
		require.NoError(t, uc.Execute(SendInput{Text: "on it", Role: "admin", SessionID: "s1"}))
		wire := emitter.last.(event.ChatMessage)
		assert.Equal(t, "support", wire.Sender)
		assert.Equal(t, "s1", wire.SessionID)
	})
	t.Run("empty text rejected", func(t *testing.T) {
		uc := NewSendUseCase(&fakeEmitter{}, &fakeSessions{})
		require.Error(t, uc.Execute(SendInput{Text: "  ", Role: "customer", ClientID: "c-1"}))
	})
	t.Run("emit failure surfaces", func(t *testing.T) {
		uc := NewSendUseCase(&fakeEmitter{err: errors.New("not connected")}, &fakeSessions{})
		err := uc.Execute(SendInput{Text: "hi", Role: "customer", ClientID: "c-1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not connected")
	})
}

func TestStatusUseCase(t *testing.T) {
	notifications := &fakeNotifications{items: []domain.Notification{{ID: "n1"}, {ID: "n2", Read: true}}}
	sessions := &fakeSessions{unread: 4}
	uc := NewStatusUseCase(notifications, sessions)

	var buf bytes.Buffer
	require.NoError(t, uc.Execute(StatusInput{Output: &buf}))
	assert.Equal(t, "5\n", buf.String())

	buf.Reset()
	require.NoError(t, uc.Execute(StatusInput{Format: "summary", Output: &buf}))
	assert.Contains(t, buf.String(), "notifications: 1 unread")
	assert.Contains(t, buf.String(), "chat: 4 unread")

	require.Error(t, uc.Execute(StatusInput{Format: "json", Output: &buf}))
}

func TestCleanupUseCase(t *testing.T) {
	store := &fakeNotifications{
		items: []domain.Notification{
			{ID: "old", Timestamp: "2026-07-01T00:00:00Z"},
			{ID: "new", Timestamp: "2026-08-29T00:00:00Z"},
		},
		removedN: 1,
	}
	uc := NewCleanupUseCase(store)
	uc.now = func() time.Time { return time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC) }

	var buf bytes.Buffer
	require.NoError(t, uc.Execute(CleanupInput{Days: 30, DryRun: true, Output: &buf}))
	assert.Contains(t, buf.String(), "would remove 1 notification(s)")
	assert.Empty(t, store.lastCutoff, "dry run must not remove")

	buf.Reset()
	require.NoError(t, uc.Execute(CleanupInput{Days: 30, Output: &buf}))
	assert.Equal(t, "2026-07-31T00:00:00Z", store.lastCutoff)
	assert.Contains(t, buf.String(), "removed 1 notification(s)")

	require.Error(t, uc.Execute(CleanupInput{Days: 0, Output: &buf}))
}

func TestClearUseCase(t *testing.T) {
	t.Run("single target", func(t *testing.T) {
		n, o, s := &fakeClearer{}, &fakeClearer{}, &fakeClearer{}
		uc := NewClearUseCase(n, o, s)
		require.NoError(t, uc.Execute(ClearInput{Target: "chat"}))
		assert.False(t, n.cleared)
		assert.False(t, o.cleared)
		assert.True(t, s.cleared)
	})
	t.Run("all by default", func(t *testing.T) {
		n, o, s := &fakeClearer{}, &fakeClearer{}, &fakeClearer{}
		uc := NewClearUseCase(n, o, s)
		require.NoError(t, uc.Execute(ClearInput{}))
		assert.True(t, n.cleared && o.cleared && s.cleared)
	})
	t.Run("unknown target", func(t *testing.T) {
		uc := NewClearUseCase(&fakeClearer{}, &fakeClearer{}, &fakeClearer{})
		require.Error(t, uc.Execute(ClearInput{Target: "everything"}))
	})
}

func TestClientID_StableAcrossCalls(t *testing.T) {
	dir := t.TempDir()
	first, err := ClientID(dir)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := ClientID(dir)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	data, err := os.ReadFile(filepath.Join(dir, "client_id"))
	require.NoError(t, err)
	assert.Contains(t, string(data), first)
}

func TestViewer(t *testing.T) {
	assert.Equal(t, domain.SenderSupport, Viewer("admin"))
	assert.Equal(t, domain.SenderCustomer, Viewer("customer"))
	assert.Equal(t, domain.SenderCustomer, Viewer(""))
}
