package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storewire/storewire/internal/domain"
	"github.com/storewire/storewire/internal/event"
	"github.com/storewire/storewire/internal/persist"
	"github.com/storewire/storewire/internal/store"
	"github.com/storewire/storewire/internal/transport"
)

// fakeStream records handler registrations and emitted events so tests
// can feed payloads straight into the router.
type fakeStream struct {
	handlers  map[string][]transport.Handler
	onConnect func()
	emitted   []string
}

func newFakeStream() *fakeStream {
	return &fakeStream{handlers: make(map[string][]transport.Handler)}
}

func (f *fakeStream) On(name string, h transport.Handler) {
	f.handlers[name] = append(f.handlers[name], h)
}

func (f *fakeStream) OnConnect(fn func()) { f.onConnect = fn }

func (f *fakeStream) Emit(name string, payload any) error {
	f.emitted = append(f.emitted, name)
	return nil
}

func (f *fakeStream) deliver(t *testing.T, name string, payload any) {
	t.Helper()
	handlers := f.handlers[name]
	require.NotEmpty(t, handlers, "no handler bound for %s", name)
	for _, h := range handlers {
		h(payload)
	}
}

type recordingEffects struct {
	messages      []domain.Message
	notifications []domain.Notification
	orders        []domain.Order
	created       []bool
}

func (r *recordingEffects) OnMessage(sessionID string, msg domain.Message) {
	r.messages = append(r.messages, msg)
}

func (r *recordingEffects) OnNotification(n domain.Notification) {
	r.notifications = append(r.notifications, n)
}

func (r *recordingEffects) OnOrder(order domain.Order, created bool) {
	r.orders = append(r.orders, order)
	r.created = append(r.created, created)
}

type fixture struct {
	stream        *fakeStream
	orders        *store.OrderStore
	notifications *store.NotificationStore
	sessions      *store.SessionStore
	effects       *recordingEffects
	router        *Router
}

func newFixture(t *testing.T, role string) *fixture {
	t.Helper()
	viewer := domain.SenderCustomer
	if role == "admin" {
		viewer = domain.SenderSupport
	}
	f := &fixture{
		stream:        newFakeStream(),
		orders:        store.NewOrderStore(persist.NewMemoryPort(), 100),
		notifications: store.NewNotificationStore(persist.NewMemoryPort(), 50),
		sessions:      store.NewSessionStore(persist.NewMemoryPort(), viewer, 200),
		effects:       &recordingEffects{},
	}
	f.router = New(f.stream, f.orders, f.notifications, f.sessions, role, f.effects, nil)
	f.router.Bind()
	return f
}

func TestRouter_MessageStoredOnceWithEffects(t *testing.T) {
	f := newFixture(t, "customer")

	msg := event.ChatMessage{
		MessageID: "m1", SessionID: "s1", Content: "hello", Sender: "support",
		Timestamp: "2026-08-30T10:00:00Z",
	}
	f.stream.deliver(t, event.NameMessage, msg)
	f.stream.deliver(t, event.NameMessage, msg)

	sess, ok := f.sessions.Get("s1")
	require.True(t, ok)
	assert.Len(t, sess.Messages, 1)
	assert.Equal(t, 1, sess.UnreadCount)
	assert.Len(t, f.effects.messages, 1, "duplicates do not refire effects")
}

func TestRouter_MessageWithAttachment(t *testing.T) {
	f := newFixture(t, "customer")

	f.stream.deliver(t, event.NameMessage, event.ChatMessage{
		MessageID: "m1", SessionID: "s1", Sender: "support",
		FileType: "image/png", FileURL: "https://cdn.test/f.png", FileName: "f.png", FileSize: 512,
	})

	sess, ok := f.sessions.Get("s1")
	require.True(t, ok)
	require.Len(t, sess.Messages, 1)
	att := sess.Messages[0].Attachment
	require.NotNil(t, att)
	assert.Equal(t, "f.png", att.Name)
	assert.Equal(t, int64(512), att.Size)
}

func TestRouter_MessageInvalidSenderDropped(t *testing.T) {
	f := newFixture(t, "customer")

	f.stream.deliver(t, event.NameMessage, event.ChatMessage{
		MessageID: "m1", SessionID: "s1", Content: "x", Sender: "bot",
	})

	assert.Equal(t, 0, f.sessions.Len())
	assert.Empty(t, f.effects.messages)
}

func TestRouter_OrderUpsert(t *testing.T) {
	f := newFixture(t, "customer")

	f.stream.deliver(t, event.NameNewOrder, event.OrderPayload{
		Order: event.WireOrder{ID: "o1", OrderNumber: "SW-100", Status: "pending"},
	})
	f.stream.deliver(t, event.NameOrderUpdated, event.OrderPayload{
		Order: event.WireOrder{ID: "o1", OrderNumber: "SW-100", Status: "shipped"},
	})

	order, ok := f.orders.Get("o1")
	require.True(t, ok)
	assert.Equal(t, domain.StatusShipped, order.Status)
	assert.Equal(t, 1, f.orders.Len())
	require.Len(t, f.effects.created, 2)
	assert.True(t, f.effects.created[0])
	assert.False(t, f.effects.created[1])
}

func TestRouter_OrderInvalidStatusDropped(t *testing.T) {
	f := newFixture(t, "customer")

	f.stream.deliver(t, event.NameNewOrder, event.OrderPayload{
		Order: event.WireOrder{ID: "o1", OrderNumber: "SW-100", Status: "teleported"},
	})

	assert.Equal(t, 0, f.orders.Len())
	assert.Empty(t, f.effects.orders)
}

func TestRouter_StatusChangeCreatesNotification(t *testing.T) {
	f := newFixture(t, "customer")

	f.stream.deliver(t, event.NameNewOrder, event.OrderPayload{
		Order: event.WireOrder{ID: "o1", OrderNumber: "SW-100", Status: "processing"},
	})
	f.stream.deliver(t, event.NameStatusChange, event.StatusChange{
		OrderID: "o1", OrderNumber: "SW-100", PreviousStatus: "processing", NewStatus: "shipped",
		Timestamp: "2026-08-30T12:00:00Z",
	})

	require.Equal(t, 1, f.notifications.Len())
	list := f.notifications.List(domain.NotificationFilter{})
	n := list[0]
	assert.Equal(t, domain.TypeOrderShipped, n.Type)
	assert.Equal(t, "Order shipped", n.Title)
	assert.Contains(t, n.Message, "SW-100")
	require.NotNil(t, n.Order)
	assert.Equal(t, "o1", n.Order.OrderID)

	order, ok := f.orders.Get("o1")
	require.True(t, ok)
	assert.Equal(t, domain.StatusShipped, order.Status)
	assert.Equal(t, "2026-08-30T12:00:00Z", order.UpdatedAt)
}

func TestRouter_StatusChangeDedupsUnread(t *testing.T) {
	f := newFixture(t, "customer")

	change := event.StatusChange{OrderID: "o1", OrderNumber: "SW-100", NewStatus: "delivered"}
	f.stream.deliver(t, event.NameStatusChange, change)
	f.stream.deliver(t, event.NameStatusChange, change)
	assert.Equal(t, 1, f.notifications.Len(), "replayed transition suppressed while unread")

	list := f.notifications.List(domain.NotificationFilter{})
	_, err := f.notifications.MarkRead(list[0].ID)
	require.NoError(t, err)

	f.stream.deliver(t, event.NameStatusChange, change)
	assert.Equal(t, 2, f.notifications.Len(), "read notifications no longer suppress")
}

func TestRouter_StatusNotificationStored(t *testing.T) {
	f := newFixture(t, "customer")

	f.stream.deliver(t, event.NameStatusNotification, event.StatusNotification{
		Title: "Order delivered", Message: "Your order SW-7 has been delivered.",
		Type: "order_delivered", Link: "/orders/o7",
		OrderData: &event.WireOrder{ID: "o7", OrderNumber: "SW-7", Status: "delivered"},
	})

	require.Equal(t, 1, f.notifications.Len())
	n := f.notifications.List(domain.NotificationFilter{})[0]
	assert.Equal(t, domain.TypeOrderDelivered, n.Type)
	assert.Equal(t, "/orders/o7", n.Link)
	require.NotNil(t, n.Order)
	assert.Equal(t, domain.StatusDelivered, n.Order.Status)
	assert.Len(t, f.effects.notifications, 1)
}

func TestRouter_StatusNotificationUnknownTypeFallsBack(t *testing.T) {
	f := newFixture(t, "customer")

	f.stream.deliver(t, event.NameStatusNotification, event.StatusNotification{
		Message: "Maintenance tonight", Type: "broadcast",
	})

	require.Equal(t, 1, f.notifications.Len())
	n := f.notifications.List(domain.NotificationFilter{})[0]
	assert.Equal(t, domain.TypeDefault, n.Type)
	assert.Nil(t, n.Order)
}

func TestRouter_TypingIsTransient(t *testing.T) {
	f := newFixture(t, "admin")
	var seen []string
	f.router.OnTyping(func(sessionID string, isTyping bool, userType string) {
		seen = append(seen, sessionID)
		assert.True(t, isTyping)
		assert.Equal(t, "customer", userType)
	})

	f.stream.deliver(t, event.NameTyping, event.Typing{SessionID: "s1", IsTyping: true, UserType: "customer"})

	assert.Equal(t, []string{"s1"}, seen)
	assert.Equal(t, 0, f.sessions.Len())
}

func TestRouter_SessionsUpdateSyncsList(t *testing.T) {
	f := newFixture(t, "admin")

	f.stream.deliver(t, event.NameSessionsUpdate, event.SessionsUpdate{
		Sessions: []event.SessionSummary{
			{
				SessionID:  "s1",
				Customer:   event.WireCustomer{Name: "Ada", Email: "ada@test.dev", Authenticated: true},
				LastActive: "2026-08-30T09:00:00Z",
				Online:     true,
				Messages: []event.ChatMessage{
					{MessageID: "m1", SessionID: "s1", Content: "hi", Sender: "customer"},
				},
			},
			{SessionID: "s2", Customer: event.WireCustomer{Name: "Grace"}},
		},
	})

	assert.Equal(t, 2, f.sessions.Len())
	sess, ok := f.sessions.Get("s1")
	require.True(t, ok)
	assert.Equal(t, "Ada", sess.Customer.Name)
	assert.True(t, sess.Online)
	assert.Len(t, sess.Messages, 1)
}

func TestRouter_PresenceTogglesAndCreates(t *testing.T) {
	f := newFixture(t, "admin")

	f.stream.deliver(t, event.NameCustomerConnected, event.Presence{
		SessionID: "s1", Customer: &event.WireCustomer{Name: "Ada"},
	})
	sess, ok := f.sessions.Get("s1")
	require.True(t, ok, "unknown session is created on connect")
	assert.True(t, sess.Online)
	assert.Equal(t, "Ada", sess.Customer.Name)

	f.stream.deliver(t, event.NameCustomerDisconnected, event.Presence{SessionID: "s1"})
	sess, _ = f.sessions.Get("s1")
	assert.False(t, sess.Online)

	f.stream.deliver(t, event.NameCustomerDisconnected, event.Presence{SessionID: "ghost"})
	_, ok = f.sessions.Get("ghost")
	assert.False(t, ok, "disconnect never creates a session")
}

func TestRouter_AdminResyncsSessionsOnConnect(t *testing.T) {
	f := newFixture(t, "admin")
	require.NotNil(t, f.stream.onConnect)
	f.stream.onConnect()
	assert.Equal(t, []string{event.NameGetSessions}, f.stream.emitted)
}

func TestRouter_CustomerDoesNotResync(t *testing.T) {
	f := newFixture(t, "customer")
	require.NotNil(t, f.stream.onConnect)
	f.stream.onConnect()
	assert.Empty(t, f.stream.emitted)
}
