// Package router connects the event stream to the local stores. It is
// the only place wire payloads turn into store mutations; side effects
// fire only for events the stores actually accepted.
package router

import (
	"time"

	"github.com/google/uuid"

	"github.com/storewire/storewire/internal/domain"
	"github.com/storewire/storewire/internal/event"
	"github.com/storewire/storewire/internal/format"
	"github.com/storewire/storewire/internal/logging"
	"github.com/storewire/storewire/internal/store"
	"github.com/storewire/storewire/internal/transport"
)

// Stream is the slice of the transport client the router needs.
type Stream interface {
	On(name string, h transport.Handler)
	OnConnect(fn func())
	Emit(name string, payload any) error
}

// SideEffects receives accepted events for out-of-process reactions
// (shell hooks, sounds). Implementations must not block the caller for
// long; the router invokes them on the read loop goroutine.
type SideEffects interface {
	OnMessage(sessionID string, msg domain.Message)
	OnNotification(n domain.Notification)
	OnOrder(order domain.Order, created bool)
}

// NopEffects is a SideEffects that does nothing.
type NopEffects struct{}

func (NopEffects) OnMessage(string, domain.Message)   {}
func (NopEffects) OnNotification(domain.Notification) {}
func (NopEffects) OnOrder(domain.Order, bool)         {}

// TypingFunc observes transient typing indicators. They are never
// stored; the router fans them straight out.
type TypingFunc func(sessionID string, isTyping bool, userType string)

// Router owns the event-to-store bindings for one connection.
type Router struct {
	stream        Stream
	orders        *store.OrderStore
	notifications *store.NotificationStore
	sessions      *store.SessionStore
	effects       SideEffects
	role          string
	log           logging.Logger
	onTyping      TypingFunc
	now           func() time.Time
}

// New creates a router over the given stores. role is the viewer role
// announced on connect; admins additionally request the session list
// after every handshake. A nil effects disables side effects.
func New(stream Stream, orders *store.OrderStore, notifications *store.NotificationStore, sessions *store.SessionStore, role string, effects SideEffects, log logging.Logger) *Router {
	if effects == nil {
		effects = NopEffects{}
	}
	if log == nil {
		log = logging.Noop()
	}
	return &Router{
		stream:        stream,
		orders:        orders,
		notifications: notifications,
		sessions:      sessions,
		effects:       effects,
		role:          role,
		log:           log.With("component", "router"),
		now:           time.Now,
	}
}

// OnTyping registers the transient typing observer.
func (r *Router) OnTyping(fn TypingFunc) {
	r.onTyping = fn
}

// Bind registers all event handlers on the stream. Call it once,
// before Connect.
func (r *Router) Bind() {
	r.stream.On(event.NameMessage, r.handleMessage)
	r.stream.On(event.NameNewOrder, r.handleOrder)
	r.stream.On(event.NameOrderUpdated, r.handleOrder)
	r.stream.On(event.NameStatusChange, r.handleStatusChange)
	r.stream.On(event.NameStatusNotification, r.handleStatusNotification)
	r.stream.On(event.NameTyping, r.handleTyping)
	r.stream.On(event.NameSessionsUpdate, r.handleSessionsUpdate)
	r.stream.On(event.NameCustomerConnected, r.handlePresence(true))
	r.stream.On(event.NameCustomerDisconnected, r.handlePresence(false))
	r.stream.OnConnect(func() {
		if r.role == "admin" {
			if err := r.stream.Emit(event.NameGetSessions, nil); err != nil {
				r.log.Warn("session resync request failed", "error", err)
			}
		}
	})
}

func (r *Router) handleMessage(payload any) {
	p, ok := payload.(event.ChatMessage)
	if !ok {
		return
	}
	msg, err := messageFromWire(p)
	if err != nil {
		r.log.Warn("dropping message", "session", p.SessionID, "error", err)
		return
	}
	accepted, err := r.sessions.AppendMessage(p.SessionID, msg, nil)
	if err != nil {
		r.log.Warn("message not fully persisted", "session", p.SessionID, "error", err)
	}
	if accepted {
		r.effects.OnMessage(p.SessionID, msg)
	}
}

func (r *Router) handleOrder(payload any) {
	p, ok := payload.(event.OrderPayload)
	if !ok {
		return
	}
	order, err := orderFromWire(p.Order)
	if err != nil {
		r.log.Warn("dropping order", "order", p.Order.ID, "error", err)
		return
	}
	created, err := r.orders.Upsert(order)
	if err != nil {
		r.log.Warn("order not fully persisted", "order", order.ID, "error", err)
	}
	r.effects.OnOrder(order, created)
}

// handleStatusChange turns a status transition into a local
// notification. A transition already represented by an unread
// notification is dropped, so reconnect replays do not pile up
// duplicates.
func (r *Router) handleStatusChange(payload any) {
	p, ok := payload.(event.StatusChange)
	if !ok {
		return
	}
	status, err := domain.ParseOrderStatus(p.NewStatus)
	if err != nil {
		r.log.Warn("dropping status change", "order", p.OrderID, "error", err)
		return
	}
	if existing, ok := r.orders.Get(p.OrderID); ok {
		existing.Status = status
		if p.Timestamp != "" {
			existing.UpdatedAt = p.Timestamp
		}
		if _, err := r.orders.Upsert(existing); err != nil {
			r.log.Warn("order status not fully persisted", "order", p.OrderID, "error", err)
		}
	}
	if r.notifications.HasUnreadFor(p.OrderID, status) {
		r.log.Debug("duplicate status change suppressed", "order", p.OrderID, "status", status)
		return
	}
	typ, title, message := format.OrderStatusNotification(status, p.OrderNumber)
	n := domain.Notification{
		ID:        uuid.NewString(),
		Title:     title,
		Message:   message,
		Type:      typ,
		Order:     &domain.OrderRef{OrderID: p.OrderID, OrderNumber: p.OrderNumber, Status: status},
		Timestamp: r.timestamp(p.Timestamp),
	}
	if err := r.notifications.Add(n); err != nil {
		r.log.Warn("notification not fully persisted", "id", n.ID, "error", err)
	}
	r.effects.OnNotification(n)
}

// handleStatusNotification stores a server-rendered notification as-is.
func (r *Router) handleStatusNotification(payload any) {
	p, ok := payload.(event.StatusNotification)
	if !ok {
		return
	}
	typ, err := domain.ParseNotificationType(p.Type)
	if err != nil {
		typ = domain.TypeDefault
	}
	n := domain.Notification{
		ID:        uuid.NewString(),
		Title:     p.Title,
		Message:   p.Message,
		Type:      typ,
		Link:      p.Link,
		Timestamp: r.timestamp(p.Timestamp),
	}
	if p.OrderData != nil && p.OrderData.ID != "" {
		status, err := domain.ParseOrderStatus(p.OrderData.Status)
		if err == nil {
			if r.notifications.HasUnreadFor(p.OrderData.ID, status) {
				r.log.Debug("duplicate notification suppressed", "order", p.OrderData.ID, "status", status)
				return
			}
			n.Order = &domain.OrderRef{
				OrderID:     p.OrderData.ID,
				OrderNumber: p.OrderData.OrderNumber,
				Status:      status,
			}
		}
	}
	if err := r.notifications.Add(n); err != nil {
		r.log.Warn("notification not fully persisted", "id", n.ID, "error", err)
	}
	r.effects.OnNotification(n)
}

func (r *Router) handleTyping(payload any) {
	p, ok := payload.(event.Typing)
	if !ok {
		return
	}
	if r.onTyping != nil {
		r.onTyping(p.SessionID, p.IsTyping, p.UserType)
	}
}

// handleSessionsUpdate syncs the admin session list from the server.
func (r *Router) handleSessionsUpdate(payload any) {
	p, ok := payload.(event.SessionsUpdate)
	if !ok {
		return
	}
	for _, summary := range p.Sessions {
		if summary.SessionID == "" {
			continue
		}
		msgs := make([]domain.Message, 0, len(summary.Messages))
		for _, wm := range summary.Messages {
			m, err := messageFromWire(wm)
			if err != nil {
				r.log.Debug("skipping session message", "session", summary.SessionID, "error", err)
				continue
			}
			msgs = append(msgs, m)
		}
		customer := domain.CustomerInfo{
			Name:          summary.Customer.Name,
			Email:         summary.Customer.Email,
			Authenticated: summary.Customer.Authenticated,
		}
		if err := r.sessions.UpsertSummary(summary.SessionID, customer, msgs, summary.LastActive, summary.Online); err != nil {
			r.log.Warn("session sync not fully persisted", "session", summary.SessionID, "error", err)
		}
	}
}

func (r *Router) handlePresence(online bool) transport.Handler {
	return func(payload any) {
		p, ok := payload.(event.Presence)
		if !ok {
			return
		}
		if r.sessions.SetPresence(p.SessionID, online) {
			return
		}
		if !online {
			return
		}
		// First sight of this session: create it so the admin list
		// shows the customer before the first message arrives.
		customer := domain.CustomerInfo{}
		if p.Customer != nil {
			customer.Name = p.Customer.Name
			customer.Email = p.Customer.Email
			customer.Authenticated = p.Customer.Authenticated
		}
		if err := r.sessions.UpsertSummary(p.SessionID, customer, nil, "", true); err != nil {
			r.log.Warn("presence session not fully persisted", "session", p.SessionID, "error", err)
		}
	}
}

func (r *Router) timestamp(wire string) string {
	if wire != "" {
		return wire
	}
	return r.now().UTC().Format(time.RFC3339)
}

// messageFromWire converts a chat frame into the domain message shape.
func messageFromWire(p event.ChatMessage) (domain.Message, error) {
	sender, err := domain.ParseSender(p.Sender)
	if err != nil {
		return domain.Message{}, err
	}
	msg := domain.Message{
		ID:        p.MessageID,
		Text:      p.Content,
		Sender:    sender,
		Timestamp: p.Timestamp,
	}
	if p.FileURL != "" || p.FileName != "" {
		msg.Attachment = &domain.Attachment{
			Type: p.FileType,
			URL:  p.FileURL,
			Name: p.FileName,
			Size: p.FileSize,
		}
	}
	return msg, nil
}

// orderFromWire converts a wire order into the domain shape.
func orderFromWire(w event.WireOrder) (domain.Order, error) {
	status, err := domain.ParseOrderStatus(w.Status)
	if err != nil {
		return domain.Order{}, err
	}
	order := domain.Order{
		ID:            w.ID,
		OrderNumber:   w.OrderNumber,
		Status:        status,
		CustomerEmail: w.CustomerEmail,
		UpdatedAt:     w.UpdatedAt,
	}
	if err := order.Validate(); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}
