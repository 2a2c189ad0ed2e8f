// Package event defines the wire protocol spoken over the storefront
// event stream. Every frame is a JSON envelope {"event": ..., "data": ...};
// payloads are decoded into typed variants and validated before they
// reach the router.
package event

import (
	"encoding/json"
	"fmt"
)

// Wire event names. These are shared with the storefront server; do not
// rename without coordinating both sides.
const (
	NameInit                 = "init"
	NameRegisterAdmin        = "register-admin"
	NameMessage              = "message"
	NameNewOrder             = "new-order"
	NameOrderUpdated         = "order-updated"
	NameStatusChange         = "status-change"
	NameStatusNotification   = "status-notification"
	NameTyping               = "typing"
	NameSessionsUpdate       = "sessions_update"
	NameGetSessions          = "get_sessions"
	NameCustomerConnected    = "customer_connected"
	NameCustomerDisconnected = "customer_disconnected"
)

// Envelope is the outer frame carried on the websocket.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Init is sent by the client right after the connection is established.
type Init struct {
	UserType   string `json:"userType"`
	Timestamp  string `json:"timestamp"`
	ClientInfo string `json:"clientInfo,omitempty"`
}

// RegisterAdmin subscribes an admin client to the full session feed.
type RegisterAdmin struct {
	UserID string `json:"userId"`
}

// ChatMessage is a chat message frame, sent in either direction.
type ChatMessage struct {
	MessageID string `json:"messageId"`
	SessionID string `json:"sessionId"`
	Content   string `json:"content"`
	Sender    string `json:"sender"`
	Timestamp string `json:"timestamp,omitempty"`
	FileType  string `json:"fileType,omitempty"`
	FileURL   string `json:"fileUrl,omitempty"`
	FileName  string `json:"fileName,omitempty"`
	FileSize  int64  `json:"fileSize,omitempty"`
}

// OrderPayload wraps an order pushed by the server.
type OrderPayload struct {
	Order WireOrder `json:"order"`
}

// WireOrder is the order shape on the wire.
type WireOrder struct {
	ID            string `json:"id"`
	OrderNumber   string `json:"orderNumber"`
	Status        string `json:"status"`
	CustomerEmail string `json:"customerEmail,omitempty"`
	UpdatedAt     string `json:"updatedAt,omitempty"`
}

// StatusChange announces an order status transition.
type StatusChange struct {
	OrderID        string `json:"orderId"`
	OrderNumber    string `json:"orderNumber"`
	PreviousStatus string `json:"previousStatus,omitempty"`
	NewStatus      string `json:"newStatus"`
	Timestamp      string `json:"timestamp,omitempty"`
}

// StatusNotification is a server-rendered notification push.
type StatusNotification struct {
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Type      string     `json:"type"`
	Timestamp string     `json:"timestamp,omitempty"`
	OrderData *WireOrder `json:"orderData,omitempty"`
	Link      string     `json:"link,omitempty"`
}

// Typing is the transient typing indicator, sent in either direction.
type Typing struct {
	SessionID string `json:"sessionId"`
	IsTyping  bool   `json:"isTyping"`
	UserType  string `json:"userType,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// SessionSummary is one entry of a sessions_update frame.
type SessionSummary struct {
	SessionID  string        `json:"sessionId"`
	Customer   WireCustomer  `json:"customerInfo"`
	Messages   []ChatMessage `json:"messages,omitempty"`
	LastActive string        `json:"lastActive,omitempty"`
	Online     bool          `json:"online,omitempty"`
}

// WireCustomer is the customer info shape on the wire.
type WireCustomer struct {
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	Authenticated bool   `json:"authenticated,omitempty"`
}

// SessionsUpdate is the admin-side session list sync.
type SessionsUpdate struct {
	Sessions []SessionSummary `json:"sessions"`
}

// Presence announces a customer connecting or disconnecting.
type Presence struct {
	SessionID string        `json:"sessionId"`
	Customer  *WireCustomer `json:"customerInfo,omitempty"`
}

// Encode wraps a payload in an envelope and marshals it to a frame.
func Encode(name string, payload any) ([]byte, error) {
	var data json.RawMessage
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", name, err)
		}
		data = raw
	}
	return json.Marshal(Envelope{Event: name, Data: data})
}
