package transport

import (
	"time"

	"github.com/gorilla/websocket"
)

// WireConn is the subset of the websocket connection the client uses.
// *websocket.Conn satisfies it; tests inject fakes.
type WireConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetReadDeadline(t time.Time) error
	SetPingHandler(h func(appData string) error)
	Close() error
}

// Dialer establishes wire connections. Injected so tests can script
// connection outcomes.
type Dialer interface {
	Dial(url string) (WireConn, error)
}

// gorillaDialer is the production Dialer.
type gorillaDialer struct {
	dialer *websocket.Dialer
}

// NewGorillaDialer returns the gorilla/websocket backed dialer.
func NewGorillaDialer() Dialer {
	return &gorillaDialer{
		dialer: &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
	}
}

func (d *gorillaDialer) Dial(url string) (WireConn, error) {
	conn, _, err := d.dialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
