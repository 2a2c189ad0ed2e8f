package transport

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrMockClosed is returned by a MockConn once it has been closed.
var ErrMockClosed = errors.New("mock connection closed")

// MockDialer scripts dial outcomes for tests. Outcomes are consumed in
// order; when the script runs dry, Dial fails.
type MockDialer struct {
	mu       sync.Mutex
	outcomes []func() (WireConn, error)
	dials    int
}

// QueueError scripts a failed dial.
func (d *MockDialer) QueueError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.outcomes = append(d.outcomes, func() (WireConn, error) { return nil, err })
}

// QueueConn scripts a successful dial returning conn.
func (d *MockDialer) QueueConn(conn *MockConn) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.outcomes = append(d.outcomes, func() (WireConn, error) { return conn, nil })
}

// Dial pops the next scripted outcome.
func (d *MockDialer) Dial(url string) (WireConn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dials++
	if len(d.outcomes) == 0 {
		return nil, errors.New("mock dialer: script exhausted")
	}
	next := d.outcomes[0]
	d.outcomes = d.outcomes[1:]
	return next()
}

// Dials reports how many dial attempts were made.
func (d *MockDialer) Dials() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}

// MockConn is a scriptable wire connection.
type MockConn struct {
	frames chan []byte
	closed chan struct{}
	once   sync.Once

	mu      sync.Mutex
	written [][]byte
}

// NewMockConn creates an open mock connection.
func NewMockConn() *MockConn {
	return &MockConn{
		frames: make(chan []byte, 16),
		closed: make(chan struct{}),
	}
}

// Deliver queues a frame for the client's read loop.
func (c *MockConn) Deliver(frame []byte) {
	select {
	case c.frames <- frame:
	case <-c.closed:
	}
}

// ReadMessage returns the next delivered frame, blocking until one
// arrives or the connection is closed.
func (c *MockConn) ReadMessage() (int, []byte, error) {
	select {
	case frame := <-c.frames:
		return websocket.TextMessage, frame, nil
	case <-c.closed:
		return 0, nil, ErrMockClosed
	}
}

// WriteMessage records an outbound frame.
func (c *MockConn) WriteMessage(messageType int, data []byte) error {
	select {
	case <-c.closed:
		return ErrMockClosed
	default:
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	c.written = append(c.written, buf)
	return nil
}

// WriteControl records nothing; control frames are not asserted on.
func (c *MockConn) WriteControl(messageType int, data []byte, deadline time.Time) error {
	return nil
}

// SetReadDeadline is a no-op for the mock.
func (c *MockConn) SetReadDeadline(t time.Time) error { return nil }

// SetPingHandler is a no-op for the mock.
func (c *MockConn) SetPingHandler(h func(appData string) error) {}

// Close closes the connection; subsequent reads fail.
func (c *MockConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

// Written returns the raw outbound frames recorded so far.
func (c *MockConn) Written() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.written))
	copy(out, c.written)
	return out
}
