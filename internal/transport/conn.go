// Package transport maintains the long-lived websocket connection to
// the storefront server: one connection per process, automatic
// reconnection with capped backoff, and heartbeat handling. Connection
// errors are never surfaced synchronously to callers; they only show up
// in Status and the state-change callback.
package transport

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/storewire/storewire/internal/event"
	"github.com/storewire/storewire/internal/logging"
)

// State is the connection state machine position.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateReconnecting State = "reconnecting"
	// StateFailed is the give-up state entered after the maximum number
	// of consecutive failed attempts. Auto-retry stops; a manual
	// Connect call resumes.
	StateFailed State = "failed"
)

// Identity is what the client announces to the server on connect.
type Identity struct {
	Role     string // "customer" or "admin"
	ClientID string // stable across restarts; doubles as the chat session id
}

// Status is the caller-visible connection status.
type Status struct {
	State             State
	LastError         string
	ReconnectAttempts int
}

// Handler receives a decoded, validated event payload.
type Handler func(payload any)

// Options tune the client's retry and heartbeat behavior.
type Options struct {
	MaxAttempts      int           // consecutive failures before giving up
	InitialDelay     time.Duration // first reconnect delay
	MaxDelay         time.Duration // backoff cap
	HeartbeatTimeout time.Duration // read deadline extended by pings/frames
	Logger           logging.Logger
}

// DefaultOptions returns the options used when a field is left zero.
func DefaultOptions() Options {
	return Options{
		MaxAttempts:      8,
		InitialDelay:     time.Second,
		MaxDelay:         5 * time.Second,
		HeartbeatTimeout: 45 * time.Second,
		Logger:           logging.Noop(),
	}
}

// Client is the websocket connection owner. Construct it once at the
// composition root and hand it to the router; it is not a global.
type Client struct {
	url    string
	dialer Dialer
	opts   Options
	log    logging.Logger

	mu        sync.Mutex
	state     State
	lastError string
	attempts  int
	identity  Identity
	conn      WireConn
	writeMu   sync.Mutex
	done      chan struct{}

	handlersMu sync.RWMutex
	handlers   map[string][]Handler
	onState    []func(Status)
	onConnect  func()
}

// NewClient creates a client for the given websocket URL. A nil dialer
// uses the gorilla-backed default.
func NewClient(url string, dialer Dialer, opts Options) *Client {
	def := DefaultOptions()
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = def.MaxAttempts
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = def.InitialDelay
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = def.MaxDelay
	}
	if opts.HeartbeatTimeout <= 0 {
		opts.HeartbeatTimeout = def.HeartbeatTimeout
	}
	if opts.Logger == nil {
		opts.Logger = def.Logger
	}
	if dialer == nil {
		dialer = NewGorillaDialer()
	}
	return &Client{
		url:      url,
		dialer:   dialer,
		opts:     opts,
		log:      opts.Logger.With("component", "transport"),
		state:    StateDisconnected,
		handlers: make(map[string][]Handler),
	}
}

// On registers a handler for a decoded event. Handlers run serially on
// the read loop goroutine, so one event is processed to completion
// before the next is dispatched.
func (c *Client) On(name string, h Handler) {
	c.handlersMu.Lock()
	defer c.handlersMu.Unlock()
	c.handlers[name] = append(c.handlers[name], h)
}

// OnStateChange registers a status callback invoked on every state
// transition. Multiple callbacks run in registration order.
func (c *Client) OnStateChange(fn func(Status)) {
	c.handlersMu.Lock()
	defer c.handlersMu.Unlock()
	c.onState = append(c.onState, fn)
}

// OnConnect registers a callback invoked after each successful
// handshake, once the identity has been announced.
func (c *Client) OnConnect(fn func()) {
	c.handlersMu.Lock()
	defer c.handlersMu.Unlock()
	c.onConnect = fn
}

// Connect starts the connection loop with the given identity. Calling
// it while a loop is already running is a no-op; calling it from
// StateFailed resumes retrying.
func (c *Client) Connect(identity Identity) {
	c.mu.Lock()
	switch c.state {
	case StateConnecting, StateConnected, StateReconnecting:
		c.mu.Unlock()
		return
	}
	c.identity = identity
	c.attempts = 0
	c.lastError = ""
	c.done = make(chan struct{})
	done := c.done
	c.mu.Unlock()
	go c.run(done)
}

// Disconnect releases the connection and cancels any pending reconnect.
func (c *Client) Disconnect() {
	c.mu.Lock()
	if c.done != nil {
		select {
		case <-c.done:
		default:
			close(c.done)
		}
	}
	conn := c.conn
	c.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
}

// Status returns the current connection status.
func (c *Client) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{State: c.state, LastError: c.lastError, ReconnectAttempts: c.attempts}
}

// Emit sends an event frame to the server. It fails fast when the
// connection is not established.
func (c *Client) Emit(name string, payload any) error {
	c.mu.Lock()
	conn := c.conn
	state := c.state
	c.mu.Unlock()
	if conn == nil || state != StateConnected {
		return fmt.Errorf("emit %s: not connected (state %s)", name, state)
	}
	frame, err := event.Encode(name, payload)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		return fmt.Errorf("emit %s: %w", name, err)
	}
	return nil
}

// run is the connection loop: dial, announce, read until failure,
// back off, repeat. It exits on manual disconnect or give-up.
func (c *Client) run(done chan struct{}) {
	for {
		c.setState(StateConnecting, "")
		conn, err := c.dialer.Dial(c.url)
		if err != nil {
			c.log.Warn("dial failed", "url", c.url, "error", err)
			if !c.backoff(done, err) {
				return
			}
			continue
		}

		c.mu.Lock()
		c.conn = conn
		c.attempts = 0
		c.mu.Unlock()
		c.setState(StateConnected, "")
		c.log.Info("connected", "url", c.url, "role", c.identity.Role)

		c.announce()
		readErr := c.readLoop(done, conn)
		_ = conn.Close()
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()

		select {
		case <-done:
			c.setState(StateDisconnected, "")
			c.log.Info("disconnected")
			return
		default:
		}
		c.log.Warn("connection lost", "error", readErr)
		if !c.backoff(done, readErr) {
			return
		}
	}
}

// announce tells the server who this client is.
func (c *Client) announce() {
	init := event.Init{
		UserType:   c.identity.Role,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		ClientInfo: "storewire",
	}
	if err := c.Emit(event.NameInit, init); err != nil {
		c.log.Warn("init announce failed", "error", err)
	}
	if c.identity.Role == "admin" && c.identity.ClientID != "" {
		if err := c.Emit(event.NameRegisterAdmin, event.RegisterAdmin{UserID: c.identity.ClientID}); err != nil {
			c.log.Warn("admin register failed", "error", err)
		}
	}
	c.handlersMu.RLock()
	onConnect := c.onConnect
	c.handlersMu.RUnlock()
	if onConnect != nil {
		onConnect()
	}
}

// readLoop pumps frames until the connection drops. Each received frame
// or ping extends the heartbeat deadline; a silent server times the
// read out, which feeds the normal reconnect path.
func (c *Client) readLoop(done chan struct{}, conn WireConn) error {
	extend := func() {
		_ = conn.SetReadDeadline(time.Now().Add(c.opts.HeartbeatTimeout))
	}
	extend()
	conn.SetPingHandler(func(appData string) error {
		extend()
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(5*time.Second))
	})
	for {
		select {
		case <-done:
			return nil
		default:
		}
		_, frame, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		extend()
		c.dispatch(frame)
	}
}

// dispatch decodes a frame and runs its handlers. Malformed frames are
// logged and dropped; they never halt the loop.
func (c *Client) dispatch(frame []byte) {
	name, payload, err := event.Decode(frame)
	if err != nil {
		c.log.Warn("dropping frame", "event", name, "error", err)
		return
	}
	c.handlersMu.RLock()
	handlers := c.handlers[name]
	c.handlersMu.RUnlock()
	for _, h := range handlers {
		h(payload)
	}
}

// backoff waits before the next attempt. Returns false when retrying
// should stop (manual disconnect or give-up).
func (c *Client) backoff(done chan struct{}, cause error) bool {
	c.mu.Lock()
	c.attempts++
	attempts := c.attempts
	c.lastError = cause.Error()
	c.mu.Unlock()

	if attempts >= c.opts.MaxAttempts {
		c.setState(StateFailed, cause.Error())
		c.log.Error("giving up after repeated failures", "attempts", attempts)
		return false
	}
	c.setState(StateReconnecting, cause.Error())

	delay := c.opts.InitialDelay
	for i := 1; i < attempts; i++ {
		delay *= 2
		if delay >= c.opts.MaxDelay {
			delay = c.opts.MaxDelay
			break
		}
	}
	select {
	case <-done:
		c.setState(StateDisconnected, "")
		return false
	case <-time.After(delay):
		return true
	}
}

func (c *Client) setState(state State, lastError string) {
	c.mu.Lock()
	c.state = state
	if lastError != "" {
		c.lastError = lastError
	}
	status := Status{State: c.state, LastError: c.lastError, ReconnectAttempts: c.attempts}
	c.mu.Unlock()

	c.handlersMu.RLock()
	onState := make([]func(Status), len(c.onState))
	copy(onState, c.onState)
	c.handlersMu.RUnlock()
	for _, fn := range onState {
		fn(status)
	}
}
