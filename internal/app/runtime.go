// Package app holds the command use-cases and the runtime composition
// shared by the CLI entry points.
package app

import (
	"fmt"
	"time"

	"github.com/storewire/storewire/internal/config"
	"github.com/storewire/storewire/internal/domain"
	"github.com/storewire/storewire/internal/hooks"
	"github.com/storewire/storewire/internal/logging"
	"github.com/storewire/storewire/internal/persist"
	"github.com/storewire/storewire/internal/router"
	"github.com/storewire/storewire/internal/store"
	"github.com/storewire/storewire/internal/transport"
)

// Runtime bundles the long-lived pieces a command needs: the
// persistence port, the three stores, and (for connected commands) the
// transport client with its router.
type Runtime struct {
	Port          persist.Port
	Orders        *store.OrderStore
	Notifications *store.NotificationStore
	Sessions      *store.SessionStore
	Client        *transport.Client
	Router        *router.Router
	Hooks         *hooks.Runner
	Log           logging.Logger

	Role      string
	ClientID  string
	ServerURL string
}

// Viewer maps a configured role to the sender whose messages count as
// unread for this client.
func Viewer(role string) domain.Sender {
	if role == "admin" {
		return domain.SenderSupport
	}
	return domain.SenderCustomer
}

// OpenStores builds a runtime with the stores only. Read-and-mutate
// commands that never touch the network use this.
func OpenStores() (*Runtime, error) {
	config.Load()
	stateDir := config.Get("state_dir", "")
	port, err := persist.New(config.Get("storage_backend", "file"), stateDir)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	role := config.Get("role", "customer")
	r := &Runtime{
		Port:          port,
		Orders:        store.NewOrderStore(port, config.GetInt("order_cap", 100)),
		Notifications: store.NewNotificationStore(port, config.GetInt("notification_cap", 50)),
		Sessions:      store.NewSessionStore(port, Viewer(role), config.GetInt("message_cap", 200)),
		Log:           logging.GetGlobal(),
		Role:          role,
	}
	return r, nil
}

// Open builds the full connected runtime: stores, hook runner,
// transport client, and router, all bound together. The caller still
// has to Connect.
func Open() (*Runtime, error) {
	r, err := OpenStores()
	if err != nil {
		return nil, err
	}
	stateDir := config.Get("state_dir", "")
	r.ServerURL = config.Get("server_url", "")

	r.ClientID, err = ClientID(stateDir)
	if err != nil {
		r.Port.Close()
		return nil, err
	}
	if r.Role == "admin" {
		if adminID := config.Get("admin_id", ""); adminID != "" {
			r.ClientID = adminID
		}
	}

	r.Hooks = hooks.NewRunner(
		config.Get("hooks_dir", ""),
		time.Duration(config.GetInt("hooks_timeout_seconds", 30))*time.Second,
		config.GetBool("hooks_enabled", true),
		r.Log,
	)

	opts := transport.Options{
		MaxAttempts:      config.GetInt("reconnect_max_attempts", 8),
		InitialDelay:     time.Duration(config.GetInt("reconnect_initial_delay_ms", 1000)) * time.Millisecond,
		MaxDelay:         time.Duration(config.GetInt("reconnect_max_delay_ms", 5000)) * time.Millisecond,
		HeartbeatTimeout: time.Duration(config.GetInt("heartbeat_timeout_seconds", 45)) * time.Second,
		Logger:           r.Log,
	}
	r.Client = transport.NewClient(r.ServerURL, nil, opts)
	r.Client.OnStateChange(func(status transport.Status) {
		switch status.State {
		case transport.StateConnected:
			r.Hooks.Connection(true, r.ServerURL)
		case transport.StateReconnecting, transport.StateFailed:
			r.Hooks.Connection(false, r.ServerURL)
		}
	})

	r.Router = router.New(r.Client, r.Orders, r.Notifications, r.Sessions, r.Role, r.Hooks, r.Log)
	r.Router.Bind()
	return r, nil
}

// Connect starts the websocket connection loop.
func (r *Runtime) Connect() {
	r.Client.Connect(transport.Identity{Role: r.Role, ClientID: r.ClientID})
}

// Close tears the runtime down: transport first, then hooks drain,
// then the storage port.
func (r *Runtime) Close() {
	if r.Client != nil {
		r.Client.Disconnect()
	}
	if r.Hooks != nil {
		r.Hooks.Wait()
	}
	if r.Port != nil {
		r.Port.Close()
	}
}
