// Package tui renders the live inbox panel: notifications, chat
// sessions, and orders in one terminal view, refreshed from the store
// change feeds.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/storewire/storewire/internal/domain"
)

const (
	tabNotifications = iota
	tabSessions
	tabOrders
	tabCount
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	chromeLines   = 4 // header, tab bar, footer, spacing
)

// NotificationSource is the notification slice of the store surface the
// panel reads.
type NotificationSource interface {
	List(filter domain.NotificationFilter) []domain.Notification
	MarkRead(id string) (bool, error)
	MarkAllRead() (int, error)
	UnreadCount() int
}

// SessionSource is the chat slice of the store surface the panel reads.
type SessionSource interface {
	Sessions(filter domain.SessionFilter) []domain.Session
	MarkRead(sessionID string) (bool, error)
	TotalUnread() int
}

// OrderSource is the order slice of the store surface the panel reads.
type OrderSource interface {
	List(filter domain.OrderFilter) []domain.Order
}

// refreshMsg tells the model to re-read the stores.
type refreshMsg struct{}

// Refresh is the message a store subscription pump feeds into the
// program after each mutation.
func Refresh() tea.Msg { return refreshMsg{} }

// typingMsg toggles the transient typing marker for a session.
type typingMsg struct {
	sessionID string
	isTyping  bool
}

// Typing is the message the router's typing observer feeds into the
// program. It is display-only and never touches the stores.
func Typing(sessionID string, isTyping bool) tea.Msg {
	return typingMsg{sessionID: sessionID, isTyping: isTyping}
}

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextTab  key.Binding
	MarkRead key.Binding
	MarkAll  key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j", "down")),
	NextTab:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch tab")),
	MarkRead: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "mark read")),
	MarkAll:  key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "mark all read")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Model is the bubbletea model for the inbox panel.
type Model struct {
	notifications NotificationSource
	sessions      SessionSource
	orders        OrderSource

	tab      int
	cursor   int
	width    int
	height   int
	viewport viewport.Model
	status   string
	typing   map[string]bool

	// cached rows for the active tab, rebuilt on refresh
	notificationRows []domain.Notification
	sessionRows      []domain.Session
	orderRows        []domain.Order
}

// NewModel creates the panel model over the given store surfaces.
func NewModel(notifications NotificationSource, sessions SessionSource, orders OrderSource) Model {
	m := Model{
		notifications: notifications,
		sessions:      sessions,
		orders:        orders,
		width:         defaultWidth,
		height:        defaultHeight,
		viewport:      viewport.New(defaultWidth, defaultHeight-chromeLines),
		typing:        make(map[string]bool),
	}
	m.reload()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - chromeLines
		m.syncViewport()
		return m, nil
	case refreshMsg:
		m.reload()
		m.clampCursor()
		m.syncViewport()
		return m, nil
	case typingMsg:
		if msg.isTyping {
			m.typing[msg.sessionID] = true
		} else {
			delete(m.typing, msg.sessionID)
		}
		m.syncViewport()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.NextTab):
		m.tab = (m.tab + 1) % tabCount
		m.cursor = 0
		m.status = ""
		m.syncViewport()
	case key.Matches(msg, keys.Down):
		m.cursor++
		m.clampCursor()
		m.syncViewport()
	case key.Matches(msg, keys.Up):
		m.cursor--
		m.clampCursor()
		m.syncViewport()
	case key.Matches(msg, keys.MarkRead):
		m.markSelectedRead()
		m.reload()
		m.clampCursor()
		m.syncViewport()
	case key.Matches(msg, keys.MarkAll):
		if m.tab == tabNotifications {
			n, err := m.notifications.MarkAllRead()
			if err != nil {
				m.status = "mark all read failed: " + err.Error()
			} else {
				m.status = fmt.Sprintf("marked %d read", n)
			}
			m.reload()
			m.syncViewport()
		}
	}
	return m, nil
}

func (m *Model) markSelectedRead() {
	switch m.tab {
	case tabNotifications:
		if m.cursor < len(m.notificationRows) {
			if _, err := m.notifications.MarkRead(m.notificationRows[m.cursor].ID); err != nil {
				m.status = "mark read failed: " + err.Error()
				return
			}
			m.status = "marked read"
		}
	case tabSessions:
		if m.cursor < len(m.sessionRows) {
			if _, err := m.sessions.MarkRead(m.sessionRows[m.cursor].ID); err != nil {
				m.status = "mark read failed: " + err.Error()
				return
			}
			m.status = "session marked read"
		}
	}
}

func (m *Model) reload() {
	m.notificationRows = m.notifications.List(domain.NotificationFilter{})
	m.sessionRows = m.sessions.Sessions(domain.SessionFilter{})
	m.orderRows = m.orders.List(domain.OrderFilter{})
}

func (m *Model) rowCount() int {
	switch m.tab {
	case tabNotifications:
		return len(m.notificationRows)
	case tabSessions:
		return len(m.sessionRows)
	default:
		return len(m.orderRows)
	}
}

func (m *Model) clampCursor() {
	n := m.rowCount()
	if n == 0 {
		m.cursor = 0
		return
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
}

func (m *Model) syncViewport() {
	m.viewport.SetContent(m.renderRows())
	// keep the selection visible
	if m.cursor < m.viewport.YOffset {
		m.viewport.SetYOffset(m.cursor)
	}
	if m.cursor >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

// View implements tea.Model.
func (m Model) View() string {
	return m.renderHeader() + "\n" +
		m.renderTabs() + "\n" +
		m.viewport.View() + "\n" +
		m.renderFooter()
}
