package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	typeWidth     = 16
	stateWidth    = 7
	presenceWidth = 8
	unreadWidth   = 6
	numberWidth   = 12
	statusWidth   = 10
	messageWidth  = 40
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	tabStyle      = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("8"))
	activeTab     = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4"))
	selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("4")).Foreground(lipgloss.Color("0"))
	unreadStyle   = lipgloss.NewStyle().Bold(true)
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func (m Model) renderHeader() string {
	return headerStyle.Render(fmt.Sprintf("storewire — %d unread notifications, %d unread chats",
		m.notifications.UnreadCount(), m.sessions.TotalUnread()))
}

func (m Model) renderTabs() string {
	labels := []string{
		fmt.Sprintf("notifications (%d)", len(m.notificationRows)),
		fmt.Sprintf("sessions (%d)", len(m.sessionRows)),
		fmt.Sprintf("orders (%d)", len(m.orderRows)),
	}
	var parts []string
	for i, label := range labels {
		if i == m.tab {
			parts = append(parts, activeTab.Render(label))
		} else {
			parts = append(parts, tabStyle.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) renderRows() string {
	switch m.tab {
	case tabNotifications:
		return m.renderNotificationRows()
	case tabSessions:
		return m.renderSessionRows()
	default:
		return m.renderOrderRows()
	}
}

func (m Model) renderNotificationRows() string {
	if len(m.notificationRows) == 0 {
		return "no notifications"
	}
	var b strings.Builder
	for i, n := range m.notificationRows {
		state := "read"
		if !n.Read {
			state = "unread"
		}
		line := fmt.Sprintf("%-*s  %-*s  %s",
			stateWidth, state,
			typeWidth, n.Type.String(),
			truncate(n.Message, messageWidth))
		b.WriteString(m.styleRow(line, i, !n.Read))
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderSessionRows() string {
	if len(m.sessionRows) == 0 {
		return "no chat sessions"
	}
	var b strings.Builder
	for i, sess := range m.sessionRows {
		presence := "offline"
		if sess.Online {
			presence = "online"
		}
		name := sess.Customer.Name
		if name == "" {
			name = "anonymous"
		}
		last := ""
		if msg := sess.LastMessage(); msg != nil {
			last = msg.Text
		}
		if m.typing[sess.ID] {
			last = "typing..."
		}
		line := fmt.Sprintf("%-*s  %-*s  %-20s  %s",
			presenceWidth, presence,
			unreadWidth, fmt.Sprintf("(%d)", sess.UnreadCount),
			truncate(name, 20),
			truncate(last, messageWidth))
		b.WriteString(m.styleRow(line, i, sess.UnreadCount > 0))
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderOrderRows() string {
	if len(m.orderRows) == 0 {
		return "no orders"
	}
	var b strings.Builder
	for i, order := range m.orderRows {
		line := fmt.Sprintf("%-*s  %-*s  %s",
			numberWidth, order.OrderNumber,
			statusWidth, order.Status.String(),
			order.UpdatedAt)
		b.WriteString(m.styleRow(line, i, false))
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) styleRow(line string, index int, unread bool) string {
	if index == m.cursor {
		return selectedStyle.Render(line)
	}
	if unread {
		return unreadStyle.Render(line)
	}
	return line
}

func (m Model) renderFooter() string {
	help := "j/k move · tab switch · r mark read · R mark all · q quit"
	if m.status != "" {
		help = m.status + "  ·  " + help
	}
	return footerStyle.Render(help)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
