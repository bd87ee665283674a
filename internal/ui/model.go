// Package ui renders the in-app notification toast on top of a TUI view.
package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/muesli/reflow/truncate"
	"github.com/shortdrama-cli/shortdrama/notify"
	"github.com/shortdrama-cli/shortdrama/style"
)

// Model shows queued notifications one at a time.
type Model struct {
	queue notify.Queue
}

// ExpireMsg hides the toast with the given id.
type ExpireMsg struct {
	ID uuid.UUID
}

func expireAfter(id uuid.UUID) tea.Cmd {
	return tea.Tick(notify.DisplayDuration, func(time.Time) tea.Msg {
		return ExpireMsg{ID: id}
	})
}

// Update handles notify.Notification and ExpireMsg, ignoring everything else.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case notify.Notification:
		if m.queue.Push(msg) {
			return expireAfter(msg.ID)
		}
	case ExpireMsg:
		if next, ok := m.queue.Expire(msg.ID); ok {
			return expireAfter(next.ID)
		}
	}
	return nil
}

// Current returns the visible notification.
func (m *Model) Current() (notify.Notification, bool) {
	return m.queue.Current()
}

var toastStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(style.AccentColor).
	Padding(0, 1)

// View draws the visible toast over the first lines of content.
func (m *Model) View(content string, width int) string {
	n, ok := m.queue.Current()
	if !ok {
		return content
	}

	inner := width - 4
	if inner < 20 {
		inner = 20
	}

	body := []string{style.Bold(truncate.StringWithTail(n.Title, uint(inner), "…"))}
	if n.Body != "" {
		body = append(body, style.Faint(truncate.StringWithTail(n.Body, uint(inner), "…")))
	}
	if pending := m.queue.Len(); pending > 0 {
		body = append(body, style.Faint(strings.Repeat("•", min(pending, 5))))
	}

	toast := strings.Split(toastStyle.Render(strings.Join(body, "\n")), "\n")
	lines := strings.Split(content, "\n")
	for i, line := range toast {
		if i < len(lines) {
			lines[i] = line
		} else {
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n")
}
