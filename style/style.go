// Package style composes lipgloss styles into plain string renderers.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/shortdrama-cli/shortdrama/color"
)

func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

// Colored sets both colors. An empty color leaves that side untouched.
func Colored(fg, bg lipgloss.Color) lipgloss.Style {
	return New().Foreground(fg).Background(bg)
}

// Fg returns a renderer painting text with c.
func Fg(c lipgloss.Color) func(string) string {
	return func(s string) string { return Colored(c, "").Render(s) }
}

// Truncate returns a renderer that wraps text at max cells.
func Truncate(max int) func(string) string {
	return func(s string) string { return New().Width(max).Render(s) }
}

var (
	Faint = func(s string) string { return New().Faint(true).Render(s) }
	Bold  = func(s string) string { return New().Bold(true).Render(s) }
)

// Tag renders s as a padded chip.
func Tag(fg, bg lipgloss.Color) func(string) string {
	return func(s string) string { return Colored(fg, bg).Padding(0, 1).Render(s) }
}

// Title is the heading chip used by the prompt interface and the player screen.
var Title = Tag(color.New("230"), color.Coral)

// ErrorTitle is Title for failures.
var ErrorTitle = Tag(color.New("230"), color.Red)
