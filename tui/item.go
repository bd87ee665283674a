package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shortdrama-cli/shortdrama/browse"
	"github.com/shortdrama-cli/shortdrama/catalog"
	"github.com/shortdrama-cli/shortdrama/icon"
	"github.com/shortdrama-cli/shortdrama/share"
	"github.com/shortdrama-cli/shortdrama/style"
)

// listItem adapts videos, labels and share targets to list.Item.
type listItem struct {
	internal any
	marked   bool
	current  bool
}

func (t *listItem) getMark() string {
	switch t.internal.(type) {
	case *catalog.Video:
		return lipgloss.NewStyle().Bold(true).Foreground(style.AccentColor).Render(icon.Get(icon.Saved))
	default:
		return icon.Get(icon.Mark)
	}
}

func (t *listItem) Title() (title string) {
	switch e := t.internal.(type) {
	case *catalog.Video:
		title = e.Title
	case share.Target:
		title = e.String()
	default:
		title = t.FilterValue()
	}

	if t.current {
		title = fmt.Sprintf("%s %s", icon.Get(icon.Play), title)
	}

	if title != "" && t.marked {
		title = fmt.Sprintf("%s %s", title, t.getMark())
	}

	return
}

func (t *listItem) Description() string {
	e, ok := t.internal.(*catalog.Video)
	if !ok {
		return ""
	}

	var parts []string
	if e.CollectionTitle != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(style.SecondaryColor).Render(e.CollectionTitle))
	}
	if n, ok := browse.EpisodeNumber(e.Title); ok {
		parts = append(parts, style.Faint("Ep "+strconv.Itoa(n)))
	}
	if runtime := e.Runtime(); runtime != "0:00" {
		parts = append(parts, style.Faint(runtime))
	}
	if e.Year > 0 {
		parts = append(parts, style.Faint(strconv.Itoa(e.Year)))
	}

	return strings.Join(parts, " • ")
}

func (t *listItem) FilterValue() string {
	switch e := t.internal.(type) {
	case *catalog.Video:
		return e.Title + " " + e.CollectionTitle
	case share.Target:
		return e.String()
	case string:
		return e
	default:
		return ""
	}
}

func videoItems(videos []*catalog.Video, marked func(id int) bool) []*listItem {
	items := make([]*listItem, len(videos))
	for i, v := range videos {
		items[i] = &listItem{internal: v, marked: marked(v.ID)}
	}
	return items
}
