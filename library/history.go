package library

import (
	"github.com/shortdrama-cli/shortdrama/catalog"
	"github.com/shortdrama-cli/shortdrama/where"
)

// History is the watch history, most recent first.
type History struct {
	list *list
}

// NewHistory opens the history stored at path.
func NewHistory(path string) *History {
	return &History{list: newList("watch history", path)}
}

// DefaultHistory opens the history in the config directory.
func DefaultHistory() *History {
	return NewHistory(where.History())
}

// Add moves v to the front, dropping any earlier entry with the same id.
func (h *History) Add(v *catalog.Video) error {
	l := h.list
	l.mu.Lock()
	defer l.mu.Unlock()
	l.load()

	if i := l.index(v.ID); i >= 0 {
		l.videos = append(l.videos[:i:i], l.videos[i+1:]...)
	}

	l.videos = append([]*catalog.Video{v}, l.videos...)
	return l.persist()
}

// Remove drops the entry with the given id.
func (h *History) Remove(id int) error { return h.list.remove(id) }

// Contains reports whether the video with the given id was watched.
func (h *History) Contains(id int) bool { return h.list.contains(id) }

// All returns a copy of the history, most recent first.
func (h *History) All() []*catalog.Video { return h.list.all() }

// Clear forgets every watched video.
func (h *History) Clear() error { return h.list.clear() }
