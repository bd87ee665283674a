package library

import (
	"github.com/shortdrama-cli/shortdrama/catalog"
	"github.com/shortdrama-cli/shortdrama/where"
)

// Saved is the user's list of bookmarked videos, keyed by content id, in insertion order.
type Saved struct {
	list *list
}

// NewSaved opens the saved list stored at path.
func NewSaved(path string) *Saved {
	return &Saved{list: newList("saved videos", path)}
}

// DefaultSaved opens the saved list in the config directory.
func DefaultSaved() *Saved {
	return NewSaved(where.Saved())
}

// Add appends v unless a video with the same id is already saved.
func (s *Saved) Add(v *catalog.Video) error {
	l := s.list
	l.mu.Lock()
	defer l.mu.Unlock()
	l.load()

	if l.index(v.ID) >= 0 {
		return nil
	}

	l.videos = append(l.videos, v)
	return l.persist()
}

// Toggle saves v if absent and removes it otherwise. It reports whether v is saved afterwards.
func (s *Saved) Toggle(v *catalog.Video) (bool, error) {
	l := s.list
	l.mu.Lock()
	defer l.mu.Unlock()
	l.load()

	if i := l.index(v.ID); i >= 0 {
		l.videos = append(l.videos[:i:i], l.videos[i+1:]...)
		return false, l.persist()
	}

	l.videos = append(l.videos, v)
	return true, l.persist()
}

// Remove unsaves the video with the given id. Unknown ids are ignored.
func (s *Saved) Remove(id int) error { return s.list.remove(id) }

// Contains reports whether the video with the given id is saved.
func (s *Saved) Contains(id int) bool { return s.list.contains(id) }

// All returns a copy of the saved videos.
func (s *Saved) All() []*catalog.Video { return s.list.all() }

// Clear unsaves everything.
func (s *Saved) Clear() error { return s.list.clear() }
