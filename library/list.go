// Package library keeps the user's saved videos and watch history on disk.
package library

import (
	"sync"

	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/shortdrama-cli/shortdrama/catalog"
	"github.com/shortdrama-cli/shortdrama/filesystem"
	"github.com/shortdrama-cli/shortdrama/log"
)

// list is a persisted array of videos. The file is read on first access
// and rewritten in full on every mutation.
type list struct {
	cacher *gache.Cache[[]*catalog.Video]
	name   string

	mu     sync.Mutex
	loaded bool
	videos []*catalog.Video
}

func newList(name, path string) *list {
	return &list{
		name: name,
		cacher: gache.New[[]*catalog.Video](&gache.Options{
			Path:       path,
			FileSystem: &filesystem.GacheFs{},
		}),
	}
}

// load must be called with mu held.
func (l *list) load() {
	if l.loaded {
		return
	}
	l.loaded = true

	videos, expired, err := l.cacher.Get()
	if err != nil {
		log.Warnf("%s: unreadable store, starting empty: %v", l.name, err)
		l.videos = nil
		return
	}

	if expired {
		l.videos = nil
		return
	}

	l.videos = lo.Filter(videos, func(v *catalog.Video, _ int) bool {
		return v != nil
	})
}

// persist must be called with mu held.
func (l *list) persist() error {
	if l.videos == nil {
		l.videos = []*catalog.Video{}
	}
	return l.cacher.Set(l.videos)
}

func (l *list) index(id int) int {
	_, i, ok := lo.FindIndexOf(l.videos, func(v *catalog.Video) bool {
		return v.ID == id
	})
	if !ok {
		return -1
	}
	return i
}

func (l *list) contains(id int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.load()

	return l.index(id) >= 0
}

func (l *list) remove(id int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.load()

	i := l.index(id)
	if i < 0 {
		return nil
	}

	l.videos = append(l.videos[:i:i], l.videos[i+1:]...)
	return l.persist()
}

func (l *list) all() []*catalog.Video {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.load()

	out := make([]*catalog.Video, len(l.videos))
	copy(out, l.videos)
	return out
}

func (l *list) clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.load()

	l.videos = []*catalog.Video{}
	return l.persist()
}
