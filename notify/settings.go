package notify

import (
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/shortdrama-cli/shortdrama/filesystem"
	"github.com/shortdrama-cli/shortdrama/log"
	"github.com/shortdrama-cli/shortdrama/where"
)

// Settings is the persisted notification preference.
type Settings struct {
	Enabled              bool  `json:"enabled"`
	LastNotificationTime int64 `json:"lastNotificationTime,omitempty"`
}

// Last returns the time of the last delivered notification, if any.
func (s Settings) Last() (time.Time, bool) {
	if s.LastNotificationTime == 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(s.LastNotificationTime), true
}

// Store persists Settings. Unreadable data reads as disabled.
type Store struct {
	mu     sync.Mutex
	cacher *gache.Cache[*Settings]
}

// NewStore opens the settings file at path.
func NewStore(path string) *Store {
	return &Store{
		cacher: gache.New[*Settings](&gache.Options{
			Path:       path,
			FileSystem: &filesystem.GacheFs{},
		}),
	}
}

// DefaultStore opens the settings file in the config directory.
func DefaultStore() *Store {
	return NewStore(where.Notifications())
}

// Load returns the stored settings.
func (s *Store) Load() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() Settings {
	settings, expired, err := s.cacher.Get()
	if err != nil {
		log.Warnf("notification settings unreadable, treating as disabled: %v", err)
		return Settings{}
	}

	if expired || settings == nil {
		return Settings{}
	}

	return *settings
}

func (s *Store) save(settings Settings) error {
	return s.cacher.Set(&settings)
}

// Enable turns notifications on and stamps the current time.
func (s *Store) Enable(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(Settings{Enabled: true, LastNotificationTime: now.UnixMilli()})
}

// Disable turns notifications off.
func (s *Store) Disable() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(Settings{Enabled: false})
}

// Touch records a delivery at now, keeping the enabled flag.
func (s *Store) Touch(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := s.load()
	settings.LastNotificationTime = now.UnixMilli()
	return s.save(settings)
}
