package notify

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shortdrama-cli/shortdrama/key"
	"github.com/shortdrama-cli/shortdrama/log"
	"github.com/spf13/viper"
)

// Scheduler periodically publishes a random sample notification while notifications are enabled.
// It owns its timers; Stop cancels everything it started.
type Scheduler struct {
	hub        *Hub
	store      *Store
	firstDelay time.Duration
	schedule   string
	pick       func(n int) int
	now        func() time.Time

	mu      sync.Mutex
	cron    *cron.Cron
	first   *time.Timer
	running bool
}

// NewScheduler returns a stopped scheduler. schedule is a cron expression such as "@every 2m".
func NewScheduler(hub *Hub, store *Store, firstDelay time.Duration, schedule string) *Scheduler {
	return &Scheduler{
		hub:        hub,
		store:      store,
		firstDelay: firstDelay,
		schedule:   schedule,
		pick:       rand.IntN,
		now:        time.Now,
	}
}

// DefaultScheduler returns a scheduler configured from viper.
func DefaultScheduler(hub *Hub, store *Store) *Scheduler {
	return NewScheduler(
		hub,
		store,
		time.Duration(viper.GetInt(key.NotificationsFirstDelay))*time.Second,
		viper.GetString(key.NotificationsSchedule),
	)
}

// Start schedules the first notification after the initial delay and the
// recurring ones after that. It does nothing when notifications are disabled
// or the scheduler is already running.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running || !s.store.Load().Enabled {
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(s.schedule, s.send); err != nil {
		return fmt.Errorf("notification schedule %q: %w", s.schedule, err)
	}

	s.cron = c
	s.running = true
	s.first = time.AfterFunc(s.firstDelay, func() {
		s.send()

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.running && s.cron == c {
			c.Start()
		}
	})

	log.Infof("notification scheduler started (first in %s, then %s)", s.firstDelay, s.schedule)
	return nil
}

// Stop cancels pending and recurring notifications. It is safe to call at any time.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}

	s.running = false
	s.first.Stop()
	c := s.cron
	s.mu.Unlock()

	<-c.Stop().Done()
	log.Info("notification scheduler stopped")
}

// Running reports whether the scheduler is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) send() {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()

	if !running || !s.store.Load().Enabled {
		return
	}

	sample := Samples[s.pick(len(Samples))]
	s.hub.Publish(New(sample.Title, sample.Body, ""))

	if err := s.store.Touch(s.now()); err != nil {
		log.Warnf("saving notification time: %v", err)
	}
}
