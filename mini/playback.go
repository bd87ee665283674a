package mini

import (
	"fmt"
	"sync"

	"github.com/samber/lo"
	"github.com/shortdrama-cli/shortdrama/catalog"
	"github.com/shortdrama-cli/shortdrama/log"
	"github.com/shortdrama-cli/shortdrama/playback"
	"github.com/shortdrama-cli/shortdrama/series"
	"github.com/shortdrama-cli/shortdrama/share"
)

const swipe = series.SwipeThreshold

// latest keeps the most recent update of a playback session.
type latest struct {
	mu     sync.Mutex
	update playback.Update
	ok     bool
}

func newLatest(s *playback.Session) *latest {
	l := &latest{}
	go func() {
		for u := range s.Updates() {
			l.mu.Lock()
			l.update, l.ok = u, true
			l.mu.Unlock()
		}
	}()
	return l
}

func (l *latest) get() (playback.Update, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.update, l.ok
}

// report prints the outcome of a navigation; edge is shown when there was nowhere to go.
func report(moved bool, err error) func(edge string) {
	return func(edge string) {
		switch {
		case err != nil:
			fail(err.Error())
		case !moved:
			fail(edge)
		}
	}
}

func (m *mini) selectEpisode(s *playback.Session) error {
	c := s.Collection()
	if c == nil {
		fail("No episodes")
		return nil
	}

	b, v, err := menu(c.Title, lo.Map(c.Episodes, func(v *catalog.Video, _ int) labeled { return labeled{v} }), back)
	if err != nil {
		return err
	}
	if b != nil {
		return nil
	}

	if _, err := s.Select(v.ID); err != nil {
		fail(err.Error())
	}
	return nil
}

func (m *mini) toggleSaved(v *catalog.Video) {
	added, err := m.saved.Toggle(v)
	if err != nil {
		log.Error(err)
		fail("Could not update My List")
		return
	}

	if added {
		m.journal.UserInteraction("save")
		succeed("Added to My List")
		return
	}

	m.journal.UserInteraction("unsave")
	succeed("Removed from My List")
}

func (m *mini) share(v *catalog.Video) error {
	b, target, err := menu("Share "+v.Title, share.Targets, back)
	if err != nil {
		return err
	}
	if b != nil {
		return nil
	}

	address, err := share.Default(v).Open(target)
	m.journal.UserInteraction("share_" + target.String())
	if err != nil {
		fail("Could not open the browser")
	}

	fmt.Println(address)
	return nil
}
