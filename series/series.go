// Package series groups a flat episode list into collections and walks it episode by episode.
package series

import (
	"cmp"
	"errors"
	"math"

	"github.com/shortdrama-cli/shortdrama/catalog"
	"github.com/shortdrama-cli/shortdrama/key"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

// SwipeThreshold is the minimum horizontal drag that changes series.
const SwipeThreshold = 50.0

// ErrUnknownEpisode is returned by Select for ids that are not loaded.
var ErrUnknownEpisode = errors.New("episode is not part of the loaded list")

// WrapPolicy decides what follows the last episode of the last collection.
type WrapPolicy int

const (
	// Terminal stops at the end of the series order.
	Terminal WrapPolicy = iota
	// Wrap restarts at the first episode of the first collection.
	Wrap
)

func (p WrapPolicy) String() string {
	if p == Wrap {
		return "wrap"
	}
	return "terminal"
}

// PolicyFromConfig reads the policy from the player.wrap_around setting.
func PolicyFromConfig() WrapPolicy {
	if viper.GetBool(key.PlayerWrapAround) {
		return Wrap
	}
	return Terminal
}

// Collection is a derived series: every video sharing a collection title, ordered by display order.
type Collection struct {
	Title    string
	Episodes []*catalog.Video
}

// Group buckets videos by collection title. Collections keep the order in which
// their title first appears; episodes are stable-sorted by display order.
func Group(videos []*catalog.Video) []*Collection {
	var collections []*Collection
	index := make(map[string]*Collection)

	for _, v := range videos {
		if v == nil {
			continue
		}

		c, ok := index[v.CollectionTitle]
		if !ok {
			c = &Collection{Title: v.CollectionTitle}
			index[v.CollectionTitle] = c
			collections = append(collections, c)
		}
		c.Episodes = append(c.Episodes, v)
	}

	for _, c := range collections {
		slices.SortStableFunc(c.Episodes, func(a, b *catalog.Video) int {
			return cmp.Compare(a.DisplayOrder, b.DisplayOrder)
		})
	}

	return collections
}

// Order returns every episode in the order a Sequencer walks them: collection by collection.
func Order(videos []*catalog.Video) []*catalog.Video {
	var order []*catalog.Video
	for _, c := range Group(videos) {
		order = append(order, c.Episodes...)
	}
	return order
}

// Sequencer tracks the current position inside a grouped episode list.
// It is not safe for concurrent use.
type Sequencer struct {
	policy      WrapPolicy
	videos      []*catalog.Video
	collections []*Collection
	byTitle     map[string]int

	series  int
	episode int
	started bool
}

// New groups videos and positions the cursor on the first episode of the first collection.
func New(videos []*catalog.Video, policy WrapPolicy) *Sequencer {
	s := &Sequencer{
		policy:      policy,
		videos:      videos,
		collections: Group(videos),
		byTitle:     make(map[string]int),
	}

	for i, c := range s.collections {
		s.byTitle[c.Title] = i
	}

	return s
}

// Policy returns the end-of-order policy.
func (s *Sequencer) Policy() WrapPolicy {
	return s.policy
}

// Len returns the number of loaded videos.
func (s *Sequencer) Len() int {
	return len(s.videos)
}

// Collections returns the series order.
func (s *Sequencer) Collections() []*Collection {
	return s.collections
}

// Collection returns the collection of the current episode.
func (s *Sequencer) Collection() *Collection {
	if len(s.collections) == 0 {
		return nil
	}
	return s.collections[s.series]
}

// Current returns the current episode, or nil when nothing is loaded.
func (s *Sequencer) Current() *catalog.Video {
	c := s.Collection()
	if c == nil || len(c.Episodes) == 0 {
		return nil
	}
	return c.Episodes[s.episode]
}

// Position returns zero-based indices of the current series and episode.
func (s *Sequencer) Position() (series, episode int) {
	return s.series, s.episode
}

func (s *Sequencer) next() (series, episode int, ok bool) {
	if len(s.collections) == 0 {
		return 0, 0, false
	}

	if s.episode+1 < len(s.collections[s.series].Episodes) {
		return s.series, s.episode + 1, true
	}

	if s.series+1 < len(s.collections) {
		return s.series + 1, 0, true
	}

	if s.policy == Wrap {
		return 0, 0, true
	}

	return 0, 0, false
}

func (s *Sequencer) prev() (series, episode int, ok bool) {
	if len(s.collections) == 0 {
		return 0, 0, false
	}

	if s.episode > 0 {
		return s.series, s.episode - 1, true
	}

	if s.series > 0 {
		previous := s.series - 1
		return previous, len(s.collections[previous].Episodes) - 1, true
	}

	if s.policy == Wrap {
		last := len(s.collections) - 1
		return last, len(s.collections[last].Episodes) - 1, true
	}

	return 0, 0, false
}

// Next returns the video that follows the current one without moving.
func (s *Sequencer) Next() (*catalog.Video, bool) {
	series, episode, ok := s.next()
	if !ok {
		return nil, false
	}
	return s.collections[series].Episodes[episode], true
}

// Prev returns the video before the current one without moving.
func (s *Sequencer) Prev() (*catalog.Video, bool) {
	series, episode, ok := s.prev()
	if !ok {
		return nil, false
	}
	return s.collections[series].Episodes[episode], true
}

// Advance moves to Next and reports whether it moved.
func (s *Sequencer) Advance() bool {
	series, episode, ok := s.next()
	if !ok {
		return false
	}
	s.move(series, episode)
	return true
}

// Back moves to Prev and reports whether it moved.
func (s *Sequencer) Back() bool {
	series, episode, ok := s.prev()
	if !ok {
		return false
	}
	s.move(series, episode)
	return true
}

// Swipe handles a horizontal drag of dx. A leftward drag (negative dx) jumps to the
// first episode of the following collection, a rightward one to the previous collection.
// Drags shorter than SwipeThreshold and drags past either end are ignored.
func (s *Sequencer) Swipe(dx float64) bool {
	if math.Abs(dx) < SwipeThreshold || len(s.collections) == 0 {
		return false
	}

	target := s.series + 1
	if dx > 0 {
		target = s.series - 1
	}

	if target < 0 || target >= len(s.collections) {
		return false
	}

	s.move(target, 0)
	return true
}

// Select jumps directly to the episode with the given id.
// It reports changed=false when that episode is already current.
func (s *Sequencer) Select(id int) (changed bool, err error) {
	series, episode, ok := s.locate(id)
	if !ok {
		return false, ErrUnknownEpisode
	}

	if series == s.series && episode == s.episode {
		return false, nil
	}

	s.move(series, episode)
	return true, nil
}

// Focus positions the cursor on id without counting as a transition.
// It reports whether the id was found.
func (s *Sequencer) Focus(id int) bool {
	series, episode, ok := s.locate(id)
	if !ok {
		return false
	}

	if series != s.series || episode != s.episode {
		s.move(series, episode)
	}
	return true
}

func (s *Sequencer) locate(id int) (series, episode int, ok bool) {
	for i, c := range s.collections {
		for j, v := range c.Episodes {
			if v.ID == id {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

func (s *Sequencer) move(series, episode int) {
	s.series = series
	s.episode = episode
	s.started = false
}

// MarkStarted returns true the first time it is called for the current episode.
// Every transition resets it.
func (s *Sequencer) MarkStarted() bool {
	if s.started || s.Current() == nil {
		return false
	}
	s.started = true
	return true
}

// Started reports whether playback of the current episode has begun.
func (s *Sequencer) Started() bool {
	return s.started
}

// CollectionOf returns the collection that holds title, if loaded.
func (s *Sequencer) CollectionOf(title string) (*Collection, bool) {
	i, ok := s.byTitle[title]
	if !ok {
		return nil, false
	}
	return s.collections[i], true
}
