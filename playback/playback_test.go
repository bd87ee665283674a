package playback

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shortdrama-cli/shortdrama/catalog"
	"github.com/shortdrama-cli/shortdrama/notify"
	"github.com/shortdrama-cli/shortdrama/player"
	"github.com/shortdrama-cli/shortdrama/series"
	. "github.com/smartystreets/goconvey/convey"
)

type fakePlayer struct {
	mu         sync.Mutex
	events     chan player.Event
	media      player.Media
	closed     bool
	toggles    int
	closeDelay time.Duration
}

func (f *fakePlayer) Load(_ context.Context, media player.Media) error {
	f.mu.Lock()
	f.media = media
	f.mu.Unlock()
	f.send(player.EventReady, nil)
	return nil
}

func (f *fakePlayer) Events() <-chan player.Event { return f.events }

func (f *fakePlayer) send(kind player.EventKind, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.events <- player.Event{Kind: kind, Err: err}
	}
}

func (f *fakePlayer) TogglePause() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toggles++
	return nil
}

func (f *fakePlayer) Seek(float64) error { return nil }

func (f *fakePlayer) Close() error {
	time.Sleep(f.closeDelay)

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.events)
	}
	return nil
}

func (f *fakePlayer) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

type factory struct {
	mu         sync.Mutex
	players    []*fakePlayer
	overlap    bool
	closeDelay time.Duration
}

func (f *factory) build() player.Player {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range f.players {
		if !p.isClosed() {
			f.overlap = true
		}
	}

	p := &fakePlayer{events: make(chan player.Event, 16), closeDelay: f.closeDelay}
	f.players = append(f.players, p)
	return p
}

func (f *factory) overlapped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.overlap
}

func (f *factory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.players)
}

func (f *factory) last() *fakePlayer {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.players[len(f.players)-1]
}

type recorder struct {
	mu  sync.Mutex
	ids []int
}

func (r *recorder) Add(v *catalog.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, v.ID)
	return nil
}

func (r *recorder) ContentConsumption(v *catalog.Video) { _ = r.Add(v) }

func (r *recorder) seen() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int{}, r.ids...)
}

type notifier struct {
	mu     sync.Mutex
	titles []string
}

func (n *notifier) Publish(msg notify.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.titles = append(n.titles, msg.Title)
}

func (n *notifier) seen() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string{}, n.titles...)
}

func episodes() []*catalog.Video {
	return []*catalog.Video{
		{ID: 1, Title: "A1", CollectionTitle: "A", DisplayOrder: 1},
		{ID: 2, Title: "A2", CollectionTitle: "A", DisplayOrder: 2},
		{ID: 3, Title: "B1", CollectionTitle: "B", DisplayOrder: 1},
	}
}

// waitFor reads updates until one of the given kind arrives.
func waitFor(updates <-chan Update, kind Kind) (Update, bool) {
	deadline := time.After(2 * time.Second)
	for {
		select {
		case u, ok := <-updates:
			if !ok {
				return Update{}, false
			}
			if u.Kind == kind {
				return u, true
			}
		case <-deadline:
			return Update{}, false
		}
	}
}

type fixture struct {
	session  *Session
	factory  *factory
	history  *recorder
	tracker  *recorder
	notifier *notifier
}

func newFixture(policy series.WrapPolicy) *fixture {
	f := &fixture{factory: &factory{}, history: &recorder{}, tracker: &recorder{}, notifier: &notifier{}}
	f.session = New(series.New(episodes(), policy), Options{
		Factory:       f.factory.build,
		Probe:         func() bool { return true },
		History:       f.history,
		Notifier:      f.notifier,
		Tracker:       f.tracker,
		Policy:        policy,
		Autoplay:      true,
		AutoplayDelay: time.Millisecond,
		PollInterval:  time.Millisecond,
	})
	return f
}

func TestSession(t *testing.T) {
	Convey("Given a session over [A1, A2, B1]", t, func() {
		f := newFixture(series.Terminal)
		s := f.session
		defer s.Close()

		So(s.Play(), ShouldBeNil)
		u, ok := waitFor(s.Updates(), Ready)
		So(ok, ShouldBeTrue)
		So(u.Video.ID, ShouldEqual, 1)
		So(u.Token, ShouldEqual, s.Token())

		Convey("The first play records history, notifies and tracks exactly once", func() {
			f.factory.last().send(player.EventPlay, nil)
			_, ok := waitFor(s.Updates(), Playing)
			So(ok, ShouldBeTrue)

			f.factory.last().send(player.EventPause, nil)
			_, ok = waitFor(s.Updates(), Paused)
			So(ok, ShouldBeTrue)

			f.factory.last().send(player.EventPlay, nil)
			_, ok = waitFor(s.Updates(), Playing)
			So(ok, ShouldBeTrue)

			So(f.history.seen(), ShouldResemble, []int{1})
			So(f.tracker.seen(), ShouldResemble, []int{1})
			So(f.notifier.seen(), ShouldResemble, []string{"Now Watching: A1"})
		})

		Convey("Completion autoplays the next episode after closing the old player", func() {
			first := f.factory.last()
			first.send(player.EventComplete, nil)

			_, ok := waitFor(s.Updates(), Completed)
			So(ok, ShouldBeTrue)

			u, ok := waitFor(s.Updates(), Ready)
			So(ok, ShouldBeTrue)
			So(u.Video.ID, ShouldEqual, 2)
			So(first.isClosed(), ShouldBeTrue)
			So(f.factory.overlapped(), ShouldBeFalse)
		})

		Convey("A player error stays inline", func() {
			f.factory.last().send(player.EventError, errors.New("file_error"))

			u, ok := waitFor(s.Updates(), Failed)
			So(ok, ShouldBeTrue)
			So(u.Err, ShouldNotBeNil)
			So(s.Current().ID, ShouldEqual, 1)
		})

		Convey("Manual navigation swaps players", func() {
			moved, err := s.Next()
			So(err, ShouldBeNil)
			So(moved, ShouldBeTrue)
			u, ok := waitFor(s.Updates(), Ready)
			So(ok, ShouldBeTrue)
			So(u.Video.ID, ShouldEqual, 2)

			moved, err = s.Swipe(-series.SwipeThreshold)
			So(err, ShouldBeNil)
			So(moved, ShouldBeTrue)
			u, ok = waitFor(s.Updates(), Ready)
			So(ok, ShouldBeTrue)
			So(u.Video.ID, ShouldEqual, 3)

			moved, err = s.Select(3)
			So(err, ShouldBeNil)
			So(moved, ShouldBeFalse)

			So(f.factory.overlapped(), ShouldBeFalse)
			So(f.factory.count(), ShouldEqual, 3)
		})

		Convey("Events from a replaced player are ignored", func() {
			old := f.factory.last()
			token := s.Token()

			_, err := s.Next()
			So(err, ShouldBeNil)
			_, ok := waitFor(s.Updates(), Ready)
			So(ok, ShouldBeTrue)

			s.handle(token, episodes()[0], player.Event{Kind: player.EventComplete})
			So(old.isClosed(), ShouldBeTrue)
			So(s.Current().ID, ShouldEqual, 2)
		})

		Convey("Pause toggles reach the live player", func() {
			So(s.TogglePause(), ShouldBeNil)
			So(f.factory.last().toggles, ShouldEqual, 1)
		})

		Convey("Quality is a label", func() {
			So(s.Quality(), ShouldEqual, player.FallbackQuality)
			So(s.SetQuality("1080p"), ShouldEqual, "1080p")
			So(s.Quality(), ShouldEqual, "1080p")
		})

		Convey("Close is idempotent and tears the player down", func() {
			p := f.factory.last()
			s.Close()
			s.Close()

			So(p.isClosed(), ShouldBeTrue)
			_, ok := <-s.Updates()
			So(ok, ShouldBeFalse)
			So(s.Play(), ShouldEqual, ErrClosed)
		})
	})

	Convey("Given a player that is slow to exit", t, func() {
		f := newFixture(series.Terminal)
		f.factory.closeDelay = 300 * time.Millisecond
		s := f.session
		defer s.Close()

		So(s.Play(), ShouldBeNil)
		_, ok := waitFor(s.Updates(), Ready)
		So(ok, ShouldBeTrue)
		old := f.factory.last()

		Convey("Stepping returns without waiting for it", func() {
			start := time.Now()
			moved, err := s.Next()
			So(err, ShouldBeNil)
			So(moved, ShouldBeTrue)
			So(time.Since(start), ShouldBeLessThan, 100*time.Millisecond)

			Convey("and the next player starts only after it has exited", func() {
				u, ok := waitFor(s.Updates(), Ready)
				So(ok, ShouldBeTrue)
				So(u.Video.ID, ShouldEqual, 2)
				So(old.isClosed(), ShouldBeTrue)
				So(f.factory.overlapped(), ShouldBeFalse)
			})
		})

		Convey("Close waits for it", func() {
			s.Close()
			So(old.isClosed(), ShouldBeTrue)
		})
	})

	Convey("At the end of the order", t, func() {
		Convey("Terminal stops", func() {
			f := newFixture(series.Terminal)
			defer f.session.Close()

			_, err := f.session.Select(3)
			So(err, ShouldBeNil)
			_, ok := waitFor(f.session.Updates(), Ready)
			So(ok, ShouldBeTrue)

			f.factory.last().send(player.EventComplete, nil)
			_, ok = waitFor(f.session.Updates(), Ended)
			So(ok, ShouldBeTrue)
			So(f.session.Current().ID, ShouldEqual, 3)
		})

		Convey("Wrap restarts from the first episode", func() {
			f := newFixture(series.Wrap)
			defer f.session.Close()

			_, err := f.session.Select(3)
			So(err, ShouldBeNil)
			_, ok := waitFor(f.session.Updates(), Ready)
			So(ok, ShouldBeTrue)

			f.factory.last().send(player.EventComplete, nil)
			_, ok = waitFor(f.session.Updates(), Completed)
			So(ok, ShouldBeTrue)
			u, ok := waitFor(f.session.Updates(), Ready)
			So(ok, ShouldBeTrue)
			So(u.Video.ID, ShouldEqual, 1)
		})
	})

	Convey("Given a player that never becomes available", t, func() {
		built := false
		s := New(series.New(episodes(), series.Terminal), Options{
			Factory:      func() player.Player { built = true; return nil },
			Probe:        func() bool { return false },
			PollInterval: time.Millisecond,
			PollAttempts: 3,
		})
		defer s.Close()

		So(s.Play(), ShouldBeNil)
		u, ok := waitFor(s.Updates(), Failed)
		So(ok, ShouldBeTrue)
		So(errors.Is(u.Err, player.ErrPlayerUnavailable), ShouldBeTrue)
		So(built, ShouldBeFalse)
	})
}

type source struct {
	videos []*catalog.Video
	err    error
}

func (s source) Videos(context.Context, string) (*catalog.Page, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &catalog.Page{Videos: s.videos}, nil
}

func TestOpen(t *testing.T) {
	Convey("Open", t, func() {
		Convey("Focuses the requested video", func() {
			s := Open(context.Background(), source{videos: episodes()}, episodes()[1], Options{})
			So(s.Current().ID, ShouldEqual, 2)
			So(s.EpisodesErr(), ShouldBeNil)
			So(len(s.Collections()), ShouldEqual, 2)
		})

		Convey("Adds a video missing from the list", func() {
			extra := &catalog.Video{ID: 9, Title: "C1", CollectionTitle: "C"}
			s := Open(context.Background(), source{videos: episodes()}, extra, Options{})
			So(s.Current().ID, ShouldEqual, 9)
		})

		Convey("Keeps the video when the episode list fails", func() {
			v := episodes()[0]
			s := Open(context.Background(), source{err: errors.New("offline")}, v, Options{})
			So(s.Current(), ShouldEqual, v)
			So(s.EpisodesErr(), ShouldNotBeNil)
			So(s.Collection().Episodes, ShouldHaveLength, 1)
		})
	})
}
