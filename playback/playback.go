// Package playback owns the single live player of a video page and drives it from the episode sequencer.
package playback

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shortdrama-cli/shortdrama/catalog"
	"github.com/shortdrama-cli/shortdrama/key"
	"github.com/shortdrama-cli/shortdrama/log"
	"github.com/shortdrama-cli/shortdrama/notify"
	"github.com/shortdrama-cli/shortdrama/player"
	"github.com/shortdrama-cli/shortdrama/series"
	"github.com/spf13/viper"
)

var (
	// ErrClosed is returned by operations on a closed session.
	ErrClosed = errors.New("playback session closed")

	// ErrNotPlaying is returned by player controls while no player is live.
	ErrNotPlaying = errors.New("nothing is playing")
)

// Kind describes an Update.
type Kind int

const (
	Loading Kind = iota
	Ready
	Playing
	Paused
	Completed
	// Ended means the sequence has no next video under the current policy.
	Ended
	Failed
	Exited
)

func (k Kind) String() string {
	switch k {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Completed:
		return "completed"
	case Ended:
		return "ended"
	case Failed:
		return "failed"
	case Exited:
		return "exited"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Update reports a state change for the video identified by Token.
// Tokens change on every load, so consumers can drop updates from a previous video.
type Update struct {
	Token uuid.UUID
	Kind  Kind
	Video *catalog.Video
	Err   error
}

// Recorder stores watched videos.
type Recorder interface {
	Add(v *catalog.Video) error
}

// Notifier publishes notifications.
type Notifier interface {
	Publish(n notify.Notification)
}

// Tracker records content consumption.
type Tracker interface {
	ContentConsumption(v *catalog.Video)
}

// Source lists the catalog videos that make up the episode order.
type Source interface {
	Videos(ctx context.Context, rubricID string) (*catalog.Page, error)
}

// Options configures a Session. Zero values fall back to the player defaults.
type Options struct {
	Factory       player.Factory
	Probe         func() bool
	History       Recorder
	Notifier      Notifier
	Tracker       Tracker
	Policy        series.WrapPolicy
	Autoplay      bool
	AutoplayDelay time.Duration
	PollInterval  time.Duration
	PollAttempts  int
	Quality       string
}

// DefaultOptions builds options from the configuration with the mpv backend.
func DefaultOptions() Options {
	return Options{
		Factory:       func() player.Player { return player.NewMPV(player.Binary()) },
		Probe:         player.Installed,
		Policy:        series.PolicyFromConfig(),
		Autoplay:      viper.GetBool(key.PlayerAutoplay),
		AutoplayDelay: time.Duration(viper.GetInt(key.PlayerAutoplayDelay)) * time.Millisecond,
		Quality:       player.DefaultQuality(),
	}
}

// Session is the playback state of one video page.
type Session struct {
	opts    Options
	updates chan Update

	mu          sync.Mutex
	seq         *series.Sequencer
	token       uuid.UUID
	current     player.Player
	retired     chan struct{}
	cancel      context.CancelFunc
	autoplay    *time.Timer
	quality     string
	episodesErr error
	closed      bool
	closeOnce   sync.Once
}

// New returns a session over seq. Nothing plays until Play is called.
func New(seq *series.Sequencer, opts Options) *Session {
	if opts.PollInterval <= 0 {
		opts.PollInterval = player.PollInterval
	}
	if opts.PollAttempts <= 0 {
		opts.PollAttempts = player.PollAttempts
	}

	return &Session{
		opts:    opts,
		seq:     seq,
		updates: make(chan Update, 64),
		quality: player.NormalizeQuality(opts.Quality),
	}
}

// Open resolves the episode order around v and positions the session on it.
// A failed episode fetch still yields a session that plays v alone; the failure
// is kept for EpisodesErr.
func Open(ctx context.Context, src Source, v *catalog.Video, opts Options) *Session {
	page, err := src.Videos(ctx, "")
	if err != nil {
		log.Warnf("episodes for %q: %v", v.CollectionTitle, err)

		s := New(series.New([]*catalog.Video{v}, opts.Policy), opts)
		s.episodesErr = err
		return s
	}

	seq := series.New(page.Videos, opts.Policy)
	if !seq.Focus(v.ID) {
		seq = series.New(append(append([]*catalog.Video{}, page.Videos...), v), opts.Policy)
		seq.Focus(v.ID)
	}

	return New(seq, opts)
}

// Updates delivers state changes until the session is closed.
func (s *Session) Updates() <-chan Update {
	return s.updates
}

// Token identifies the currently loaded video.
func (s *Session) Token() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Current returns the video under the cursor.
func (s *Session) Current() *catalog.Video {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq.Current()
}

// Collection returns the series of the current video.
func (s *Session) Collection() *series.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq.Collection()
}

// Collections returns every loaded series.
func (s *Session) Collections() []*series.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq.Collections()
}

// Position returns the zero-based series and episode indices.
func (s *Session) Position() (series, episode int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq.Position()
}

// EpisodesErr returns the error of the episode list fetch, if any.
func (s *Session) EpisodesErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.episodesErr
}

// Quality returns the selected quality label.
func (s *Session) Quality() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quality
}

// SetQuality changes the quality label. The stream itself is not switched.
func (s *Session) SetQuality(label string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quality = player.NormalizeQuality(label)
	return s.quality
}

// Play (re)loads the current video.
func (s *Session) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playLocked()
}

// Next moves to the following video and plays it.
// It reports false when the sequence has no next video.
func (s *Session) Next() (bool, error) {
	return s.step(s.seq.Advance)
}

// Prev moves to the previous video and plays it.
func (s *Session) Prev() (bool, error) {
	return s.step(s.seq.Back)
}

// Swipe changes series by a horizontal drag of dx.
func (s *Session) Swipe(dx float64) (bool, error) {
	return s.step(func() bool { return s.seq.Swipe(dx) })
}

// Select jumps to the episode with the given id. Selecting the current video does nothing.
func (s *Session) Select(id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, ErrClosed
	}

	changed, err := s.seq.Select(id)
	if err != nil || !changed {
		return false, err
	}

	return true, s.playLocked()
}

func (s *Session) step(move func() bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, ErrClosed
	}

	if !move() {
		return false, nil
	}

	return true, s.playLocked()
}

// TogglePause pauses or resumes the live player.
func (s *Session) TogglePause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return ErrNotPlaying
	}
	return s.current.TogglePause()
}

// Close tears down the live player and ends Updates. It returns once the player
// has exited and is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.teardownLocked()
		retired := s.retired
		close(s.updates)
		s.mu.Unlock()

		if retired != nil {
			<-retired
		}
	})
}

func (s *Session) playLocked() error {
	if s.closed {
		return ErrClosed
	}

	s.teardownLocked()

	v := s.seq.Current()
	if v == nil {
		s.emitLocked(Update{Kind: Ended})
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.token = uuid.New()
	s.cancel = cancel

	log.WithFields(log.Fields{"video": v.ID, "token": s.token.String()}).Info("loading video")
	s.emitLocked(Update{Token: s.token, Kind: Loading, Video: v})

	go s.run(ctx, s.token, v, s.retired)
	return nil
}

// teardownLocked cancels any pending load and detaches the previous player.
// The player is closed in the background; retired is closed once it has exited.
func (s *Session) teardownLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	if s.autoplay != nil {
		s.autoplay.Stop()
		s.autoplay = nil
	}

	if s.current != nil {
		old, done := s.current, make(chan struct{})
		s.current, s.retired = nil, done

		go func() {
			defer close(done)
			if err := old.Close(); err != nil {
				log.Warnf("closing player: %v", err)
			}
		}()
	}
}

func (s *Session) run(ctx context.Context, token uuid.UUID, v *catalog.Video, retired <-chan struct{}) {
	if s.opts.Probe != nil {
		if err := player.Await(ctx, s.opts.Probe, s.opts.PollInterval, s.opts.PollAttempts); err != nil {
			if ctx.Err() == nil {
				s.report(token, Update{Kind: Failed, Err: err})
			}
			return
		}
	}

	// the previous player must be gone before the next one starts
	if retired != nil {
		select {
		case <-retired:
		case <-ctx.Done():
			return
		}
	}

	p := s.opts.Factory()

	s.mu.Lock()
	if s.closed || token != s.token {
		s.mu.Unlock()
		_ = p.Close()
		return
	}
	s.current = p
	s.mu.Unlock()

	if err := p.Load(ctx, player.Media{URL: v.DeliveryURL(), Title: v.Title, Cover: v.CoverURL()}); err != nil {
		if ctx.Err() == nil {
			s.report(token, Update{Kind: Failed, Err: err})
		}
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-p.Events():
			if !ok {
				return
			}
			s.handle(token, v, event)
		}
	}
}

func (s *Session) handle(token uuid.UUID, v *catalog.Video, event player.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || token != s.token {
		return
	}

	switch event.Kind {
	case player.EventReady:
		s.emitLocked(Update{Token: token, Kind: Ready, Video: v})
	case player.EventPlay:
		s.emitLocked(Update{Token: token, Kind: Playing, Video: v})
		if s.seq.MarkStarted() {
			s.firstPlay(v)
		}
	case player.EventPause:
		s.emitLocked(Update{Token: token, Kind: Paused, Video: v})
	case player.EventComplete:
		s.emitLocked(Update{Token: token, Kind: Completed, Video: v})
		if s.opts.Autoplay {
			s.autoplay = time.AfterFunc(s.opts.AutoplayDelay, func() { s.advance(token) })
		}
	case player.EventError:
		s.emitLocked(Update{Token: token, Kind: Failed, Video: v, Err: event.Err})
	case player.EventExit:
		s.emitLocked(Update{Token: token, Kind: Exited, Video: v})
	}
}

func (s *Session) firstPlay(v *catalog.Video) {
	if s.opts.History != nil {
		if err := s.opts.History.Add(v); err != nil {
			log.Warnf("recording history: %v", err)
		}
	}

	if s.opts.Notifier != nil {
		s.opts.Notifier.Publish(notify.NowWatching(v))
	}

	if s.opts.Tracker != nil {
		s.opts.Tracker.ContentConsumption(v)
	}
}

func (s *Session) advance(token uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || token != s.token {
		return
	}

	if !s.seq.Advance() {
		s.teardownLocked()
		s.emitLocked(Update{Token: token, Kind: Ended, Video: s.seq.Current()})
		return
	}

	if err := s.playLocked(); err != nil {
		log.Warnf("autoplay: %v", err)
	}
}

func (s *Session) report(token uuid.UUID, u Update) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || token != s.token {
		return
	}

	u.Token = token
	if u.Video == nil {
		u.Video = s.seq.Current()
	}
	s.emitLocked(u)
}

func (s *Session) emitLocked(u Update) {
	if s.closed {
		return
	}

	select {
	case s.updates <- u:
	default:
		log.Warnf("playback update %s dropped", u.Kind)
	}
}
