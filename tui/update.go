package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/samber/mo"
	"github.com/shortdrama-cli/shortdrama/catalog"
	"github.com/shortdrama-cli/shortdrama/internal/ui"
	"github.com/shortdrama-cli/shortdrama/log"
	"github.com/shortdrama-cli/shortdrama/notify"
	"github.com/shortdrama-cli/shortdrama/playback"
	"github.com/shortdrama-cli/shortdrama/search"
	"github.com/shortdrama-cli/shortdrama/series"
	"github.com/shortdrama-cli/shortdrama/session"
	"github.com/shortdrama-cli/shortdrama/share"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// toasts and their expiry
	if cmd := b.notifier.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	batch := func(more ...tea.Cmd) tea.Cmd {
		return tea.Batch(append(cmds, more...)...)
	}

	switch msg := msg.(type) {
	case notify.Notification:
		return b, batch(b.waitForNotification())
	case ui.ExpireMsg:
		return b, batch()
	case spinner.TickMsg:
		if !b.loading {
			return b, batch()
		}
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		return b, batch(cmd)
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		return b, batch()
	case restoredMsg:
		return b, batch(b.onRestored(msg))
	case loggedInMsg:
		return b, batch(b.onLoggedIn(msg))
	case rubricsMsg:
		if msg.err != nil {
			b.showBanner("Failed to load categories", msg.err)
		}
		b.rubrics = msg.rubrics
		return b, batch()
	case gridMsg:
		return b, batch(b.onGrid(msg))
	case feedMsg:
		b.stopLoading()
		b.feed, b.feedIndex = msg.videos, 0
		if msg.err != nil {
			b.showBanner("Failed to load the feed", msg.err)
		}
		return b, batch()
	case search.Result:
		return b, batch(b.onSearchResult(msg), b.waitForSearch())
	case openedMsg:
		return b, batch(b.onOpened(msg))
	case playbackMsg:
		return b, batch(b.onPlayback(msg))
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}
	}

	var cmd tea.Cmd
	switch b.state {
	case errorState:
		cmd = b.updateError(msg)
	case loginState:
		cmd = b.updateLogin(msg)
	case homeState:
		cmd = b.updateHome(msg)
	case searchState:
		cmd = b.updateSearch(msg)
	case feedState:
		cmd = b.updateFeed(msg)
	case playerState:
		cmd = b.updatePlayer(msg)
	case episodesState:
		cmd = b.updateEpisodes(msg)
	case qualityState:
		cmd = b.updateQuality(msg)
	case shareState:
		cmd = b.updateShare(msg)
	case myListState:
		cmd = b.updateMyList(msg)
	case profileState:
		cmd = b.updateProfile(msg)
	}

	return b, batch(cmd)
}

func (b *statefulBubble) onRestored(msg restoredMsg) tea.Cmd {
	b.stopLoading()

	switch {
	case msg.err == nil:
		return b.enter(msg.sess, msg.user)
	case errors.Is(msg.err, session.ErrNoSession):
		b.resetTo(loginState)
		return b.focusLogin()
	case errors.Is(msg.err, session.ErrExpired):
		b.loginErr = loginMessage(msg.err)
		b.resetTo(loginState)
		return b.focusLogin()
	default:
		b.raiseError(msg.err)
		return nil
	}
}

func (b *statefulBubble) onLoggedIn(msg loggedInMsg) tea.Cmd {
	b.stopLoading()

	if msg.err != nil {
		log.Warnf("login: %v", msg.err)
		b.loginErr = loginMessage(msg.err)
		b.passwordC.SetValue("")
		return nil
	}

	b.loginErr = ""
	b.loginC.Blur()
	b.passwordC.Blur()
	b.passwordC.SetValue("")
	return tea.Batch(b.enter(msg.sess, msg.user), toast("Welcome", greeting(msg.user)))
}

func (b *statefulBubble) onGrid(msg gridMsg) tea.Cmd {
	if msg.token != b.gridToken {
		return nil
	}

	b.stopLoading()

	if msg.err != nil {
		b.showBanner("Failed to load videos", msg.err)
		return b.gridC.SetItems(nil)
	}

	b.banner = ""
	b.gridC.Title = b.rubricTitle()
	cmd := b.setVideos(&b.gridC, msg.videos)
	b.gridC.ResetSelected()
	return cmd
}

func (b *statefulBubble) onSearchResult(r search.Result) tea.Cmd {
	if !b.debouncer.Current(r.Generation) {
		return nil
	}

	switch {
	case r.Cleared:
		b.banner = ""
		return b.resultsC.SetItems(nil)
	case errors.Is(r.Err, context.Canceled):
		return nil
	case r.Err != nil:
		b.showBanner("Search failed", r.Err)
		return b.resultsC.SetItems(nil)
	}

	b.banner = ""
	b.resultsC.Title = fmt.Sprintf("Results for %q", r.Term)
	if len(r.Videos) > 0 {
		go func(term string) {
			if err := b.services.queries.Remember(term, 1); err != nil {
				log.Warnf("remember query: %v", err)
			}
		}(r.Term)
	}

	return b.setVideos(&b.resultsC, r.Videos)
}

func (b *statefulBubble) onOpened(msg openedMsg) tea.Cmd {
	if msg.video != b.opening {
		msg.session.Close()
		return nil
	}

	b.stopLoading()
	b.playback = msg.session
	b.showBanner("Failed to load episodes", msg.session.EpisodesErr())

	if err := msg.session.Play(); err != nil {
		b.playerErr = err
	}

	return b.waitForPlayback(msg.session)
}

func (b *statefulBubble) onPlayback(msg playbackMsg) tea.Cmd {
	if msg.closed || msg.session != b.playback {
		return nil
	}

	u := msg.update
	if u.Token != uuid.Nil && u.Token != msg.session.Token() {
		return b.waitForPlayback(msg.session)
	}

	var cmd tea.Cmd
	b.playerStatus = u.Kind
	b.followFeed(u.Video)
	switch u.Kind {
	case playback.Loading:
		b.playerErr = nil
	case playback.Failed:
		b.playerErr = u.Err
	case playback.Ended:
		cmd = toast("You reached the last episode", "")
	}

	return tea.Batch(cmd, b.waitForPlayback(msg.session))
}

func selectedVideo(l *list.Model) *catalog.Video {
	item, ok := l.SelectedItem().(*listItem)
	if !ok {
		return nil
	}
	v, _ := item.internal.(*catalog.Video)
	return v
}

func (b *statefulBubble) rubricTitle() string {
	if b.rubricIndex == 0 || b.rubricIndex > len(b.rubrics) {
		return "All"
	}
	return b.rubrics[b.rubricIndex-1].Title
}

func (b *statefulBubble) updateError(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			if b.statesHistory.Len() == 0 {
				return tea.Quit
			}
			b.previousState()
		case bubblesKey.Matches(msg, b.keymap.quit):
			return tea.Quit
		}
	}
	return nil
}

func (b *statefulBubble) updateLogin(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.nextField):
			if b.loginC.Focused() {
				b.loginC.Blur()
				return b.passwordC.Focus()
			}
			return b.focusLogin()
		case bubblesKey.Matches(msg, b.keymap.confirm):
			if b.loading {
				return nil
			}

			login, password := strings.TrimSpace(b.loginC.Value()), b.passwordC.Value()
			if login == "" || password == "" {
				b.loginErr = "Enter your login and password"
				return nil
			}

			b.loginErr = ""
			return tea.Batch(b.startLoading("Logging in"), b.login(login, password))
		}
	}

	var loginCmd, passwordCmd tea.Cmd
	b.loginC, loginCmd = b.loginC.Update(msg)
	b.passwordC, passwordCmd = b.passwordC.Update(msg)
	return tea.Batch(loginCmd, passwordCmd)
}

func (b *statefulBubble) switchRubric(delta int) tea.Cmd {
	n := len(b.rubrics) + 1
	b.rubricIndex = ((b.rubricIndex+delta)%n + n) % n
	return tea.Batch(b.startLoading("Loading "+b.rubricTitle()), b.loadGrid())
}

func (b *statefulBubble) updateHome(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.nextRubric):
			return b.switchRubric(1)
		case bubblesKey.Matches(msg, b.keymap.prevRubric):
			return b.switchRubric(-1)
		case bubblesKey.Matches(msg, b.keymap.search):
			b.newState(searchState)
			return tea.Batch(b.inputC.Focus(), textinput.Blink)
		case bubblesKey.Matches(msg, b.keymap.feed):
			b.newState(feedState)
			if len(b.feed) == 0 {
				return tea.Batch(b.startLoading("Loading your feed"), b.loadFeed())
			}
			return nil
		case bubblesKey.Matches(msg, b.keymap.myList):
			b.newState(myListState)
			return b.loadMyList()
		case bubblesKey.Matches(msg, b.keymap.profile):
			b.newState(profileState)
			return b.loadHistory()
		case bubblesKey.Matches(msg, b.keymap.save):
			return b.toggleSaved(selectedVideo(&b.gridC))
		case bubblesKey.Matches(msg, b.keymap.play):
			if v := selectedVideo(&b.gridC); v != nil {
				return b.openVideo(v)
			}
			return nil
		}
	}

	var cmd tea.Cmd
	b.gridC, cmd = b.gridC.Update(msg)
	return cmd
}

func (b *statefulBubble) updateSearch(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			b.inputC.SetValue("")
			b.inputC.Blur()
			b.debouncer.Update("")
			b.searchSuggestion = mo.None[string]()
			b.banner = ""
			b.previousState()
			return nil
		case bubblesKey.Matches(msg, b.keymap.play):
			v := selectedVideo(&b.resultsC)
			if v == nil {
				return nil
			}
			go func(term string) {
				_ = b.services.queries.Remember(term, 2)
			}(b.inputC.Value())
			return b.openVideo(v)
		case bubblesKey.Matches(msg, b.keymap.acceptSearchSuggestion) && b.searchSuggestion.IsPresent():
			b.inputC.SetValue(b.searchSuggestion.MustGet())
			b.inputC.CursorEnd()
			b.searchSuggestion = mo.None[string]()
			b.debouncer.Update(b.inputC.Value())
			return nil
		case msg.Type == tea.KeyUp || msg.Type == tea.KeyDown:
			var cmd tea.Cmd
			b.resultsC, cmd = b.resultsC.Update(msg)
			return cmd
		}
	}

	previous := b.inputC.Value()

	var cmd tea.Cmd
	b.inputC, cmd = b.inputC.Update(msg)

	if value := b.inputC.Value(); value != previous {
		b.debouncer.Update(value)
		if strings.TrimSpace(value) == "" {
			b.searchSuggestion = mo.None[string]()
		} else {
			b.searchSuggestion = b.services.queries.Suggest(value)
		}
	}

	return cmd
}

func (b *statefulBubble) feedVideo() *catalog.Video {
	if b.feedIndex < 0 || b.feedIndex >= len(b.feed) {
		return nil
	}
	return b.feed[b.feedIndex]
}

func (b *statefulBubble) updateFeed(msg tea.Msg) tea.Cmd {
	msgKey, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch {
	case bubblesKey.Matches(msgKey, b.keymap.back):
		b.banner = ""
		b.previousState()
	case bubblesKey.Matches(msgKey, b.keymap.quit):
		return tea.Quit
	case bubblesKey.Matches(msgKey, b.keymap.up):
		if b.feedIndex > 0 {
			b.feedIndex--
		}
	case bubblesKey.Matches(msgKey, b.keymap.down):
		if b.feedIndex < len(b.feed)-1 {
			b.feedIndex++
		}
	case bubblesKey.Matches(msgKey, b.keymap.play):
		if v := b.feedVideo(); v != nil {
			return b.openFeed(v)
		}
	case bubblesKey.Matches(msgKey, b.keymap.save):
		return b.toggleSaved(b.feedVideo())
	case bubblesKey.Matches(msgKey, b.keymap.share):
		if v := b.feedVideo(); v != nil {
			b.newState(shareState)
			return b.loadShareTargets(v)
		}
	}

	return nil
}

// leavePlayer closes the session and returns to the screen the video was opened from.
func (b *statefulBubble) leavePlayer() tea.Cmd {
	b.closePlayback()
	b.stopLoading()
	b.banner = ""
	b.previousState()

	switch b.state {
	case searchState:
		return b.inputC.Focus()
	case myListState:
		return b.loadMyList()
	case profileState:
		return b.loadHistory()
	}
	return nil
}

func (b *statefulBubble) step(move func() (bool, error), edge string) tea.Cmd {
	moved, err := move()
	if err != nil {
		b.playerErr = err
		return nil
	}
	if !moved {
		return toast(edge, "")
	}
	return nil
}

func (b *statefulBubble) updatePlayer(msg tea.Msg) tea.Cmd {
	msgKey, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	if bubblesKey.Matches(msgKey, b.keymap.back) {
		return b.leavePlayer()
	}

	s := b.playback
	if s == nil {
		return nil
	}

	switch {
	case bubblesKey.Matches(msgKey, b.keymap.playPause):
		if err := s.TogglePause(); err != nil && !errors.Is(err, playback.ErrNotPlaying) {
			b.playerErr = err
		}
	case bubblesKey.Matches(msgKey, b.keymap.next):
		return b.step(s.Next, "This is the last episode")
	case bubblesKey.Matches(msgKey, b.keymap.prev):
		return b.step(s.Prev, "This is the first episode")
	case bubblesKey.Matches(msgKey, b.keymap.swipeNext):
		return b.step(func() (bool, error) { return s.Swipe(-series.SwipeThreshold) }, "This is the last series")
	case bubblesKey.Matches(msgKey, b.keymap.swipePrev):
		return b.step(func() (bool, error) { return s.Swipe(series.SwipeThreshold) }, "This is the first series")
	case bubblesKey.Matches(msgKey, b.keymap.replay):
		if err := s.Play(); err != nil {
			b.playerErr = err
		}
	case bubblesKey.Matches(msgKey, b.keymap.episodes):
		b.newState(episodesState)
		return b.loadEpisodes()
	case bubblesKey.Matches(msgKey, b.keymap.quality):
		b.newState(qualityState)
		return b.loadQualities()
	case bubblesKey.Matches(msgKey, b.keymap.share):
		if v := s.Current(); v != nil {
			b.newState(shareState)
			return b.loadShareTargets(v)
		}
	case bubblesKey.Matches(msgKey, b.keymap.save):
		return b.toggleSaved(s.Current())
	}

	return nil
}

func (b *statefulBubble) updateEpisodes(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			b.previousState()
			return nil
		case bubblesKey.Matches(msg, b.keymap.play):
			v := selectedVideo(&b.episodesC)
			b.previousState()
			if v == nil || b.playback == nil {
				return nil
			}
			if _, err := b.playback.Select(v.ID); err != nil {
				b.playerErr = err
			}
			return nil
		}
	}

	var cmd tea.Cmd
	b.episodesC, cmd = b.episodesC.Update(msg)
	return cmd
}

func (b *statefulBubble) updateQuality(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			b.previousState()
			return nil
		case bubblesKey.Matches(msg, b.keymap.confirm):
			b.previousState()
			item, ok := b.qualityC.SelectedItem().(*listItem)
			if !ok || b.playback == nil {
				return nil
			}
			label := b.playback.SetQuality(item.internal.(string))
			return toast("Quality set to "+label, "")
		}
	}

	var cmd tea.Cmd
	b.qualityC, cmd = b.qualityC.Update(msg)
	return cmd
}

func (b *statefulBubble) updateShare(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			b.previousState()
			return nil
		case bubblesKey.Matches(msg, b.keymap.confirm):
			b.previousState()
			item, ok := b.shareC.SelectedItem().(*listItem)
			if !ok {
				return nil
			}
			return b.shareTo(item.internal.(share.Target))
		}
	}

	var cmd tea.Cmd
	b.shareC, cmd = b.shareC.Update(msg)
	return cmd
}

func (b *statefulBubble) updateMyList(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			b.previousState()
			return nil
		case bubblesKey.Matches(msg, b.keymap.play):
			if v := selectedVideo(&b.myListC); v != nil {
				return b.openVideo(v)
			}
			return nil
		case bubblesKey.Matches(msg, b.keymap.remove):
			v := selectedVideo(&b.myListC)
			if v == nil {
				return nil
			}
			if err := b.services.saved.Remove(v.ID); err != nil {
				b.raiseError(err)
				return nil
			}
			b.refreshMarks()
			return tea.Batch(b.loadMyList(), toast("Removed from My List", v.Title))
		case bubblesKey.Matches(msg, b.keymap.share):
			if v := selectedVideo(&b.myListC); v != nil {
				b.newState(shareState)
				return b.loadShareTargets(v)
			}
			return nil
		}
	}

	var cmd tea.Cmd
	b.myListC, cmd = b.myListC.Update(msg)
	return cmd
}

func (b *statefulBubble) updateProfile(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			b.previousState()
			return nil
		case bubblesKey.Matches(msg, b.keymap.play):
			if v := selectedVideo(&b.historyC); v != nil {
				return b.openVideo(v)
			}
			return nil
		case bubblesKey.Matches(msg, b.keymap.remove):
			if v := selectedVideo(&b.historyC); v != nil {
				if err := b.services.history.Remove(v.ID); err != nil {
					b.raiseError(err)
					return nil
				}
			}
			return b.loadHistory()
		case bubblesKey.Matches(msg, b.keymap.clearHistory):
			if err := b.services.history.Clear(); err != nil {
				b.raiseError(err)
				return nil
			}
			return tea.Batch(b.loadHistory(), toast("Watch history cleared", ""))
		case bubblesKey.Matches(msg, b.keymap.toggleNotifications):
			return b.toggleNotifications()
		case bubblesKey.Matches(msg, b.keymap.logout):
			return b.logout()
		}
	}

	var cmd tea.Cmd
	b.historyC, cmd = b.historyC.Update(msg)
	return cmd
}
