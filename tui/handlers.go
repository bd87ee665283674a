package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/shortdrama-cli/shortdrama/account"
	"github.com/shortdrama-cli/shortdrama/browse"
	"github.com/shortdrama-cli/shortdrama/catalog"
	"github.com/shortdrama-cli/shortdrama/constant"
	"github.com/shortdrama-cli/shortdrama/log"
	"github.com/shortdrama-cli/shortdrama/notify"
	"github.com/shortdrama-cli/shortdrama/playback"
	"github.com/shortdrama-cli/shortdrama/player"
	"github.com/shortdrama-cli/shortdrama/series"
	"github.com/shortdrama-cli/shortdrama/session"
	"github.com/shortdrama-cli/shortdrama/share"
)

type restoredMsg struct {
	sess *session.Session
	user *account.User
	err  error
}

type loggedInMsg struct {
	sess *session.Session
	user *account.User
	err  error
}

type rubricsMsg struct {
	rubrics []*catalog.Rubric
	err     error
}

type gridMsg struct {
	token  int
	videos []*catalog.Video
	err    error
}

type feedMsg struct {
	videos []*catalog.Video
	err    error
}

type openedMsg struct {
	session *playback.Session
	video   *catalog.Video
}

type playbackMsg struct {
	session *playback.Session
	update  playback.Update
	closed  bool
}

const requestTimeout = time.Minute

func (b *statefulBubble) restoreSession() tea.Cmd {
	return func() tea.Msg {
		sess, user, err := b.services.restorer.Restore(context.Background())
		return restoredMsg{sess: sess, user: user, err: err}
	}
}

func (b *statefulBubble) login(login, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		sess, user, err := session.Login(ctx, b.services.account, login, password)
		b.services.journal.Login("email", err == nil)
		return loggedInMsg{sess: sess, user: user, err: err}
	}
}

func (b *statefulBubble) loadRubrics() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		rubrics, err := b.services.catalog.Rubrics(ctx)
		return rubricsMsg{rubrics: browse.FilterRubrics(rubrics), err: err}
	}
}

// selectedRubric returns the id of the highlighted category, or "" for all videos.
func (b *statefulBubble) selectedRubric() string {
	if b.rubricIndex == 0 || b.rubricIndex > len(b.rubrics) {
		return ""
	}
	return b.rubrics[b.rubricIndex-1].ID
}

func (b *statefulBubble) loadGrid() tea.Cmd {
	b.gridToken++
	token, rubric := b.gridToken, b.selectedRubric()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		videos, err := browse.Grid(ctx, b.services.catalog, rubric)
		return gridMsg{token: token, videos: videos, err: err}
	}
}

func (b *statefulBubble) loadFeed() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		page, err := b.services.catalog.Videos(ctx, "")
		if err != nil {
			return feedMsg{err: err}
		}
		return feedMsg{videos: series.Order(page.Videos)}
	}
}

// openFeed plays the feed from v. Completed videos advance to the next feed entry.
func (b *statefulBubble) openFeed(v *catalog.Video) tea.Cmd {
	b.closePlayback()

	opts := b.services.playbackOptions()
	opts.Autoplay = true

	seq := series.New(b.feed, opts.Policy)
	seq.Focus(v.ID)

	s := playback.New(seq, opts)
	b.playback, b.feedPlayback = s, true
	b.playerStatus = playback.Loading
	b.newState(playerState)

	if err := s.Play(); err != nil {
		b.playerErr = err
	}
	return b.waitForPlayback(s)
}

// followFeed keeps the feed cursor on the video being played.
func (b *statefulBubble) followFeed(v *catalog.Video) {
	if !b.feedPlayback || v == nil {
		return
	}

	if _, i, ok := lo.FindIndexOf(b.feed, func(f *catalog.Video) bool { return f.ID == v.ID }); ok {
		b.feedIndex = i
	}
}

// openVideo switches to the player screen and resolves the episode order around v.
func (b *statefulBubble) openVideo(v *catalog.Video) tea.Cmd {
	b.closePlayback()
	b.opening = v
	b.playerStatus = playback.Loading
	b.newState(playerState)

	opts := b.services.playbackOptions()
	return tea.Batch(b.startLoading("Loading "+v.Title), func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		return openedMsg{session: playback.Open(ctx, b.services.catalog, v, opts), video: v}
	})
}

func (b *statefulBubble) waitForPlayback(s *playback.Session) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-s.Updates()
		return playbackMsg{session: s, update: update, closed: !ok}
	}
}

func (b *statefulBubble) waitForSearch() tea.Cmd {
	return func() tea.Msg {
		return <-b.searchResults
	}
}

func (b *statefulBubble) waitForNotification() tea.Cmd {
	return func() tea.Msg {
		n, ok := <-b.notifications
		if !ok {
			return nil
		}
		return n
	}
}

// toast shows a local message without going through the hub, so it never reaches the desktop.
func toast(title, body string) tea.Cmd {
	n := notify.New(title, body, "")
	return func() tea.Msg {
		return n
	}
}

func (b *statefulBubble) toggleSaved(v *catalog.Video) tea.Cmd {
	if v == nil {
		return nil
	}

	added, err := b.services.saved.Toggle(v)
	if err != nil {
		log.Error(err)
		return toast("Could not update My List", err.Error())
	}

	b.refreshMarks()

	if added {
		b.services.journal.UserInteraction("save")
		return toast("Added to My List", v.Title)
	}

	b.services.journal.UserInteraction("unsave")
	return toast("Removed from My List", v.Title)
}

// refreshMarks re-evaluates the saved marks of every visible video list.
func (b *statefulBubble) refreshMarks() {
	for _, l := range []*list.Model{&b.gridC, &b.resultsC, &b.episodesC, &b.historyC} {
		for _, item := range l.Items() {
			if it, ok := item.(*listItem); ok {
				if v, ok := it.internal.(*catalog.Video); ok {
					it.marked = b.services.saved.Contains(v.ID)
				}
			}
		}
	}
}

func (b *statefulBubble) setVideos(l *list.Model, videos []*catalog.Video) tea.Cmd {
	items := videoItems(videos, b.services.saved.Contains)
	return l.SetItems(lo.Map(items, func(item *listItem, _ int) list.Item { return item }))
}

func (b *statefulBubble) loadMyList() tea.Cmd {
	return b.setVideos(&b.myListC, b.services.saved.All())
}

func (b *statefulBubble) loadHistory() tea.Cmd {
	return b.setVideos(&b.historyC, b.services.history.All())
}

func (b *statefulBubble) loadEpisodes() tea.Cmd {
	if b.playback == nil {
		return nil
	}

	collection := b.playback.Collection()
	if collection == nil {
		return nil
	}

	current := b.playback.Current()
	items := videoItems(collection.Episodes, b.services.saved.Contains)
	selected := 0
	for i, item := range items {
		if item.internal.(*catalog.Video) == current {
			item.current = true
			selected = i
		}
	}

	b.episodesC.Title = collection.Title
	cmd := b.episodesC.SetItems(lo.Map(items, func(item *listItem, _ int) list.Item { return item }))
	b.episodesC.Select(selected)
	return cmd
}

func (b *statefulBubble) loadQualities() tea.Cmd {
	current := player.FallbackQuality
	if b.playback != nil {
		current = b.playback.Quality()
	}

	cmd := b.qualityC.SetItems(lo.Map(player.Qualities, func(q string, _ int) list.Item {
		return &listItem{internal: q, current: q == current}
	}))
	b.qualityC.Select(lo.IndexOf(player.Qualities, current))
	return cmd
}

func (b *statefulBubble) loadShareTargets(v *catalog.Video) tea.Cmd {
	b.shareVideo = v
	b.shareC.Title = "Share " + v.Title
	return b.shareC.SetItems(lo.Map(share.Targets, func(t share.Target, _ int) list.Item {
		return &listItem{internal: t}
	}))
}

func (b *statefulBubble) shareTo(target share.Target) tea.Cmd {
	if b.shareVideo == nil {
		return nil
	}

	address, err := share.Default(b.shareVideo).Open(target)
	b.services.journal.UserInteraction("share_" + target.String())
	if err != nil {
		return toast("Could not open the browser", address)
	}

	if target == share.Copy {
		return toast("Link ready to copy", address)
	}
	return toast("Shared on "+target.String(), b.shareVideo.Title)
}

func (b *statefulBubble) toggleNotifications() tea.Cmd {
	settings := b.services.settings.Load()

	if settings.Enabled {
		if err := b.services.settings.Disable(); err != nil {
			return toast("Could not update notifications", err.Error())
		}
		b.services.scheduler.Stop()
		return toast("Notifications disabled", "")
	}

	if err := b.services.settings.Enable(time.Now()); err != nil {
		return toast("Could not update notifications", err.Error())
	}

	if err := b.services.scheduler.Start(); err != nil {
		log.Warnf("notification scheduler: %v", err)
	}

	b.services.hub.Publish(notify.Enabled())
	return nil
}

func (b *statefulBubble) logout() tea.Cmd {
	b.closePlayback()

	if err := session.Clear(); err != nil {
		b.raiseError(err)
		return nil
	}

	b.services.journal.Logout("email")
	b.services.scheduler.Stop()
	b.sess, b.user = nil, nil
	b.loginC.SetValue("")
	b.passwordC.SetValue("")
	b.loginErr = ""
	b.resetTo(loginState)
	return b.focusLogin()
}

func (b *statefulBubble) focusLogin() tea.Cmd {
	b.passwordC.Blur()
	return b.loginC.Focus()
}

// loginMessage turns a login failure into the text shown under the form.
func loginMessage(err error) string {
	switch {
	case errors.Is(err, account.ErrInvalidCredentials):
		return "Invalid login or password"
	case errors.Is(err, session.ErrExpired):
		return "Your session has expired"
	default:
		return "Login failed: " + err.Error()
	}
}

func greeting(user *account.User) string {
	if user == nil {
		return constant.Brand
	}
	return "Hi " + user.DisplayName()
}

