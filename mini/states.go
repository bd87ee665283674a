package mini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shortdrama-cli/shortdrama/account"
	"github.com/shortdrama-cli/shortdrama/browse"
	"github.com/shortdrama-cli/shortdrama/catalog"
	"github.com/shortdrama-cli/shortdrama/key"
	"github.com/shortdrama-cli/shortdrama/log"
	"github.com/shortdrama-cli/shortdrama/playback"
	"github.com/shortdrama-cli/shortdrama/session"
	"github.com/shortdrama-cli/shortdrama/style"
	"github.com/shortdrama-cli/shortdrama/util"
	"github.com/spf13/viper"
)

type state int

const (
	restoreState state = iota + 1
	loginState
	mainMenuState
	rubricSelectState
	searchState
	videoSelectState
	myListState
	historySelectState
	playState
	quitState
)

const requestTimeout = time.Minute

func (m *mini) handleRestoreState() error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	erase := progress("Checking your session..")
	_, user, err := session.NewRestorer(m.accounts).Restore(ctx)
	erase()

	switch {
	case err == nil:
		m.user = user
		succeed("Hi " + user.DisplayName())
		m.resetTo(mainMenuState)
		if m.startAtHistory {
			m.newState(historySelectState)
		}
		return nil
	case errors.Is(err, session.ErrNoSession):
		m.setState(loginState)
		return nil
	case errors.Is(err, session.ErrExpired):
		fail(err.Error())
		m.setState(loginState)
		return nil
	default:
		return err
	}
}

func (m *mini) handleLoginState() error {
	title("Log in")

	in, err := getInput("Email or phone number", func(s string) bool {
		return strings.TrimSpace(s) != ""
	})
	if err != nil {
		return err
	}

	password, err := getPassword("Password")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	erase := progress("Logging in..")
	_, user, err := session.Login(ctx, m.accounts, strings.TrimSpace(in.value), password)
	erase()

	m.journal.Login("email", err == nil)

	switch {
	case errors.Is(err, account.ErrInvalidCredentials):
		fail("Invalid login or password")
		return nil
	case err != nil:
		fail("Login failed: " + err.Error())
		return nil
	}

	m.user = user
	succeed("Hi " + user.DisplayName())
	m.resetTo(mainMenuState)
	return nil
}

func (m *mini) handleMainMenuState() error {
	b, err := actions("What would you like to watch?", categories, search, myList, history, logout, quit)
	if err != nil {
		return err
	}

	switch b {
	case categories:
		m.newState(rubricSelectState)
	case search:
		m.newState(searchState)
	case myList:
		m.newState(myListState)
	case history:
		m.newState(historySelectState)
	case logout:
		if err := session.Clear(); err != nil {
			return err
		}
		m.journal.Logout("email")
		m.user = nil
		succeed("Logged out")
		m.resetTo(loginState)
	case quit:
		m.newState(quitState)
	}

	return nil
}

func (m *mini) handleRubricSelectState() error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	rubrics := m.rubrics
	if rubrics == nil {
		erase := progress("Loading categories..")
		loaded, err := m.catalog.Rubrics(ctx)
		erase()

		rubrics = append([]*catalog.Rubric{{Title: "All"}}, browse.FilterRubrics(loaded)...)
		if err != nil {
			fail("Could not load categories: " + err.Error())
		} else {
			m.rubrics = rubrics
		}
	}

	b, rubric, err := menu("Categories", rubrics, back, quit)
	if err != nil {
		return err
	}

	switch b {
	case back:
		m.previousState()
		return nil
	case quit:
		m.newState(quitState)
		return nil
	}

	cacheKey := "rubric:" + rubric.ID
	if _, ok := m.cachedVideos[cacheKey]; !ok {
		erase := progress("Loading " + rubric.Title + "..")
		videos, err := browse.Grid(ctx, m.catalog, rubric.ID)
		erase()
		if err != nil {
			fail("Could not load videos: " + err.Error())
			return nil
		}
		m.cachedVideos[cacheKey] = videos
	}

	if len(m.cachedVideos[cacheKey]) == 0 {
		fail("Nothing to watch in " + rubric.Title)
		return nil
	}

	m.query = cacheKey
	m.newState(videoSelectState)
	return nil
}

func (m *mini) handleSearchState() error {
	title("Search")

	var term string
	prompt := searchPrompt(m.queries.SuggestMany)
	if err := askOne(prompt, &term); err != nil {
		return err
	}

	term = strings.TrimSpace(term)
	if term == "" {
		m.previousState()
		return nil
	}

	cacheKey := "search:" + strings.ToLower(term)
	if _, ok := m.cachedVideos[cacheKey]; !ok {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		erase := progress("Searching..")
		page, err := m.catalog.Search(ctx, term)
		erase()
		if err != nil {
			fail("Search failed: " + err.Error())
			return nil
		}

		limit := lo.Min([]int{len(page.Videos), viper.GetInt(key.MiniSearchLimit)})
		m.cachedVideos[cacheKey] = page.Videos[:limit]
	}

	if len(m.cachedVideos[cacheKey]) == 0 {
		fail("No search results found")
		return nil
	}

	if err := m.queries.Remember(term, 1); err != nil {
		log.Warnf("remember query: %v", err)
	}

	m.query = cacheKey
	m.newState(videoSelectState)
	return nil
}

func (m *mini) handleVideoSelectState() error {
	return m.pick("Videos", m.cachedVideos[m.query])
}

func (m *mini) handleMyListState() error {
	videos := m.saved.All()
	if len(videos) == 0 {
		fail("My List is empty")
		m.previousState()
		return nil
	}
	return m.pick("My List", videos)
}

func (m *mini) handleHistorySelectState() error {
	videos := m.history.All()
	if len(videos) == 0 {
		fail("Watch history is empty")
		m.previousState()
		return nil
	}
	return m.pick("Watch history", videos)
}

// pick shows videos and opens the chosen one.
func (m *mini) pick(message string, videos []*catalog.Video) error {
	b, v, err := menu(message, lo.Map(videos, func(v *catalog.Video, _ int) labeled { return labeled{v} }), back, quit)
	if err != nil {
		return err
	}

	switch b {
	case back:
		m.previousState()
		return nil
	case quit:
		m.newState(quitState)
		return nil
	}

	m.selectedVideo = v.Video
	m.newState(playState)
	return nil
}

// labeled shows a video with its series and runtime.
type labeled struct {
	*catalog.Video
}

func (l labeled) String() string {
	parts := []string{l.Title}
	if l.CollectionTitle != "" && l.CollectionTitle != l.Title {
		parts = append(parts, style.Faint(l.CollectionTitle))
	}
	if runtime := l.Runtime(); runtime != "0:00" {
		parts = append(parts, style.Faint(runtime))
	}
	return strings.Join(parts, " • ")
}

func (m *mini) handlePlayState() error {
	opts := playback.DefaultOptions()
	if viper.GetBool(key.HistorySaveOnPlay) {
		opts.History = m.history
	}
	opts.Tracker = m.journal

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	erase := progress("Loading episodes..")
	s := playback.Open(ctx, m.catalog, m.selectedVideo, opts)
	erase()
	cancel()
	defer s.Close()

	if err := s.EpisodesErr(); err != nil {
		fail("Could not load the episode list: " + err.Error())
	}

	latest := newLatest(s)

	if err := s.Play(); err != nil {
		fail(err.Error())
		m.previousState()
		return nil
	}

	shown := 0
	for {
		v := s.Current()
		if v.ID != shown {
			util.ClearScreen()
			shown = v.ID
		}

		fmt.Println()
		title("Now playing " + v.Title)
		if c := s.Collection(); c != nil {
			_, episode := s.Position()
			fmt.Println(style.Faint(fmt.Sprintf("%s • Episode %d/%d • %s", c.Title, episode+1, len(c.Episodes), s.Quality())))
		}
		if u, ok := latest.get(); ok && u.Token == s.Token() {
			if u.Kind == playback.Failed && u.Err != nil {
				fail(u.Err.Error())
			} else {
				fmt.Println(style.Faint(u.Kind.String()))
			}
		}

		b, err := actions("Playback", next, prev, nextSeries, prevSeries, episodes, pause, replay, save, shareLink, back, quit)
		if err != nil {
			return err
		}

		switch b {
		case next:
			report(s.Next())("This is the last episode")
		case prev:
			report(s.Prev())("This is the first episode")
		case nextSeries:
			report(s.Swipe(-swipe))("This is the last series")
		case prevSeries:
			report(s.Swipe(swipe))("This is the first series")
		case episodes:
			if err := m.selectEpisode(s); err != nil {
				return err
			}
		case pause:
			if err := s.TogglePause(); err != nil && !errors.Is(err, playback.ErrNotPlaying) {
				fail(err.Error())
			}
		case replay:
			if err := s.Play(); err != nil {
				fail(err.Error())
			}
		case save:
			m.toggleSaved(v)
		case shareLink:
			if err := m.share(v); err != nil {
				return err
			}
		case back:
			m.previousState()
			return nil
		case quit:
			m.newState(quitState)
			return nil
		}
	}
}
