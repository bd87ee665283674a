// Package mini implements a lightweight prompt interface for browsing and playing short videos.
package mini

import (
	"errors"

	"github.com/samber/lo"
	"github.com/shortdrama-cli/shortdrama/account"
	"github.com/shortdrama-cli/shortdrama/analytics"
	"github.com/shortdrama-cli/shortdrama/catalog"
	"github.com/shortdrama-cli/shortdrama/library"
	"github.com/shortdrama-cli/shortdrama/query"
	"github.com/shortdrama-cli/shortdrama/util"
)

var (
	truncateAt = 100
)

type Options struct {
	// History starts from the watch history instead of the main menu.
	History bool
}

type mini struct {
	width, height int

	state         state
	statesHistory util.Stack[state]

	catalog  *catalog.Client
	accounts *account.Client
	saved    *library.Saved
	history  *library.History
	journal  *analytics.Journal
	queries  *query.Memory

	user           *account.User
	startAtHistory bool

	rubrics       []*catalog.Rubric
	cachedVideos  map[string][]*catalog.Video
	query         string
	selectedVideo *catalog.Video
}

func newMini() *mini {
	accounts := account.Default()
	return &mini{
		statesHistory: util.Stack[state]{},
		catalog:       catalog.Default(),
		accounts:      accounts,
		saved:         library.DefaultSaved(),
		history:       library.DefaultHistory(),
		journal:       analytics.Default(),
		queries:       query.Default(),
		cachedVideos:  make(map[string][]*catalog.Video),
	}
}

func (m *mini) previousState() {
	if m.statesHistory.Len() > 0 {
		m.setState(m.statesHistory.Pop())
	}
}

func (m *mini) setState(s state) {
	m.state = s
}

func (m *mini) newState(s state) {
	if m.state == s {
		return
	}

	if !lo.Contains([]state{restoreState, loginState}, m.state) {
		m.statesHistory.Push(m.state)
	}

	m.setState(s)
}

// resetTo moves to s and forgets how we got here.
func (m *mini) resetTo(s state) {
	m.statesHistory.Clear()
	m.setState(s)
}

func Run(options *Options) error {
	m := newMini()
	m.state = restoreState
	m.startAtHistory = options.History

	if w, h, err := util.TerminalSize(); err == nil {
		m.width, m.height = w, h
		truncateAt = w
	}

	for m.state != quitState {
		if err := m.handleState(); err != nil {
			if errors.Is(err, errInterrupted) {
				return nil
			}
			return err
		}
	}

	return nil
}

func (m *mini) handleState() error {
	switch m.state {
	case restoreState:
		return m.handleRestoreState()
	case loginState:
		return m.handleLoginState()
	case mainMenuState:
		return m.handleMainMenuState()
	case rubricSelectState:
		return m.handleRubricSelectState()
	case searchState:
		return m.handleSearchState()
	case videoSelectState:
		return m.handleVideoSelectState()
	case myListState:
		return m.handleMyListState()
	case historySelectState:
		return m.handleHistorySelectState()
	case playState:
		return m.handlePlayState()
	}

	return nil
}
