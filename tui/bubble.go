package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/shortdrama-cli/shortdrama/account"
	"github.com/shortdrama-cli/shortdrama/catalog"
	"github.com/shortdrama-cli/shortdrama/constant"
	"github.com/shortdrama-cli/shortdrama/internal/ui"
	"github.com/shortdrama-cli/shortdrama/key"
	"github.com/shortdrama-cli/shortdrama/network"
	"github.com/shortdrama-cli/shortdrama/notify"
	"github.com/shortdrama-cli/shortdrama/playback"
	"github.com/shortdrama-cli/shortdrama/search"
	"github.com/shortdrama-cli/shortdrama/session"
	"github.com/shortdrama-cli/shortdrama/style"
	"github.com/shortdrama-cli/shortdrama/util"
	"github.com/spf13/viper"
)

// statefulBubble is the whole interface: the current screen, its components and the data behind them.
type statefulBubble struct {
	state         state
	statesHistory util.Stack[state]
	loading       bool

	keymap   *statefulKeymap
	services *services
	options  *Options

	// components
	spinnerC  spinner.Model
	inputC    textinput.Model
	loginC    textinput.Model
	passwordC textinput.Model
	gridC     list.Model
	resultsC  list.Model
	episodesC list.Model
	qualityC  list.Model
	shareC    list.Model
	myListC   list.Model
	historyC  list.Model
	helpC     help.Model

	notifications <-chan notify.Notification
	unsubscribe   func()
	searchResults chan search.Result
	debouncer     *search.Debouncer

	sess *session.Session
	user *account.User

	rubrics     []*catalog.Rubric
	rubricIndex int
	gridToken   int

	feed      []*catalog.Video
	feedIndex int
	// the live session walks the feed rather than a single video's episodes
	feedPlayback bool

	playback     *playback.Session
	opening      *catalog.Video
	playerStatus playback.Kind
	playerErr    error
	shareVideo   *catalog.Video

	banner           string
	loginErr         string
	progressStatus   string
	lastError        error
	searchSuggestion mo.Option[string]

	width, height int
	notifier      *ui.Model
}

// raiseError replaces the current screen with the error screen.
func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

// showBanner reports a recoverable failure above the current screen.
func (b *statefulBubble) showBanner(what string, err error) {
	if err == nil {
		b.banner = ""
		return
	}
	b.banner = fmt.Sprintf("%s (code %d): %v", what, network.Code(err), err)
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// newState moves to s, remembering the current screen for back navigation.
func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	if !lo.Contains([]state{loadingState, loginState, errorState}, b.state) {
		b.statesHistory.Push(b.state)
	}

	b.setState(s)
}

// resetTo moves to s and forgets the navigation history.
func (b *statefulBubble) resetTo(s state) {
	b.statesHistory.Clear()
	b.setState(s)
}

func (b *statefulBubble) previousState() {
	if b.statesHistory.Len() > 0 {
		b.setState(b.statesHistory.Pop())
	}
}

func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	listWidth := width - xx
	listHeight := height - yy

	for _, l := range []*list.Model{&b.resultsC, &b.episodesC, &b.qualityC, &b.shareC, &b.myListC} {
		l.SetSize(listWidth, listHeight)
		l.Help.Width = listWidth
	}

	// room for the category chips and the banner
	b.gridC.SetSize(listWidth, util.Max(listHeight-3, 3))
	b.gridC.Help.Width = listWidth

	// room for the profile card
	b.historyC.SetSize(listWidth, util.Max(listHeight-9, 3))
	b.historyC.Help.Width = listWidth

	b.inputC.Width = listWidth
	b.width = width - x
	b.height = height - y
	b.helpC.Width = listWidth
}

func (b *statefulBubble) startLoading(status string) tea.Cmd {
	b.loading = true
	b.progressStatus = status
	return b.spinnerC.Tick
}

func (b *statefulBubble) stopLoading() {
	b.loading = false
	b.progressStatus = ""
}

// closePlayback tears down the current playback session, if any.
func (b *statefulBubble) closePlayback() {
	if b.playback != nil {
		b.playback.Close()
		b.playback = nil
	}
	b.opening = nil
	b.playerErr = nil
	b.feedPlayback = false
}

// shutdown releases everything the bubble started.
func (b *statefulBubble) shutdown() {
	b.closePlayback()
	b.debouncer.Close()
	b.unsubscribe()
}

func newBubble(options *Options, deps *services) *statefulBubble {
	if options == nil {
		options = &Options{}
	}

	keymap := newStatefulKeymap()
	bubble := statefulBubble{
		statesHistory: util.Stack[state]{},
		keymap:        keymap,
		services:      deps,
		options:       options,
		searchResults: make(chan search.Result, 16),
		notifier:      &ui.Model{},
	}

	bubble.notifications, bubble.unsubscribe = deps.hub.Subscribe(16)

	bubble.debouncer = search.New(search.Delay(), func(ctx context.Context, term string) ([]*catalog.Video, error) {
		page, err := deps.catalog.Search(ctx, term)
		if err != nil {
			return nil, err
		}
		return page.Videos, nil
	}, func(r search.Result) {
		select {
		case bubble.searchResults <- r:
		default:
		}
	})

	makeList := func(title string, description bool, titleColor lipgloss.Color) list.Model {
		delegate := list.NewDefaultDelegate()
		delegate.SetSpacing(viper.GetInt(key.TUIItemSpacing))
		delegate.ShowDescription = description
		delegate.Styles.SelectedTitle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(style.AccentColor).
			Foreground(style.AccentColor).
			Padding(0, 0, 0, 1)
		delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("7"))
		delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

		listC := list.New([]list.Item{}, delegate, 0, 0)
		listC.KeyMap = bubble.keymap.forList()
		listC.AdditionalShortHelpKeys = bubble.keymap.ShortHelp
		listC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
			return bubble.keymap.FullHelp()[0]
		}
		listC.Title = title
		listC.Styles.NoItems = paddingStyle
		listC.Styles.Title = lipgloss.NewStyle().Foreground(style.Base).Background(titleColor).Padding(0, 1)
		listC.StatusMessageLifetime = time.Hour * 999
		listC.SetFilteringEnabled(false)
		listC.SetShowPagination(false)
		listC.SetShowStatusBar(false)

		return listC
	}

	descriptions := viper.GetBool(key.TUIShowDescriptions)

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	bubble.inputC = textinput.New()
	bubble.inputC.Placeholder = fmt.Sprintf("Search %s (v%s)", constant.Brand, constant.Version)
	bubble.inputC.CharLimit = 60
	bubble.inputC.Prompt = viper.GetString(key.TUISearchPromptString)

	bubble.loginC = textinput.New()
	bubble.loginC.Placeholder = "Email or phone number"
	bubble.loginC.Prompt = "Login:    "
	bubble.loginC.CharLimit = 120

	bubble.passwordC = textinput.New()
	bubble.passwordC.Placeholder = "Password"
	bubble.passwordC.Prompt = "Password: "
	bubble.passwordC.EchoMode = textinput.EchoPassword
	bubble.passwordC.EchoCharacter = '•'

	bubble.gridC = makeList("Videos", descriptions, style.GridColor)
	bubble.gridC.SetStatusBarItemName("video", "videos")

	bubble.resultsC = makeList("Results", descriptions, style.ResultsColor)
	bubble.resultsC.SetStatusBarItemName("video", "videos")

	bubble.episodesC = makeList("Episodes", descriptions, style.EpisodesColor)
	bubble.episodesC.SetStatusBarItemName("episode", "episodes")

	bubble.qualityC = makeList("Quality", false, style.QualityColor)
	bubble.shareC = makeList("Share", false, style.ShareColor)

	bubble.myListC = makeList("My List", descriptions, style.MyListColor)
	bubble.myListC.SetStatusBarItemName("video", "videos")

	bubble.historyC = makeList("Watch History", false, style.HistoryColor)
	bubble.historyC.SetStatusBarItemName("entry", "entries")

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	bubble.setState(loadingState)
	return &bubble
}
